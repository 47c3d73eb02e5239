package taggable

import "fmt"

// Reference is a closed sum over the accepted ways of naming a tag:
//
//   - Name: free text, slug-normalized; the only shape that may create tags
//   - ID: a numeric tag id that must already exist
//   - ByTag: an already-loaded tag record
//   - Many: a list of references, flattened recursively
//
// The interface is sealed so attach/detach can match exhaustively.
type Reference interface {
	reference()
}

// Name references a tag by free-form text. Lookups normalize it to a slug;
// attach creates the tag on miss with the original text as title.
type Name string

func (Name) reference() {}

// ID references a tag by numeric id. The tag must pre-exist; ids are never
// auto-created.
type ID int64

func (ID) reference() {}

// Many groups references; nesting is flattened recursively.
type Many []Reference

func (Many) reference() {}

// tagRecord wraps an existing tag record as a reference.
type tagRecord struct {
	tag *Tag
}

func (tagRecord) reference() {}

// ByTag references an already-loaded tag record.
func ByTag(t *Tag) Reference {
	return tagRecord{tag: t}
}

// Refs groups references for a single attach/detach call.
func Refs(refs ...Reference) Many {
	return Many(refs)
}

// Names builds a Many from plain strings.
func Names(names ...string) Many {
	refs := make(Many, len(names))
	for i, n := range names {
		refs[i] = Name(n)
	}
	return refs
}

// flatten expands nested Many groups into a flat reference list, in input
// order. Nil references and nil tag records fail with ErrInvalidReference.
func flatten(refs []Reference) ([]Reference, error) {
	out := make([]Reference, 0, len(refs))

	for _, ref := range refs {
		switch r := ref.(type) {
		case nil:
			return nil, fmt.Errorf("nil reference: %w", ErrInvalidReference)
		case Many:
			nested, err := flatten(r)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		case tagRecord:
			if r.tag == nil {
				return nil, fmt.Errorf("nil tag record: %w", ErrInvalidReference)
			}
			out = append(out, r)
		default:
			out = append(out, ref)
		}
	}

	return out, nil
}
