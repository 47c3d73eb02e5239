package taggable

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Engine resolves tag references and executes attach/detach/sync/fetch
// against the pivot table. It holds its collaborators immutably after
// construction; all mutation of the morph map and model registry must happen
// before the first tagging operation.
type Engine struct {
	db     DBExecutor
	morphs *MorphMap
	models *ModelRegistry
}

// NewEngine creates an engine bound to db. A nil morphs gets a fresh empty
// morph map (every type falls back to its structural discriminator); a nil
// models gets the default tags/taggables binding.
func NewEngine(db DBExecutor, morphs *MorphMap, models *ModelRegistry) (*Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("taggable: engine requires a database executor")
	}
	if morphs == nil {
		morphs = NewMorphMap()
	}
	if models == nil {
		models = DefaultModelRegistry()
	}

	return &Engine{
		db:     db,
		morphs: morphs,
		models: models,
	}, nil
}

// withExecutor clones the engine onto a different executor, sharing the
// registries. Used for transaction scoping.
func (e *Engine) withExecutor(db DBExecutor) *Engine {
	return &Engine{
		db:     db,
		morphs: e.morphs,
		models: e.models,
	}
}

// MorphMap returns the engine's type registry.
func (e *Engine) MorphMap() *MorphMap {
	return e.morphs
}

// TaggableIdentity is the stable (type discriminator, id) pair of one entity.
type TaggableIdentity struct {
	Type string
	ID   Identifier
}

// Identity resolves an entity into its (type, id) pair. Pure, no I/O. Fails
// with ErrMissingIdentity when the entity or its id is nil.
func (e *Engine) Identity(entity Identifiable) (TaggableIdentity, error) {
	if entity == nil {
		return TaggableIdentity{}, &Error{Op: "identity", Err: ErrMissingIdentity}
	}

	id := entity.GetID()
	if id == nil {
		return TaggableIdentity{}, &Error{Op: "identity", Err: ErrMissingIdentity}
	}

	morphType := e.morphs.AliasFor(entity)
	if morphType == "" {
		return TaggableIdentity{}, &Error{Op: "identity", Err: ErrMissingIdentity}
	}

	return TaggableIdentity{Type: morphType, ID: id}, nil
}

// FindOrCreateTag resolves a single reference to a tag record:
//
//   - ByTag: returned as-is, no I/O
//   - ID: looked up; ErrTagNotFound on miss, ids are never auto-created
//   - Name: slug lookup, creating the tag on miss with the text as title
//
// A duplicate-key violation during the Name create path means another caller
// created the same slug concurrently; the lookup is retried once instead of
// surfacing the violation.
func (e *Engine) FindOrCreateTag(ctx context.Context, ref Reference) (*Tag, error) {
	switch r := ref.(type) {
	case tagRecord:
		if r.tag == nil {
			return nil, &Error{Op: "findOrCreateTag", Err: ErrInvalidReference}
		}
		return r.tag, nil

	case ID:
		tag, err := e.findTagByID(ctx, int64(r))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, &Error{Op: "findOrCreateTag", Err: fmt.Errorf("id %d: %w", int64(r), ErrTagNotFound)}
			}
			return nil, err
		}
		return tag, nil

	case Name:
		return e.findOrCreateBySlug(ctx, string(r))

	case Many:
		return nil, &Error{Op: "findOrCreateTag", Err: fmt.Errorf("expected a single reference: %w", ErrInvalidReference)}

	default:
		return nil, &Error{Op: "findOrCreateTag", Err: ErrInvalidReference}
	}
}

func (e *Engine) findOrCreateBySlug(ctx context.Context, title string) (*Tag, error) {
	slug := Slugify(title)
	if slug == "" {
		return nil, &Error{Op: "findOrCreateTag", Err: fmt.Errorf("%q: %w", title, ErrInvalidTag)}
	}

	tag, err := e.findTagBySlug(ctx, slug)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	tag, err = e.createTag(ctx, slug, title)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return nil, err
	}

	// Lost the creation race; the winner's row is there to read.
	return e.findTagBySlug(ctx, slug)
}

// Attach associates the referenced tags with the entity. Attach is a set
// union: already-attached tags are skipped, string references create missing
// tags, and nested Many groups are flattened in input order.
func (e *Engine) Attach(ctx context.Context, entity Identifiable, refs ...Reference) error {
	ident, err := e.Identity(entity)
	if err != nil {
		return err
	}

	flat, err := flatten(refs)
	if err != nil {
		return &Error{Op: "attach", Err: err}
	}

	for _, ref := range flat {
		tag, err := e.FindOrCreateTag(ctx, ref)
		if err != nil {
			return err
		}

		exists, err := e.associationExists(ctx, tag.ID, ident)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		if err := e.createAssociation(ctx, tag.ID, ident); err != nil {
			return err
		}
	}

	return nil
}

// Detach removes associations between the entity and the referenced tags.
// With no references it removes every association the entity has. References
// that resolve to no existing tag are skipped silently; detach never creates
// tags and detaching an unattached tag is a no-op. Tag rows themselves are
// never deleted.
func (e *Engine) Detach(ctx context.Context, entity Identifiable, refs ...Reference) error {
	ident, err := e.Identity(entity)
	if err != nil {
		return err
	}

	if len(refs) == 0 {
		_, err := e.deleteAssociations(ctx, ident, nil)
		return err
	}

	flat, err := flatten(refs)
	if err != nil {
		return &Error{Op: "detach", Err: err}
	}

	tagIDs := make([]Identifier, 0, len(flat))
	for _, ref := range flat {
		switch r := ref.(type) {
		case tagRecord:
			tagIDs = append(tagIDs, r.tag.ID)

		case ID:
			tagIDs = append(tagIDs, int64(r))

		case Name:
			slug := Slugify(string(r))
			if slug == "" {
				continue
			}
			tag, err := e.findTagBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			tagIDs = append(tagIDs, tag.ID)

		default:
			return &Error{Op: "detach", Err: ErrInvalidReference}
		}
	}

	if len(tagIDs) == 0 {
		return nil
	}

	_, err = e.deleteAssociations(ctx, ident, tagIDs)
	return err
}

// Sync replaces the entity's tag set with exactly the resolved references:
// a full detach followed by an attach. The two steps run inside a single
// transaction whenever the engine's executor can begin one.
func (e *Engine) Sync(ctx context.Context, entity Identifiable, refs ...Reference) error {
	return e.WithTransaction(ctx, func(tx *Engine) error {
		if err := tx.Detach(ctx, entity); err != nil {
			return err
		}
		return tx.Attach(ctx, entity, refs...)
	})
}

// Tags returns the entity's materialized tag set: the pivot rows for the
// entity, then the tag rows their ids point at. An untagged entity yields an
// empty slice, not an error.
func (e *Engine) Tags(ctx context.Context, entity Identifiable) ([]Tag, error) {
	ident, err := e.Identity(entity)
	if err != nil {
		return nil, err
	}

	rows, err := e.findAssociations(ctx, ident)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Tag{}, nil
	}

	tagIDs := make([]Identifier, len(rows))
	for i, row := range rows {
		tagIDs[i] = row.TagID
	}

	return e.findTagsByIDs(ctx, tagIDs)
}

// TagsQuery returns the entity's tag set as an unexecuted, further-filterable
// query joining the tag table against the pivot. Resolution errors are
// deferred into the query and surface on execution.
func (e *Engine) TagsQuery(entity Identifiable) *TagQuery {
	q := &TagQuery{db: e.db}

	ident, err := e.Identity(entity)
	if err != nil {
		q.err = err
		return q
	}

	tagTable, err := e.tagTable()
	if err != nil {
		q.err = err
		return q
	}

	pivotTable, err := e.pivotTable()
	if err != nil {
		q.err = err
		return q
	}

	q.selectColumns = qualifiedColumns(tagTable.Name, tagColumns)
	q.from = tagTable.FullName()
	q.joins = []string{fmt.Sprintf(
		"%s ON %s.tag_id = %s.%s",
		pivotTable.FullName(), pivotTable.Name, tagTable.Name, tagTable.PrimaryKey,
	)}
	q.whereClause = squirrel.And{
		squirrel.Eq{pivotTable.Name + ".taggable_type": ident.Type},
		squirrel.Eq{pivotTable.Name + ".taggable_id": ident.ID},
	}

	return q
}

// HasTag reports whether the entity currently carries the referenced tag.
// Name references are compared by slug. A reference that resolves to no
// existing tag yields false, never an error, and nothing is created.
func (e *Engine) HasTag(ctx context.Context, entity Identifiable, ref Reference) (bool, error) {
	ident, err := e.Identity(entity)
	if err != nil {
		return false, err
	}

	var tagID Identifier

	switch r := ref.(type) {
	case tagRecord:
		if r.tag == nil {
			return false, &Error{Op: "hasTag", Err: ErrInvalidReference}
		}
		tagID = r.tag.ID

	case ID:
		tagID = int64(r)

	case Name:
		slug := Slugify(string(r))
		if slug == "" {
			return false, nil
		}
		tag, err := e.findTagBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		tagID = tag.ID

	default:
		return false, &Error{Op: "hasTag", Err: ErrInvalidReference}
	}

	return e.associationExists(ctx, tagID, ident)
}

// UpdateTag persists a retitled tag, re-deriving updated_at. The slug unique
// constraint still applies; renaming onto an existing slug surfaces
// ErrDuplicateKey.
func (e *Engine) UpdateTag(ctx context.Context, tag *Tag) error {
	if tag == nil || tag.ID == nil {
		return &Error{Op: "updateTag", Err: ErrInvalidReference}
	}
	if tag.Slug == "" {
		return &Error{Op: "updateTag", Err: ErrInvalidTag}
	}

	return e.updateTag(ctx, tag)
}
