package taggable

import (
	"fmt"
	"time"
)

// Identifier is the opaque primary key of a tag or taggable entity. Callers
// may use integers, strings, or UUID values; the engine never inspects it
// beyond passing it to the database.
type Identifier = interface{}

// Tag is a named label, uniquely identified by its normalized slug. The slug
// is the natural key; the id is a surrogate the engine treats opaquely.
type Tag struct {
	ID        Identifier `db:"id"`
	Slug      string     `db:"slug"`
	Title     *string    `db:"title"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// GetID implements Identifiable, so tags can themselves be tagged.
func (t *Tag) GetID() Identifier {
	return t.ID
}

// Retitle sets a new title and re-derives the slug from it. Fails with
// ErrInvalidTag when the title normalizes to an empty slug.
func (t *Tag) Retitle(title string) error {
	slug := Slugify(title)
	if slug == "" {
		return fmt.Errorf("title %q: %w", title, ErrInvalidTag)
	}

	t.Title = &title
	t.Slug = slug
	return nil
}

// Association is one pivot row linking a tag to a taggable entity. The
// (TagID, TaggableType, TaggableID) triple is unique at the storage layer;
// the surrogate id carries no meaning to callers beyond existence.
type Association struct {
	ID           int64      `db:"id"`
	TagID        Identifier `db:"tag_id"`
	TaggableType string     `db:"taggable_type"`
	TaggableID   Identifier `db:"taggable_id"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// tagColumns are the tag table columns in select order.
var tagColumns = []string{"id", "slug", "title", "created_at", "updated_at"}

// pivotColumns are the association table columns in select order.
var pivotColumns = []string{"id", "tag_id", "taggable_type", "taggable_id", "created_at", "updated_at"}

func qualifiedColumns(table string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = table + "." + c
	}
	return out
}

// TagColumnSet exposes typed column references for composing TagQuery filters.
type TagColumnSet struct {
	ID        Column[Identifier]
	Slug      StringColumn
	Title     StringColumn
	CreatedAt TimeColumn
	UpdatedAt TimeColumn
}

// TagColumnsFor builds a column set qualified with the given tag table, for
// registries bound to a non-default table name.
func TagColumnsFor(table Table) TagColumnSet {
	return TagColumnSet{
		ID:        Column[Identifier]{Name: table.PrimaryKey, Table: table.Name},
		Slug:      StringColumn{Column[string]{Name: "slug", Table: table.Name}},
		Title:     StringColumn{Column[string]{Name: "title", Table: table.Name}},
		CreatedAt: TimeColumn{ComparableColumn[time.Time]{Column[time.Time]{Name: "created_at", Table: table.Name}}},
		UpdatedAt: TimeColumn{ComparableColumn[time.Time]{Column[time.Time]{Name: "updated_at", Table: table.Name}}},
	}
}

// TagColumns is the column set for the default tags table.
var TagColumns = TagColumnsFor(DefaultTagTable)
