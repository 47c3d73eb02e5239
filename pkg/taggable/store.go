package taggable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// Storage helpers for the two engine tables. All SQL in the package funnels
// through these; they wrap driver errors via parseSQLError so callers can
// match on the sentinel taxonomy.

func (e *Engine) tagTable() (Table, error) {
	return e.models.Model(RoleTag)
}

func (e *Engine) pivotTable() (Table, error) {
	return e.models.Model(RoleTaggable)
}

func (e *Engine) findTagBy(ctx context.Context, column string, value interface{}) (*Tag, error) {
	table, err := e.tagTable()
	if err != nil {
		return nil, err
	}

	sqlQuery, args, err := squirrel.Select(tagColumns...).
		From(table.FullName()).
		Where(squirrel.Eq{column: value}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "findTag", Table: table.Name, Err: err}
	}

	var tag Tag
	if err := e.db.GetContext(ctx, &tag, sqlQuery, args...); err != nil {
		return nil, parseSQLError(err, "findTag", table.Name)
	}

	return &tag, nil
}

func (e *Engine) findTagByID(ctx context.Context, id Identifier) (*Tag, error) {
	table, err := e.tagTable()
	if err != nil {
		return nil, err
	}
	return e.findTagBy(ctx, table.PrimaryKey, id)
}

func (e *Engine) findTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	return e.findTagBy(ctx, "slug", slug)
}

func (e *Engine) findTagsByIDs(ctx context.Context, ids []Identifier) ([]Tag, error) {
	table, err := e.tagTable()
	if err != nil {
		return nil, err
	}

	sqlQuery, args, err := squirrel.Select(tagColumns...).
		From(table.FullName()).
		Where(squirrel.Eq{table.PrimaryKey: ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "findTags", Table: table.Name, Err: err}
	}

	tags := []Tag{}
	if err := e.db.SelectContext(ctx, &tags, sqlQuery, args...); err != nil {
		return nil, parseSQLError(err, "findTags", table.Name)
	}

	return tags, nil
}

// createTag inserts a new tag row derived from title. The slug uniqueness
// constraint is the backstop against concurrent creation; duplicate-key
// errors surface as ErrDuplicateKey for the caller to resolve.
func (e *Engine) createTag(ctx context.Context, slug, title string) (*Tag, error) {
	table, err := e.tagTable()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	returning := fmt.Sprintf("RETURNING %s", strings.Join(tagColumns, ", "))

	sqlQuery, args, err := squirrel.Insert(table.FullName()).
		Columns("slug", "title", "created_at", "updated_at").
		Values(slug, title, now, now).
		Suffix(returning).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "createTag", Table: table.Name, Err: err}
	}

	var tag Tag
	if err := e.db.GetContext(ctx, &tag, sqlQuery, args...); err != nil {
		return nil, parseSQLError(err, "createTag", table.Name)
	}

	return &tag, nil
}

func (e *Engine) associationExists(ctx context.Context, tagID Identifier, ident TaggableIdentity) (bool, error) {
	table, err := e.pivotTable()
	if err != nil {
		return false, err
	}

	sqlQuery, args, err := squirrel.Select("COUNT(*)").
		From(table.FullName()).
		Where(squirrel.And{
			squirrel.Eq{"tag_id": tagID},
			squirrel.Eq{"taggable_type": ident.Type},
			squirrel.Eq{"taggable_id": ident.ID},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, &Error{Op: "associationExists", Table: table.Name, Err: err}
	}

	var count int64
	if err := e.db.GetContext(ctx, &count, sqlQuery, args...); err != nil {
		return false, parseSQLError(err, "associationExists", table.Name)
	}

	return count > 0, nil
}

// createAssociation inserts one pivot row. A duplicate-key violation means a
// concurrent attach won the race for the same triple, which is not an error
// for a set-union operation.
func (e *Engine) createAssociation(ctx context.Context, tagID Identifier, ident TaggableIdentity) error {
	table, err := e.pivotTable()
	if err != nil {
		return err
	}

	now := time.Now()

	sqlQuery, args, err := squirrel.Insert(table.FullName()).
		Columns("tag_id", "taggable_type", "taggable_id", "created_at", "updated_at").
		Values(tagID, ident.Type, ident.ID, now, now).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return &Error{Op: "createAssociation", Table: table.Name, Err: err}
	}

	if _, err := e.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		parsed := parseSQLError(err, "createAssociation", table.Name)
		if errors.Is(parsed, ErrDuplicateKey) {
			return nil
		}
		return parsed
	}

	return nil
}

// deleteAssociations removes pivot rows for the entity. A nil tagIDs deletes
// every association the entity has; otherwise only rows whose tag_id is in
// the set. Returns the number of rows removed.
func (e *Engine) deleteAssociations(ctx context.Context, ident TaggableIdentity, tagIDs []Identifier) (int64, error) {
	table, err := e.pivotTable()
	if err != nil {
		return 0, err
	}

	where := squirrel.And{
		squirrel.Eq{"taggable_type": ident.Type},
		squirrel.Eq{"taggable_id": ident.ID},
	}
	if tagIDs != nil {
		where = append(where, squirrel.Eq{"tag_id": tagIDs})
	}

	sqlQuery, args, err := squirrel.Delete(table.FullName()).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, &Error{Op: "deleteAssociations", Table: table.Name, Err: err}
	}

	result, err := e.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, parseSQLError(err, "deleteAssociations", table.Name)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, &Error{Op: "deleteAssociations", Table: table.Name, Err: err}
	}

	return rowsAffected, nil
}

// updateTag writes the tag's slug and title back to its row.
func (e *Engine) updateTag(ctx context.Context, tag *Tag) error {
	table, err := e.tagTable()
	if err != nil {
		return err
	}

	sqlQuery, args, err := squirrel.Update(table.FullName()).
		Set("slug", tag.Slug).
		Set("title", tag.Title).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{table.PrimaryKey: tag.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return &Error{Op: "updateTag", Table: table.Name, Err: err}
	}

	result, err := e.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return parseSQLError(err, "updateTag", table.Name)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &Error{Op: "updateTag", Table: table.Name, Err: err}
	}
	if rowsAffected == 0 {
		return &Error{Op: "updateTag", Table: table.Name, Err: ErrTagNotFound}
	}

	return nil
}

func (e *Engine) findAssociations(ctx context.Context, ident TaggableIdentity) ([]Association, error) {
	table, err := e.pivotTable()
	if err != nil {
		return nil, err
	}

	sqlQuery, args, err := squirrel.Select(pivotColumns...).
		From(table.FullName()).
		Where(squirrel.And{
			squirrel.Eq{"taggable_type": ident.Type},
			squirrel.Eq{"taggable_id": ident.ID},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "findAssociations", Table: table.Name, Err: err}
	}

	rows := []Association{}
	if err := e.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, parseSQLError(err, "findAssociations", table.Name)
	}

	return rows, nil
}
