package taggable

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// TagQuery provides a fluent interface for building the tag result set of one
// entity before executing it. The query is a description, not a cursor: each
// Find/Count call rebuilds and re-executes it, so the same query value can be
// narrowed and run repeatedly.
type TagQuery struct {
	db  DBExecutor
	err error

	selectColumns []string
	from          string
	joins         []string
	whereClause   squirrel.And

	// Query options
	limit   *uint64
	offset  *uint64
	orderBy []string

	// Transaction support
	tx *sqlx.Tx
}

// WithTx sets the transaction for this query
func (q *TagQuery) WithTx(tx *sqlx.Tx) *TagQuery {
	q.tx = tx
	return q
}

// Where adds a type-safe condition
func (q *TagQuery) Where(condition Condition) *TagQuery {
	if q.err != nil {
		return q
	}
	q.whereClause = append(q.whereClause, condition.ToSqlizer())
	return q
}

// OrderBy adds an ORDER BY clause
func (q *TagQuery) OrderBy(expressions ...string) *TagQuery {
	if q.err != nil {
		return q
	}
	q.orderBy = append(q.orderBy, expressions...)
	return q
}

// Limit sets the LIMIT clause
func (q *TagQuery) Limit(limit uint64) *TagQuery {
	if q.err != nil {
		return q
	}
	q.limit = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *TagQuery) Offset(offset uint64) *TagQuery {
	if q.err != nil {
		return q
	}
	q.offset = &offset
	return q
}

// buildQuery constructs the final SQL query
func (q *TagQuery) buildQuery() (string, []interface{}, error) {
	if q.err != nil {
		return "", nil, q.err
	}

	builder := squirrel.Select(q.selectColumns...).
		From(q.from).
		PlaceholderFormat(squirrel.Dollar)

	for _, join := range q.joins {
		builder = builder.InnerJoin(join)
	}

	if len(q.whereClause) > 0 {
		builder = builder.Where(q.whereClause)
	}

	for _, orderBy := range q.orderBy {
		builder = builder.OrderBy(orderBy)
	}

	if q.limit != nil {
		builder = builder.Limit(*q.limit)
	}

	if q.offset != nil {
		builder = builder.Offset(*q.offset)
	}

	return builder.ToSql()
}

func (q *TagQuery) executor() DBExecutor {
	if q.tx != nil {
		return q.tx
	}
	return q.db
}

// Find executes the query and returns all matching tags
func (q *TagQuery) Find(ctx context.Context) ([]Tag, error) {
	sqlQuery, args, err := q.buildQuery()
	if err != nil {
		return nil, &Error{
			Op:    "find",
			Table: q.from,
			Err:   fmt.Errorf("failed to build query: %w", err),
		}
	}

	tags := []Tag{}
	if err := q.executor().SelectContext(ctx, &tags, sqlQuery, args...); err != nil {
		return nil, parseSQLError(err, "find", q.from)
	}

	return tags, nil
}

// First executes the query and returns the first matching tag
func (q *TagQuery) First(ctx context.Context) (*Tag, error) {
	tags, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return nil, &Error{
			Op:    "first",
			Table: q.from,
			Err:   ErrNotFound,
		}
	}

	return &tags[0], nil
}

// Count returns the number of tags matching the query
func (q *TagQuery) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	builder := squirrel.Select("COUNT(*)").
		From(q.from).
		PlaceholderFormat(squirrel.Dollar)

	for _, join := range q.joins {
		builder = builder.InnerJoin(join)
	}

	if len(q.whereClause) > 0 {
		builder = builder.Where(q.whereClause)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return 0, &Error{
			Op:    "count",
			Table: q.from,
			Err:   fmt.Errorf("failed to build count query: %w", err),
		}
	}

	var count int64
	if err := q.executor().GetContext(ctx, &count, sqlQuery, args...); err != nil {
		return 0, parseSQLError(err, "count", q.from)
	}

	return count, nil
}

// Exists checks if any tags match the query
func (q *TagQuery) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
