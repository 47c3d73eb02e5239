package taggable

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// Column represents a type-safe database column reference
type Column[T any] struct {
	Name  string
	Table string
}

// String returns the full column reference for SQL
func (c Column[T]) String() string {
	if c.Table != "" {
		return fmt.Sprintf("%s.%s", c.Table, c.Name)
	}
	return c.Name
}

// Eq creates an equality condition
func (c Column[T]) Eq(value T) Condition {
	return Condition{squirrel.Eq{c.String(): value}}
}

// NotEq creates a not-equal condition
func (c Column[T]) NotEq(value T) Condition {
	return Condition{squirrel.NotEq{c.String(): value}}
}

// In creates an IN condition
func (c Column[T]) In(values ...T) Condition {
	interfaces := make([]interface{}, len(values))
	for i, v := range values {
		interfaces[i] = v
	}
	return Condition{squirrel.Eq{c.String(): interfaces}}
}

// NotIn creates a NOT IN condition
func (c Column[T]) NotIn(values ...T) Condition {
	interfaces := make([]interface{}, len(values))
	for i, v := range values {
		interfaces[i] = v
	}
	return Condition{squirrel.NotEq{c.String(): interfaces}}
}

// IsNull creates an IS NULL condition
func (c Column[T]) IsNull() Condition {
	return Condition{squirrel.Eq{c.String(): nil}}
}

// IsNotNull creates an IS NOT NULL condition
func (c Column[T]) IsNotNull() Condition {
	return Condition{squirrel.NotEq{c.String(): nil}}
}

// Asc creates an ascending order expression
func (c Column[T]) Asc() string {
	return c.String() + " ASC"
}

// Desc creates a descending order expression
func (c Column[T]) Desc() string {
	return c.String() + " DESC"
}

// Comparable types that support comparison operators
type Comparable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~string |
		time.Time
}

// ComparableColumn provides comparison operations for comparable types
type ComparableColumn[T Comparable] struct {
	Column[T]
}

// Gt creates a greater-than condition
func (c ComparableColumn[T]) Gt(value T) Condition {
	return Condition{squirrel.Gt{c.String(): value}}
}

// Gte creates a greater-than-or-equal condition
func (c ComparableColumn[T]) Gte(value T) Condition {
	return Condition{squirrel.GtOrEq{c.String(): value}}
}

// Lt creates a less-than condition
func (c ComparableColumn[T]) Lt(value T) Condition {
	return Condition{squirrel.Lt{c.String(): value}}
}

// Lte creates a less-than-or-equal condition
func (c ComparableColumn[T]) Lte(value T) Condition {
	return Condition{squirrel.LtOrEq{c.String(): value}}
}

// Between creates a BETWEEN condition
func (c ComparableColumn[T]) Between(min, max T) Condition {
	return Condition{squirrel.And{
		squirrel.GtOrEq{c.String(): min},
		squirrel.LtOrEq{c.String(): max},
	}}
}

// StringColumn provides string-specific operations
type StringColumn struct {
	Column[string]
}

// Like creates a LIKE condition
func (c StringColumn) Like(pattern string) Condition {
	return Condition{squirrel.Like{c.String(): pattern}}
}

// ILike creates a case-insensitive LIKE condition (PostgreSQL)
func (c StringColumn) ILike(pattern string) Condition {
	return Condition{squirrel.ILike{c.String(): pattern}}
}

// StartsWith creates a LIKE condition for prefix matching
func (c StringColumn) StartsWith(prefix string) Condition {
	return c.Like(prefix + "%")
}

// Contains creates a LIKE condition for substring matching
func (c StringColumn) Contains(substring string) Condition {
	return c.Like("%" + substring + "%")
}

// TimeColumn provides time-specific operations
type TimeColumn struct {
	ComparableColumn[time.Time]
}

// After creates a condition for times after the given time
func (c TimeColumn) After(t time.Time) Condition {
	return c.Gt(t)
}

// Before creates a condition for times before the given time
func (c TimeColumn) Before(t time.Time) Condition {
	return c.Lt(t)
}

// Since creates a condition for times since (after or equal to) the given time
func (c TimeColumn) Since(t time.Time) Condition {
	return c.Gte(t)
}

// Until creates a condition for times until (before or equal to) the given time
func (c TimeColumn) Until(t time.Time) Condition {
	return c.Lte(t)
}

// Condition wraps squirrel conditions for type safety
type Condition struct {
	condition squirrel.Sqlizer
}

// ToSqlizer returns the underlying squirrel condition
func (c Condition) ToSqlizer() squirrel.Sqlizer {
	return c.condition
}

// And combines multiple conditions with AND
func And(conditions ...Condition) Condition {
	sqlizers := make([]squirrel.Sqlizer, len(conditions))
	for i, c := range conditions {
		sqlizers[i] = c.condition
	}
	return Condition{squirrel.And(sqlizers)}
}

// Or combines multiple conditions with OR
func Or(conditions ...Condition) Condition {
	sqlizers := make([]squirrel.Sqlizer, len(conditions))
	for i, c := range conditions {
		sqlizers[i] = c.condition
	}
	return Condition{squirrel.Or(sqlizers)}
}

// Not negates a condition
func Not(condition Condition) Condition {
	return Condition{squirrel.Expr("NOT (?)", condition.ToSqlizer())}
}
