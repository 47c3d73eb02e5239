package taggable

import (
	"fmt"
	"sync"
)

// Role identifies one of the two model slots the engine operates on.
type Role string

const (
	// RoleTag is the model holding tag records.
	RoleTag Role = "tag"
	// RoleTaggable is the pivot model holding association rows.
	RoleTaggable Role = "taggable"
)

// Table provides table-level metadata for a bound model
type Table struct {
	Name       string
	PrimaryKey string
	Schema     string
}

// FullName returns the full table name including schema if set
func (t Table) FullName() string {
	if t.Schema != "" {
		return t.Schema + "." + t.Name
	}
	return t.Name
}

// Default table bindings matching the shipped migration.
var (
	DefaultTagTable      = Table{Name: "tags", PrimaryKey: "id"}
	DefaultTaggableTable = Table{Name: "taggables", PrimaryKey: "id"}
)

// ModelRegistry binds the engine's two logical roles to concrete tables,
// keeping the engine decoupled from any particular schema. It is wired once
// at the composition root and read-only afterward.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[Role]Table
}

// NewModelRegistry creates a registry with no roles bound.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		models: make(map[Role]Table),
	}
}

// DefaultModelRegistry creates a registry bound to the default tags and
// taggables tables.
func DefaultModelRegistry() *ModelRegistry {
	r := NewModelRegistry()
	r.SetModel(RoleTag, DefaultTagTable)
	r.SetModel(RoleTaggable, DefaultTaggableTable)
	return r
}

// SetModel binds a role to a table.
func (r *ModelRegistry) SetModel(role Role, table Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models[role] = table
}

// Has reports whether a role has been bound.
func (r *ModelRegistry) Has(role Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.models[role]
	return ok
}

// Model returns the table bound to role, failing with ErrUnconfiguredRole
// when the role was never wired.
func (r *ModelRegistry) Model(role Role) (Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.models[role]
	if !ok {
		return Table{}, fmt.Errorf("role %q: %w", role, ErrUnconfiguredRole)
	}
	return table, nil
}
