package taggable

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// TableNamer is implemented by models that declare their own storage table.
// The table name doubles as the morph discriminator for types that were
// never registered with an alias.
type TableNamer interface {
	TableName() string
}

// MorphMap is a bidirectional mapping from a short alias string to a concrete
// entity type. The alias is stored as the taggable_type discriminator on
// every association row, so registrations must happen at startup and stay
// stable for the process lifetime. Reads are safe for concurrent use.
type MorphMap struct {
	mu      sync.RWMutex
	aliases map[string]reflect.Type
	types   map[reflect.Type]string
}

// NewMorphMap creates an empty morph map.
func NewMorphMap() *MorphMap {
	return &MorphMap{
		aliases: make(map[string]reflect.Type),
		types:   make(map[reflect.Type]string),
	}
}

// Register maps alias to the concrete type of prototype. Registering an alias
// twice, or registering a second alias for the same type, fails with
// ErrDuplicateAlias: re-pointing an alias would orphan association rows that
// already carry the old discriminator.
func (m *MorphMap) Register(alias string, prototype interface{}) error {
	if alias == "" {
		return fmt.Errorf("morph alias must not be empty: %w", ErrInvalidReference)
	}

	t := concreteType(prototype)
	if t == nil {
		return fmt.Errorf("morph prototype for alias %q must not be nil: %w", alias, ErrInvalidReference)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.aliases[alias]; exists {
		return fmt.Errorf("alias %q: %w", alias, ErrDuplicateAlias)
	}
	if existing, exists := m.types[t]; exists {
		return fmt.Errorf("type %s already registered as %q: %w", t.Name(), existing, ErrDuplicateAlias)
	}

	m.aliases[alias] = t
	m.types[t] = alias
	return nil
}

// AliasFor returns the discriminator string for v's concrete type: the
// registered alias if one exists, else the type's declared table name, else
// its snake-cased type name. The result is deterministic and non-empty for
// any non-nil value.
func (m *MorphMap) AliasFor(v interface{}) string {
	t := concreteType(v)
	if t == nil {
		return ""
	}

	m.mu.RLock()
	alias, ok := m.types[t]
	m.mu.RUnlock()
	if ok {
		return alias
	}

	if tn, ok := v.(TableNamer); ok {
		if name := tn.TableName(); name != "" {
			return name
		}
	}

	return snakeCase(t.Name())
}

// TypeFor resolves a discriminator alias back to its registered type.
func (m *MorphMap) TypeFor(alias string) (reflect.Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.aliases[alias]
	return t, ok
}

// concreteType dereferences pointers down to the underlying named type.
func concreteType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
