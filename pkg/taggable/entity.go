package taggable

import "context"

// Identifiable is the only requirement for an entity type to opt in to
// tagging: a stable identity accessor. The returned identifier must be
// non-nil; a nil id fails every tagging call with ErrMissingIdentity.
type Identifiable interface {
	GetID() Identifier
}

// Model is the per-entity tagging façade: a thin binding of one entity to
// the engine. Obtain one via Engine.Model.
type Model struct {
	engine *Engine
	entity Identifiable
}

// Model binds an entity to the engine's tagging operations.
func (e *Engine) Model(entity Identifiable) *Model {
	return &Model{engine: e, entity: entity}
}

// Tags returns all tags attached to the entity.
func (m *Model) Tags(ctx context.Context) ([]Tag, error) {
	return m.engine.Tags(ctx, m.entity)
}

// TagsQuery returns the entity's tag set as a composable query.
func (m *Model) TagsQuery() *TagQuery {
	return m.engine.TagsQuery(m.entity)
}

// Attach associates the referenced tags with the entity.
func (m *Model) Attach(ctx context.Context, refs ...Reference) error {
	return m.engine.Attach(ctx, m.entity, refs...)
}

// Detach removes the referenced associations, or all of them when called
// with no references.
func (m *Model) Detach(ctx context.Context, refs ...Reference) error {
	return m.engine.Detach(ctx, m.entity, refs...)
}

// Sync replaces the entity's tag set with the referenced tags.
func (m *Model) Sync(ctx context.Context, refs ...Reference) error {
	return m.engine.Sync(ctx, m.entity, refs...)
}

// HasTag reports whether the entity carries the referenced tag.
func (m *Model) HasTag(ctx context.Context, ref Reference) (bool, error) {
	return m.engine.HasTag(ctx, m.entity, ref)
}
