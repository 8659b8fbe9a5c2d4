package graph

import "context"

// Args carries the arguments of one selected field.
type Args map[string]any

// ResolveFunc produces the value of a field given its parent value.
// Root fields receive a nil parent. List fields must return []any.
type ResolveFunc func(ctx context.Context, parent any, args Args) (any, error)

// FieldKey identifies a field on a type (e.g., {"Walker", "dogs"}).
type FieldKey struct {
	Type  string
	Field string
}

// Field describes how one field is resolved.
type Field struct {
	// Type is the object type of the result; empty for scalars.
	Type string

	// List marks fields resolving to a sequence of Type.
	List bool

	// Resolve computes the value.
	Resolve ResolveFunc
}

// Composite reports whether the field needs a sub-selection.
func (f Field) Composite() bool {
	return f.Type != ""
}

// Registry is the dispatch table from type and field name to resolver.
type Registry struct {
	fields map[FieldKey]Field
	byType map[string][]string
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[FieldKey]Field),
		byType: make(map[string][]string),
	}
}

// Register adds or replaces the resolver for typeName.field.
func (r *Registry) Register(typeName, field string, f Field) {
	key := FieldKey{Type: typeName, Field: field}
	if _, exists := r.fields[key]; !exists {
		r.byType[typeName] = append(r.byType[typeName], field)
	}
	r.fields[key] = f
}

// Lookup returns the field definition for typeName.field.
func (r *Registry) Lookup(typeName, field string) (Field, bool) {
	f, ok := r.fields[FieldKey{Type: typeName, Field: field}]
	return f, ok
}

// FieldsOf returns the field names of typeName in registration order.
func (r *Registry) FieldsOf(typeName string) []string {
	return r.byType[typeName]
}

// HasType returns true if any field is registered on typeName.
func (r *Registry) HasType(typeName string) bool {
	return len(r.byType[typeName]) > 0
}

// listOf converts a typed slice into the []any shape list resolvers return.
func listOf[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
