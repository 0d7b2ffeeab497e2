package codable

import (
	"context"
	"reflect"

	"go.uber.org/zap"
)

// Raw is untyped data as produced or consumed by a serializer: a mapping
// from string to primitives, nil, nested mappings or sequences.
type Raw = map[string]any

// Engine converts between Raw values and struct instances using the
// metadata held by a Registry. An Engine has no mutable state of its own
// and is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine returns an engine reading metadata from r.
func NewEngine(r *Registry) *Engine {
	return &Engine{registry: r}
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Decode builds a new *T from raw.
func Decode[T any](ctx context.Context, e *Engine, raw Raw) (*T, error) {
	v, err := e.Decode(ctx, reflect.TypeFor[T](), raw)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// Encode converts instance (a struct or pointer to struct) into a Raw value.
func Encode(ctx context.Context, e *Engine, instance any) (Raw, error) {
	return e.Encode(ctx, instance)
}

// drop reports a raw value that could not be placed on an instance.
func (e *Engine) drop(ctx context.Context, desc *typeDescriptor, field, reason string, st *decodeState) {
	st.dropped++
	emitFieldDropped(ctx, desc.name, field, reason)
	Logger().Debug("codable: dropped field",
		zap.String("type", desc.name),
		zap.String("field", field),
		zap.String("reason", reason),
	)
}
