package codable

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag(codableTag)
	for _, tag := range actionTags {
		sentinel.Tag(tag)
	}
}

// RegisterOption declares one piece of conversion metadata for Register.
type RegisterOption func(*registration)

type registration struct {
	renames  RenameTable
	nested   map[string]reflect.Type
	order    []string
	computed []string
}

// WithRenames declares the rename table of the type. Only the fields named
// in the table are encoded.
func WithRenames(table RenameTable) RegisterOption {
	return func(reg *registration) {
		reg.renames = table
	}
}

// WithFieldType declares the struct type that values of field decode into.
func WithFieldType(field string, nested reflect.Type) RegisterOption {
	return func(reg *registration) {
		if _, ok := reg.nested[field]; !ok {
			reg.order = append(reg.order, field)
		}
		reg.nested[field] = nested
	}
}

// WithNested is WithFieldType for a statically known nested type.
func WithNested[N any](field string) RegisterOption {
	return WithFieldType(field, reflect.TypeFor[N]())
}

// WithComputed declares methods encoded as fields when no rename table is set.
func WithComputed(methods ...string) RegisterOption {
	return func(reg *registration) {
		reg.computed = append(reg.computed, methods...)
	}
}

// Register records the conversion metadata of T in r. It is meant to be
// called once per type at startup, typically from an init function:
//
//	func init() {
//	    codable.MustRegister[User](registry,
//	        codable.WithRenames(codable.RenameTable{"Name": "n"}),
//	        codable.WithNested[Address]("Address"),
//	    )
//	}
//
// Registering a type again replaces its rename table and field annotations
// given in the new call.
func Register[T any](r *Registry, opts ...RegisterOption) error {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("register %s: %w", typ, ErrNotStruct)
	}

	reg := &registration{nested: make(map[string]reflect.Type)}
	for _, opt := range opts {
		opt(reg)
	}

	for _, field := range reg.order {
		nested := baseType(reg.nested[field])
		if nested == nil || nested.Kind() != reflect.Struct {
			return fmt.Errorf("register %s field %s: %w", typ, field, ErrNotStruct)
		}
	}

	meta := sentinel.Scan[T]()

	if reg.renames != nil {
		r.RegisterRenameTable(typ, reg.renames)
	}
	for _, field := range reg.order {
		r.RegisterFieldType(typ, field, reg.nested[field])
	}
	if len(reg.computed) > 0 {
		r.RegisterComputed(typ, reg.computed...)
	}

	r.mu.Lock()
	if metadataMatches(meta, typ) {
		r.metadata[typ] = meta
	}
	r.markKnown(typ)
	r.mu.Unlock()

	emitTypeRegistered(context.Background(), typ.String(), len(meta.Fields))
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister[T any](r *Registry, opts ...RegisterOption) {
	if err := Register[T](r, opts...); err != nil {
		panic(err)
	}
}
