package codable

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"time"
)

// Encode converts instance, a struct or a pointer to one, into a Raw value.
// The instance is never modified.
//
// With a rename table only the fields named in it are encoded, under their
// external keys. Without one the default field set is used: the type's
// CodableFields when it implements FieldLister, otherwise its exported
// fields, registered computed methods and remain entries. Known nested
// instances are encoded recursively.
func (e *Engine) Encode(ctx context.Context, instance any) (Raw, error) {
	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, ErrNilInstance
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, ErrNilInstance
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("encode %s: %w", rv.Type(), ErrNotStruct)
	}

	start := time.Now()
	emitEncodeStart(ctx, rv.Type().String())

	raw := e.encodeStruct(rv)

	emitEncodeComplete(ctx, rv.Type().String(), time.Since(start), len(raw))
	return raw, nil
}

func (e *Engine) encodeStruct(rv reflect.Value) Raw {
	typ := rv.Type()
	desc := e.registry.describe(typ)

	// Computed methods may have pointer receivers.
	ptr := reflect.New(typ)
	ptr.Elem().Set(rv)

	if renames, ok := e.registry.renameEntry(typ); ok {
		out := make(Raw, len(renames.table))
		for _, name := range slices.Sorted(maps.Keys(renames.table)) {
			value, ok := desc.read(ptr, name)
			if !ok {
				continue
			}
			out[renames.table[name]] = e.encodeValue(value)
		}
		return out
	}

	var names []string
	if desc.lister {
		names = ptr.Interface().(FieldLister).CodableFields()
	} else {
		names = make([]string, 0, len(desc.fields)+len(desc.computed))
		for _, fd := range desc.fields {
			names = append(names, fd.name)
		}
		names = append(names, desc.computed...)
	}

	out := make(Raw, len(names))
	for _, name := range names {
		value, ok := desc.read(ptr, name)
		if !ok {
			continue
		}
		out[name] = e.encodeValue(value)
	}

	if desc.remain != nil && !desc.lister {
		remain := rv.FieldByIndex(desc.remain)
		iter := remain.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			if _, taken := out[key]; taken {
				continue
			}
			out[key] = e.encodeValue(iter.Value())
		}
	}

	return out
}

// read returns the value of a stored field or computed method called name.
// ptr points at a copy of the instance.
func (d *typeDescriptor) read(ptr reflect.Value, name string) (reflect.Value, bool) {
	if fd, ok := d.field(name); ok {
		return ptr.Elem().FieldByIndex(fd.index), true
	}

	method := ptr.MethodByName(name)
	if !method.IsValid() {
		return reflect.Value{}, false
	}
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 {
		return reflect.Value{}, false
	}
	return method.Call(nil)[0], true
}

// encodeValue converts a field value for output. Known instances become Raw,
// sequences become []any with known instances encoded, anything else passes
// through unchanged.
func (e *Engine) encodeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		return e.encodeValue(rv.Elem())
	}

	if inst, ok := e.instance(rv); ok {
		if !inst.IsValid() {
			return nil
		}
		return e.encodeStruct(inst)
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = e.encodeElement(rv.Index(i))
		}
		return items
	}

	return rv.Interface()
}

// encodeElement encodes one sequence element: known instances are encoded,
// other values pass through without further inspection.
func (e *Engine) encodeElement(rv reflect.Value) any {
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if inst, ok := e.instance(rv); ok {
		if !inst.IsValid() {
			return nil
		}
		return e.encodeStruct(inst)
	}
	return rv.Interface()
}

// instance reports whether rv holds a known struct, directly or through
// pointers. The returned struct value is invalid for a nil pointer.
func (e *Engine) instance(rv reflect.Value) (reflect.Value, bool) {
	if !e.registry.Known(rv.Type()) || baseType(rv.Type()).Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, true
		}
		rv = rv.Elem()
	}
	return rv, true
}
