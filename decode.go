package codable

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// decodeState counts drops across one top-level Decode call.
type decodeState struct {
	dropped int
}

// Decode builds a new instance of typ from raw and returns it as a pointer
// (*T boxed in any). typ must be a struct type.
//
// Each raw key is mapped to a field name through the inverted rename table
// of typ. A key missing from the table is used as the field name itself.
// Values of fields annotated with a nested type are decoded recursively;
// everything else is assigned as-is. Values that do not fit the field are
// dropped without error.
func (e *Engine) Decode(ctx context.Context, typ reflect.Type, raw Raw) (any, error) {
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("decode %v: %w", typ, ErrNotStruct)
	}

	start := time.Now()
	emitDecodeStart(ctx, typ.String(), len(raw))

	st := &decodeState{}
	inst := e.decodeStruct(ctx, typ, raw, st)

	emitDecodeComplete(ctx, typ.String(), time.Since(start), st.dropped)
	return inst.Interface(), nil
}

// decodeStruct returns a pointer to a freshly assigned typ.
func (e *Engine) decodeStruct(ctx context.Context, typ reflect.Type, raw Raw, st *decodeState) reflect.Value {
	desc := e.registry.describe(typ)
	renames, renamed := e.registry.renameEntry(typ)

	inst := reflect.New(typ)
	target := inst.Elem()

	// Sorted so that two keys resolving to the same field settle the same
	// way on every call.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]

		name := key
		if renamed {
			if internal, ok := renames.inverse[key]; ok {
				name = internal
			} else {
				Logger().Debug("codable: key not in rename table",
					zap.String("type", desc.name),
					zap.String("key", key),
				)
			}
		}

		if nested, ok := e.registry.LookupFieldType(typ, name); ok {
			value = e.decodeNested(ctx, nested, value, st)
		}

		e.assign(ctx, desc, target, name, value, st)
	}

	return inst
}

// decodeNested converts value into instances of nested. Sequences decode
// element-wise, nil passes through, mappings decode into one instance and
// any other shape is returned unchanged. A non-struct nested type leaves
// the value untouched.
func (e *Engine) decodeNested(ctx context.Context, nested reflect.Type, value any, st *decodeState) any {
	if value == nil || nested.Kind() != reflect.Struct {
		return value
	}

	if m, ok := asRaw(value); ok {
		return e.decodeStruct(ctx, nested, m, st).Interface()
	}

	if items, ok := asSequence(value); ok {
		if items == nil {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			if m, ok := asRaw(item); ok {
				out[i] = e.decodeStruct(ctx, nested, m, st).Interface()
				continue
			}
			out[i] = item
		}
		return out
	}

	return value
}

// assign places value on the field called name, or in the remain map when
// the type has no such field.
func (e *Engine) assign(ctx context.Context, desc *typeDescriptor, target reflect.Value, name string, value any, st *decodeState) {
	if fd, ok := desc.field(name); ok {
		if !setValue(target.FieldByIndex(fd.index), value) {
			e.drop(ctx, desc, name, fmt.Sprintf("cannot assign %T to %s", value, fd.typ), st)
		}
		return
	}

	if desc.remain != nil {
		remain := target.FieldByIndex(desc.remain)
		if remain.IsNil() {
			remain.Set(reflect.MakeMap(remain.Type()))
		}
		remain.SetMapIndex(reflect.ValueOf(name), anyValue(value))
		return
	}

	e.drop(ctx, desc, name, "no such field", st)
}

// asRaw reports whether value is a mapping with string keys and returns it
// as Raw.
func asRaw(value any) (Raw, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(Raw, len(m))
		for k, v := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = v
		}
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(Raw, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence reports whether value is a slice or array (other than bytes)
// and returns its elements.
func asSequence(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}

	rv := reflect.ValueOf(value)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, true
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
