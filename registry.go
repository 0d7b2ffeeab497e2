package codable

import (
	"cmp"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/zoobzio/sentinel"
	"go.uber.org/zap"
)

// RenameTable maps internal field names (Go struct field names) to the
// external keys used on the wire. Encode uses it forward, Decode inverted.
type RenameTable map[string]string

// invert returns the external key -> internal name lookup.
func (t RenameTable) invert() map[string]string {
	inverse := make(map[string]string, len(t))
	for internal, external := range t {
		inverse[external] = internal
	}
	return inverse
}

// fieldKey identifies a field annotation by owner type and internal name.
type fieldKey struct {
	typ   reflect.Type
	field string
}

// renameEntry keeps a registered table next to its inverse so decode does
// not rebuild it on every call.
type renameEntry struct {
	table   RenameTable
	inverse map[string]string
}

// Registry holds per-type conversion metadata: rename tables, nested field
// type annotations and computed fields. Registrations are expected at
// startup but the registry is safe for concurrent use at any time.
//
// Types are always keyed by their struct type; pointer types are
// normalized to the struct they point to.
type Registry struct {
	mu          sync.RWMutex
	renames     map[reflect.Type]renameEntry
	fieldTypes  map[fieldKey]reflect.Type
	computed    map[reflect.Type][]string
	known       map[reflect.Type]struct{}
	metadata    map[reflect.Type]sentinel.Metadata
	descriptors map[reflect.Type]*typeDescriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.init()
	return r
}

func (r *Registry) init() {
	r.renames = make(map[reflect.Type]renameEntry)
	r.fieldTypes = make(map[fieldKey]reflect.Type)
	r.computed = make(map[reflect.Type][]string)
	r.known = make(map[reflect.Type]struct{})
	r.metadata = make(map[reflect.Type]sentinel.Metadata)
	r.descriptors = make(map[reflect.Type]*typeDescriptor)
}

// RegisterRenameTable stores table as the rename table of typ. A previous
// table is replaced, not merged. The table is copied.
func (r *Registry) RegisterRenameTable(typ reflect.Type, table RenameTable) {
	typ = baseType(typ)
	if typ == nil {
		return
	}
	table = maps.Clone(table)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renames[typ] = renameEntry{table: table, inverse: table.invert()}
	r.markKnown(typ)
}

// RegisterFieldType declares that values of field on typ decode into
// nested. field is the Go field name, not the wire key. Annotations whose
// nested type is not a struct are ignored.
func (r *Registry) RegisterFieldType(typ reflect.Type, field string, nested reflect.Type) {
	typ = baseType(typ)
	nested = baseType(nested)
	if typ == nil || nested == nil || nested.Kind() != reflect.Struct {
		Logger().Debug("codable: ignored field type annotation",
			zap.String("type", fmt.Sprint(typ)),
			zap.String("field", field),
			zap.String("nested", fmt.Sprint(nested)),
		)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fieldTypes[fieldKey{typ: typ, field: field}] = nested
	r.markKnown(typ)
	r.markKnown(nested)
}

// RegisterComputed declares methods of typ that are encoded as fields when
// typ has no rename table. Each method must take no arguments and return a
// single value. Repeated calls append.
func (r *Registry) RegisterComputed(typ reflect.Type, methods ...string) {
	typ = baseType(typ)
	if typ == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range methods {
		if !slices.Contains(r.computed[typ], m) {
			r.computed[typ] = append(r.computed[typ], m)
		}
	}
	r.markKnown(typ)
}

// LookupRenameTable returns a copy of the rename table of typ.
func (r *Registry) LookupRenameTable(typ reflect.Type) (RenameTable, bool) {
	entry, ok := r.renameEntry(baseType(typ))
	if !ok {
		return nil, false
	}
	return maps.Clone(entry.table), true
}

// LookupFieldType returns the nested type annotated on field of typ.
func (r *Registry) LookupFieldType(typ reflect.Type, field string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nested, ok := r.fieldTypes[fieldKey{typ: baseType(typ), field: field}]
	return nested, ok
}

// Known reports whether typ appears in any registration. Encode treats
// values of known types as nested instances.
func (r *Registry) Known(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.known[baseType(typ)]
	return ok
}

// Types returns the known types ordered by name.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.known))
	for typ := range r.known {
		types = append(types, typ)
	}
	r.mu.RUnlock()

	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
	return types
}

// Reset clears every registration and cached descriptor.
// This is primarily useful for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
}

func (r *Registry) renameEntry(typ reflect.Type) (renameEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.renames[typ]
	return entry, ok
}

// nestedFields returns the annotated fields of typ ordered by field name.
func (r *Registry) nestedFields(typ reflect.Type) []string {
	r.mu.RLock()
	var fields []string
	for key := range r.fieldTypes {
		if key.typ == typ {
			fields = append(fields, key.field)
		}
	}
	r.mu.RUnlock()

	slices.Sort(fields)
	return fields
}

// describe returns the cached descriptor for typ, building it on first use.
func (r *Registry) describe(typ reflect.Type) *typeDescriptor {
	r.mu.RLock()
	desc, ok := r.descriptors[typ]
	r.mu.RUnlock()
	if ok {
		return desc
	}

	r.mu.RLock()
	meta, ok := r.metadata[typ]
	r.mu.RUnlock()
	if !ok {
		meta = scanType(typ)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if desc, ok := r.descriptors[typ]; ok {
		return desc
	}
	desc = buildDescriptor(typ, meta, slices.Clone(r.computed[typ]))
	r.descriptors[typ] = desc
	return desc
}

// markKnown records typ and drops its cached descriptor. Callers hold mu.
func (r *Registry) markKnown(typ reflect.Type) {
	r.known[typ] = struct{}{}
	delete(r.descriptors, typ)
}

// baseType strips pointer indirections.
func baseType(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}
