package codable

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

const codableTag = "codable"

// actionTags are the boundary actions a field can declare for a Mapper.
var actionTags = []string{
	tagReceiveHash,
	tagLoadDecrypt,
	tagStoreEncrypt,
	tagSendMask,
	tagSendRedact,
}

var rawType = reflect.TypeFor[map[string]any]()

// FieldLister lets a type name its own serializable fields instead of
// relying on struct reflection. Names may refer to stored fields or to
// computed methods. The list is used only when the type has no rename table.
type FieldLister interface {
	CodableFields() []string
}

var fieldListerType = reflect.TypeFor[FieldLister]()

// typeDescriptor is the reflection plan for one struct type.
type typeDescriptor struct {
	typ      reflect.Type
	name     string
	meta     sentinel.Metadata
	fields   []fieldDescriptor
	byName   map[string]int
	remain   []int
	computed []string
	lister   bool
}

// fieldDescriptor describes a stored, exported struct field.
type fieldDescriptor struct {
	name    string
	index   []int
	typ     reflect.Type
	actions map[string]string
}

func (d *typeDescriptor) field(name string) (fieldDescriptor, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return fieldDescriptor{}, false
	}
	return d.fields[idx], true
}

func buildDescriptor(typ reflect.Type, meta sentinel.Metadata, computed []string) *typeDescriptor {
	desc := &typeDescriptor{
		typ:      typ,
		name:     typ.String(),
		meta:     meta,
		byName:   make(map[string]int, len(meta.Fields)),
		computed: computed,
		lister:   reflect.PointerTo(typ).Implements(fieldListerType),
	}

	for _, fm := range meta.Fields {
		// promoted fields of embedded structs are not flattened
		if len(fm.Index) != 1 {
			continue
		}
		sf := typ.Field(fm.Index[0])
		if !sf.IsExported() {
			continue
		}

		name, remain := parseCodableTag(fm.Tags[codableTag])
		if name == "-" {
			continue
		}
		if remain {
			if sf.Type == rawType && desc.remain == nil {
				desc.remain = fm.Index
			}
			continue
		}

		fd := fieldDescriptor{
			name:  fm.Name,
			index: fm.Index,
			typ:   sf.Type,
		}
		for _, tag := range actionTags {
			if val, ok := fm.Tags[tag]; ok {
				if fd.actions == nil {
					fd.actions = make(map[string]string)
				}
				fd.actions[tag] = val
			}
		}

		desc.byName[fd.name] = len(desc.fields)
		desc.fields = append(desc.fields, fd)
	}

	return desc
}

// parseCodableTag splits `codable:"-"` and `codable:",remain"`.
func parseCodableTag(tag string) (name string, remain bool) {
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "remain" {
			remain = true
		}
	}
	return strings.TrimSpace(name), remain
}

// scanType returns sentinel metadata for a type that was not registered
// through Register. Sentinel caches scans by bare type name, so a cached
// entry is only used when it describes typ itself. Anonymous types and
// name collisions (same name in another package, or function-local types)
// are scanned directly.
func scanType(typ reflect.Type) sentinel.Metadata {
	if typ.Name() != "" {
		if meta, ok := sentinel.Lookup(typ.Name()); ok && metadataMatches(meta, typ) {
			return meta
		}
	}

	meta := sentinel.Metadata{
		TypeName:    typ.Name(),
		PackageName: typ.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, typ.NumField()),
	}

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		tags := make(map[string]string)
		for _, name := range append([]string{codableTag}, actionTags...) {
			if val := sf.Tag.Get(name); val != "" {
				tags[name] = val
			}
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Pointer:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// metadataMatches reports whether meta was extracted from typ: same name,
// same package and the same exported fields.
func metadataMatches(meta sentinel.Metadata, typ reflect.Type) bool {
	if typ.Name() == "" || meta.TypeName != typ.Name() || meta.PackageName != typ.PkgPath() {
		return false
	}

	var exported int
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).IsExported() {
			exported++
		}
	}
	if len(meta.Fields) != exported {
		return false
	}

	for _, fm := range meta.Fields {
		if len(fm.Index) != 1 || fm.Index[0] >= typ.NumField() {
			return false
		}
		sf := typ.Field(fm.Index[0])
		if sf.Name != fm.Name || sf.Type != fm.ReflectType {
			return false
		}
	}
	return true
}
