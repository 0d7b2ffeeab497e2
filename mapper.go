package codable

import (
	"context"
	"encoding/base64"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"
)

// boundary identifies one of the four Mapper operations.
type boundary int

const (
	boundaryReceive boundary = iota
	boundaryLoad
	boundaryStore
	boundarySend
)

// Mapper converts a struct type T to and from bytes through an Engine and a
// Codec, applying the field actions declared by action tags on the way:
//
//   - Receive: unmarshal, hash (receive.hash), decode
//   - Load: unmarshal, decrypt (load.decrypt), decode
//   - Store: encode, encrypt (store.encrypt), marshal
//   - Send: encode, mask (send.mask), redact (send.redact), marshal
//
// Actions run on the Raw form, at the external key of the field, so they
// see exactly what goes over the wire. Nested types reached through field
// type annotations contribute their own actions.
//
// Mappers are safe for concurrent use. SetEncryptor, SetHasher and SetMasker
// may be called at any time; required capabilities are checked once, on the
// first operation.
type Mapper[T any] struct {
	engine *Engine
	codec  Codec

	mu         sync.RWMutex
	encryptors map[EncryptAlgo]Encryptor
	hashers    map[HashAlgo]Hasher
	maskers    map[MaskType]Masker

	validateOnce sync.Once
	validateErr  error

	plan     *actionNode
	declared []*fieldAction
	typeName string
}

// actionNode holds the actions of one struct type, keyed for the Raw form.
type actionNode struct {
	actions []fieldAction
	nested  []nestedAction
}

type fieldAction struct {
	typeName string
	field    string
	key      string // external key
	tag      string
	value    string // algorithm, mask type or replacement
}

type nestedAction struct {
	key  string
	node *actionNode
}

// NewMapper returns a Mapper for T. Builtin hashers and maskers are
// preconfigured; encryptors must be added with SetEncryptor before Store or
// Load are used on types with encryption tags.
//
// Types should be registered before the mapper is created: the action plan
// follows the rename tables and field type annotations present at this point.
func NewMapper[T any](engine *Engine, codec Codec) (*Mapper[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapper %s: %w", typ, ErrNotStruct)
	}

	m := &Mapper[T]{
		engine:     engine,
		codec:      codec,
		encryptors: make(map[EncryptAlgo]Encryptor),
		hashers:    builtinHashers(),
		maskers:    builtinMaskers(),
		typeName:   typ.String(),
	}

	plan, err := m.buildPlan(typ, make(map[reflect.Type]*actionNode))
	if err != nil {
		return nil, err
	}
	m.plan = plan

	emitMapperCreated(context.Background(), codec.ContentType(), m.typeName)
	return m, nil
}

// buildPlan walks typ and every type reachable through its field type
// annotations. Recursive types share one node.
func (m *Mapper[T]) buildPlan(typ reflect.Type, seen map[reflect.Type]*actionNode) (*actionNode, error) {
	if node, ok := seen[typ]; ok {
		return node, nil
	}
	node := &actionNode{}
	seen[typ] = node

	r := m.engine.registry
	desc := r.describe(typ)
	renames, _ := r.renameEntry(typ)
	key := func(field string) string {
		if external, ok := renames.table[field]; ok {
			return external
		}
		return field
	}

	for _, fd := range desc.fields {
		for _, tag := range actionTags {
			val, ok := fd.actions[tag]
			if !ok {
				continue
			}
			if !validAction(tag, val) {
				return nil, newConfigError(ErrInvalidTag, desc.name, fd.name, val)
			}
			node.actions = append(node.actions, fieldAction{
				typeName: desc.name,
				field:    fd.name,
				key:      key(fd.name),
				tag:      tag,
				value:    val,
			})
		}
	}
	for i := range node.actions {
		m.declared = append(m.declared, &node.actions[i])
	}

	for _, field := range r.nestedFields(typ) {
		nested, ok := r.LookupFieldType(typ, field)
		if !ok {
			continue
		}
		child, err := m.buildPlan(nested, seen)
		if err != nil {
			return nil, err
		}
		node.nested = append(node.nested, nestedAction{key: key(field), node: child})
	}

	return node, nil
}

// SetEncryptor registers an encryptor for algo. Returns the mapper for
// chaining.
func (m *Mapper[T]) SetEncryptor(algo EncryptAlgo, enc Encryptor) *Mapper[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encryptors[algo] = enc
	return m
}

// SetHasher registers or replaces the hasher for algo. Returns the mapper
// for chaining.
func (m *Mapper[T]) SetHasher(algo HashAlgo, h Hasher) *Mapper[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashers[algo] = h
	return m
}

// SetMasker registers or replaces the masker for mt. Returns the mapper for
// chaining.
func (m *Mapper[T]) SetMasker(mt MaskType, mk Masker) *Mapper[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maskers[mt] = mk
	return m
}

// Validate checks that every declared action has its capability. It runs
// automatically on the first operation; call it to fail at startup instead.
func (m *Mapper[T]) Validate() error {
	m.validateOnce.Do(func() {
		m.mu.RLock()
		defer m.mu.RUnlock()
		m.validateErr = m.validateCapabilities()
	})
	return m.validateErr
}

func (m *Mapper[T]) validateCapabilities() error {
	for _, a := range m.declared {
		var ok bool
		var missing error
		switch a.tag {
		case tagReceiveHash:
			_, ok = m.hashers[HashAlgo(a.value)]
			missing = ErrMissingHasher
		case tagLoadDecrypt, tagStoreEncrypt:
			_, ok = m.encryptors[EncryptAlgo(a.value)]
			missing = ErrMissingEncryptor
		case tagSendMask:
			_, ok = m.maskers[MaskType(a.value)]
			missing = ErrMissingMasker
		default:
			ok = true
		}
		if !ok {
			return newConfigError(missing, a.typeName, a.field, a.value)
		}
	}
	return nil
}

// ContentType returns the content type of the mapper's codec.
func (m *Mapper[T]) ContentType() string {
	return m.codec.ContentType()
}

// Receive unmarshals data from an external source, hashes receive.hash
// fields and decodes the result.
func (m *Mapper[T]) Receive(ctx context.Context, data []byte) (*T, error) {
	return m.ingress(ctx, boundaryReceive, data, step{tagReceiveHash, m.hash})
}

// Load unmarshals data read from storage, decrypts load.decrypt fields and
// decodes the result.
func (m *Mapper[T]) Load(ctx context.Context, data []byte) (*T, error) {
	return m.ingress(ctx, boundaryLoad, data, step{tagLoadDecrypt, m.decrypt})
}

// Store encodes obj, encrypts store.encrypt fields and marshals the result
// for storage. obj is not modified.
func (m *Mapper[T]) Store(ctx context.Context, obj *T) ([]byte, error) {
	return m.egress(ctx, boundaryStore, obj, step{tagStoreEncrypt, m.encrypt})
}

// Send encodes obj, masks send.mask fields, redacts send.redact fields and
// marshals the result for an external destination. obj is not modified.
func (m *Mapper[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	return m.egress(ctx, boundarySend, obj,
		step{tagSendMask, m.mask},
		step{tagSendRedact, redact},
	)
}

// step pairs an action tag with the transform applied to its values.
type step struct {
	tag string
	fn  transform
}

func (m *Mapper[T]) ingress(ctx context.Context, op boundary, data []byte, s step) (_ *T, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var actions int
	defer func() {
		emitBoundaryComplete(ctx, op, m.codec.ContentType(), m.typeName, len(data), time.Since(start), actions, err)
	}()

	raw, err := m.codec.Unmarshal(data)
	if err != nil {
		return nil, newCodecError(ErrUnmarshal, m.codec.ContentType(), err)
	}

	m.mu.RLock()
	actions, err = applyActions(raw, m.plan, s.tag, s.fn)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	return Decode[T](ctx, m.engine, raw)
}

func (m *Mapper[T]) egress(ctx context.Context, op boundary, obj *T, steps ...step) (data []byte, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var actions int
	defer func() {
		emitBoundaryComplete(ctx, op, m.codec.ContentType(), m.typeName, len(data), time.Since(start), actions, err)
	}()

	if obj == nil {
		return nil, ErrNilInstance
	}
	raw, err := m.engine.Encode(ctx, obj)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	for _, s := range steps {
		var n int
		n, err = applyActions(raw, m.plan, s.tag, s.fn)
		actions += n
		if err != nil {
			break
		}
	}
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	data, err = m.codec.Marshal(raw)
	if err != nil {
		return nil, newCodecError(ErrMarshal, m.codec.ContentType(), err)
	}
	return data, nil
}

// transform rewrites one string value for an action. Callers hold m.mu.
type transform func(a *fieldAction, value string) (string, error)

func (m *Mapper[T]) hash(a *fieldAction, value string) (string, error) {
	out, err := m.hashers[HashAlgo(a.value)].Hash([]byte(value))
	if err != nil {
		return "", newTransformError(ErrHash, "hash", a.key, err)
	}
	return out, nil
}

func (m *Mapper[T]) encrypt(a *fieldAction, value string) (string, error) {
	sealed, err := m.encryptors[EncryptAlgo(a.value)].Encrypt([]byte(value))
	if err != nil {
		return "", newTransformError(ErrEncrypt, "encrypt", a.key, err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (m *Mapper[T]) decrypt(a *fieldAction, value string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", newTransformError(ErrDecrypt, "decrypt", a.key, err)
	}
	plain, err := m.encryptors[EncryptAlgo(a.value)].Decrypt(sealed)
	if err != nil {
		return "", newTransformError(ErrDecrypt, "decrypt", a.key, err)
	}
	return string(plain), nil
}

func (m *Mapper[T]) mask(a *fieldAction, value string) (string, error) {
	return m.maskers[MaskType(a.value)].Mask(value), nil
}

func redact(a *fieldAction, _ string) (string, error) {
	return a.value, nil
}

// applyActions runs fn on every string value carrying tag in raw and its
// annotated nested mappings, returning the number of values rewritten.
// Nested mappings and sequences are copied before they are changed so that
// values shared with an instance are never modified.
func applyActions(raw Raw, node *actionNode, tag string, fn transform) (int, error) {
	var count int

	for i := range node.actions {
		a := &node.actions[i]
		if a.tag != tag {
			continue
		}
		switch v := raw[a.key].(type) {
		case string:
			out, err := fn(a, v)
			if err != nil {
				return count, err
			}
			raw[a.key] = out
			count++
		case []any:
			items := slices.Clone(v)
			for j, item := range items {
				s, ok := item.(string)
				if !ok {
					continue
				}
				out, err := fn(a, s)
				if err != nil {
					return count, err
				}
				items[j] = out
				count++
			}
			raw[a.key] = items
		}
	}

	for _, n := range node.nested {
		switch v := raw[n.key].(type) {
		case map[string]any:
			child := maps.Clone(v)
			c, err := applyActions(child, n.node, tag, fn)
			count += c
			if err != nil {
				return count, err
			}
			raw[n.key] = child
		case []any:
			items := slices.Clone(v)
			for j, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				child := maps.Clone(m)
				c, err := applyActions(child, n.node, tag, fn)
				count += c
				if err != nil {
					return count, err
				}
				items[j] = child
			}
			raw[n.key] = items
		}
	}

	return count, nil
}
