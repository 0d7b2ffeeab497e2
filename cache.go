package codable

import (
	"reflect"
	"sync"
)

type mapperKey struct {
	engine      *Engine
	typ         reflect.Type
	contentType string
}

var (
	mappersMu sync.Mutex
	mappers   = make(map[mapperKey]any)
)

// Use returns the shared Mapper for T on engine and the codec's content
// type, creating it on first use. Capabilities set on the returned mapper
// apply to every caller that shares it.
func Use[T any](engine *Engine, codec Codec) (*Mapper[T], error) {
	key := mapperKey{
		engine:      engine,
		typ:         reflect.TypeFor[T](),
		contentType: codec.ContentType(),
	}

	mappersMu.Lock()
	defer mappersMu.Unlock()

	if m, ok := mappers[key]; ok {
		return m.(*Mapper[T]), nil
	}

	m, err := NewMapper[T](engine, codec)
	if err != nil {
		return nil, err
	}
	mappers[key] = m
	return m, nil
}

// Reset drops every mapper cached by Use.
// This is primarily useful for test isolation.
func Reset() {
	mappersMu.Lock()
	defer mappersMu.Unlock()
	clear(mappers)
}
