// Package bson provides a BSON codec backed by the MongoDB driver.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zoobzio/codable"
)

type bsonCodec struct{}

// New returns a BSON codec. Decoded documents and arrays are converted from
// the driver's bson.M, bson.D and bson.A to map[string]any and []any.
func New() codable.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes raw as a BSON document. A nil Raw encodes as an empty
// document.
func (c *bsonCodec) Marshal(raw codable.Raw) ([]byte, error) {
	if raw == nil {
		raw = codable.Raw{}
	}
	return bson.Marshal(raw)
}

// Unmarshal decodes a BSON document.
func (c *bsonCodec) Unmarshal(data []byte) (codable.Raw, error) {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return document(doc), nil
}

func document(m map[string]any) codable.Raw {
	out := make(codable.Raw, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return document(t)
	case map[string]any:
		return document(t)
	case bson.D:
		out := make(codable.Raw, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
