// Package json provides a JSON codec backed by goccy/go-json.
package json

import (
	"github.com/goccy/go-json"

	"github.com/zoobzio/codable"
)

type jsonCodec struct{}

// New returns a JSON codec. Numbers decode as float64; the engine converts
// integral values into integer fields.
func New() codable.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes raw as a JSON object with sorted keys.
func (c *jsonCodec) Marshal(raw codable.Raw) ([]byte, error) {
	return json.Marshal(raw)
}

// Unmarshal decodes a JSON object. A JSON null yields a nil Raw.
func (c *jsonCodec) Unmarshal(data []byte) (codable.Raw, error) {
	var raw codable.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
