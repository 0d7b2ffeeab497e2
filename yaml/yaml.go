// Package yaml provides a YAML codec.
package yaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/codable"
)

type yamlCodec struct{}

// New returns a YAML codec.
func New() codable.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes raw as a YAML mapping.
func (c *yamlCodec) Marshal(raw codable.Raw) ([]byte, error) {
	return yaml.Marshal(raw)
}

// Unmarshal decodes a YAML mapping. Nested mappings with non-string keys
// are returned with their keys formatted as strings.
func (c *yamlCodec) Unmarshal(data []byte) (codable.Raw, error) {
	var raw codable.Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		raw[k] = normalize(v)
	}
	return raw, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	}
	return v
}
