// Package msgpack provides a MessagePack codec.
package msgpack

import (
	"bytes"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/codable"
)

type encoderEntry struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
}

var encoders = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		enc := msgpack.NewEncoder(buf)
		enc.SetSortMapKeys(true)
		return &encoderEntry{buf: buf, enc: enc}
	},
}

var decoders = sync.Pool{
	New: func() any {
		return msgpack.NewDecoder(nil)
	},
}

type msgpackCodec struct{}

// New returns a MessagePack codec. Map keys are written in sorted order so
// equal Raw values produce equal bytes.
func New() codable.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes raw as a MessagePack map.
func (c *msgpackCodec) Marshal(raw codable.Raw) ([]byte, error) {
	entry := encoders.Get().(*encoderEntry)
	defer encoders.Put(entry)
	entry.buf.Reset()

	if err := entry.enc.Encode(raw); err != nil {
		return nil, err
	}
	return bytes.Clone(entry.buf.Bytes()), nil
}

// Unmarshal decodes a MessagePack map.
func (c *msgpackCodec) Unmarshal(data []byte) (codable.Raw, error) {
	dec := decoders.Get().(*msgpack.Decoder)
	defer decoders.Put(dec)
	dec.Reset(bytes.NewReader(data))
	// Reset clears flags. Loose decoding yields int64, uint64 and float64.
	dec.UseLooseInterfaceDecoding(true)

	var raw codable.Raw
	if err := dec.Decode(&raw); err != nil {
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
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if s, ok := k.(string); ok {
				out[s] = normalize(item)
			}
		}
		return out
	}
	return v
}
