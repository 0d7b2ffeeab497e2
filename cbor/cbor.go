// Package cbor provides a CBOR codec backed by fxamacker/cbor.
package cbor

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/zoobzio/codable"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Canonical encoding sorts map keys so equal Raw values produce equal bytes.
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

type cborCodec struct{}

// New returns a CBOR codec. Integers decode as uint64 or int64.
func New() codable.Codec {
	return &cborCodec{}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Marshal encodes raw as a CBOR map.
func (c *cborCodec) Marshal(raw codable.Raw) ([]byte, error) {
	return encMode.Marshal(raw)
}

// Unmarshal decodes a CBOR map.
func (c *cborCodec) Unmarshal(data []byte) (codable.Raw, error) {
	var raw codable.Raw
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
