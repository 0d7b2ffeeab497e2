package codable

// Codec turns bytes into Raw values and back for one wire format.
// Implementations normalize format-specific containers so that Unmarshal
// only returns map[string]any for mappings and []any for sequences.
type Codec interface {
	// ContentType returns the MIME type of the format (e.g. "application/json").
	ContentType() string

	// Marshal encodes raw into bytes.
	Marshal(raw Raw) ([]byte, error)

	// Unmarshal decodes data into a Raw value.
	Unmarshal(data []byte) (Raw, error)
}
