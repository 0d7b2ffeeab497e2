package codable

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
//
// The conversion engine itself never fails on data shape; these errors cover
// misuse of the API and the Mapper boundary layer.
var (
	// ErrNotStruct indicates a type or value that is not a struct (or pointer to one).
	ErrNotStruct = errors.New("not a struct")

	// ErrNilInstance indicates Encode was called with a nil instance.
	ErrNilInstance = errors.New("nil instance")

	// ErrMissingEncryptor indicates a required encryptor was not registered.
	ErrMissingEncryptor = errors.New("missing encryptor")

	// ErrMissingHasher indicates a required hasher was not registered.
	ErrMissingHasher = errors.New("missing hasher")

	// ErrMissingMasker indicates a required masker was not registered.
	ErrMissingMasker = errors.New("missing masker")

	// ErrInvalidTag indicates an action tag has an invalid value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrEncrypt indicates encryption of a field failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates decryption of a field failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrHash indicates hashing of a field failed.
	ErrHash = errors.New("hash failed")
)

// ConfigError represents a mapper configuration error.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrMissingEncryptor, ErrInvalidTag, ...)
	Type      string // Type that declared the field
	Field     string // Field name that triggered the error
	Algorithm string // Algorithm or mask type that was missing/invalid
}

func (e *ConfigError) Error() string {
	field := e.Field
	if e.Type != "" && field != "" {
		field = e.Type + "." + field
	}
	switch {
	case field != "" && e.Algorithm != "":
		return fmt.Sprintf("%s %q (field %s)", e.Err.Error(), e.Algorithm, field)
	case e.Algorithm != "":
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Algorithm)
	case field != "":
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents a failed field action.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrEncrypt, ErrDecrypt, ErrHash)
	Key       string // External key of the value that failed
	Operation string // encrypt, decrypt or hash
	Cause     error  // Original error from the capability
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s key %s: %v", e.Operation, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s key %s", e.Operation, e.Key)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err         error // ErrMarshal or ErrUnmarshal
	ContentType string
	Cause       error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.ContentType)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newConfigError(sentinel error, typeName, field, algorithm string) error {
	return &ConfigError{
		Err:       sentinel,
		Type:      typeName,
		Field:     field,
		Algorithm: algorithm,
	}
}

func newTransformError(sentinel error, operation, key string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Key:       key,
		Operation: operation,
		Cause:     cause,
	}
}

func newCodecError(sentinel error, contentType string, cause error) error {
	return &CodecError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}
