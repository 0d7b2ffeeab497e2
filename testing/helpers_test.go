package testing

import (
	"context"
	"reflect"
	"testing"

	"github.com/zoobzio/codable"
)

func TestTestKey(t *testing.T) {
	key := TestKey(t)
	if len(key) != 32 {
		t.Errorf("TestKey() length = %d, want 32", len(key))
	}
}

func TestTestEncryptors(t *testing.T) {
	for name, enc := range map[string]codable.Encryptor{
		"aes":      TestEncryptor(t),
		"envelope": TestEnvelope(t),
	} {
		t.Run(name, func(t *testing.T) {
			plaintext := []byte("test")
			ciphertext, err := enc.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}

			decrypted, err := enc.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}

			if string(decrypted) != string(plaintext) {
				t.Errorf("round-trip failed")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := Registry(t)

	for _, typ := range []reflect.Type{
		reflect.TypeFor[SimpleUser](),
		reflect.TypeFor[SanitizedUser](),
		reflect.TypeFor[Location](),
	} {
		if !r.Known(typ) {
			t.Errorf("%s should be known", typ)
		}
	}

	nested, ok := r.LookupFieldType(reflect.TypeFor[SanitizedUser](), "Addresses")
	if !ok || nested != reflect.TypeFor[Location]() {
		t.Errorf("Addresses annotation = %v, %v", nested, ok)
	}
}

func TestSampleUserEncodes(t *testing.T) {
	raw, err := codable.NewEngine(Registry(t)).Encode(context.Background(), SampleUser())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	want := codable.Raw{
		"id":       "123",
		"email":    "alice@example.com",
		"password": "supersecret",
		"ssn":      "123-45-6789",
		"note":     "internal note",
		"addresses": []any{
			codable.Raw{"street": "1 Main St", "city": "Springfield"},
		},
	}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("Encode() = %v, want %v", raw, want)
	}
}
