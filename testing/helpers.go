// Package testing provides fixtures and helpers for testing code built on
// codable.
package testing

import (
	"testing"

	"github.com/zoobzio/codable"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(t testing.TB) []byte {
	t.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(t testing.TB) codable.Encryptor {
	t.Helper()
	enc, err := codable.AES(TestKey(t))
	if err != nil {
		t.Fatalf("AES: %v", err)
	}
	return enc
}

// TestEnvelope returns an envelope encryptor configured for testing.
func TestEnvelope(t testing.TB) codable.Encryptor {
	t.Helper()
	enc, err := codable.Envelope(TestKey(t))
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	return enc
}

// SimpleUser is a test type with no action tags.
type SimpleUser struct {
	ID   string
	Name string
}

// Location is nested under SanitizedUser.
type Location struct {
	Street string `send.redact:"[hidden]"`
	City   string
}

// SanitizedUser is a test type carrying an action at every boundary.
type SanitizedUser struct {
	ID        string
	Email     string `store.encrypt:"aes" load.decrypt:"aes" send.mask:"email"`
	Password  string `receive.hash:"argon2" send.redact:"***"`
	SSN       string `store.encrypt:"envelope" load.decrypt:"envelope" send.mask:"ssn"`
	Note      string `send.redact:"[REDACTED]"`
	Addresses []Location
}

// Registry returns a registry with the fixtures registered under lower case
// external keys.
func Registry(t testing.TB) *codable.Registry {
	t.Helper()
	r := codable.NewRegistry()
	if err := codable.Register[SimpleUser](r,
		codable.WithRenames(codable.RenameTable{"ID": "id", "Name": "name"}),
	); err != nil {
		t.Fatalf("Register SimpleUser: %v", err)
	}
	if err := codable.Register[SanitizedUser](r,
		codable.WithRenames(codable.RenameTable{
			"ID":        "id",
			"Email":     "email",
			"Password":  "password",
			"SSN":       "ssn",
			"Note":      "note",
			"Addresses": "addresses",
		}),
		codable.WithNested[Location]("Addresses"),
	); err != nil {
		t.Fatalf("Register SanitizedUser: %v", err)
	}
	if err := codable.Register[Location](r,
		codable.WithRenames(codable.RenameTable{"Street": "street", "City": "city"}),
	); err != nil {
		t.Fatalf("Register Location: %v", err)
	}
	return r
}

// Mapper returns a validated mapper for T over the fixture registry, with
// the test AES and envelope encryptors installed.
func Mapper[T any](t testing.TB, codec codable.Codec) *codable.Mapper[T] {
	t.Helper()
	m, err := codable.NewMapper[T](codable.NewEngine(Registry(t)), codec)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	m.SetEncryptor(codable.EncryptAES, TestEncryptor(t)).
		SetEncryptor(codable.EncryptEnvelope, TestEnvelope(t))
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return m
}

// SampleUser returns a fully populated SanitizedUser.
func SampleUser() *SanitizedUser {
	return &SanitizedUser{
		ID:       "123",
		Email:    "alice@example.com",
		Password: "supersecret",
		SSN:      "123-45-6789",
		Note:     "internal note",
		Addresses: []Location{
			{Street: "1 Main St", City: "Springfield"},
		},
	}
}
