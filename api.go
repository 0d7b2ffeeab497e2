// Package codable maps untyped key/value data to typed structs and back,
// driven by per-type metadata held in a Registry.
//
// A type declares two kinds of metadata, both optional:
//
//   - a rename table from Go field names to the keys used on the wire
//   - field type annotations telling the decoder which struct type to build
//     for a field's value, including every element of a sequence
//
// # Registration
//
// Metadata is registered once at startup:
//
//	var registry = codable.NewRegistry()
//
//	type Address struct {
//	    City string
//	}
//
//	type User struct {
//	    Name    string
//	    Age     int
//	    Address *Address
//	}
//
//	func init() {
//	    codable.MustRegister[User](registry,
//	        codable.WithRenames(codable.RenameTable{"Name": "n", "Age": "a", "Address": "addr"}),
//	        codable.WithNested[Address]("Address"),
//	    )
//	}
//
// The four lower level operations (RegisterRenameTable, RegisterFieldType,
// LookupRenameTable, LookupFieldType) are available on Registry directly.
//
// # Conversion
//
//	engine := codable.NewEngine(registry)
//
//	user, _ := codable.Decode[User](ctx, engine, codable.Raw{
//	    "n":    "Bob",
//	    "a":    5,
//	    "addr": map[string]any{"City": "Paris"},
//	})
//
//	raw, _ := codable.Encode(ctx, engine, user)
//	// raw == codable.Raw{"n": "Bob", "a": 5, "addr": codable.Raw{"City": "Paris"}}
//
// Decoding never fails on data shape. Keys missing from the rename table are
// used as field names directly; keys that match no field go to a
// `codable:",remain"` map when the type has one and are dropped otherwise.
// Values that cannot be assigned to their field are dropped. Every drop is
// reported through the SignalFieldDropped capitan signal and the package
// zap logger.
//
// With a rename table, encoding emits exactly the fields named in the table.
// Without one, the exported fields are emitted under their Go names, followed
// by registered computed methods and the remain map. A type can take over
// this default by implementing FieldLister.
//
// # Mappers
//
// A Mapper binds an Engine to a Codec for one type and applies field actions
// declared with struct tags at four boundaries:
//
//	type Account struct {
//	    Email    string `send.mask:"email" store.encrypt:"aes" load.decrypt:"aes"`
//	    Password string `receive.hash:"argon2" send.redact:"***"`
//	}
//
//	m, _ := codable.NewMapper[Account](engine, json.New())
//	m.SetEncryptor(codable.EncryptAES, enc)
//
//	acct, _ := m.Receive(ctx, body) // password hashed
//	row, _ := m.Store(ctx, acct)    // email encrypted
//	acct, _ = m.Load(ctx, row)      // email decrypted
//	out, _ := m.Send(ctx, acct)     // email masked, password redacted
//
// Hashers (sha256, sha512, argon2, bcrypt) and maskers (ssn, email, phone,
// card, name) are preconfigured. Encryptors (AES, Envelope) need a key and
// are added with SetEncryptor.
//
// # Codecs
//
// Codecs for concrete formats live in subpackages: json, yaml, msgpack, bson
// and cbor. Each one normalizes its containers to map[string]any and []any.
package codable
