package codable

// Action tags understood by Mapper. The tag value names the algorithm, mask
// type or replacement text:
//
//	type User struct {
//	    Password string `receive.hash:"argon2"`
//	    Token    string `store.encrypt:"aes" load.decrypt:"aes"`
//	    Email    string `send.mask:"email"`
//	    Notes    string `send.redact:"[hidden]"`
//	}
const (
	tagReceiveHash  = "receive.hash"
	tagLoadDecrypt  = "load.decrypt"
	tagStoreEncrypt = "store.encrypt"
	tagSendMask     = "send.mask"
	tagSendRedact   = "send.redact"
)

// EncryptAlgo names an encryption algorithm usable in store.encrypt and
// load.decrypt tags.
type EncryptAlgo string

const (
	EncryptAES      EncryptAlgo = "aes"      // AES-GCM with a static key
	EncryptEnvelope EncryptAlgo = "envelope" // per-value data key sealed by a master key
)

// HashAlgo names a hashing algorithm usable in receive.hash tags.
type HashAlgo string

const (
	HashArgon2 HashAlgo = "argon2" // salted, for passwords
	HashBcrypt HashAlgo = "bcrypt" // salted, for passwords
	HashSHA256 HashAlgo = "sha256" // deterministic hex digest
	HashSHA512 HashAlgo = "sha512" // deterministic hex digest
)

// MaskType names a masking rule usable in send.mask tags.
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

var validEncryptAlgos = map[EncryptAlgo]bool{
	EncryptAES:      true,
	EncryptEnvelope: true,
}

var validHashAlgos = map[HashAlgo]bool{
	HashArgon2: true,
	HashBcrypt: true,
	HashSHA256: true,
	HashSHA512: true,
}

var validMaskTypes = map[MaskType]bool{
	MaskSSN:   true,
	MaskEmail: true,
	MaskPhone: true,
	MaskCard:  true,
	MaskName:  true,
}

// IsValidEncryptAlgo reports whether algo is a known encryption algorithm.
func IsValidEncryptAlgo(algo EncryptAlgo) bool {
	return validEncryptAlgos[algo]
}

// IsValidHashAlgo reports whether algo is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// IsValidMaskType reports whether mt is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}

// validAction reports whether val is acceptable for the action tag.
func validAction(tag, val string) bool {
	switch tag {
	case tagReceiveHash:
		return IsValidHashAlgo(HashAlgo(val))
	case tagLoadDecrypt, tagStoreEncrypt:
		return IsValidEncryptAlgo(EncryptAlgo(val))
	case tagSendMask:
		return IsValidMaskType(MaskType(val))
	case tagSendRedact:
		return true
	}
	return false
}
