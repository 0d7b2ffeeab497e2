package codable

import "testing"

func TestIsValidEncryptAlgo(t *testing.T) {
	tests := []struct {
		algo EncryptAlgo
		want bool
	}{
		{EncryptAES, true},
		{EncryptEnvelope, true},
		{"rsa", false},
		{"AES", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			if got := IsValidEncryptAlgo(tt.algo); got != tt.want {
				t.Errorf("IsValidEncryptAlgo(%q) = %v, want %v", tt.algo, got, tt.want)
			}
		})
	}
}

func TestIsValidHashAlgo(t *testing.T) {
	tests := []struct {
		algo HashAlgo
		want bool
	}{
		{HashArgon2, true},
		{HashBcrypt, true},
		{HashSHA256, true},
		{HashSHA512, true},
		{"md5", false},
		{"SHA256", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			if got := IsValidHashAlgo(tt.algo); got != tt.want {
				t.Errorf("IsValidHashAlgo(%q) = %v, want %v", tt.algo, got, tt.want)
			}
		})
	}
}

func TestIsValidMaskType(t *testing.T) {
	tests := []struct {
		mt   MaskType
		want bool
	}{
		{MaskSSN, true},
		{MaskEmail, true},
		{MaskPhone, true},
		{MaskCard, true},
		{MaskName, true},
		{"ip", false},
		{"Email", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mt), func(t *testing.T) {
			if got := IsValidMaskType(tt.mt); got != tt.want {
				t.Errorf("IsValidMaskType(%q) = %v, want %v", tt.mt, got, tt.want)
			}
		})
	}
}

func TestValidAction(t *testing.T) {
	tests := []struct {
		tag, val string
		want     bool
	}{
		{tagReceiveHash, "argon2", true},
		{tagReceiveHash, "aes", false},
		{tagLoadDecrypt, "aes", true},
		{tagStoreEncrypt, "envelope", true},
		{tagStoreEncrypt, "sha256", false},
		{tagSendMask, "card", true},
		{tagSendMask, "uuid", false},
		{tagSendRedact, "", true},
		{tagSendRedact, "[hidden]", true},
		{"send.shout", "loud", false},
	}

	for _, tt := range tests {
		if got := validAction(tt.tag, tt.val); got != tt.want {
			t.Errorf("validAction(%q, %q) = %v, want %v", tt.tag, tt.val, got, tt.want)
		}
	}
}
