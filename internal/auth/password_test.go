package auth

import (
	"testing"
)

func TestHash(t *testing.T) {
	for _, alg := range []string{"bcrypt", "argon2id"} {
		t.Run(alg, func(t *testing.T) {
			h, err := NewHasher(alg)
			if err != nil {
				t.Fatalf("NewHasher(%q) error = %+v", alg, err)
			}

			pw := "password1234"
			hash, err := h.Hash(pw)
			if err != nil {
				t.Fatalf("password hash fail #1: %+v", err)
			}

			hash2, err := h.Hash(pw)
			if err != nil {
				t.Fatalf("password hash fail #2: %+v", err)
			}

			if hash == hash2 {
				t.Fatalf("hash and hash2 are the same hashes; should be different: %s, %s", hash, hash2)
			}
			if hash == pw {
				t.Fatal("hash equals the plaintext password")
			}
		})
	}
}

func TestVerify(t *testing.T) {
	bc, _ := NewHasher("bcrypt")
	ar, _ := NewHasher("argon2id")

	bcHash, err := bc.Hash("mypassword1234")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	arHash, err := ar.Hash("mypassword1234")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	tests := []struct {
		name      string
		hasher    *Hasher
		checkPw   string
		hash      string
		wantErr   bool
		wantMatch bool
	}{
		{"bcrypt correct pw", bc, "mypassword1234", bcHash, false, true},
		{"bcrypt incorrect pw", bc, "passwordDD1234", bcHash, false, false},
		{"argon2id correct pw", ar, "mypassword1234", arHash, false, true},
		{"argon2id incorrect pw", ar, "passwordDD1234", arHash, false, false},
		{"bcrypt hasher verifies argon2id hash", bc, "mypassword1234", arHash, false, true},
		{"argon2id hasher verifies bcrypt hash", ar, "mypassword1234", bcHash, false, true},
		{"wrong hash", bc, "mypassword1234", "not-a-hash", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isMatch, err := tt.hasher.Verify(tt.checkPw, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %+v", err)
			}
			if isMatch != tt.wantMatch {
				t.Errorf("Verify() = %v, want %v", isMatch, tt.wantMatch)
			}
		})
	}
}

func TestNewHasher_Unsupported(t *testing.T) {
	if _, err := NewHasher("md5"); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestMaxPasswordBytes(t *testing.T) {
	tests := []struct {
		alg  string
		want int
	}{
		{"bcrypt", BcryptMaxBytes},
		{"argon2id", 0},
	}
	for _, tt := range tests {
		h, err := NewHasher(tt.alg)
		if err != nil {
			t.Fatalf("NewHasher(%q) error = %+v", tt.alg, err)
		}
		if got := h.MaxPasswordBytes(); got != tt.want {
			t.Errorf("%s: MaxPasswordBytes() = %d, want %d", tt.alg, got, tt.want)
		}
	}
}
