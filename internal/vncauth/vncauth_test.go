package vncauth

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestEncryptKnownVector(t *testing.T) {
	dst := make([]byte, BlockSize)
	if err := Encrypt(dst, []byte("password")); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if got, want := hex.EncodeToString(dst), "dbd83cfd727a1458"; got != want {
		t.Errorf("Encrypt(password) = %s, want %s", got, want)
	}
}

func TestRoundTripShortPassword(t *testing.T) {
	enc := make([]byte, BlockSize)
	if err := Encrypt(enc, []byte("secret1")); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(enc, []byte("secret")) {
		t.Fatal("ciphertext contains plaintext")
	}

	dec := make([]byte, BlockSize)
	if err := Decrypt(dec, enc); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got := string(Unpad(dec)); got != "secret1" {
		t.Errorf("round trip = %q, want %q", got, "secret1")
	}
}

func TestEncryptRejectsBadSizes(t *testing.T) {
	if err := Encrypt(make([]byte, 4), []byte("abc")); err == nil {
		t.Error("expected error for short destination")
	}
	if err := Encrypt(make([]byte, BlockSize), []byte("123456789")); err == nil {
		t.Error("expected error for plaintext longer than a block")
	}
	if err := Decrypt(make([]byte, BlockSize), make([]byte, 3)); err == nil {
		t.Error("expected error for short ciphertext")
	}
}

func TestUnpad(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{'a', 'b', 0, 0, 0, 0, 0, 0}, "ab"},
		{[]byte("12345678"), "12345678"},
		{make([]byte, 8), ""},
	}
	for _, tc := range tests {
		if got := string(Unpad(tc.in)); got != tc.want {
			t.Errorf("Unpad(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
