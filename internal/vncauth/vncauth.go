// Package vncauth implements the fixed-key DES obfuscation VNC servers use
// for stored passwords.
//
// The key is public and identical in every VNC implementation, so this is
// obfuscation rather than protection; the file permissions are what keep
// the password private.
package vncauth

import (
	"crypto/des"
	"fmt"
	"math/bits"
)

// BlockSize is the size of one encrypted password slot. Passwords longer
// than this are never significant.
const BlockSize = 8

// fixedKey is the well-known VNC password key.
var fixedKey = [BlockSize]byte{23, 82, 107, 6, 35, 78, 88, 7}

// desKey returns fixedKey with each byte bit-reversed. The reference DES
// code VNC was built on reads key bits in the opposite order to crypto/des.
func desKey() []byte {
	key := make([]byte, BlockSize)
	for i, b := range fixedKey {
		key[i] = bits.Reverse8(b)
	}
	return key
}

// Encrypt writes the encrypted form of plaintext into dst, which must be
// BlockSize bytes. plaintext is zero padded; it must not be longer than
// BlockSize.
func Encrypt(dst, plaintext []byte) error {
	if len(dst) != BlockSize {
		return fmt.Errorf("vncauth: destination must be %d bytes, got %d", BlockSize, len(dst))
	}
	if len(plaintext) > BlockSize {
		return fmt.Errorf("vncauth: password longer than %d bytes", BlockSize)
	}
	block, err := des.NewCipher(desKey())
	if err != nil {
		return fmt.Errorf("vncauth: %w", err)
	}

	var padded [BlockSize]byte
	copy(padded[:], plaintext)
	block.Encrypt(dst, padded[:])
	clear(padded[:])
	return nil
}

// Decrypt reverses Encrypt. The result keeps its zero padding; use
// Unpad to recover the password length.
func Decrypt(dst, ciphertext []byte) error {
	if len(dst) != BlockSize || len(ciphertext) != BlockSize {
		return fmt.Errorf("vncauth: blocks must be %d bytes", BlockSize)
	}
	block, err := des.NewCipher(desKey())
	if err != nil {
		return fmt.Errorf("vncauth: %w", err)
	}
	block.Decrypt(dst, ciphertext)
	return nil
}

// Unpad returns the password stored in a decrypted block, which ends at
// the first zero byte.
func Unpad(block []byte) []byte {
	for i, b := range block {
		if b == 0 {
			return block[:i]
		}
	}
	return block
}
