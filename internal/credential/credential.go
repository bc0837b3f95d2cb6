// Package credential acquires VNC passwords from the operator.
//
// VNC authentication only ever looks at the first eight bytes of a
// password. Anything longer is cut to that length here, with a warning, so
// what is stored is exactly what the server will compare against.
package credential

import (
	"github.com/benaskins/vncpasswd/internal/secret"
	"github.com/benaskins/vncpasswd/internal/vncauth"
)

const (
	// MaxLength is the number of significant password bytes.
	MaxLength = vncauth.BlockSize

	// MinLength is the shortest password accepted at an interactive prompt.
	MinLength = 6
)

// Truncate cuts b to MaxLength bytes, zeroing the discarded tail in place.
// It reports whether anything was cut.
func Truncate(b []byte) ([]byte, bool) {
	if len(b) <= MaxLength {
		return b, false
	}
	secret.Zero(b[MaxLength:])
	return b[:MaxLength], true
}

// Credential is a plaintext password held in a secret.Buffer.
type Credential struct {
	buf *secret.Buffer
}

// New truncates b, moves it into protected memory and zeroes b. It reports
// whether the password was truncated.
func New(b []byte) (*Credential, bool, error) {
	kept, truncated := Truncate(b)
	buf, err := secret.NewFromBytes(kept, MaxLength)
	if err != nil {
		secret.Zero(b)
		return nil, false, err
	}
	return &Credential{buf: buf}, truncated, nil
}

// Bytes returns the password. The slice is only valid until Close.
func (c *Credential) Bytes() []byte {
	return c.buf.Bytes()
}

func (c *Credential) Len() int {
	return c.buf.Len()
}

// Equal reports whether the credential matches b in constant time.
func (c *Credential) Equal(b []byte) bool {
	return c.buf.Equal(b)
}

// Close wipes the password. It is safe on a nil Credential.
func (c *Credential) Close() error {
	if c == nil {
		return nil
	}
	return c.buf.Close()
}

// Pair is a full-control password and an optional view-only password.
type Pair struct {
	Primary   *Credential
	Secondary *Credential
}

// HasSecondary reports whether a view-only password was supplied.
func (p *Pair) HasSecondary() bool {
	return p.Secondary != nil
}

// Close wipes both passwords.
func (p *Pair) Close() error {
	if p == nil {
		return nil
	}
	err := p.Primary.Close()
	if serr := p.Secondary.Close(); err == nil {
		err = serr
	}
	return err
}
