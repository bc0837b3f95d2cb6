// Package session talks to a running VNC X server through properties on
// its root window.
//
// The server interns the atoms it understands at startup. A property key
// that was never interned means the server does not support the feature,
// so lookups never create atoms.
package session

import "errors"

// Well-known property keys.
const (
	KeyOTP = "VNC_OTP"
	KeyACL = "VNC_ACL"
)

// ErrUnsupportedProperty is returned when the server does not expose the
// requested property key.
var ErrUnsupportedProperty = errors.New("property not supported by the display")

// Session is a connection to one display.
type Session interface {
	// Name is the display name as the operator would recognize it.
	Name() string

	// HasProperty reports whether the server exposes key.
	HasProperty(key string) (bool, error)

	// SetProperty replaces the value stored under key. A zero-length value
	// is valid.
	SetProperty(key string, value []byte) error

	Close() error
}

// Dialer opens sessions. An empty display selects the default one.
type Dialer interface {
	Dial(display string) (Session, error)
}
