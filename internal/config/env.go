package config

import (
	"github.com/benaskins/vncpasswd/internal/errs"
)

// Bounds on environment variables used to build paths.
const (
	MaxHomeLength = 240
	MaxUserLength = 32
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// Getenv returns the value of name, failing if it is unset or longer than
// maxLen bytes.
func Getenv(lookup LookupFunc, name string, maxLen int) (string, error) {
	v, ok := lookup(name)
	if !ok {
		return "", errs.Environmentf("Error: no %s environment variable", name)
	}
	if len(v) > maxLen {
		return "", errs.Environmentf("Error: %s environment variable string too long", name)
	}
	return v, nil
}
