package otp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Strength describes how unpredictable a RandomSource is.
type Strength int

const (
	// StrengthStrong is a cryptographically secure source.
	StrengthStrong Strength = iota
	// StrengthWeak is a generator seeded from the wall clock. Anyone who
	// can guess roughly when a password was generated can reproduce it.
	StrengthWeak
)

func (s Strength) String() string {
	switch s {
	case StrengthStrong:
		return "strong"
	case StrengthWeak:
		return "weak"
	default:
		return fmt.Sprintf("Strength(%d)", int(s))
	}
}

// RandomSource produces the numbers one-time passwords are made from.
type RandomSource interface {
	Uint32() (uint32, error)
	Strength() Strength
}

// CryptoSource reads from a cryptographically secure reader.
type CryptoSource struct {
	Reader io.Reader
}

// NewCryptoSource returns a source backed by crypto/rand.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{Reader: rand.Reader}
}

func (s *CryptoSource) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(s.Reader, b[:]); err != nil {
		return 0, fmt.Errorf("reading random number: %w", err)
	}
	v := binary.LittleEndian.Uint32(b[:])
	clear(b[:])
	return v, nil
}

func (s *CryptoSource) Strength() Strength {
	return StrengthStrong
}

// TimeSeededSource is the fallback used when no secure source works.
type TimeSeededSource struct {
	rng *mrand.Rand
}

// NewTimeSeededSource seeds a PCG generator from the current time.
func NewTimeSeededSource(now time.Time) *TimeSeededSource {
	return &TimeSeededSource{rng: mrand.New(mrand.NewPCG(uint64(now.Unix()), uint64(now.Nanosecond())))}
}

func (s *TimeSeededSource) Uint32() (uint32, error) {
	return s.rng.Uint32(), nil
}

func (s *TimeSeededSource) Strength() Strength {
	return StrengthWeak
}

// DefaultSource returns the secure source if it can produce a number, and
// the time-seeded fallback otherwise. Callers can tell which one they got
// from Strength.
func DefaultSource(logger hclog.Logger) RandomSource {
	return pickSource(NewCryptoSource(), time.Now(), logger)
}

func pickSource(strong *CryptoSource, now time.Time, logger hclog.Logger) RandomSource {
	_, err := strong.Uint32()
	if err == nil {
		return strong
	}
	logger.Warn("secure random source unavailable, falling back to a time-seeded generator", "error", err)
	return NewTimeSeededSource(now)
}
