package session

import (
	"fmt"
	"slices"
	"sync"
)

// MemoryDialer is an in-memory Dialer for testing. Every Dial returns the
// same MemorySession.
type MemoryDialer struct {
	Session *MemorySession
	// Err, when set, is returned by Dial.
	Err error

	mu     sync.Mutex
	dialed []string
}

// NewMemoryDialer returns a dialer whose display exposes the given keys.
func NewMemoryDialer(keys ...string) *MemoryDialer {
	return &MemoryDialer{Session: NewMemorySession(":1", keys...)}
}

func (d *MemoryDialer) Dial(display string) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialed = append(d.dialed, display)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Session, nil
}

// Dialed returns the display names passed to Dial, in order.
func (d *MemoryDialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.dialed)
}

// MemorySession records property writes.
type MemorySession struct {
	mu         sync.Mutex
	name       string
	supported  map[string]bool
	properties map[string][]byte
	writes     int
	closed     int
}

func NewMemorySession(name string, keys ...string) *MemorySession {
	s := &MemorySession{
		name:       name,
		supported:  make(map[string]bool),
		properties: make(map[string][]byte),
	}
	for _, k := range keys {
		s.supported[k] = true
	}
	return s
}

func (s *MemorySession) Name() string {
	return s.name
}

func (s *MemorySession) HasProperty(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supported[key], nil
}

func (s *MemorySession) SetProperty(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.supported[key] {
		return fmt.Errorf("%s: %w", key, ErrUnsupportedProperty)
	}
	// Callers wipe their buffers after publishing, so keep a copy.
	s.properties[key] = slices.Clone(value)
	if s.properties[key] == nil {
		s.properties[key] = []byte{}
	}
	s.writes++
	return nil
}

// Property returns the last value written under key.
func (s *MemorySession) Property(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.properties[key]
	return v, ok
}

// Writes returns the number of successful SetProperty calls.
func (s *MemorySession) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Closed returns how many times Close was called.
func (s *MemorySession) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MemorySession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}
