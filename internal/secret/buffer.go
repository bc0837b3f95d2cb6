// Package secret provides a bounded buffer for plaintext passwords.
//
// On Linux the backing memory is allocated outside the Go heap with
// mmap(MAP_ANONYMOUS), locked into RAM with mlock and excluded from core
// dumps with MADV_DONTDUMP. Elsewhere it falls back to a heap slice. In both
// cases Close zeroes the contents, and every caller that acquires a Buffer
// is expected to defer its Close.
package secret

import (
	"crypto/subtle"
	"fmt"
	"sync"
)

// Buffer holds sensitive data with a fixed capacity and a variable length.
// A Buffer must not be copied after creation. After Close, any access to
// its contents panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	closed bool
}

// New allocates a zero-filled buffer of the given capacity. Its length
// starts equal to the capacity; use Truncate to shrink it.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}
	data, err := alloc(size)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data, length: size}, nil
}

// NewFromBytes allocates a buffer of the given capacity and copies source
// into it. source must fit; the caller's slice is zeroed either way.
func NewFromBytes(source []byte, size int) (*Buffer, error) {
	defer Zero(source)

	if len(source) > size {
		return nil, fmt.Errorf("secret: %d bytes do not fit in a %d byte buffer", len(source), size)
	}
	buffer, err := New(size)
	if err != nil {
		return nil, err
	}
	copy(buffer.data, source)
	buffer.length = len(source)
	return buffer, nil
}

// Bytes returns the secret data. The returned slice points directly into
// the protected region; do not hold it beyond the lifetime of the Buffer.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.data[:b.length]
}

// String returns a heap copy of the data. Only use it at boundaries that
// require a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Len returns the length of the secret data.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.length
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

// Truncate shortens the data to n bytes and zeroes everything after it.
func (b *Buffer) Truncate(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("secret: truncate of closed buffer")
	}
	if n < 0 || n > b.length {
		panic(fmt.Sprintf("secret: truncate to %d out of range [0, %d]", n, b.length))
	}
	Zero(b.data[n:])
	b.length = n
}

// Equal reports whether the buffer holds exactly other, in constant time
// with respect to the contents.
func (b *Buffer) Equal(other []byte) bool {
	return subtle.ConstantTimeCompare(b.Bytes(), other) == 1
}

// Close zeroes the contents and releases the memory. Close is idempotent
// and safe on a nil Buffer.
func (b *Buffer) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.data)
	err := release(b.data)
	b.data = nil
	b.length = 0
	return err
}

// Zero overwrites data with zeros.
func Zero(data []byte) {
	clear(data)
}
