package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionSetProperty(t *testing.T) {
	t.Parallel()

	s := NewMemorySession(":1", KeyOTP)

	ok, err := s.HasProperty(KeyOTP)
	require.NoError(t, err)
	assert.True(t, ok)

	value := []byte("12345678")
	require.NoError(t, s.SetProperty(KeyOTP, value))
	clear(value)

	got, ok := s.Property(KeyOTP)
	require.True(t, ok)
	assert.Equal(t, []byte("12345678"), got)
	assert.Equal(t, 1, s.Writes())
}

func TestMemorySessionZeroLengthValue(t *testing.T) {
	t.Parallel()

	s := NewMemorySession(":1", KeyOTP)
	require.NoError(t, s.SetProperty(KeyOTP, nil))

	got, ok := s.Property(KeyOTP)
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestMemorySessionUnsupported(t *testing.T) {
	t.Parallel()

	s := NewMemorySession(":1", KeyOTP)

	ok, err := s.HasProperty(KeyACL)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.SetProperty(KeyACL, []byte{1})
	require.ErrorIs(t, err, ErrUnsupportedProperty)
	assert.Equal(t, 0, s.Writes())
}

func TestMemoryDialer(t *testing.T) {
	t.Parallel()

	d := NewMemoryDialer(KeyACL)
	s, err := d.Dial(":2")
	require.NoError(t, err)
	assert.Same(t, d.Session, s)

	d.Err = errors.New("connection refused")
	_, err = d.Dial("")
	require.Error(t, err)

	assert.Equal(t, []string{":2", ""}, d.Dialed())
}

func TestDisplayName(t *testing.T) {
	t.Setenv("DISPLAY", ":7")

	assert.Equal(t, ":3", DisplayName(":3"))
	assert.Equal(t, ":7", DisplayName(""))
}
