package errs

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesKindAndCause(t *testing.T) {
	t.Parallel()

	err := IO(fs.ErrPermission, "Error creating directory %s", "/home/u/.vnc")

	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrUsage)
	assert.Equal(t, "Error creating directory /home/u/.vnc: permission denied", err.Error())
}

func TestErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := Usagef("-f is incompatible with -o")

	assert.Equal(t, "-f is incompatible with -o", err.Error())
	assert.ErrorIs(t, err, ErrUsage)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"usage", Usagef("x"), ErrUsage},
		{"environment", Environmentf("x"), ErrEnvironment},
		{"validation", Validationf("x"), ErrValidation},
		{"io", IO(nil, "x"), ErrIO},
		{"protocol", Protocol(errors.New("refused"), "x"), ErrProtocol},
		{"unclassified", errors.New("x"), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}
