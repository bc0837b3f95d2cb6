package passwdfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/vncpasswd/internal/credential"
	"github.com/benaskins/vncpasswd/internal/errs"
)

func newPair(t *testing.T, primary string, secondary ...string) *credential.Pair {
	t.Helper()
	p, _, err := credential.New([]byte(primary))
	require.NoError(t, err)
	pair := &credential.Pair{Primary: p}
	if len(secondary) > 0 {
		s, _, err := credential.New([]byte(secondary[0]))
		require.NoError(t, err)
		pair.Secondary = s
	}
	t.Cleanup(func() { pair.Close() })
	return pair
}

func TestPersistPrimaryOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, Persist(path, newPair(t, "secret1")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, int64(8), info.Size())

	got, err := Read(path)
	require.NoError(t, err)
	defer got.Close()

	assert.Equal(t, "secret1", string(got.Primary.Bytes()))
	assert.False(t, got.HasSecondary())
}

func TestPersistWithViewOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, Persist(path, newPair(t, "fullpw1", "viewpw1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 16)
	assert.NotContains(t, string(data), "fullpw1")
	assert.NotContains(t, string(data), "viewpw1")

	got, err := Read(path)
	require.NoError(t, err)
	defer got.Close()

	assert.Equal(t, "fullpw1", string(got.Primary.Bytes()))
	require.True(t, got.HasSecondary())
	assert.Equal(t, "viewpw1", string(got.Secondary.Bytes()))
}

func TestPersistSlotsAreIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	single := filepath.Join(dir, "single")
	double := filepath.Join(dir, "double")
	require.NoError(t, Persist(single, newPair(t, "samepw1")))
	require.NoError(t, Persist(double, newPair(t, "samepw1", "samepw1")))

	a, err := os.ReadFile(single)
	require.NoError(t, err)
	b, err := os.ReadFile(double)
	require.NoError(t, err)

	assert.Equal(t, a, b[:8])
	assert.Equal(t, a, b[8:])
}

func TestPersistReplacesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xff}, 32), 0o644))

	require.NoError(t, Persist(path, newPair(t, "secret1")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, int64(8), info.Size())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestPersistRejectsStream(t *testing.T) {
	t.Parallel()

	err := Persist(StreamPath, newPair(t, "secret1"))
	require.ErrorIs(t, err, errs.ErrUsage)
}

func TestPersistUnwritableDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "passwd")
	err := Persist(path, newPair(t, "secret1"))
	require.ErrorIs(t, err, errs.ErrIO)
	assert.Contains(t, err.Error(), "Cannot write password file")
}

func TestWriteStream(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, Write(&out, newPair(t, "fullpw1", "viewpw1")))
	require.Equal(t, 16, out.Len())

	primary, secondary, err := Decode(out.Bytes())
	require.NoError(t, err)
	defer primary.Close()
	defer secondary.Close()

	assert.Equal(t, "fullpw1", string(primary.Bytes()))
	assert.Equal(t, "viewpw1", string(secondary.Bytes()))
}

func TestDecodeEmptySecondSlot(t *testing.T) {
	t.Parallel()

	empty, _, err := credential.New(nil)
	require.NoError(t, err)
	pair := newPair(t, "secret1")
	pair.Secondary = empty

	var out bytes.Buffer
	require.NoError(t, Write(&out, pair))

	primary, secondary, err := Decode(out.Bytes())
	require.NoError(t, err)
	defer primary.Close()

	assert.Equal(t, "secret1", string(primary.Bytes()))
	assert.Nil(t, secondary)
}

func TestDecodeTooShort(t *testing.T) {
	t.Parallel()

	_, _, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}
