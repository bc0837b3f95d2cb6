package acl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaskins/vncpasswd/internal/audit"
	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/session"
)

func TestControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		add, viewOnly bool
		want          byte
	}{
		{add: false, viewOnly: false, want: 0x00},
		{add: true, viewOnly: false, want: 0x01},
		{add: false, viewOnly: true, want: 0x10},
		{add: true, viewOnly: true, want: 0x11},
	}

	for _, tc := range tests {
		e := Entry{User: "alice", Add: tc.add, ViewOnly: tc.viewOnly}
		assert.Equal(t, tc.want, e.Control(), "add=%v view_only=%v", tc.add, tc.viewOnly)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	payload, err := Entry{User: "alice", Add: true, ViewOnly: true}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 'a', 'l', 'i', 'c', 'e'}, payload)

	payload, err = Entry{User: "bob"}.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'b', 'o', 'b'}, payload)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Entry{User: "a"}.Validate())
	require.NoError(t, Entry{User: strings.Repeat("u", MaxUserLength)}.Validate())

	err := Entry{}.Validate()
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "missing the username")

	err = Entry{User: strings.Repeat("u", MaxUserLength+1)}.Validate()
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "username is too large")
}

func TestPublish(t *testing.T) {
	t.Parallel()

	dialer := session.NewMemoryDialer(session.KeyACL)
	d := NewDistributor(dialer, nil, hclog.NewNullLogger())

	require.NoError(t, d.Publish(":1", Entry{User: "alice", Add: true, ViewOnly: true}))

	got, ok := dialer.Session.Property(session.KeyACL)
	require.True(t, ok)
	assert.Equal(t, []byte{0x11, 'a', 'l', 'i', 'c', 'e'}, got)
	assert.Equal(t, 1, dialer.Session.Closed())
}

func TestPublishRejectsBadUserBeforeDialing(t *testing.T) {
	t.Parallel()

	dialer := session.NewMemoryDialer(session.KeyACL)
	d := NewDistributor(dialer, nil, hclog.NewNullLogger())

	for _, user := range []string{"", strings.Repeat("x", 64)} {
		err := d.Publish(":1", Entry{User: user, Add: true})
		require.ErrorIs(t, err, errs.ErrValidation)
	}
	assert.Empty(t, dialer.Dialed())
}

func TestPublishUnsupportedDisplay(t *testing.T) {
	t.Parallel()

	dialer := session.NewMemoryDialer(session.KeyOTP)
	d := NewDistributor(dialer, nil, hclog.NewNullLogger())

	err := d.Publish(":1", Entry{User: "alice", Add: true})
	require.ErrorIs(t, err, errs.ErrProtocol)
	require.ErrorIs(t, err, session.ErrUnsupportedProperty)
	assert.Contains(t, err.Error(), "does not support VNC user access control lists")
	assert.Equal(t, 0, dialer.Session.Writes())
}

func TestPublishDialFailure(t *testing.T) {
	t.Parallel()

	dialer := session.NewMemoryDialer(session.KeyACL)
	dialer.Err = errors.New("no such display")
	d := NewDistributor(dialer, nil, hclog.NewNullLogger())

	err := d.Publish(":5", Entry{User: "alice"})
	require.ErrorIs(t, err, errs.ErrProtocol)
	assert.Contains(t, err.Error(), "unable to open display")
}

func TestPublishAudited(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.log")
	auditLog, err := audit.NewLogger(path, "root")
	require.NoError(t, err)
	defer auditLog.Close()

	dialer := session.NewMemoryDialer(session.KeyACL)
	d := NewDistributor(dialer, auditLog, hclog.NewNullLogger())
	require.NoError(t, d.Publish(":1", Entry{User: "alice", Add: true}))
	require.NoError(t, d.Publish(":1", Entry{User: "alice"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"acl_add"`)
	assert.Contains(t, string(data), `"action":"acl_remove"`)
	assert.Contains(t, string(data), `"user":"alice"`)
}
