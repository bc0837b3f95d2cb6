//go:build unix

// Package securedir provisions the directory that holds the VNC password
// file and refuses to use one that another identity could tamper with.
package securedir

import (
	"errors"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/unix"

	"github.com/benaskins/vncpasswd/internal/errs"
)

// Provisioner creates and checks password directories.
type Provisioner struct {
	logger hclog.Logger
	getuid func() int
}

// New returns a Provisioner that checks ownership against the real uid of
// the process.
func New(logger hclog.Logger) *Provisioner {
	return &Provisioner{logger: logger.Named("securedir"), getuid: unix.Getuid}
}

// Ensure creates path with owner-only permissions if it does not exist,
// then checks that it is a directory (symlinks are not followed) owned by
// the invoking user. When strict is set, any group or other permission bit
// is an error. A pre-existing directory is never modified.
func (p *Provisioner) Ensure(path string, strict bool) error {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return errs.IO(err, "lstat() failed for %s", path)
		}
		p.logger.Info("VNC directory does not exist, creating", "path", path)
		if err := os.Mkdir(path, Dir); err != nil {
			return errs.IO(err, "Error creating directory %s", path)
		}
	}

	if err := unix.Lstat(path, &st); err != nil {
		return errs.IO(err, "Error in lstat() for %s", path)
	}
	if uint32(st.Mode)&unix.S_IFMT != unix.S_IFDIR {
		return errs.IO(nil, "Error: %s is not a directory", path)
	}
	if int(st.Uid) != p.getuid() {
		return errs.IO(nil, "Error: bad ownership on %s", path)
	}
	if strict && uint32(st.Mode)&groupOther != 0 {
		return errs.IO(nil, "Error: bad access modes on %s (%#o)", path, uint32(st.Mode)&0o777)
	}
	return nil
}
