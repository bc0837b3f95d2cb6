// Package acl publishes VNC user access control changes to a running
// server.
//
// An entry is written to the VNC_ACL root window property as one control
// byte followed by the raw username. The server applies it and the
// property carries no further state.
package acl

import (
	"github.com/hashicorp/go-hclog"

	"github.com/benaskins/vncpasswd/internal/audit"
	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/session"
)

// MaxUserLength is the longest username the property encoding carries.
const MaxUserLength = 63

// Control byte flags.
const (
	FlagAdd      byte = 0x01
	FlagViewOnly byte = 0x10
)

// Entry adds or removes one user.
type Entry struct {
	User     string
	Add      bool
	ViewOnly bool
}

// Validate checks the username fits the encoding.
func (e Entry) Validate() error {
	if e.User == "" {
		return errs.Validationf("missing the username!")
	}
	if len(e.User) > MaxUserLength {
		return errs.Validationf("username is too large (%d bytes, at most %d)", len(e.User), MaxUserLength)
	}
	return nil
}

// Control returns the control byte for the entry.
func (e Entry) Control() byte {
	var b byte
	if e.Add {
		b |= FlagAdd
	}
	if e.ViewOnly {
		b |= FlagViewOnly
	}
	return b
}

// Encode returns the property payload for the entry.
func (e Entry) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	payload := make([]byte, 0, 1+len(e.User))
	payload = append(payload, e.Control())
	return append(payload, e.User...), nil
}

func (e Entry) action() audit.Action {
	if e.Add {
		return audit.ActionACLAdd
	}
	return audit.ActionACLRemove
}

// Distributor publishes entries to a display.
type Distributor struct {
	dialer session.Dialer
	audit  *audit.Logger
	logger hclog.Logger
}

// NewDistributor returns a Distributor. auditLog may be nil.
func NewDistributor(dialer session.Dialer, auditLog *audit.Logger, logger hclog.Logger) *Distributor {
	return &Distributor{dialer: dialer, audit: auditLog, logger: logger.Named("acl")}
}

// Publish validates entry and writes it to the display. Nothing is sent if
// the entry is invalid.
func (d *Distributor) Publish(display string, entry Entry) error {
	payload, err := entry.Encode()
	if err != nil {
		return err
	}

	s, err := d.dialer.Dial(display)
	if err != nil {
		return errs.Protocol(err, "unable to open display %q", session.DisplayName(display))
	}
	defer s.Close()

	err = d.publish(s, payload)
	d.record(s.Name(), entry, err)
	if err != nil {
		return err
	}
	d.logger.Info("access control entry published", "display", s.Name(), "user", entry.User,
		"add", entry.Add, "view_only", entry.ViewOnly)
	return nil
}

func (d *Distributor) publish(s session.Session, payload []byte) error {
	ok, err := s.HasProperty(session.KeyACL)
	if err != nil {
		return errs.Protocol(err, "unable to query display %q", s.Name())
	}
	if !ok {
		return errs.Protocol(session.ErrUnsupportedProperty,
			"The X server %q does not support VNC user access control lists", s.Name())
	}
	if err := s.SetProperty(session.KeyACL, payload); err != nil {
		return errs.Protocol(err, "Cannot publish access control entry to %q", s.Name())
	}
	return nil
}

func (d *Distributor) record(target string, entry Entry, err error) {
	e := audit.Entry{Action: entry.action(), Target: target, User: entry.User, ViewOnly: entry.ViewOnly}
	if err != nil {
		e.Error = err.Error()
	}
	if lerr := d.audit.Log(e); lerr != nil {
		d.logger.Warn("audit log write failed", "error", lerr)
	}
}
