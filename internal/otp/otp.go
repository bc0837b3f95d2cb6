// Package otp generates one-time VNC passwords and publishes them to a
// running server.
//
// A one-time password is eight decimal digits. It is printed for the
// operator to pass on out of band, written to the VNC_OTP property and
// never stored. The server consumes it on the next successful login.
package otp

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	"github.com/benaskins/vncpasswd/internal/audit"
	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/secret"
	"github.com/benaskins/vncpasswd/internal/session"
)

// Length is the number of digits in a one-time password.
const Length = 8

const modulus = 100_000_000

// FormatPassword writes v modulo 10^8 into dst as exactly Length decimal
// digits, zero padded on the left. dst must be Length bytes.
func FormatPassword(dst []byte, v uint32) {
	if len(dst) != Length {
		panic(fmt.Sprintf("otp: destination must be %d bytes, got %d", Length, len(dst)))
	}
	n := v % modulus
	for i := Length - 1; i >= 0; i-- {
		dst[i] = byte('0' + n%10)
		n /= 10
	}
}

// Distributor publishes one-time passwords.
type Distributor struct {
	dialer session.Dialer
	random RandomSource
	out    io.Writer
	audit  *audit.Logger
	logger hclog.Logger
	digits lipgloss.Style
}

// NewDistributor returns a Distributor that announces passwords on out.
// auditLog may be nil.
func NewDistributor(dialer session.Dialer, random RandomSource, out io.Writer, auditLog *audit.Logger, logger hclog.Logger) *Distributor {
	return &Distributor{
		dialer: dialer,
		random: random,
		out:    out,
		audit:  auditLog,
		logger: logger.Named("otp"),
		digits: lipgloss.NewRenderer(out).NewStyle().Bold(true),
	}
}

func (d *Distributor) connect(display string) (session.Session, error) {
	s, err := d.dialer.Dial(display)
	if err != nil {
		return nil, errs.Protocol(err, "unable to open display %q", session.DisplayName(display))
	}
	ok, err := s.HasProperty(session.KeyOTP)
	if err != nil {
		s.Close()
		return nil, errs.Protocol(err, "unable to query display %q", s.Name())
	}
	if !ok {
		s.Close()
		return nil, errs.Protocol(session.ErrUnsupportedProperty,
			"The X display %q does not support VNC one-time passwords", s.Name())
	}
	return s, nil
}

// Publish generates a full-control password and, if wantView is set, an
// independent view-only password, announces them and publishes them to
// the display.
func (d *Distributor) Publish(display string, wantView bool) (err error) {
	s, err := d.connect(display)
	if err != nil {
		return err
	}
	defer s.Close()
	defer func() { d.record(audit.ActionOTPPublish, s.Name(), wantView, err) }()

	if d.random.Strength() != StrengthStrong {
		d.logger.Warn("one-time password generated from a weak random source", "strength", d.random.Strength())
	}

	size := Length
	if wantView {
		size = 2 * Length
	}
	payload, err := secret.New(size)
	if err != nil {
		return errs.IO(err, "Can't allocate password buffer")
	}
	defer payload.Close()

	full := payload.Bytes()[:Length]
	if err := d.fill(full); err != nil {
		return err
	}
	d.announce("Full control one-time password", full)

	if wantView {
		view := payload.Bytes()[Length:]
		if err := d.fill(view); err != nil {
			return err
		}
		d.announce("View-only one-time password", view)
	}

	if err := s.SetProperty(session.KeyOTP, payload.Bytes()); err != nil {
		return errs.Protocol(err, "Cannot publish one-time password to %q", s.Name())
	}
	return nil
}

// Revoke clears the one-time password on the display.
func (d *Distributor) Revoke(display string) (err error) {
	s, err := d.connect(display)
	if err != nil {
		return err
	}
	defer s.Close()
	defer func() { d.record(audit.ActionOTPRevoke, s.Name(), false, err) }()

	if err := s.SetProperty(session.KeyOTP, []byte{}); err != nil {
		return errs.Protocol(err, "Cannot revoke one-time password on %q", s.Name())
	}
	return nil
}

func (d *Distributor) fill(dst []byte) error {
	v, err := d.random.Uint32()
	if err != nil {
		return errs.IO(err, "Could not read random number")
	}
	FormatPassword(dst, v)
	return nil
}

func (d *Distributor) announce(label string, digits []byte) {
	fmt.Fprintf(d.out, "%s: %s\n", label, d.digits.Render(string(digits)))
}

func (d *Distributor) record(action audit.Action, target string, viewOnly bool, err error) {
	entry := audit.Entry{Action: action, Target: target, ViewOnly: viewOnly}
	if err != nil {
		entry.Error = err.Error()
	}
	if lerr := d.audit.Log(entry); lerr != nil {
		d.logger.Warn("audit log write failed", "error", lerr)
	}
}
