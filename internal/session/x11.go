package session

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Dialer connects to an X display.
type X11Dialer struct {
	logger hclog.Logger
}

func NewX11Dialer(logger hclog.Logger) *X11Dialer {
	return &X11Dialer{logger: logger.Named("session")}
}

// DisplayName returns display, or $DISPLAY when display is empty.
func DisplayName(display string) string {
	if display != "" {
		return display
	}
	return os.Getenv("DISPLAY")
}

func (d *X11Dialer) Dial(display string) (Session, error) {
	name := DisplayName(display)
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connecting to %q: %w", name, err)
	}
	d.logger.Debug("connected", "display", name)

	return &x11Session{
		conn:   conn,
		root:   xproto.Setup(conn).DefaultScreen(conn).Root,
		name:   name,
		atoms:  make(map[string]xproto.Atom),
		logger: d.logger,
	}, nil
}

type x11Session struct {
	conn   *xgb.Conn
	root   xproto.Window
	name   string
	atoms  map[string]xproto.Atom
	logger hclog.Logger
}

func (s *x11Session) Name() string {
	return s.name
}

func (s *x11Session) atom(key string) (xproto.Atom, error) {
	if atom, ok := s.atoms[key]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(s.conn, true, uint16(len(key)), key).Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("interning %s: %w", key, err)
	}
	s.atoms[key] = reply.Atom
	return reply.Atom, nil
}

func (s *x11Session) HasProperty(key string) (bool, error) {
	atom, err := s.atom(key)
	if err != nil {
		return false, err
	}
	return atom != xproto.AtomNone, nil
}

func (s *x11Session) SetProperty(key string, value []byte) error {
	atom, err := s.atom(key)
	if err != nil {
		return err
	}
	if atom == xproto.AtomNone {
		return fmt.Errorf("%s: %w", key, ErrUnsupportedProperty)
	}

	err = xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, s.root, atom,
		xproto.AtomString, 8, uint32(len(value)), value).Check()
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	s.logger.Debug("property set", "display", s.name, "key", key, "length", len(value))
	return nil
}

func (s *x11Session) Close() error {
	s.conn.Close()
	return nil
}
