// Package config turns command-line input, the environment and the
// optional config file into a single immutable Options value.
//
// Mode selection happens here, before any file or display is touched:
// exactly one of file, stdin, OTP or ACL mode is active, and the
// incompatible combinations are usage errors.
package config

import (
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/benaskins/vncpasswd/internal/errs"
)

// Mode is the operation one invocation performs.
type Mode int

const (
	// ModeFile prompts for passwords and writes them to a file.
	ModeFile Mode = iota
	// ModeStdin reads passwords from standard input and writes the
	// encrypted result to standard output.
	ModeStdin
	// ModeOTP sets or clears a one-time password on a display.
	ModeOTP
	// ModeACL adds or removes a user on a display.
	ModeACL
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeStdin:
		return "stdin"
	case ModeOTP:
		return "otp"
	case ModeACL:
		return "acl"
	default:
		return "unknown"
	}
}

const (
	// DirName is the per-user password directory under $HOME.
	DirName = ".vnc"
	// FileName is the password file inside the directory.
	FileName = "passwd"
	// StdinPath stands for standard input/output.
	StdinPath = "-"

	maxPathLength = 262
)

// Flags is the raw command-line input.
type Flags struct {
	ViewOnly bool
	Stdin    bool
	Temp     bool
	OTP      bool
	ClearOTP bool
	Add      string
	Remove   string
	Display  string
	LogLevel string
	AuditLog string
	Config   string

	// Set by the command from pflag's Changed, since an empty username
	// must still select ACL mode.
	AddSet    bool
	RemoveSet bool

	Args []string
}

// BindFlags registers the command-line flags on fs.
func BindFlags(fs *pflag.FlagSet, f *Flags) {
	fs.BoolVarP(&f.ViewOnly, "view-only", "v", false, "also set a view-only password, or make the ACL entry view-only")
	fs.BoolVarP(&f.Stdin, "stdin", "f", false, "read passwords from stdin and write the encrypted file to stdout")
	fs.BoolVarP(&f.Temp, "temp", "t", false, "use /tmp/$USER-vnc/passwd with strict directory checks")
	fs.BoolVarP(&f.OTP, "otp", "o", false, "generate a one-time password and set it on the display")
	fs.BoolVarP(&f.ClearOTP, "clear-otp", "c", false, "clear the one-time password on the display")
	fs.StringVarP(&f.Add, "add", "a", "", "grant `USER` access to the display")
	fs.StringVarP(&f.Remove, "remove", "r", "", "revoke `USER`'s access to the display")
	fs.StringVarP(&f.Display, "display", "d", "", "X display of the VNC server (default $DISPLAY)")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&f.AuditLog, "audit-log", "", "append an audit record of each change to `FILE`")
	fs.StringVar(&f.Config, "config", "", "config file (default $VNCPASSWD_CONFIG or ~/.vnc/vncpasswd.yaml)")
}

// Options is the resolved configuration for one invocation. It is built
// once and passed by value.
type Options struct {
	Mode     Mode
	ViewOnly bool

	// File mode. Dir is empty when the password file was named explicitly
	// and no directory is provisioned.
	File   string
	Dir    string
	Strict bool

	// OTP mode.
	Revoke bool

	// ACL mode.
	User string
	Add  bool

	Display  string
	LogLevel string
	AuditLog string
	Actor    string
}

// Validate applies the mode rules that depend on f alone. It does no I/O
// and reads no environment, so a bad combination is reported before
// anything else happens.
func Validate(f Flags) error {
	otp := f.OTP || f.ClearOTP
	acl := f.AddSet || f.RemoveSet

	if f.AddSet && f.RemoveSet {
		return errs.Usagef("Error: -a and -r are mutually exclusive")
	}
	if f.Stdin && f.Temp {
		return errs.Usagef("Error: -f and -t are mutually exclusive")
	}
	if len(f.Args) > 1 {
		return errs.Usagef("Error: too many arguments")
	}

	switch {
	case otp:
		switch {
		case f.Stdin:
			return errs.Usagef("Error: -f is incompatible with -o")
		case f.Temp:
			return errs.Usagef("Error: -t is incompatible with -o")
		case acl:
			return errs.Usagef("Error: -a and -r are incompatible with -o")
		case len(f.Args) > 0:
			return errs.Usagef("Error: cannot specify filename with -o")
		}
	case acl:
		switch {
		case f.Stdin:
			return errs.Usagef("Error: -f is incompatible with -a and -r")
		case f.Temp:
			return errs.Usagef("Error: -t is incompatible with -a and -r")
		case len(f.Args) > 0:
			return errs.Usagef("Error: cannot specify filename with -a and -r")
		}
	case len(f.Args) == 1:
		if len(f.Args[0]) > maxPathLength {
			return errs.Usagef("Error: file name too long")
		}
		if f.Stdin {
			return errs.Usagef("Error: cannot specify filename with -f")
		}
	}
	return nil
}

// Resolve validates f and builds Options. cfg supplies defaults for
// values f leaves empty. Environment variables are only consulted by the
// modes that need them.
func Resolve(f Flags, cfg *Config, lookup LookupFunc) (Options, error) {
	if err := Validate(f); err != nil {
		return Options{}, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	envLogLevel, _ := lookup(EnvLogLevel)
	opts := Options{
		ViewOnly: f.ViewOnly,
		Display:  firstNonEmpty(f.Display, cfg.Display),
		LogLevel: firstNonEmpty(f.LogLevel, envLogLevel, cfg.LogLevel, "warn"),
		AuditLog: firstNonEmpty(f.AuditLog, cfg.AuditLog),
	}
	opts.Actor, _ = lookup("USER")

	switch {
	case f.OTP || f.ClearOTP:
		opts.Mode = ModeOTP
		opts.Revoke = f.ClearOTP
		return opts, nil

	case f.AddSet || f.RemoveSet:
		opts.Mode = ModeACL
		opts.Add = f.AddSet
		opts.User = f.Add
		if f.RemoveSet {
			opts.User = f.Remove
		}
		return opts, nil

	case len(f.Args) == 1:
		opts.Mode = ModeFile
		opts.File = f.Args[0]
		return opts, nil

	case f.Stdin:
		opts.Mode = ModeStdin
		opts.File = StdinPath
		return opts, nil
	}

	opts.Mode = ModeFile
	if f.Temp {
		user, err := Getenv(lookup, "USER", MaxUserLength)
		if err != nil {
			return Options{}, err
		}
		opts.Dir = filepath.Join("/tmp", user+"-vnc")
		opts.Strict = true
	} else {
		home, err := Getenv(lookup, "HOME", MaxHomeLength)
		if err != nil {
			return Options{}, err
		}
		opts.Dir = filepath.Join(home, DirName)
	}
	opts.File = filepath.Join(opts.Dir, FileName)
	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
