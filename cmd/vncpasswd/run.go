package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/benaskins/vncpasswd/internal/acl"
	"github.com/benaskins/vncpasswd/internal/audit"
	"github.com/benaskins/vncpasswd/internal/config"
	"github.com/benaskins/vncpasswd/internal/credential"
	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/otp"
	"github.com/benaskins/vncpasswd/internal/passwdfile"
	"github.com/benaskins/vncpasswd/internal/securedir"
	"github.com/benaskins/vncpasswd/internal/session"
)

// app holds the process boundary: streams, environment and the
// collaborators that reach outside the process. Nil collaborators are
// replaced with the real ones when a mode first needs them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc

	dialer   session.Dialer
	random   otp.RandomSource
	prompter credential.Prompter
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: os.LookupEnv,
	}
}

func (a *app) run(f config.Flags) error {
	if err := config.Validate(f); err != nil {
		return err
	}

	cfgPath := f.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath(a.lookup)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return errs.IO(err, "Error reading config %s", cfgPath)
	}

	opts, err := config.Resolve(f, cfg, a.lookup)
	if err != nil {
		return err
	}

	logger := newLogger(opts.LogLevel, a.stderr)
	logger.Debug("resolved options", "mode", opts.Mode, "file", opts.File, "display", opts.Display)

	var auditLog *audit.Logger
	if opts.AuditLog != "" {
		auditLog, err = audit.NewLogger(opts.AuditLog, opts.Actor)
		if err != nil {
			return errs.IO(err, "Cannot open audit log %s", opts.AuditLog)
		}
		defer auditLog.Close()
		logger.Debug("audit log enabled", "path", auditLog.Path())
	}

	switch opts.Mode {
	case config.ModeStdin:
		return a.runStdin(logger)
	case config.ModeOTP:
		return a.runOTP(opts, auditLog, logger)
	case config.ModeACL:
		return a.runACL(opts, auditLog, logger)
	default:
		return a.runFile(opts, auditLog, logger)
	}
}

// runFile prompts for the passwords and stores them in opts.File.
func (a *app) runFile(opts config.Options, auditLog *audit.Logger, logger hclog.Logger) (err error) {
	if opts.Dir != "" {
		fmt.Fprintf(a.stderr, "Using password file %s\n", opts.File)
		if err := securedir.New(logger).Ensure(opts.Dir, opts.Strict); err != nil {
			return err
		}
	}

	prompter := a.prompter
	if prompter == nil {
		tp, err := credential.NewTerminalPrompter(a.stderr)
		if err != nil {
			return err
		}
		defer tp.Close()
		prompter = tp
	}

	pair, err := credential.NewAsker(prompter, a.stdin, a.stderr, logger).AskPair(opts.ViewOnly)
	if err != nil {
		return err
	}
	defer pair.Close()

	defer func() {
		entry := audit.Entry{Action: audit.ActionPasswordWrite, Target: opts.File, ViewOnly: pair.HasSecondary()}
		if err != nil {
			entry.Error = err.Error()
		}
		if lerr := auditLog.Log(entry); lerr != nil {
			logger.Warn("audit log write failed", "error", lerr)
		}
	}()
	return passwdfile.Persist(opts.File, pair)
}

// runStdin reads one or two passwords from stdin and writes the encrypted
// file image to stdout.
func (a *app) runStdin(logger hclog.Logger) error {
	lr, err := credential.NewLineReader(a.stdin, logger)
	if err != nil {
		return err
	}
	defer lr.Close()

	pair, err := lr.ReadPair()
	if err != nil {
		return err
	}
	defer pair.Close()

	return passwdfile.Write(a.stdout, pair)
}

func (a *app) runOTP(opts config.Options, auditLog *audit.Logger, logger hclog.Logger) error {
	random := a.random
	if random == nil {
		random = otp.DefaultSource(logger)
	}
	d := otp.NewDistributor(a.sessionDialer(logger), random, a.stderr, auditLog, logger)
	if opts.Revoke {
		return d.Revoke(opts.Display)
	}
	return d.Publish(opts.Display, opts.ViewOnly)
}

func (a *app) runACL(opts config.Options, auditLog *audit.Logger, logger hclog.Logger) error {
	entry := acl.Entry{User: opts.User, Add: opts.Add, ViewOnly: opts.ViewOnly}
	return acl.NewDistributor(a.sessionDialer(logger), auditLog, logger).Publish(opts.Display, entry)
}

func (a *app) sessionDialer(logger hclog.Logger) session.Dialer {
	if a.dialer != nil {
		return a.dialer
	}
	return session.NewX11Dialer(logger)
}
