package credential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/benaskins/vncpasswd/internal/errs"
	"github.com/benaskins/vncpasswd/internal/secret"
)

const (
	PromptPassword = "Password: "
	PromptVerify   = "Verify:   "
	PromptViewOnly = "Would you like to enter a view-only password (y/n)? "
)

// Prompter reads a password without echoing it. It returns io.EOF when the
// input is closed before anything is typed.
type Prompter interface {
	ReadPassword(prompt string) ([]byte, error)
}

// TerminalPrompter reads passwords from a terminal.
type TerminalPrompter struct {
	tty    *os.File
	out    io.Writer
	closer func() error
}

// NewTerminalPrompter uses stdin when it is a terminal and the controlling
// terminal otherwise, so a password is never read from a pipe with echo
// enabled. Prompts are written to out.
func NewTerminalPrompter(out io.Writer) (*TerminalPrompter, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &TerminalPrompter{tty: os.Stdin, out: out, closer: func() error { return nil }}, nil
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, errs.IO(err, "Can't get password: not a tty?")
	}
	return &TerminalPrompter{tty: tty, out: out, closer: tty.Close}, nil
}

func (p *TerminalPrompter) ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(int(p.tty.Fd()))
	fmt.Fprintln(p.out)
	return b, err
}

func (p *TerminalPrompter) Close() error {
	return p.closer()
}

// Asker runs the interactive confirm-twice password dialogue.
type Asker struct {
	prompter Prompter
	answers  *bufio.Reader
	out      io.Writer
	logger   hclog.Logger
}

// NewAsker returns an Asker that reads passwords from prompter, yes/no
// answers from answers and writes operator messages to out.
func NewAsker(prompter Prompter, answers io.Reader, out io.Writer, logger hclog.Logger) *Asker {
	return &Asker{
		prompter: prompter,
		answers:  bufio.NewReader(answers),
		out:      out,
		logger:   logger.Named("credential"),
	}
}

// Ask prompts for a password and its confirmation until the two match. A
// password shorter than MinLength fails immediately; a longer one than
// MaxLength is truncated. There is no retry limit: the loop ends on a match
// or when input is exhausted.
func (a *Asker) Ask() (*Credential, error) {
	for {
		first, err := a.prompter.ReadPassword(PromptPassword)
		if err != nil {
			secret.Zero(first)
			return nil, errs.IO(err, "Can't get password: not a tty?")
		}
		if len(first) < MinLength {
			secret.Zero(first)
			return nil, errs.Validationf("Password too short")
		}

		cred, truncated, err := New(first)
		if err != nil {
			return nil, errs.IO(err, "Can't store password")
		}
		if truncated {
			warnTruncated(a.logger)
		}

		verify, err := a.prompter.ReadPassword(PromptVerify)
		if err != nil {
			secret.Zero(verify)
			cred.Close()
			return nil, errs.IO(err, "Can't get password: not a tty?")
		}
		kept, _ := Truncate(verify)
		matched := cred.Equal(kept)
		secret.Zero(verify)

		if matched {
			return cred, nil
		}
		cred.Close()
		fmt.Fprint(a.out, "Passwords do not match. Please try again.\n\n")
	}
}

// Confirm asks a yes/no question. Only an answer starting with y or Y is a
// yes; end of input is a no.
func (a *Asker) Confirm(question string) bool {
	fmt.Fprint(a.out, question)
	line, err := a.answers.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return strings.HasPrefix(line, "y") || strings.HasPrefix(line, "Y")
}

// AskPair asks for the full-control password and then, if wantView is set
// or the operator agrees, the view-only password.
func (a *Asker) AskPair(wantView bool) (*Pair, error) {
	primary, err := a.Ask()
	if err != nil {
		return nil, err
	}
	pair := &Pair{Primary: primary}

	if wantView {
		fmt.Fprintln(a.out, "Enter the view-only password")
	} else {
		wantView = a.Confirm(PromptViewOnly)
	}
	if !wantView {
		return pair, nil
	}

	secondary, err := a.Ask()
	if err != nil {
		pair.Close()
		return nil, err
	}
	pair.Secondary = secondary
	return pair, nil
}

func warnTruncated(logger hclog.Logger) {
	logger.Warn("password truncated to the length of 8", "max_length", MaxLength)
}
