// Package audit provides append-only structured logging for credential
// operations.
//
// Every password file write, one-time password change and access control
// change is recorded as newline-delimited JSON. Entries name what was
// changed and where, never the password itself.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Action describes what happened.
type Action string

const (
	ActionPasswordWrite Action = "password_write"
	ActionOTPPublish    Action = "otp_publish"
	ActionOTPRevoke     Action = "otp_revoke"
	ActionACLAdd        Action = "acl_add"
	ActionACLRemove     Action = "acl_remove"
)

// Entry is a single audit log record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    Action    `json:"action"`
	Target    string    `json:"target"`         // password file path or display name
	User      string    `json:"user,omitempty"` // ACL subject
	ViewOnly  bool      `json:"view_only,omitempty"`
	Actor     string    `json:"actor,omitempty"` // invoking login name
	Error     string    `json:"error,omitempty"`
}

// Logger writes audit entries to an append-only file. A nil *Logger
// discards everything, so callers need not check whether auditing is on.
type Logger struct {
	mu    sync.Mutex
	file  *os.File
	path  string
	actor string
}

// NewLogger creates or opens an audit log file for appending. actor is
// stamped on entries that do not set one.
func NewLogger(path, actor string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &Logger{file: f, path: path, actor: actor}, nil
}

// Log writes an audit entry.
func (l *Logger) Log(entry Entry) error {
	if l == nil {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Actor == "" {
		entry.Actor = l.actor
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}
