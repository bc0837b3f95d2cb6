package main

import (
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
)

func newLogger(level string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "vncpasswd",
		Level:  hclog.LevelFromString(logLevel(level)),
		Output: out,
	})
}

func logLevel(level string) string {
	lvl := strings.ToLower(strings.TrimSpace(level))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "warn"
	}
}
