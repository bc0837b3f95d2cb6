package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benaskins/vncpasswd/internal/config"
	"github.com/benaskins/vncpasswd/internal/errs"
)

const usageExamples = `  vncpasswd [-v] [FILE]
  vncpasswd -f < passwords > passwd
  vncpasswd -t [-v]
  vncpasswd -o [-v] [-display DISPLAY]
  vncpasswd -c [-display DISPLAY]
  vncpasswd -a USER [-v] [-display DISPLAY]
  vncpasswd -r USER [-display DISPLAY]`

func newRootCmd(a *app) *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "vncpasswd [FILE]",
		Short: "Set VNC passwords, one-time passwords and access lists",
		Long: `vncpasswd stores the VNC password (and an optional view-only password) in
~/.vnc/passwd, or publishes a one-time password or an access control change
to a running VNC server through its X display.`,
		Example:       usageExamples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Args = args
			flags.AddSet = cmd.Flags().Changed("add")
			flags.RemoveSet = cmd.Flags().Changed("remove")
			return a.run(flags)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Usagef("Error: %v", err)
	})
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	config.BindFlags(cmd.Flags(), &flags)
	return cmd
}

// execute runs the command line args against a.
func execute(a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(normalizeArgs(args))
	return cmd.Execute()
}

// normalizeArgs accepts the single-dash long form -display, which pflag
// would otherwise read as -d with the value "isplay".
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		switch {
		case arg == "-display":
			arg = "--display"
		case strings.HasPrefix(arg, "-display="):
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}

// report prints err, followed by a pointer to the usage text for usage
// errors.
func report(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	if errs.KindOf(err) == errs.ErrUsage {
		fmt.Fprintln(w, "Run 'vncpasswd --help' for usage.")
	}
}
