// Package cli wires the cch command surface. Each subcommand opens its own
// store handle for the duration of the operation and releases it on exit.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/g960059/cch/internal/config"
	"github.com/g960059/cch/internal/db"
	"github.com/g960059/cch/internal/session"
)

type CLI struct {
	cfg      config.Config
	out      io.Writer
	errOut   io.Writer
	launcher session.Launcher
	exitCode int
}

func New(cfg config.Config, out, errOut io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &CLI{
		cfg:      cfg,
		out:      out,
		errOut:   errOut,
		launcher: session.OSLauncher{},
	}
}

func NewWithLauncher(cfg config.Config, out, errOut io.Writer, launcher session.Launcher) *CLI {
	c := New(cfg, out, errOut)
	c.launcher = launcher
	return c
}

// Execute runs one command invocation and returns the process exit code:
// 0 for success and resolver misses, 1 for storage or handoff failures, 2
// for usage errors.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	c.exitCode = 0
	root := c.newRootCmd()
	root.SetArgs(NormalizeArgs(args))
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(c.errOut, "error: %v\n", err)
		return 2
	}
	return c.exitCode
}

func (c *CLI) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cch",
		Short:         "Save, find, and resume Claude Code sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.AddCommand(
		c.newSaveCmd(),
		c.newLsCmd(),
		c.newFindCmd(),
		c.newResumeCmd(),
		c.newRmCmd(),
		c.newWebCmd(),
	)
	return root
}

// knownCommands guards the bare `cch <id> <title>` save shorthand: any first
// argument in this set is dispatched as a command instead.
var knownCommands = map[string]struct{}{
	"save": {}, "s": {},
	"ls": {}, "list": {},
	"find": {}, "f": {},
	"resume": {}, "r": {},
	"rm": {}, "del": {},
	"web": {}, "w": {},
	"help": {}, "completion": {},
	"__complete": {}, "__completeNoDesc": {},
	"-h": {}, "--help": {},
}

// NormalizeArgs rewrites the save shorthand into an explicit save command.
// Anything past the first two shorthand arguments is dropped, matching the
// shorthand's two-argument shape.
func NormalizeArgs(args []string) []string {
	if len(args) < 2 {
		return args
	}
	if _, known := knownCommands[args[0]]; known {
		return args
	}
	if strings.HasPrefix(args[0], "-") {
		return args
	}
	return []string{"save", args[0], args[1]}
}

// withStore scopes one store handle to one operation: opened, migrated,
// used, and closed on every exit path.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, *session.Manager) error) error {
	store, err := db.Open(ctx, c.cfg.DBPath)
	if err != nil {
		return c.fail(err)
	}
	defer store.Close() //nolint:errcheck
	if err := db.ApplyMigrations(ctx, store.DB()); err != nil {
		return c.fail(err)
	}
	manager := session.NewManagerWithLauncher(store, c.cfg, c.out, c.launcher)
	if err := fn(ctx, manager); err != nil {
		return c.fail(err)
	}
	return nil
}

// fail reports a fatal operational error and reserves the returned-error
// path of RunE for usage errors.
func (c *CLI) fail(err error) error {
	fmt.Fprintf(c.errOut, "error: %v\n", err)
	c.exitCode = 1
	return nil
}
