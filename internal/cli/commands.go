package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/g960059/cch/internal/dashboard"
	"github.com/g960059/cch/internal/db"
	"github.com/g960059/cch/internal/session"
)

func (c *CLI) newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "save <session-id> <title>",
		Aliases: []string{"s"},
		Short:   "Save a session",
		Long:    "Save a session under the given ID and title, capturing the current working directory.\nSaving an existing ID overwrites its title, directory, and timestamp.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, m *session.Manager) error {
				return m.Save(ctx, args[0], args[1])
			})
		},
	}
}

func (c *CLI) newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List saved sessions",
		Args:    cobra.NoArgs,
	}
	limit := cmd.Flags().IntP("limit", "n", c.cfg.ListLimit, "maximum number of sessions to show")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return c.withStore(cmd.Context(), func(ctx context.Context, m *session.Manager) error {
			return m.List(ctx, *limit)
		})
	}
	return cmd
}

func (c *CLI) newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "find <query>",
		Aliases: []string{"f"},
		Short:   "Search sessions by title or ID",
		Long:    "Search sessions whose title or ID contains the query as a case-sensitive substring.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, m *session.Manager) error {
				return m.Find(ctx, args[0])
			})
		},
	}
}

func (c *CLI) newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resume <identifier> [host args...]",
		Aliases: []string{"r"},
		Short:   "Resume a session",
		Long: `Resume a saved session in its saved working directory.

The identifier is resolved in strict order: an all-digit identifier is a
1-based position in the ` + "`cch ls`" + ` ordering (1 = most recent) and is never
treated as a session ID, so purely numeric IDs must be addressed by position
or by a substring of a longer form; otherwise an exact ID match is tried,
then the most recently saved session whose ID contains the identifier.

Arguments after the identifier are passed through to the host program.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, m *session.Manager) error {
				code, err := m.Resume(ctx, args[0], args[1:])
				if err != nil {
					return err
				}
				c.exitCode = code
				return nil
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (c *CLI) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <identifier>",
		Aliases: []string{"del"},
		Short:   "Delete saved sessions",
		Long: `Delete saved sessions.

An all-digit identifier deletes the session at that position in the
` + "`cch ls`" + ` ordering. An exact ID deletes that one session. Any other
identifier removes every session whose ID contains it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, m *session.Manager) error {
				return m.Delete(ctx, args[0])
			})
		},
	}
}

func (c *CLI) newWebCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "web",
		Aliases: []string{"w"},
		Short:   "Open the web dashboard",
		Args:    cobra.NoArgs,
	}
	port := cmd.Flags().IntP("port", "p", c.cfg.Web.Port, "dashboard port")
	noOpen := cmd.Flags().Bool("no-open", false, "do not open the browser")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := c.cfg
		cfg.Web.Port = *port

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return c.fail(err)
		}
		defer store.Close() //nolint:errcheck
		if err := db.ApplyMigrations(ctx, store.DB()); err != nil {
			return c.fail(err)
		}

		srv := dashboard.NewServer(cfg, store)
		if err := srv.Listen(); err != nil {
			return c.fail(err)
		}
		fmt.Fprintf(c.out, "cch dashboard → %s\n", srv.URL())
		fmt.Fprintln(c.out, "Press Ctrl+C to stop")
		if cfg.Web.OpenBrowser && !*noOpen {
			_ = browser.OpenURL(srv.URL())
		}
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return c.fail(err)
		}
		return nil
	}
	return cmd
}
