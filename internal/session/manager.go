// Package session orchestrates save, list, search, delete, and resume over
// the record store and the identifier resolver, and owns the resume handoff.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/g960059/cch/internal/config"
	"github.com/g960059/cch/internal/db"
	"github.com/g960059/cch/internal/model"
	"github.com/g960059/cch/internal/resolve"
)

const skipPermissionsFlag = "--dangerously-skip-permissions"

type Manager struct {
	store    *db.Store
	resolver *resolve.Resolver
	cfg      config.Config
	out      io.Writer
	launcher Launcher
	now      func() time.Time
	getwd    func() (string, error)
}

func NewManager(store *db.Store, cfg config.Config, out io.Writer) *Manager {
	return &Manager{
		store:    store,
		resolver: resolve.New(store),
		cfg:      cfg,
		out:      out,
		launcher: OSLauncher{},
		now:      time.Now,
		getwd:    os.Getwd,
	}
}

func NewManagerWithLauncher(store *db.Store, cfg config.Config, out io.Writer, launcher Launcher) *Manager {
	m := NewManager(store, cfg, out)
	m.launcher = launcher
	return m
}

// Save upserts the record, capturing the current working directory. Saving
// an existing ID overwrites title, directory, and timestamp.
func (m *Manager) Save(ctx context.Context, id, title string) error {
	pwd, err := m.getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	session := model.Session{
		ID:        id,
		Title:     title,
		Pwd:       pwd,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.UpsertSession(ctx, session); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Saved: %s\n", title)
	fmt.Fprintf(m.out, "  ID:  %s\n", id)
	fmt.Fprintf(m.out, "  Dir: %s\n", pwd)
	return nil
}

// List renders the most recent sessions, at most limit of them. An empty
// store is a valid terminal state, not an error.
func (m *Manager) List(ctx context.Context, limit int) error {
	sessions, err := m.store.ListSessions(ctx, limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(m.out, "No saved sessions.")
		return nil
	}
	m.renderSessions(sessions)
	return nil
}

// Find renders sessions whose title or ID contains query.
func (m *Manager) Find(ctx context.Context, query string) error {
	sessions, err := m.store.SearchSessions(ctx, query)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintf(m.out, "No sessions matching '%s'.\n", query)
		return nil
	}
	m.renderSessions(sessions)
	return nil
}

// Resume resolves the token and hands control to the host program in the
// saved directory. Resolver misses are reported on out and return exit code
// zero; a host that cannot start is a fatal *model.HandoffError. On success
// the returned code is the host's own exit code, forwarded verbatim.
func (m *Manager) Resume(ctx context.Context, token string, passthrough []string) (int, error) {
	session, err := m.resolver.Resolve(ctx, token)
	if err != nil {
		var notFound *model.NotFoundError
		if errors.As(err, &notFound) {
			if notFound.Index {
				fmt.Fprintf(m.out, "Index %s out of range. Use `cch ls` to see sessions.\n", token)
			} else {
				fmt.Fprintf(m.out, "No session found for '%s'.\n", token)
			}
			return 0, nil
		}
		return 0, err
	}

	fmt.Fprintf(m.out, "Resuming: %s\n", session.Title)
	fmt.Fprintf(m.out, "  Dir: %s\n", session.Pwd)
	fmt.Fprintf(m.out, "  Cmd: %s --resume %s\n", m.cfg.HostCommand, session.ID)

	args := []string{"--resume", session.ID}
	if m.cfg.Resume.DangerousMode {
		args = append(args, skipPermissionsFlag)
	}
	args = append(args, m.cfg.Resume.ExtraArgs...)
	args = append(args, passthrough...)
	return m.launcher.Launch(ctx, LaunchSpec{
		Command: m.cfg.HostCommand,
		Args:    args,
		Dir:     session.Pwd,
	})
}

// Delete removes sessions by the same token chain as Resume, except that a
// non-digit token with no exact match removes every session whose ID
// contains it. The read and delete paths diverge here on purpose.
func (m *Manager) Delete(ctx context.Context, token string) error {
	if resolve.IsIndexToken(token) {
		session, err := m.resolver.Resolve(ctx, token)
		if err != nil {
			var notFound *model.NotFoundError
			if errors.As(err, &notFound) {
				fmt.Fprintf(m.out, "Index %s out of range.\n", token)
				return nil
			}
			return err
		}
		if _, err := m.store.DeleteSessionByID(ctx, session.ID); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Deleted: %s (%s...)\n", session.Title, session.ShortID())
		return nil
	}

	deleted, err := m.store.DeleteSessionByID(ctx, token)
	if err != nil {
		return err
	}
	if deleted == 0 {
		deleted, err = m.store.DeleteSessionsByIDFragment(ctx, token)
		if err != nil {
			return err
		}
	}
	if deleted > 0 {
		fmt.Fprintf(m.out, "Deleted %d session(s).\n", deleted)
		return nil
	}
	fmt.Fprintf(m.out, "No session found for '%s'.\n", token)
	return nil
}

func (m *Manager) renderSessions(sessions []model.Session) {
	for i, session := range sessions {
		if i > 0 {
			fmt.Fprintln(m.out)
		}
		fmt.Fprintf(m.out, "[%d] %s\n", i+1, session.Title)
		fmt.Fprintf(m.out, "    ID:  %s\n", session.ID)
		fmt.Fprintf(m.out, "    Cmd: %s --resume %s %s\n", m.cfg.HostCommand, session.ID, skipPermissionsFlag)
		fmt.Fprintf(m.out, "    Dir: %s  (%s)\n", session.Pwd, session.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}
}
