package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/g960059/cch/internal/config"
	"github.com/g960059/cch/internal/session"
)

type fakeLauncher struct {
	specs []session.LaunchSpec
	code  int
	err   error
}

func (f *fakeLauncher) Launch(_ context.Context, spec session.LaunchSpec) (int, error) {
	f.specs = append(f.specs, spec)
	return f.code, f.err
}

func newTestCLI(t *testing.T) (*CLI, *fakeLauncher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "sessions.db")
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	launcher := &fakeLauncher{}
	return NewWithLauncher(cfg, out, errOut, launcher), launcher, out, errOut
}

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"shorthand", []string{"abc123", "Refactor auth"}, []string{"save", "abc123", "Refactor auth"}},
		{"shorthand drops extras", []string{"abc123", "Refactor auth", "stray"}, []string{"save", "abc123", "Refactor auth"}},
		{"known command untouched", []string{"ls", "-n", "5"}, []string{"ls", "-n", "5"}},
		{"alias untouched", []string{"r", "abc123"}, []string{"r", "abc123"}},
		{"flag first untouched", []string{"--help", "x"}, []string{"--help", "x"}},
		{"single arg untouched", []string{"abc123"}, []string{"abc123"}},
		{"empty untouched", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeArgs(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestSaveShorthandRoundTrip(t *testing.T) {
	c, _, out, _ := newTestCLI(t)
	ctx := context.Background()

	if code := c.Execute(ctx, []string{"abc123", "Refactor auth"}); code != 0 {
		t.Fatalf("save code = %d", code)
	}
	if !strings.Contains(out.String(), "Saved: Refactor auth") {
		t.Fatalf("save output = %q", out.String())
	}

	out.Reset()
	c2 := NewWithLauncher(c.cfg, out, &bytes.Buffer{}, &fakeLauncher{})
	if code := c2.Execute(ctx, []string{"ls"}); code != 0 {
		t.Fatalf("ls code = %d", code)
	}
	if !strings.Contains(out.String(), "[1] Refactor auth") {
		t.Fatalf("ls output = %q", out.String())
	}
}

func TestLsLimitFlag(t *testing.T) {
	c, _, out, _ := newTestCLI(t)
	ctx := context.Background()
	if code := c.Execute(ctx, []string{"save", "a1", "One"}); code != 0 {
		t.Fatalf("save a1 failed")
	}
	if code := c.Execute(ctx, []string{"save", "a2", "Two"}); code != 0 {
		t.Fatalf("save a2 failed")
	}

	out.Reset()
	if code := c.Execute(ctx, []string{"ls", "-n", "1"}); code != 0 {
		t.Fatalf("ls code = %d", code)
	}
	if !strings.Contains(out.String(), "[1] Two") || strings.Contains(out.String(), "One") {
		t.Fatalf("ls -n 1 output = %q", out.String())
	}
}

func TestResumeForwardsExitCodeAndPassthrough(t *testing.T) {
	c, launcher, _, _ := newTestCLI(t)
	ctx := context.Background()
	launcher.code = 5
	if code := c.Execute(ctx, []string{"save", "abc123", "Refactor auth"}); code != 0 {
		t.Fatalf("save failed")
	}

	code := c.Execute(ctx, []string{"resume", "abc123", "--model", "opus"})
	if code != 5 {
		t.Fatalf("code = %d, want host exit code", code)
	}
	if len(launcher.specs) != 1 {
		t.Fatalf("launches = %d", len(launcher.specs))
	}
	args := launcher.specs[0].Args
	want := []string{"--resume", "abc123", "--model", "opus"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("args = %v, want %v", args, want)
		}
	}
}

func TestResumeMissExitsZero(t *testing.T) {
	c, launcher, out, _ := newTestCLI(t)
	ctx := context.Background()

	code := c.Execute(ctx, []string{"resume", "zzz"})
	if code != 0 {
		t.Fatalf("code = %d, resolver misses exit cleanly", code)
	}
	if !strings.Contains(out.String(), "No session found for 'zzz'.") {
		t.Fatalf("output = %q", out.String())
	}
	if len(launcher.specs) != 0 {
		t.Fatalf("no handoff expected")
	}
}

func TestRmDeleteChain(t *testing.T) {
	c, _, out, _ := newTestCLI(t)
	ctx := context.Background()
	for _, pair := range [][2]string{{"abc123", "Refactor auth"}, {"abc999", "Fix CI"}} {
		if code := c.Execute(ctx, []string{"save", pair[0], pair[1]}); code != 0 {
			t.Fatalf("save %s failed", pair[0])
		}
	}

	out.Reset()
	if code := c.Execute(ctx, []string{"rm", "abc"}); code != 0 {
		t.Fatalf("rm code = %d", code)
	}
	if !strings.Contains(out.String(), "Deleted 2 session(s).") {
		t.Fatalf("rm output = %q", out.String())
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	c, _, _, errOut := newTestCLI(t)
	ctx := context.Background()

	if code := c.Execute(ctx, []string{"bogus"}); code != 2 {
		t.Fatalf("unknown command code = %d, want 2", code)
	}
	if !strings.Contains(errOut.String(), "error:") {
		t.Fatalf("errOut = %q", errOut.String())
	}

	errOut.Reset()
	if code := c.Execute(ctx, []string{"save", "only-id"}); code != 2 {
		t.Fatalf("bad arity code = %d, want 2", code)
	}
}

func TestStorageFailureExitsOne(t *testing.T) {
	c, _, _, errOut := newTestCLI(t)
	// Point the DB at a path whose parent cannot be created.
	c.cfg.DBPath = filepath.Join("/dev/null", "sub", "sessions.db")

	if code := c.Execute(context.Background(), []string{"ls"}); code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "error:") {
		t.Fatalf("errOut = %q", errOut.String())
	}
}
