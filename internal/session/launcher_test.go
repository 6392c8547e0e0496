package session

import (
	"context"
	"errors"
	"testing"

	"github.com/g960059/cch/internal/model"
)

func TestOSLauncherForwardsExitCode(t *testing.T) {
	code, err := OSLauncher{}.Launch(context.Background(), LaunchSpec{
		Command: "sh",
		Args:    []string{"-c", "exit 7"},
		Dir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if code != 7 {
		t.Fatalf("code = %d, want 7", code)
	}
}

func TestOSLauncherRunsInDir(t *testing.T) {
	dir := t.TempDir()
	code, err := OSLauncher{}.Launch(context.Background(), LaunchSpec{
		Command: "sh",
		Args:    []string{"-c", `test "$(pwd)" = "` + dir + `"`},
		Dir:     dir,
	})
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	if code != 0 {
		t.Fatalf("child did not start in %s", dir)
	}
}

func TestOSLauncherMissingBinaryIsHandoffError(t *testing.T) {
	_, err := OSLauncher{}.Launch(context.Background(), LaunchSpec{
		Command: "cch-no-such-host-binary",
	})
	var handoff *model.HandoffError
	if !errors.As(err, &handoff) {
		t.Fatalf("err = %v, want HandoffError", err)
	}
	if handoff.Command != "cch-no-such-host-binary" {
		t.Fatalf("command = %q", handoff.Command)
	}
}
