package bot

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunShell(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := RunShell(context.Background(), "echo hello; echo oops >&2", 5*time.Second)
	if err != nil {
		t.Fatalf("RunShell: %v", err)
	}
	if res.ExitCode != 0 || res.TimedOut {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Output, "hello") || !strings.Contains(res.Output, "oops") {
		t.Fatalf("Output = %q", res.Output)
	}
}

func TestRunShellExitCode(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := RunShell(context.Background(), "exit 3", 5*time.Second)
	if err != nil {
		t.Fatalf("RunShell: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunShellTimeout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	res, err := RunShell(context.Background(), "sleep 5", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("RunShell: %v", err)
	}
	if !res.TimedOut {
		t.Fatalf("TimedOut = false, result %+v", res)
	}
	if res.Duration > 4*time.Second {
		t.Fatalf("command was not killed in time: %v", res.Duration)
	}
}

func TestRunShellEmpty(t *testing.T) {
	t.Parallel()

	if _, err := RunShell(context.Background(), "  ", time.Second); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestFormatShellResult(t *testing.T) {
	t.Parallel()

	got := formatShellResult(ShellResult{Output: "a<b"}, "(no output)")
	if got != "<pre><code>a&lt;b</code></pre>" {
		t.Fatalf("got %q", got)
	}
	got = formatShellResult(ShellResult{ExitCode: 2}, "(no output)")
	if !strings.Contains(got, "(no output)") || !strings.Contains(got, "<i>exit status 2</i>") {
		t.Fatalf("got %q", got)
	}
	got = formatShellResult(ShellResult{TimedOut: true, Duration: 1500 * time.Millisecond}, "-")
	if !strings.Contains(got, "timed out after 1.5s") {
		t.Fatalf("got %q", got)
	}
}
