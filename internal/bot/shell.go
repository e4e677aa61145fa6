package bot

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// ShellResult is the outcome of a finished shell command.
type ShellResult struct {
	Output   string
	ExitCode int
	Duration time.Duration
	TimedOut bool
}

// RunShell runs code with "sh -c" and returns its combined output. A non-zero
// exit status is reported in ExitCode, not as an error; an error means the
// command could not be started.
func RunShell(ctx context.Context, code string, timeout time.Duration) (ShellResult, error) {
	if strings.TrimSpace(code) == "" {
		return ShellResult{}, errors.New("shell: empty command")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", code)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	res := ShellResult{
		Output:   strings.TrimRight(string(out), "\n"),
		Duration: time.Since(start),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case res.TimedOut:
		res.ExitCode = -1
	default:
		return res, err
	}
	return res, nil
}
