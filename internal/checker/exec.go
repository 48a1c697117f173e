package checker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/eaiti/eai-security-check-sub001/pkg/logger"
)

const (
	// Probe command timeout.
	commandTimeout = 10 * time.Second
	// Maximum output size to prevent memory exhaustion.
	maxOutputSize = 64 * 1024
)

// commandResult captures the output of one probe command.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Succeeded reports whether the command ran and exited zero.
func (r commandResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// TrimmedStdout returns stdout with surrounding whitespace removed.
func (r commandResult) TrimmedStdout() string {
	return strings.TrimSpace(r.Stdout)
}

// runner executes probe commands through the platform shell with a timeout
// and bounded output capture.
type runner struct {
	log *logger.Logger
}

func newRunner(log *logger.Logger) *runner {
	return &runner{log: log.WithComponent("checker")}
}

// run executes a shell command and captures stdout/stderr separately.
// Probes shell out to system utilities that are not safe to invoke in
// unbounded parallel bursts, so callers run probes sequentially.
func (r *runner) run(ctx context.Context, probe, command string) commandResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	duration := time.Since(start)

	result := commandResult{
		Stdout: limitOutput(stdoutBuf.Bytes(), maxOutputSize),
		Stderr: limitOutput(stderrBuf.Bytes(), maxOutputSize),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.ExitCode = -1
			result.Err = ctx.Err()
			r.log.Warn().
				Str("probe", probe).
				Dur("duration", duration).
				Msg("probe command timed out")
			return result
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = err
			// Logged once here at the boundary; the caller maps this to
			// the insecure default fact without surfacing an error.
			r.log.Warn().
				Str("probe", probe).
				Err(err).
				Msg("probe command failed to start")
			return result
		}
	}

	r.log.Debug().
		Str("probe", probe).
		Int("exit_code", result.ExitCode).
		Dur("duration", duration).
		Int("stdout_bytes", len(result.Stdout)).
		Msg("probe command completed")

	return result
}

// limitOutput truncates output if it exceeds maxSize.
func limitOutput(data []byte, maxSize int) string {
	if len(data) > maxSize {
		return string(data[:maxSize]) + "\n[output truncated]..."
	}
	return string(data)
}
