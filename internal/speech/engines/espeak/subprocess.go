package espeak

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// killDelay is how long an interrupted espeak process gets before it is
// killed.
const killDelay = 100 * time.Millisecond

// Runner executes name with args, feeding stdin to the process, and returns
// its standard output.
type Runner func(ctx context.Context, stdin string, name string, args ...string) ([]byte, error)

// execRunner is the default Runner. It runs the process with a timeout and
// interrupts it, then kills it, once ctx is done.
func execRunner(timeout time.Duration) Runner {
	return func(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		cmd := exec.CommandContext(ctx, name, args...)
		// stdin is set before start so the process never races for input
		cmd.Stdin = strings.NewReader(stdin)
		cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
		cmd.WaitDelay = killDelay

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s timed out after %v: %w", name, timeout, ctxErr)
			}
			return nil, ctxErr
		}
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
			}
			return nil, fmt.Errorf("%s failed: %w", name, err)
		}
		return stdout.Bytes(), nil
	}
}

// lookBinary returns the path of the first candidate found on PATH.
func lookBinary(candidates ...string) (string, error) {
	var errs []error
	for _, c := range candidates {
		if c == "" {
			continue
		}
		p, err := exec.LookPath(c)
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("espeak not found: %w", errors.Join(errs...))
}
