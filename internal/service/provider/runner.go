package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"
)

// Environment variables known to interfere with nested invocations of the
// provider CLIs (IDE injection and nested-session markers).
var strippedEnvKeys = []string{
	"CLAUDECODE",
	"CLAUDE_CODE_SSE_PORT",
	"VSCODE_INJECTION",
}

type runMode int

const (
	// modeCaptured pipes the child's output into memory.
	modeCaptured runMode = iota
	// modeInherited attaches the child to the controlling terminal, used
	// only for interactive login flows.
	modeInherited
)

type runOptions struct {
	mode runMode
	// timeout bounds the child's lifetime; zero means unbounded.
	timeout time.Duration
}

type runResult struct {
	stdout string
	stderr string
}

// runProcess executes a provider CLI with a sanitized environment. On
// timeout the child receives SIGTERM and a descriptive error is returned; a
// non-zero exit embeds a truncated stderr snippet.
//
// The per-invocation timer is the only thing allowed to stop the child:
// cancellation of the logical request (client disconnect, loop exit) must not
// kill an in-flight provider, which keeps running to completion or its own
// timeout.
func runProcess(ctx context.Context, command string, args []string, opts runOptions) (runResult, error) {
	var cmd *exec.Cmd
	var runCtx context.Context

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), opts.timeout)
		defer cancel()

		cmd = exec.CommandContext(runCtx, command, args...)
		cmd.Cancel = func() error {
			return cmd.Process.Signal(syscall.SIGTERM)
		}
		cmd.WaitDelay = 5 * time.Second
	} else {
		cmd = exec.Command(command, args...)
	}
	cmd.Env = sanitizedEnv()

	var outBuf, errBuf bytes.Buffer
	if opts.mode == modeInherited {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	err := cmd.Run()
	result := runResult{stdout: outBuf.String(), stderr: errBuf.String()}

	if err == nil {
		return result, nil
	}

	if runCtx != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%s timed out after %dms (set MYDUCK_PROVIDER_TIMEOUT_MS to increase)",
			command, opts.timeout.Milliseconds())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("%s exited with code %d", command, exitErr.ExitCode())
		if snippet := outputSnippet(result); snippet != "" {
			msg += ": " + snippet
		}
		return result, errors.New(msg)
	}

	// Spawn-level failure (executable not found, permission denied, ...).
	return result, err
}

func outputSnippet(result runResult) string {
	snippet := strings.TrimSpace(result.stderr)
	if snippet == "" {
		snippet = strings.TrimSpace(result.stdout)
	}
	if len(snippet) > 300 {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		cut := 300
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	return snippet
}

func sanitizedEnv() []string {
	env := os.Environ()
	clean := make([]string, 0, len(env))

	for _, entry := range env {
		key, _, _ := strings.Cut(entry, "=")
		if stripped(key) {
			continue
		}
		clean = append(clean, entry)
	}
	return clean
}

func stripped(key string) bool {
	for _, banned := range strippedEnvKeys {
		if key == banned {
			return true
		}
	}
	return false
}
