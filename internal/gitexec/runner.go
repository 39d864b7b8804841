// Package gitexec is the single gateway through which every git invocation
// flows. Commands run synchronously; a nonzero exit surfaces as an error
// carrying the command's stderr, except for inventory-style queries which
// degrade to empty output.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNotARepository reports that the working directory is not inside a git
// work tree. Environmental and fatal: no retry, no degradation.
var ErrNotARepository = errors.New("not a git repository")

// Runner executes git commands. Run raises on nonzero exit; Query swallows
// failures and returns empty text, which callers must treat as "no data".
type Runner interface {
	// Run executes git with the given arguments and returns stdout.
	// On nonzero exit the returned error includes the command's stderr.
	Run(ctx context.Context, args ...string) (string, error)

	// Query executes git and returns stdout, or "" on any failure.
	// Only inventory-style reads may use this; apply and commit calls
	// must go through Run so their failures stay visible.
	Query(ctx context.Context, args ...string) string
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Dir, when non-empty, is the working directory for every command.
	Dir string
}

// NewRunner returns an ExecRunner rooted at dir ("" means process cwd).
func NewRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		log.Debug().Str("args", strings.Join(args, " ")).Str("stderr", detail).Msg("git command failed")
		return "", fmt.Errorf("git %s: %s", firstArg(args), detail)
	}
	return stdout.String(), nil
}

func (r *ExecRunner) Query(ctx context.Context, args ...string) string {
	out, err := r.Run(ctx, args...)
	if err != nil {
		return ""
	}
	return out
}

// CheckRepository verifies the directory is inside a git work tree.
func (r *ExecRunner) CheckRepository(ctx context.Context) error {
	out, err := r.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return ErrNotARepository
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
