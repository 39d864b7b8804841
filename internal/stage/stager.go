// Package stage mutates the index: it stages exactly one commit group's
// changes and writes the resulting commit. The index is the single shared
// mutable resource in the run; only this package writes to it, and only the
// orchestrator may reset it.
package stage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gitsplit/internal/gitexec"
	"github.com/gitsplit/internal/patch"
)

var (
	// ErrInvalidPatch reports that a group's combined hunk text failed the
	// dry-run check; nothing from the group was applied.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrNoFilesResolved reports that no file paths could be extracted from
	// a group's hunks. The caller must skip the group's commit.
	ErrNoFilesResolved = errors.New("no files resolved from hunks")
)

// Stager stages one group's changes into the index.
type Stager struct {
	runner    gitexec.Runner
	validator *patch.Validator
}

func NewStager(runner gitexec.Runner, validator *patch.Validator) *Stager {
	return &Stager{runner: runner, validator: validator}
}

// ApplyHunks concatenates the group's hunks in order and applies them to the
// index only, leaving the working tree untouched. The combined text is
// validated first; an invalid patch applies nothing and returns
// ErrInvalidPatch.
func (s *Stager) ApplyHunks(ctx context.Context, hunks []string) error {
	combined := combineHunks(hunks)
	if combined == "" {
		return ErrNoFilesResolved
	}
	if !s.validator.Validate(ctx, combined) {
		return ErrInvalidPatch
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("gitsplit-%s.patch", uuid.NewString()))
	if err := os.WriteFile(path, []byte(combined), 0o600); err != nil {
		return fmt.Errorf("write patch file: %w", err)
	}
	defer os.Remove(path)

	if _, err := s.runner.Run(ctx, "apply", "--cached", path); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	return nil
}

// StageFiles resolves the group's hunks to file paths and stages each path:
// present in the working tree means add, absent means remove from the index
// (a deletion). One path failing to stage is logged and skipped, not fatal.
// Zero resolved paths returns ErrNoFilesResolved so the caller skips the
// group instead of creating an empty commit.
func (s *Stager) StageFiles(ctx context.Context, hunks []string) error {
	paths := patch.FilePaths(hunks)
	if len(paths) == 0 {
		return ErrNoFilesResolved
	}

	for _, p := range paths {
		var err error
		if _, statErr := os.Stat(p); statErr == nil {
			_, err = s.runner.Run(ctx, "add", "--", p)
		} else {
			_, err = s.runner.Run(ctx, "rm", "--cached", "--ignore-unmatch", "--", p)
		}
		if err != nil {
			log.Warn().Str("path", p).Err(err).Msg("skipping file that failed to stage")
		}
	}
	return nil
}

// StagedPaths lists what is currently in the index, so the caller can tell
// an empty staging result from a populated one.
func (s *Stager) StagedPaths(ctx context.Context) []string {
	out := s.runner.Query(ctx, "diff", "--cached", "--name-only")
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// Reset clears the index back to HEAD. Only the orchestrator calls this,
// between groups and before the first one.
func (s *Stager) Reset(ctx context.Context) error {
	_, err := s.runner.Run(ctx, "reset")
	return err
}

func combineHunks(hunks []string) string {
	var b strings.Builder
	for _, h := range hunks {
		if strings.TrimSpace(h) == "" {
			continue
		}
		b.WriteString(h)
		if !strings.HasSuffix(h, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
