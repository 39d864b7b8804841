// Package patch checks classifier-proposed hunk text against the current
// index and resolves hunks back to the files they touch. Validation is a
// dry run: it never mutates the index or the working tree.
package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gitsplit/internal/gitexec"
)

// applyErrorLine matches the 1-based line number git apply reports on
// failure, e.g. "error: corrupt patch at line 14".
var applyErrorLine = regexp.MustCompile(`line (\d+)`)

// Validator dry-runs candidate patches against the index.
type Validator struct {
	runner gitexec.Runner
}

func NewValidator(runner gitexec.Runner) *Validator {
	return &Validator{runner: runner}
}

// Validate writes patchText to a uniquely named temporary file and checks
// whether it applies cleanly to the index. The temp file is removed on every
// exit path. On failure a small context window around the reported line is
// logged; the boolean result does not depend on that parse succeeding.
func (v *Validator) Validate(ctx context.Context, patchText string) bool {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("gitsplit-%s.patch", uuid.NewString()))
	if err := os.WriteFile(path, []byte(patchText), 0o600); err != nil {
		log.Warn().Err(err).Msg("could not write temporary patch file")
		return false
	}
	defer os.Remove(path)

	_, err := v.runner.Run(ctx, "apply", "--cached", "--check", path)
	if err == nil {
		return true
	}

	log.Warn().Err(err).Msg("patch failed validation")
	logErrorContext(patchText, err.Error())
	return false
}

// logErrorContext extracts a line number from the apply error and logs two
// lines of patch text on either side of it.
func logErrorContext(patchText, applyErr string) {
	m := applyErrorLine.FindStringSubmatch(applyErr)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}

	lines := strings.Split(patchText, "\n")
	start := n - 3
	if start < 0 {
		start = 0
	}
	end := n + 2
	if end > len(lines) {
		end = len(lines)
	}
	for i := start; i < end; i++ {
		marker := "  "
		if i == n-1 {
			marker = "> "
		}
		log.Warn().Msgf("%s%4d | %s", marker, i+1, lines[i])
	}
}
