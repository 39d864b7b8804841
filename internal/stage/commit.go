package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitsplit/internal/gitexec"
	"github.com/gitsplit/pkg/models"
)

// CommitWriter turns a staged group into one atomic commit.
type CommitWriter struct {
	runner gitexec.Runner
	stager *Stager
}

func NewCommitWriter(runner gitexec.Runner, stager *Stager) *CommitWriter {
	return &CommitWriter{runner: runner, stager: stager}
}

// Commit creates one commit with subject "<type>: <message>". When hunks are
// present they are applied to the index first. Gateway errors propagate
// unmodified; this layer never swallows a failed commit.
func (w *CommitWriter) Commit(ctx context.Context, typ models.CommitType, message string, hunks []string) error {
	if len(hunks) > 0 {
		if err := w.stager.ApplyHunks(ctx, hunks); err != nil {
			return err
		}
	}

	subject := fmt.Sprintf("%s: %s", typ, SanitizeMessage(message))
	_, err := w.runner.Run(ctx, "commit", "-m", subject)
	return err
}

// SanitizeMessage normalizes an LLM-authored commit message before it is
// handed to git. The gateway passes argv directly to exec, so there is no
// shell boundary to escape for; the message still gets control characters
// stripped and internal newlines collapsed to keep the subject a single
// line.
func SanitizeMessage(message string) string {
	message = strings.ReplaceAll(message, "\r\n", " ")
	message = strings.ReplaceAll(message, "\n", " ")
	message = strings.ReplaceAll(message, "\r", " ")

	var b strings.Builder
	for _, r := range message {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
