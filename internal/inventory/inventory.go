// Package inventory queries the working tree and index for per-file change
// status. Results are computed fresh on every call; nothing here is cached.
package inventory

import (
	"context"
	"strings"

	"github.com/gitsplit/internal/gitexec"
	"github.com/gitsplit/pkg/models"
)

// Inventory reads change state through the git gateway.
type Inventory struct {
	runner gitexec.Runner
}

func New(runner gitexec.Runner) *Inventory {
	return &Inventory{runner: runner}
}

// Unstaged returns tracked files with unstaged modifications plus untracked
// files. Query failures degrade to an empty inventory.
func (inv *Inventory) Unstaged(ctx context.Context) []models.WorkingTreeChange {
	var changes []models.WorkingTreeChange

	out := inv.runner.Query(ctx, "diff", "--name-status")
	changes = append(changes, parseNameStatus(out)...)

	untracked := inv.runner.Query(ctx, "ls-files", "--others", "--exclude-standard")
	for _, path := range splitLines(untracked) {
		changes = append(changes, models.WorkingTreeChange{Path: path, Status: models.StatusUntracked})
	}
	return changes
}

// Staged returns files currently staged in the index.
func (inv *Inventory) Staged(ctx context.Context) []models.WorkingTreeChange {
	out := inv.runner.Query(ctx, "diff", "--cached", "--name-status")
	return parseNameStatus(out)
}

// StagedDiff returns the unified diff of everything staged in the index.
func (inv *Inventory) StagedDiff(ctx context.Context) string {
	return inv.runner.Query(ctx, "diff", "--cached")
}

// parseNameStatus decodes `git diff --name-status` output. Rename and copy
// lines carry two paths separated by tabs; the destination path is reported.
func parseNameStatus(out string) []models.WorkingTreeChange {
	var changes []models.WorkingTreeChange
	for _, line := range splitLines(out) {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		status := statusFromCode(fields[0])
		path := fields[1]
		if (status == models.StatusRenamed || status == models.StatusCopied) && len(fields) >= 3 {
			path = fields[2]
		}
		changes = append(changes, models.WorkingTreeChange{Path: path, Status: status})
	}
	return changes
}

func statusFromCode(code string) models.FileStatus {
	if code == "" {
		return models.StatusUnknown
	}
	switch code[0] {
	case 'M':
		return models.StatusModified
	case 'D':
		return models.StatusDeleted
	case 'A':
		return models.StatusAdded
	case 'R':
		return models.StatusRenamed
	case 'C':
		return models.StatusCopied
	default:
		return models.StatusUnknown
	}
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
