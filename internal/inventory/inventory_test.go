package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gitsplit/pkg/models"
)

// scriptRunner maps a joined git command line to canned output.
type scriptRunner struct {
	responses map[string]string
}

func (s *scriptRunner) Run(_ context.Context, args ...string) (string, error) {
	return s.responses[strings.Join(args, " ")], nil
}

func (s *scriptRunner) Query(ctx context.Context, args ...string) string {
	out, _ := s.Run(ctx, args...)
	return out
}

func TestStaged_ParsesNameStatus(t *testing.T) {
	inv := New(&scriptRunner{responses: map[string]string{
		"diff --cached --name-status": "M\tmain.go\nD\told.go\nA\tnew.go\nR100\tfrom.go\tto.go\nC75\tsrc.go\tcopy.go\nX\tweird.go\n",
	}})

	got := inv.Staged(context.Background())
	want := []models.WorkingTreeChange{
		{Path: "main.go", Status: models.StatusModified},
		{Path: "old.go", Status: models.StatusDeleted},
		{Path: "new.go", Status: models.StatusAdded},
		{Path: "to.go", Status: models.StatusRenamed},
		{Path: "copy.go", Status: models.StatusCopied},
		{Path: "weird.go", Status: models.StatusUnknown},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Staged mismatch (-want +got):\n%s", diff)
	}
}

func TestUnstaged_CombinesTrackedAndUntracked(t *testing.T) {
	inv := New(&scriptRunner{responses: map[string]string{
		"diff --name-status":                   "M\tchanged.go\n",
		"ls-files --others --exclude-standard": "brand_new.go\ndocs/notes.md\n",
	}})

	got := inv.Unstaged(context.Background())
	want := []models.WorkingTreeChange{
		{Path: "changed.go", Status: models.StatusModified},
		{Path: "brand_new.go", Status: models.StatusUntracked},
		{Path: "docs/notes.md", Status: models.StatusUntracked},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unstaged mismatch (-want +got):\n%s", diff)
	}
}

func TestQueries_EmptyOutputMeansNoData(t *testing.T) {
	inv := New(&scriptRunner{responses: map[string]string{}})

	if got := inv.Staged(context.Background()); got != nil {
		t.Errorf("Staged = %v, want nil", got)
	}
	if got := inv.Unstaged(context.Background()); got != nil {
		t.Errorf("Unstaged = %v, want nil", got)
	}
	if got := inv.StagedDiff(context.Background()); got != "" {
		t.Errorf("StagedDiff = %q, want empty", got)
	}
}
