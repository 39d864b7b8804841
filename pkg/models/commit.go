package models

import "fmt"

// FileStatus classifies one path's state in the working tree or index.
type FileStatus string

const (
	StatusModified  FileStatus = "modified"
	StatusDeleted   FileStatus = "deleted"
	StatusAdded     FileStatus = "added"
	StatusRenamed   FileStatus = "renamed"
	StatusCopied    FileStatus = "copied"
	StatusUntracked FileStatus = "untracked"
	StatusUnknown   FileStatus = "unknown"
)

// WorkingTreeChange is a single path reported by the change inventory.
// Inventory results are recomputed on every query and never cached, because
// the index mutates between commit groups.
type WorkingTreeChange struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`
}

// Label renders the change for selection prompts, e.g. "modified: main.go".
func (c WorkingTreeChange) Label() string {
	return fmt.Sprintf("%-9s %s", string(c.Status)+":", c.Path)
}

// CommitType is a conventional-commit category.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
)

var commitTypes = map[string]CommitType{
	"feat": TypeFeat, "fix": TypeFix, "docs": TypeDocs, "style": TypeStyle,
	"refactor": TypeRefactor, "perf": TypePerf, "test": TypeTest,
	"build": TypeBuild, "ci": TypeCI, "chore": TypeChore, "revert": TypeRevert,
}

// ParseCommitType maps a classifier-provided type string onto the fixed
// enumeration. The second return value reports whether the string was one of
// the known types.
func ParseCommitType(s string) (CommitType, bool) {
	t, ok := commitTypes[s]
	return t, ok
}

// CommitGroup is one classifier-proposed bundle: a commit type and message
// plus the ordered patch-text hunks that should become that commit. Groups
// are produced once per run and consumed exactly once, in order.
type CommitGroup struct {
	Type    CommitType `json:"type"`
	Message string     `json:"message"`
	Hunks   []string   `json:"hunks"`
}

// Subject is the full commit subject line, "<type>: <message>".
func (g CommitGroup) Subject() string {
	return fmt.Sprintf("%s: %s", g.Type, g.Message)
}
