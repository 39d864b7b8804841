// Package ui holds the interactive terminal prompts: a multi-select over
// working-tree changes and a yes/no confirmation. Both read stdin; an empty
// selection is a valid "abort", never an error.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/gitsplit/pkg/models"
)

// Selector is the human-in-the-loop collaborator.
type Selector interface {
	// SelectFiles presents the changes and returns the chosen paths.
	// An empty result means the user aborted.
	SelectFiles(changes []models.WorkingTreeChange) []string

	// Confirm asks a yes/no question.
	Confirm(prompt string) bool
}

// TerminalSelector prompts on a terminal via numbered lists.
type TerminalSelector struct {
	in  io.Reader
	out io.Writer
}

func NewTerminalSelector() *TerminalSelector {
	return &TerminalSelector{in: os.Stdin, out: os.Stderr}
}

// IsInteractive reports whether stdin is a TTY; prompting without one would
// block forever in scripts and CI.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// SelectFiles shows a numbered list and reads a comma/space separated set of
// indices, "a" for all, or an empty line to abort.
func (s *TerminalSelector) SelectFiles(changes []models.WorkingTreeChange) []string {
	fmt.Fprintln(s.out, "Select files to include (e.g. 1,3,4 — 'a' for all, empty line to abort):")
	for i, c := range changes {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, c.Label())
	}

	reader := bufio.NewReader(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		if strings.EqualFold(line, "a") || strings.EqualFold(line, "all") {
			paths := make([]string, len(changes))
			for i, c := range changes {
				paths[i] = c.Path
			}
			return paths
		}

		paths, ok := parseSelection(line, changes)
		if !ok {
			fmt.Fprintln(s.out, "Invalid selection. Please try again.")
			continue
		}
		return paths
	}
}

// Confirm asks prompt and accepts y/yes/n/no; anything else defaults to no,
// the safe answer before a run that rewrites the index.
func (s *TerminalSelector) Confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	reader := bufio.NewReader(s.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parseSelection(line string, changes []models.WorkingTreeChange) ([]string, bool) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	seen := make(map[int]struct{})
	var paths []string
	for _, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil || idx < 1 || idx > len(changes) {
			log.Debug().Str("input", f).Msg("rejected selection token")
			return nil, false
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		paths = append(paths, changes[idx-1].Path)
	}
	return paths, true
}
