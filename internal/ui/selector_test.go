package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gitsplit/pkg/models"
)

func testChanges() []models.WorkingTreeChange {
	return []models.WorkingTreeChange{
		{Path: "a.go", Status: models.StatusModified},
		{Path: "b.go", Status: models.StatusUntracked},
		{Path: "c/d.go", Status: models.StatusDeleted},
	}
}

func newTestSelector(input string) (*TerminalSelector, *bytes.Buffer) {
	var out bytes.Buffer
	return &TerminalSelector{in: strings.NewReader(input), out: &out}, &out
}

func TestSelectFiles_Indices(t *testing.T) {
	s, _ := newTestSelector("1,3\n")
	got := s.SelectFiles(testChanges())
	assert.Equal(t, []string{"a.go", "c/d.go"}, got)
}

func TestSelectFiles_SpaceSeparatedAndDuplicates(t *testing.T) {
	s, _ := newTestSelector("2 2 1\n")
	got := s.SelectFiles(testChanges())
	assert.Equal(t, []string{"b.go", "a.go"}, got)
}

func TestSelectFiles_All(t *testing.T) {
	s, _ := newTestSelector("a\n")
	got := s.SelectFiles(testChanges())
	assert.Equal(t, []string{"a.go", "b.go", "c/d.go"}, got)
}

func TestSelectFiles_EmptyLineAborts(t *testing.T) {
	s, _ := newTestSelector("\n")
	assert.Nil(t, s.SelectFiles(testChanges()))
}

func TestSelectFiles_EOFAborts(t *testing.T) {
	s, _ := newTestSelector("")
	assert.Nil(t, s.SelectFiles(testChanges()))
}

func TestSelectFiles_InvalidThenValid(t *testing.T) {
	s, out := newTestSelector("0,9\n2\n")
	got := s.SelectFiles(testChanges())
	assert.Equal(t, []string{"b.go"}, got)
	assert.Contains(t, out.String(), "Invalid selection")
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"Y\n":   true,
		"yes\n": true,
		"n\n":   false,
		"no\n":  false,
		"\n":    false,
		"huh\n": false,
		"":      false,
	}
	for input, want := range cases {
		s, _ := newTestSelector(input)
		assert.Equal(t, want, s.Confirm("Proceed?"), "input %q", input)
	}
}
