package gitexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_SwallowsFailures(t *testing.T) {
	// A nonexistent working directory makes every invocation fail, whether
	// or not git is installed.
	r := NewRunner("/definitely/not/a/real/directory")

	out := r.Query(context.Background(), "status")
	assert.Equal(t, "", out)
}

func TestRun_SurfacesFailures(t *testing.T) {
	r := NewRunner("/definitely/not/a/real/directory")

	_, err := r.Run(context.Background(), "status")
	assert.Error(t, err)
}

func TestFirstArg(t *testing.T) {
	assert.Equal(t, "", firstArg(nil))
	assert.Equal(t, "commit", firstArg([]string{"commit", "-m", "x"}))
}
