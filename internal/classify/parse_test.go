package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitsplit/pkg/models"
)

func TestParseGroups_PlainArray(t *testing.T) {
	groups := ParseGroups(`[{"type":"feat","message":"add parser","hunks":["diff --git a/p.go b/p.go\n+x\n"]}]`)

	require.Len(t, groups, 1)
	assert.Equal(t, models.TypeFeat, groups[0].Type)
	assert.Equal(t, "add parser", groups[0].Message)
	assert.Equal(t, "feat: add parser", groups[0].Subject())
	require.Len(t, groups[0].Hunks, 1)
}

func TestParseGroups_FencedWithProse(t *testing.T) {
	response := "Here is the split you asked for:\n```json\n" +
		`[{"type":"fix","message":"handle nil","hunks":[]},{"type":"docs","message":"update readme","hunks":[]}]` +
		"\n```\nLet me know if you need changes."

	groups := ParseGroups(response)
	require.Len(t, groups, 2)
	assert.Equal(t, models.TypeFix, groups[0].Type)
	assert.Equal(t, models.TypeDocs, groups[1].Type)
}

func TestParseGroups_RepairsTrailingComma(t *testing.T) {
	groups := ParseGroups(`[{"type":"chore","message":"tidy","hunks":[],}]`)
	require.Len(t, groups, 1)
	assert.Equal(t, "tidy", groups[0].Message)
}

func TestParseGroups_NonArrayPayload(t *testing.T) {
	assert.Nil(t, ParseGroups(`{"type":"feat","message":"not an array"}`))
}

func TestParseGroups_Garbage(t *testing.T) {
	assert.Nil(t, ParseGroups("I could not classify this diff, sorry."))
	assert.Nil(t, ParseGroups(""))
}

func TestParseGroups_UnknownTypeBecomesChore(t *testing.T) {
	groups := ParseGroups(`[{"type":"enhancement","message":"speed up","hunks":[]}]`)
	require.Len(t, groups, 1)
	assert.Equal(t, models.TypeChore, groups[0].Type)
}

func TestParseGroups_EmptyMessageDropped(t *testing.T) {
	groups := ParseGroups(`[{"type":"feat","message":"  ","hunks":[]},{"type":"fix","message":"real one","hunks":[]}]`)
	require.Len(t, groups, 1)
	assert.Equal(t, "real one", groups[0].Message)
}

func TestParseGroups_PreservesOrder(t *testing.T) {
	groups := ParseGroups(`[` +
		`{"type":"feat","message":"first","hunks":[]},` +
		`{"type":"fix","message":"second","hunks":[]},` +
		`{"type":"test","message":"third","hunks":[]}]`)

	require.Len(t, groups, 3)
	assert.Equal(t, "first", groups[0].Message)
	assert.Equal(t, "second", groups[1].Message)
	assert.Equal(t, "third", groups[2].Message)
}

func TestExtractJSONArray_TruncatedArrayGoesToRepair(t *testing.T) {
	payload := extractJSONArray("```json\n[{\"type\":\"feat\"")
	assert.Equal(t, `[{"type":"feat"`, payload)
}
