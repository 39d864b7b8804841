package classify

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"

	"github.com/gitsplit/pkg/models"
)

// rawGroup is the loose shape the model is asked to emit. It is validated
// field by field before anything becomes a models.CommitGroup.
type rawGroup struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Hunks   []string `json:"hunks"`
}

// ParseGroups decodes a model response into commit groups. The payload is
// located inside markdown fences if present, repaired if malformed, and
// shape-checked. Anything that still fails yields zero groups rather than an
// error: classifier failures must not propagate into the orchestrator.
func ParseGroups(response string) []models.CommitGroup {
	payload := extractJSONArray(response)
	if payload == "" {
		log.Warn().Msg("no JSON array found in classifier response")
		return nil
	}

	var raw []rawGroup
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			log.Warn().Err(err).Msg("classifier payload unparseable and unrepairable")
			return nil
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			log.Warn().Err(err).Msg("classifier payload still unparseable after repair")
			return nil
		}
		log.Debug().Int("original_bytes", len(payload)).Int("repaired_bytes", len(repaired)).Msg("repaired classifier JSON")
	}

	groups := make([]models.CommitGroup, 0, len(raw))
	for i, r := range raw {
		message := strings.TrimSpace(r.Message)
		if message == "" {
			log.Warn().Int("index", i).Msg("dropping group with empty message")
			continue
		}
		typ, ok := models.ParseCommitType(strings.ToLower(strings.TrimSpace(r.Type)))
		if !ok {
			log.Warn().Int("index", i).Str("type", r.Type).Msg("unknown commit type, using chore")
			typ = models.TypeChore
		}
		groups = append(groups, models.CommitGroup{Type: typ, Message: message, Hunks: r.Hunks})
	}
	return groups
}

// extractJSONArray pulls the JSON array out of the response, tolerating
// markdown code fences and surrounding prose.
func extractJSONArray(response string) string {
	text := response
	if idx := strings.Index(text, "```json"); idx != -1 {
		text = text[idx+len("```json"):]
	} else if idx := strings.Index(text, "```"); idx != -1 {
		text = text[idx+3:]
	}
	if idx := strings.Index(text, "```"); idx != -1 {
		text = text[:idx]
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 {
		return ""
	}
	if end <= start {
		// Truncated array: hand the open fragment to the repair pass.
		return strings.TrimSpace(text[start:])
	}
	return strings.TrimSpace(text[start : end+1])
}
