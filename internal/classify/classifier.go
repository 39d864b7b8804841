// Package classify is the boundary to the commit classifier: it replays diff
// chunks to an LLM, then hardens and validates the proposed commit groups
// before they reach the orchestrator. A classifier-side failure of any kind
// degrades to zero groups; raw model output never crosses this boundary.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/gitsplit/pkg/models"
)

// Classifier proposes an ordered list of commit groups for a chunked diff.
type Classifier interface {
	Classify(ctx context.Context, chunks []string) []models.CommitGroup
}

// Config selects and configures the LLM backend.
type Config struct {
	Backend   string // "googleai" or "ollama"
	APIKey    string
	Model     string
	ServerURL string // ollama only
}

// LLMClassifier calls a langchaingo model and decodes its response.
type LLMClassifier struct {
	llm     llms.Model
	model   string
	backoff Backoff
}

// New builds a classifier for the configured backend.
func New(ctx context.Context, cfg Config) (*LLMClassifier, error) {
	llm, err := createModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &LLMClassifier{llm: llm, model: cfg.Model, backoff: DefaultBackoff()}, nil
}

func createModel(ctx context.Context, cfg Config) (llms.Model, error) {
	switch cfg.Backend {
	case "", "googleai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai backend requires an API key")
		}
		opts := []googleai.Option{googleai.WithAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(cfg.Model))
		}
		return googleai.New(ctx, opts...)
	case "ollama":
		serverURL := cfg.ServerURL
		if serverURL == "" {
			serverURL = "http://localhost:11434"
		}
		return ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(cfg.Model))
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

// Classify sends the chunks in original order followed by the terminal
// sentinel, then decodes the response. Any failure (transport after retries,
// unparseable payload, wrong shape) degrades to zero groups with a warning.
func (c *LLMClassifier) Classify(ctx context.Context, chunks []string) []models.CommitGroup {
	prompt := buildPrompt(chunks)
	log.Debug().Str("model", c.model).Int("chunks", len(chunks)).Msg("sending diff to classifier")

	var response string
	err := c.backoff.Retry(ctx, func() error {
		var callErr error
		response, callErr = llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
		return callErr
	})
	if err != nil {
		log.Warn().Err(err).Msg("classifier call failed; continuing with no groups")
		return nil
	}

	groups := ParseGroups(response)
	if len(groups) == 0 {
		log.Warn().Msg("classifier returned no usable commit groups")
	}
	return groups
}

// chunkSentinel tells the model the chunk sequence is complete. It is sent
// even when there are zero chunks.
const chunkSentinel = "--- END OF DIFF ---"

func buildPrompt(chunks []string) string {
	var b strings.Builder

	b.WriteString("You are an expert at splitting one git diff into semantically coherent commits.\n\n")
	b.WriteString("The full unified diff follows, split into ordered chunks. Read every chunk before answering.\n\n")

	for i, chunk := range chunks {
		b.WriteString(fmt.Sprintf("## Diff chunk %d of %d\n\n```diff\n", i+1, len(chunks)))
		b.WriteString(chunk)
		b.WriteString("```\n\n")
	}
	b.WriteString(chunkSentinel)
	b.WriteString("\n\n")

	b.WriteString("Group the changes into the fewest coherent commits. Respond with ONLY a JSON array:\n")
	b.WriteString("```json\n")
	b.WriteString("[\n")
	b.WriteString("  {\n")
	b.WriteString("    \"type\": \"feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert\",\n")
	b.WriteString("    \"message\": \"imperative summary under 72 characters\",\n")
	b.WriteString("    \"hunks\": [\"complete diff text for this commit, starting with 'diff --git'\"]\n")
	b.WriteString("  }\n")
	b.WriteString("]\n")
	b.WriteString("```\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Every hunk must be copied verbatim from the diff above, including its 'diff --git' header.\n")
	b.WriteString("- Each file's changes belong to exactly one commit.\n")
	b.WriteString("- Order commits so that earlier commits do not depend on later ones.\n")

	return b.String()
}
