// Package insights scores a finished interview: one LLM pass over the
// transcript produces structured feedback (summary, strengths, weaknesses,
// score, next steps) persisted on the session. One-shot: no retry, no cache.
package insights

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
)

//go:embed insight_schema.json
var insightSchema string

// ErrEmptyTranscript indicates the request carried no usable transcript text.
var ErrEmptyTranscript = errors.New("transcript is empty")

// Store persists generated insights. *db.DB satisfies it.
type Store interface {
	SaveInsights(ctx context.Context, sessionID string, insights map[string]any) error
}

// Analyzer runs post-interview transcript analysis.
type Analyzer struct {
	llm   llm.Client
	store Store
}

// NewAnalyzer creates an Analyzer on the given model client and store.
func NewAnalyzer(client llm.Client, store Store) *Analyzer {
	return &Analyzer{llm: client, store: store}
}

// FormatTranscript renders the transcript request body for the prompt.
// A list of messages becomes "ROLE: content" lines; anything else is
// treated as a raw transcript string.
func FormatTranscript(raw json.RawMessage) string {
	var messages []types.TranscriptMessage
	if err := json.Unmarshal(raw, &messages); err == nil {
		var sb strings.Builder
		for _, msg := range messages {
			role := msg.Role
			if role == "" {
				role = "unknown"
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", strings.ToUpper(role), msg.Content))
		}
		return sb.String()
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

// Analyze generates insights for a session transcript, validates the model
// output against the insight schema, and persists it.
func (a *Analyzer) Analyze(ctx context.Context, sessionID string, transcript json.RawMessage) (map[string]any, error) {
	text := strings.TrimSpace(FormatTranscript(transcript))
	if text == "" {
		return nil, ErrEmptyTranscript
	}

	template, err := prompts.Get(prompts.InsightsFile, "analyze-transcript")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{"Transcript": text})

	fmt.Printf("Generating insights for session %s...\n", sessionID)
	output, err := a.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(output)
	if err := schemas.ValidateJSONString(insightSchema, cleaned); err != nil {
		return nil, fmt.Errorf("insight output rejected: %w", err)
	}

	var insights map[string]any
	if err := json.Unmarshal([]byte(cleaned), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insight output: %w", err)
	}

	if err := a.store.SaveInsights(ctx, sessionID, insights); err != nil {
		return nil, fmt.Errorf("failed to save insights: %w", err)
	}
	return insights, nil
}
