// Package persona turns raw interviewer research into a persona profile:
// a markdown document describing who the interviewer is and how they
// communicate, used as the personality source for stage prompts.
package persona

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/prompts"
)

// Defaults used when research lacks the corresponding fields.
const (
	DefaultSummary  = "Experienced Professional"
	DefaultHeadline = "Hiring Manager"
)

// Synthesizer generates persona profiles from raw research data.
type Synthesizer struct {
	llm llm.Client
}

// NewSynthesizer creates a Synthesizer backed by the given LLM client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{llm: client}
}

// Generate produces a persona profile from raw interviewer research.
// Empty research yields an empty profile without calling the model;
// callers fall back to FallbackProfile in that case.
func (s *Synthesizer) Generate(ctx context.Context, raw map[string]any) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to marshal research data: %w", err)
	}

	template, err := prompts.Get(prompts.PersonaFile, "generate-profile")
	if err != nil {
		return "", err
	}
	prompt := prompts.Format(template, map[string]string{
		"RawData": string(rawJSON),
	})

	profile, err := s.llm.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate persona profile: %w", err)
	}
	return profile, nil
}

// FallbackProfile builds a minimal profile from whatever summary and
// headline the research carries. Used when generation failed or never ran.
func FallbackProfile(raw map[string]any) string {
	summary := stringField(raw, "summary", DefaultSummary)
	headline := stringField(raw, "headline", DefaultHeadline)

	return prompts.Format(prompts.MustGet(prompts.PersonaFile, "fallback-profile"), map[string]string{
		"Summary":  summary,
		"Headline": headline,
	})
}

// GenericInterviewer returns the stand-in research record used when no
// interviewer was identified for a session.
func GenericInterviewer() map[string]any {
	return map[string]any{
		"name":     "Alex Mercer",
		"headline": "Senior Engineering Manager",
		"summary":  "Experienced engineering leader with over 15 years in software development, cloud architecture, and team building. Passionate about scalable systems and mentorship.",
		"experience": []any{
			map[string]any{
				"title":       "Senior Engineering Manager",
				"company":     "Tech Innovations Inc.",
				"description": "Leading cross-functional teams to deliver high-scale distributed systems.",
			},
		},
		"skills": []any{"System Design", "Leadership", "Python", "Cloud Architecture"},
	}
}

func stringField(raw map[string]any, key, fallback string) string {
	if raw != nil {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
