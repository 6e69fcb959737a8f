// Package pipeline provides the high-level orchestration for pre-session
// research and prompt synthesis. Each stage returns a structured
// StageResult; optional stages degrade instead of failing the run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/identity"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/stages"
	"github.com/jonathan/interview-prep/internal/types"
)

// Store is the research cache and session persistence the pipeline needs.
// *db.DB satisfies it.
type Store interface {
	GetCompanyResearch(ctx context.Context, key string) (*db.CompanyResearch, error)
	PutCompanyResearch(ctx context.Context, key string, data map[string]any) error
	GetInterviewerResearch(ctx context.Context, handle string) (*db.InterviewerResearch, error)
	PutInterviewerResearch(ctx context.Context, handle string, data map[string]any, personaProfile string) error
	LinkSessionCompany(ctx context.Context, sessionID, companyKey string) error
	LinkSessionInterviewer(ctx context.Context, sessionID, handle string) error
}

// TaskRunner submits a research input and polls for its outcome.
type TaskRunner interface {
	Research(ctx context.Context, input string) *fetch.Outcome
}

// ProfileFetcher retrieves an interviewer profile by handle.
type ProfileFetcher interface {
	Fetch(ctx context.Context, handle string) *fetch.Outcome
}

// InterviewerResolver turns heterogeneous interviewer inputs into a handle.
type InterviewerResolver interface {
	ResolveInterviewer(ctx context.Context, profileURL, name, company string) (string, string, error)
}

// ProfileSynthesizer generates a persona profile from raw research data.
type ProfileSynthesizer interface {
	Generate(ctx context.Context, raw map[string]any) (string, error)
}

// PromptBuilder synthesizes and persists the four stage prompts.
type PromptBuilder interface {
	Build(ctx context.Context, sessionID, interviewerHandle, companyKey string) (*db.StagePrompts, error)
}

// Pipeline wires the research stages to their providers and storage.
type Pipeline struct {
	Store       Store
	Tasks       TaskRunner
	Profiles    ProfileFetcher
	Resolver    InterviewerResolver
	Synthesizer ProfileSynthesizer
	Builder     PromptBuilder
}

// CompanyResearch resolves company context for a session: cache hit when the
// URL is already known, otherwise one provider fetch. Company research is
// the primary deliverable, so a provider failure is fatal for the stage.
func (p *Pipeline) CompanyResearch(ctx context.Context, req *types.CompanyResearchRequest) *types.StageResult {
	if err := req.Validate(); err != nil {
		return &types.StageResult{
			StatusCode: http.StatusBadRequest,
			SessionID:  req.SessionID,
			Status:     types.StageStatusError,
			Message:    err.Error(),
		}
	}

	// Cache is keyed by URL; name-only requests go straight to the provider.
	if req.CompanyURL != "" {
		rec, err := p.Store.GetCompanyResearch(ctx, req.CompanyURL)
		if err != nil {
			fmt.Printf("Company cache check failed for %s: %v\n", req.CompanyURL, err)
		}
		if rec != nil {
			fmt.Printf("Company cache hit for %s\n", req.CompanyURL)
			p.linkCompany(ctx, req.SessionID, req.CompanyURL)
			return &types.StageResult{
				StatusCode: http.StatusOK,
				SessionID:  req.SessionID,
				Status:     types.StageStatusSuccess,
				CompanyKey: req.CompanyURL,
			}
		}
	}

	input := companyResearchInput(req.CompanyURL, req.CompanyName)
	fmt.Printf("Fetching company research for %s...\n", searchTarget(req.CompanyURL, req.CompanyName))

	outcome := p.Tasks.Research(ctx, input)
	if !outcome.Success() {
		return &types.StageResult{
			StatusCode: http.StatusInternalServerError,
			SessionID:  req.SessionID,
			Status:     types.StageStatusError,
			Message:    fmt.Sprintf("Company research failed (%s): %s", outcome.Status, outcome.Detail),
		}
	}

	data := outcome.Payload
	// Some provider responses wrap the record in a content envelope.
	if content, ok := data["content"]; ok {
		data = fetch.NormalizePayload(content)
	}

	finalKey := identity.CompanyKey(req.CompanyURL, req.CompanyName)
	if err := p.Store.PutCompanyResearch(ctx, finalKey, data); err != nil {
		fmt.Printf("Failed to store company research for %s: %v\n", finalKey, err)
	}
	p.linkCompany(ctx, req.SessionID, finalKey)

	return &types.StageResult{
		StatusCode: http.StatusOK,
		SessionID:  req.SessionID,
		Status:     types.StageStatusSuccess,
		CompanyKey: finalKey,
	}
}

// InterviewerResearch resolves interviewer context for a session. The whole
// stage is optional: unresolvable inputs and provider failures yield SKIPPED
// or FAILED_OPTIONAL results, never errors.
func (p *Pipeline) InterviewerResearch(ctx context.Context, req *types.InterviewerResearchRequest) *types.StageResult {
	company := req.CompanyName
	if company == "" {
		company = req.InterviewerCompany
	}

	if req.LinkedInURL == "" && (req.InterviewerName == "" || company == "") {
		fmt.Println("No interviewer details provided. Skipping research.")
		return &types.StageResult{
			StatusCode: http.StatusOK,
			SessionID:  req.SessionID,
			Status:     types.StageStatusSkipped,
			Message:    "No interviewer details provided",
		}
	}

	handle, profileURL, err := p.Resolver.ResolveInterviewer(ctx, req.LinkedInURL, req.InterviewerName, company)
	if err != nil {
		fmt.Printf("Interviewer resolution failed: %v\n", err)
	}
	if handle == "" {
		message := "LinkedIn profile not found"
		if req.LinkedInURL != "" {
			message = "Invalid LinkedIn URL format"
		}
		return &types.StageResult{
			StatusCode: http.StatusOK,
			SessionID:  req.SessionID,
			Status:     types.StageStatusFailedOptional,
			Message:    message,
		}
	}

	rec, err := p.Store.GetInterviewerResearch(ctx, handle)
	if err != nil {
		fmt.Printf("Interviewer cache check failed for %s: %v\n", handle, err)
	}
	if rec != nil {
		fmt.Printf("Interviewer cache hit for %s\n", handle)
		p.linkInterviewer(ctx, req.SessionID, handle)
		return &types.StageResult{
			StatusCode:        http.StatusOK,
			SessionID:         req.SessionID,
			Status:            types.StageStatusSuccess,
			InterviewerHandle: handle,
			InterviewerURL:    profileURL,
		}
	}

	outcome := p.Profiles.Fetch(ctx, handle)
	if !outcome.Success() {
		fmt.Printf("Profile fetch failed for %s (%s): %s\n", handle, outcome.Status, outcome.Detail)
		return &types.StageResult{
			StatusCode: http.StatusOK,
			SessionID:  req.SessionID,
			Status:     types.StageStatusFailedOptional,
			Message:    fmt.Sprintf("Profile fetch failed: %s", outcome.Detail),
		}
	}

	fmt.Println("Generating persona profile...")
	profile, err := p.Synthesizer.Generate(ctx, outcome.Payload)
	if err != nil {
		// Best-effort: the prompt builder falls back to a minimal profile.
		fmt.Printf("Persona profile generation failed for %s: %v\n", handle, err)
		profile = ""
	}

	if err := p.Store.PutInterviewerResearch(ctx, handle, outcome.Payload, profile); err != nil {
		fmt.Printf("Failed to store interviewer research for %s: %v\n", handle, err)
	}
	p.linkInterviewer(ctx, req.SessionID, handle)

	return &types.StageResult{
		StatusCode:        http.StatusOK,
		SessionID:         req.SessionID,
		Status:            types.StageStatusSuccess,
		InterviewerHandle: handle,
		InterviewerURL:    profileURL,
	}
}

// BuildPersona synthesizes the four stage prompts for a session.
func (p *Pipeline) BuildPersona(ctx context.Context, req *types.PersonaRequest) *types.StageResult {
	if err := req.Validate(); err != nil {
		return &types.StageResult{
			StatusCode: http.StatusBadRequest,
			Status:     types.StageStatusError,
			Message:    "session_id is required",
		}
	}

	_, err := p.Builder.Build(ctx, req.SessionID, req.InterviewerHandle, req.CompanyKey)
	if err != nil {
		if errors.Is(err, stages.ErrSessionNotFound) {
			return &types.StageResult{
				StatusCode: http.StatusNotFound,
				SessionID:  req.SessionID,
				Status:     types.StageStatusError,
				Message:    err.Error(),
			}
		}
		return &types.StageResult{
			StatusCode: http.StatusInternalServerError,
			SessionID:  req.SessionID,
			Status:     types.StageStatusError,
			Message:    err.Error(),
		}
	}

	return &types.StageResult{
		StatusCode: http.StatusOK,
		SessionID:  req.SessionID,
		Status:     types.StageStatusReady,
	}
}

// GeneratePersona accepts the raw synthesis request body — a single object
// or a list of prior stage results — and builds the stage prompts.
func (p *Pipeline) GeneratePersona(ctx context.Context, raw json.RawMessage) *types.StageResult {
	req, err := types.NormalizePersonaRequest(raw)
	if err != nil {
		return &types.StageResult{
			StatusCode: http.StatusBadRequest,
			Status:     types.StageStatusError,
			Message:    err.Error(),
		}
	}
	return p.BuildPersona(ctx, req)
}

func (p *Pipeline) linkCompany(ctx context.Context, sessionID, key string) {
	if sessionID == "" {
		return
	}
	if err := p.Store.LinkSessionCompany(ctx, sessionID, key); err != nil {
		fmt.Printf("Failed to link session %s to company %s: %v\n", sessionID, key, err)
	}
}

func (p *Pipeline) linkInterviewer(ctx context.Context, sessionID, handle string) {
	if sessionID == "" {
		return
	}
	if err := p.Store.LinkSessionInterviewer(ctx, sessionID, handle); err != nil {
		fmt.Printf("Failed to link session %s to interviewer %s: %v\n", sessionID, handle, err)
	}
}

func companyResearchInput(companyURL, companyName string) string {
	if companyURL != "" {
		return prompts.Format(prompts.MustGet(prompts.ResearchFile, "company-by-url"), map[string]string{
			"CompanyURL": companyURL,
		})
	}
	return prompts.Format(prompts.MustGet(prompts.ResearchFile, "company-by-name"), map[string]string{
		"CompanyName": companyName,
	})
}

func searchTarget(companyURL, companyName string) string {
	if companyURL != "" {
		return companyURL
	}
	return companyName
}
