// Package stages synthesizes the four stage prompts for a session:
// introduction, technical, behavioral, conclusion. Each prompt is the
// shared base context plus a stage-specific suffix, persisted together
// so a session is never left with a partial prompt set.
package stages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/persona"
	"github.com/jonathan/interview-prep/internal/prompts"
)

// ErrSessionNotFound is returned when the session record does not exist.
var ErrSessionNotFound = errors.New("session not found")

// NoResumeText renders in the candidate section when intake carried no resume.
const NoResumeText = "No resume provided."

// Store is the session and research persistence the builder depends on.
// *db.DB satisfies it.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*db.Session, error)
	GetCompanyResearch(ctx context.Context, key string) (*db.CompanyResearch, error)
	GetInterviewerResearch(ctx context.Context, handle string) (*db.InterviewerResearch, error)
	SaveStagePrompts(ctx context.Context, sessionID string, prompts *db.StagePrompts) error
}

// Builder assembles and persists stage prompts.
type Builder struct {
	store Store
}

// NewBuilder creates a Builder on the given store.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// Build synthesizes all four stage prompts for the session and persists
// them atomically with status READY. Research keys from the request take
// precedence; when absent, the links recorded on the session are used.
// Missing research never fails the build — sections render with empty or
// generic bodies instead.
func (b *Builder) Build(ctx context.Context, sessionID, interviewerHandle, companyKey string) (*db.StagePrompts, error) {
	session, err := b.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if interviewerHandle == "" && session.InterviewerHandle != nil {
		interviewerHandle = *session.InterviewerHandle
	}
	if companyKey == "" && session.CompanyKey != nil {
		companyKey = *session.CompanyKey
	}

	fmt.Printf("Generating stage prompts for session %s (interviewer=%q company=%q)\n",
		sessionID, interviewerHandle, companyKey)

	interviewerData, profile := b.interviewerContext(ctx, interviewerHandle)
	companyData := b.companyContext(ctx, companyKey)

	base := buildBaseContext(session, profile, interviewerData, companyData)

	stagePrompts := &db.StagePrompts{
		Introduction: base + prompts.MustGet(prompts.StagesFile, "stage-introduction"),
		Technical:    base + prompts.MustGet(prompts.StagesFile, "stage-technical"),
		Behavioral:   base + prompts.MustGet(prompts.StagesFile, "stage-behavioral"),
		Conclusion:   base + prompts.MustGet(prompts.StagesFile, "stage-conclusion"),
	}

	if err := b.store.SaveStagePrompts(ctx, sessionID, stagePrompts); err != nil {
		return nil, fmt.Errorf("failed to persist stage prompts: %w", err)
	}
	return stagePrompts, nil
}

// interviewerContext resolves the raw interviewer data and persona profile.
// No handle means no interviewer was identified for this session, so the
// generic senior interviewer stands in. A handle whose record is missing
// or unreadable degrades to an empty record with the minimal profile.
func (b *Builder) interviewerContext(ctx context.Context, handle string) (map[string]any, string) {
	if handle == "" {
		fmt.Println("No interviewer handle - using default senior interviewer persona")
		data := persona.GenericInterviewer()
		return data, persona.FallbackProfile(data)
	}

	rec, err := b.store.GetInterviewerResearch(ctx, handle)
	if err != nil {
		fmt.Printf("Failed to load interviewer research for %s: %v\n", handle, err)
	}
	if rec == nil {
		return map[string]any{}, persona.FallbackProfile(nil)
	}

	data := rec.Data
	if data == nil {
		data = map[string]any{}
	}
	profile := rec.PersonaProfile
	if profile == "" {
		profile = persona.FallbackProfile(data)
	}
	return data, profile
}

// companyContext resolves the raw company data. Absence or load failure
// yields an empty body: the company section is rendered regardless.
func (b *Builder) companyContext(ctx context.Context, key string) map[string]any {
	if key == "" {
		return map[string]any{}
	}

	rec, err := b.store.GetCompanyResearch(ctx, key)
	if err != nil {
		fmt.Printf("Failed to load company research for %s: %v\n", key, err)
		return map[string]any{}
	}
	if rec == nil || rec.Data == nil {
		return map[string]any{}
	}
	return rec.Data
}

func buildBaseContext(session *db.Session, profile string, interviewerData, companyData map[string]any) string {
	resumeText := session.ResumeText
	if resumeText == "" {
		resumeText = NoResumeText
	}

	return prompts.Format(prompts.MustGet(prompts.StagesFile, "base-context"), map[string]string{
		"PersonaProfile":  profile,
		"InterviewerData": indentJSON(interviewerData),
		"CompanyData":     indentJSON(companyData),
		"JobDescription":  session.JobDescription,
		"ResumeText":      resumeText,
	})
}

func indentJSON(v map[string]any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
