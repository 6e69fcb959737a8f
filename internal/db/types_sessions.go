package db

import "time"

// Session status constants
const (
	SessionStatusPending = "PENDING"
	SessionStatusReady   = "READY"
)

// Analysis status constants for post-interview insights
const (
	AnalysisStatusCompleted = "COMPLETED"
)

// Session represents one candidate's scheduled mock-interview instance.
// It holds the intake context (job description, resume) plus weak links to
// the shared research records and the synthesized stage prompts.
type Session struct {
	SessionID         string         `json:"session_id"`
	JobDescription    string         `json:"job_description"`
	ResumeText        string         `json:"resume_text,omitempty"`
	CompanyKey        *string        `json:"company_url,omitempty"`
	InterviewerHandle *string        `json:"interviewer_linkedin_id,omitempty"`
	PromptIntro       *string        `json:"prompt_introduction,omitempty"`
	PromptTechnical   *string        `json:"prompt_technical,omitempty"`
	PromptBehavioral  *string        `json:"prompt_behavioral,omitempty"`
	PromptConclusion  *string        `json:"prompt_conclusion,omitempty"`
	Status            string         `json:"status"`
	Insights          map[string]any `json:"insights,omitempty"`
	AnalysisStatus    *string        `json:"analysis_status,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ValidSessionStatus reports whether s is a known session status.
func ValidSessionStatus(s string) bool {
	switch s {
	case SessionStatusPending, SessionStatusReady:
		return true
	}
	return false
}
