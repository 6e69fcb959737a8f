package db

import "time"

// Subject types for the research cache. Each subject type has its own
// table; the constants exist for log/result context.
const (
	SubjectCompany     = "company"
	SubjectInterviewer = "interviewer"
)

// CompanyFallbackPrefix marks cache keys derived from a display name
// rather than a canonical URL. No URL begins with this prefix, so the two
// key spaces can never collide.
const CompanyFallbackPrefix = "name:"

// CompanyResearch is the globally cached research record for one company.
// One record per key; refreshes overwrite the record wholesale.
type CompanyResearch struct {
	CompanyKey string         `json:"company_url"`
	Data       map[string]any `json:"data"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// InterviewerResearch is the globally cached research record for one
// interviewer, keyed by the stable profile handle (never the raw URL —
// the same person is reachable via several URL variants).
type InterviewerResearch struct {
	Handle         string         `json:"linkedin_url"`
	Data           map[string]any `json:"data"`
	PersonaProfile string         `json:"persona_profile,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
