package types

import "net/http"

// Stage outcome statuses. SKIPPED and FAILED_OPTIONAL are deliberate
// non-error outcomes: the pipeline proceeds with degraded context.
const (
	StageStatusSuccess        = "SUCCESS"
	StageStatusSkipped        = "SKIPPED"
	StageStatusFailedOptional = "FAILED_OPTIONAL"
	StageStatusReady          = "READY"
	StageStatusError          = "ERROR"
)

// StageResult is the uniform structured outcome every pipeline stage
// returns. Stages never surface raw provider errors past this shape.
type StageResult struct {
	StatusCode        int    `json:"statusCode"`
	SessionID         string `json:"session_id,omitempty"`
	Status            string `json:"status,omitempty"`
	Message           string `json:"message,omitempty"`
	CompanyKey        string `json:"company_url,omitempty"`
	InterviewerHandle string `json:"interviewer_linkedin_id,omitempty"`
	InterviewerURL    string `json:"interviewer_linkedin_url,omitempty"`
}

// OK reports whether the stage completed without a fatal failure.
// Skipped and failed-optional outcomes still count as OK.
func (r *StageResult) OK() bool {
	return r.StatusCode < http.StatusBadRequest
}

// TranscriptMessage is one turn of a recorded interview transcript.
type TranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
