// Package types provides type definitions for structured data used throughout the interview-prep system.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CompanyResearchRequest asks the pipeline to research a target company.
// At least one of CompanyURL/CompanyName must be set; the cross-field rule
// lives in Validate since it spans two fields.
type CompanyResearchRequest struct {
	SessionID   string `json:"session_id,omitempty"`
	CompanyURL  string `json:"company_url,omitempty" validate:"omitempty,url"`
	CompanyName string `json:"company_name,omitempty"`
}

// InterviewerResearchRequest asks the pipeline to research a target interviewer.
// All inputs are optional: a request with nothing resolvable is skipped, not rejected.
type InterviewerResearchRequest struct {
	SessionID          string `json:"session_id,omitempty"`
	InterviewerName    string `json:"interviewer_name,omitempty"`
	InterviewerCompany string `json:"interviewer_company,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	LinkedInURL        string `json:"interviewer_linkedin_url,omitempty"`
}

// PersonaRequest is the canonical input for stage prompt synthesis after
// normalization. InterviewerHandle and CompanyKey are optional; absence
// degrades to the generic persona / empty company context.
type PersonaRequest struct {
	SessionID         string `json:"session_id" validate:"required"`
	InterviewerHandle string `json:"interviewer_linkedin_id,omitempty"`
	CompanyKey        string `json:"company_url,omitempty"`
}

// CreateSessionRequest is the intake payload that seeds a session record.
type CreateSessionRequest struct {
	SessionID      string `json:"session_id,omitempty"`
	JobDescription string `json:"job_description" validate:"required"`
	ResumeText     string `json:"resume_text,omitempty"`
}

// Validate validates the CompanyResearchRequest using the validator.
func (r *CompanyResearchRequest) Validate() error {
	if r.CompanyURL == "" && r.CompanyName == "" {
		return fmt.Errorf("either company_url or company_name is required")
	}
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PersonaRequest using the validator.
func (r *PersonaRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// NormalizePersonaRequest accepts the two event shapes the synthesis stage
// is invoked with: a single request object, or a list of prior stage results.
// For the list shape, session_id, interviewer handle, and company key are
// collected from whichever elements carry them.
func NormalizePersonaRequest(raw json.RawMessage) (*PersonaRequest, error) {
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err == nil {
		req := &PersonaRequest{}
		for _, item := range items {
			if v, ok := item["session_id"].(string); ok && v != "" {
				req.SessionID = v
			}
			if v, ok := item["interviewer_linkedin_id"].(string); ok && v != "" {
				req.InterviewerHandle = v
			}
			if v, ok := item["company_url"].(string); ok && v != "" {
				req.CompanyKey = v
			}
		}
		return req, nil
	}

	var req PersonaRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("request must be an object or a list of stage results: %w", err)
	}
	return &req, nil
}
