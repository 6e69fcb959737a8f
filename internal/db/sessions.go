package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Session Records
// -----------------------------------------------------------------------------

// CreateSession inserts a new session record from the intake step.
func (db *DB) CreateSession(ctx context.Context, sessionID, jobDescription, resumeText string) (*Session, error) {
	var s Session
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sessions (session_id, job_description, resume_text, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING session_id, job_description, COALESCE(resume_text, ''), status, created_at, updated_at`,
		sessionID, jobDescription, nullIfEmpty(resumeText), SessionStatusPending,
	).Scan(&s.SessionID, &s.JobDescription, &s.ResumeText, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

// GetSession retrieves a session record by ID. Returns (nil, nil) when absent.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	var insightsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT session_id, job_description, COALESCE(resume_text, ''),
		        company_key, interviewer_handle,
		        prompt_introduction, prompt_technical, prompt_behavioral, prompt_conclusion,
		        status, insights, analysis_status, created_at, updated_at
		 FROM sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.SessionID, &s.JobDescription, &s.ResumeText,
		&s.CompanyKey, &s.InterviewerHandle,
		&s.PromptIntro, &s.PromptTechnical, &s.PromptBehavioral, &s.PromptConclusion,
		&s.Status, &insightsJSON, &s.AnalysisStatus, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if len(insightsJSON) > 0 {
		_ = json.Unmarshal(insightsJSON, &s.Insights)
	}
	return &s, nil
}

// LinkSessionCompany records the company cache key on the session.
// Field-scoped update: unrelated session fields are never touched.
func (db *DB) LinkSessionCompany(ctx context.Context, sessionID, companyKey string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE sessions SET company_key = $1, updated_at = NOW() WHERE session_id = $2`,
		companyKey, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to link session to company: %w", err)
	}
	return nil
}

// LinkSessionInterviewer records the interviewer cache handle on the session.
func (db *DB) LinkSessionInterviewer(ctx context.Context, sessionID, handle string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE sessions SET interviewer_handle = $1, updated_at = NOW() WHERE session_id = $2`,
		handle, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to link session to interviewer: %w", err)
	}
	return nil
}

// StagePrompts holds the four synthesized stage prompts.
type StagePrompts struct {
	Introduction string
	Technical    string
	Behavioral   string
	Conclusion   string
}

// Complete reports whether every stage prompt is present.
func (p *StagePrompts) Complete() bool {
	return p.Introduction != "" && p.Technical != "" && p.Behavioral != "" && p.Conclusion != ""
}

// SaveStagePrompts persists all four stage prompts plus status READY in a
// single statement. The session is never left with a partial prompt set.
func (db *DB) SaveStagePrompts(ctx context.Context, sessionID string, prompts *StagePrompts) error {
	if !prompts.Complete() {
		return fmt.Errorf("refusing to save incomplete stage prompts for session %s", sessionID)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE sessions SET
		    prompt_introduction = $1,
		    prompt_technical = $2,
		    prompt_behavioral = $3,
		    prompt_conclusion = $4,
		    status = $5,
		    updated_at = NOW()
		 WHERE session_id = $6`,
		prompts.Introduction, prompts.Technical, prompts.Behavioral, prompts.Conclusion,
		SessionStatusReady, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to save stage prompts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

// SaveInsights persists post-interview insights on the session record.
func (db *DB) SaveInsights(ctx context.Context, sessionID string, insights map[string]any) error {
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE sessions SET insights = $1, analysis_status = $2, updated_at = NOW()
		 WHERE session_id = $3`,
		insightsJSON, AnalysisStatusCompleted, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to save insights: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}
