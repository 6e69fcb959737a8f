package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Company Research Cache
// -----------------------------------------------------------------------------

// GetCompanyResearch retrieves a cached company record by key.
// Returns (nil, nil) on a miss. Callers treat errors as a miss too: the
// cache is a performance optimization, not a correctness dependency.
func (db *DB) GetCompanyResearch(ctx context.Context, key string) (*CompanyResearch, error) {
	var rec CompanyResearch
	var dataJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT company_key, data, updated_at
		 FROM company_research WHERE company_key = $1`,
		key,
	).Scan(&rec.CompanyKey, &dataJSON, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company research: %w", err)
	}

	if len(dataJSON) > 0 {
		_ = json.Unmarshal(dataJSON, &rec.Data)
	}
	return &rec, nil
}

// PutCompanyResearch stores a company record, replacing any existing one.
// Last writer wins: concurrent identical-key writes from two sessions
// researching the same subject converge to equivalent content.
func (db *DB) PutCompanyResearch(ctx context.Context, key string, data map[string]any) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal company research: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO company_research (company_key, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (company_key) DO UPDATE SET data = $2, updated_at = NOW()`,
		key, dataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to put company research: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Interviewer Research Cache
// -----------------------------------------------------------------------------

// GetInterviewerResearch retrieves a cached interviewer record by handle.
// Returns (nil, nil) on a miss.
func (db *DB) GetInterviewerResearch(ctx context.Context, handle string) (*InterviewerResearch, error) {
	var rec InterviewerResearch
	var dataJSON []byte
	var profile *string

	err := db.pool.QueryRow(ctx,
		`SELECT handle, data, persona_profile, updated_at
		 FROM interviewer_research WHERE handle = $1`,
		handle,
	).Scan(&rec.Handle, &dataJSON, &profile, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interviewer research: %w", err)
	}

	if len(dataJSON) > 0 {
		_ = json.Unmarshal(dataJSON, &rec.Data)
	}
	if profile != nil {
		rec.PersonaProfile = *profile
	}
	return &rec, nil
}

// PutInterviewerResearch stores an interviewer record, replacing any
// existing one. The persona profile may be empty when synthesis failed;
// downstream falls back to a minimal profile built from the raw fields.
func (db *DB) PutInterviewerResearch(ctx context.Context, handle string, data map[string]any, personaProfile string) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal interviewer research: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviewer_research (handle, data, persona_profile, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (handle) DO UPDATE SET data = $2, persona_profile = $3, updated_at = NOW()`,
		handle, dataJSON, nullIfEmpty(personaProfile),
	)
	if err != nil {
		return fmt.Errorf("failed to put interviewer research: %w", err)
	}
	return nil
}
