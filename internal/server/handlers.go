package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-prep/internal/types"
)

// InsightsResponse represents the response for /sessions/{id}/insights
type InsightsResponse struct {
	SessionID string         `json:"session_id"`
	Insights  map[string]any `json:"insights"`
}

// handleCreateSession creates a session record from the intake payload
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "job_description is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	session, err := s.store.CreateSession(r.Context(), req.SessionID, req.JobDescription, req.ResumeText)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, session)
}

// handleGetSession returns a session record by ID
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, session)
}

// handleCompanyResearch runs the company research stage. The stage result
// carries its own status code; the handler mirrors it.
func (s *Server) handleCompanyResearch(w http.ResponseWriter, r *http.Request) {
	var req types.CompanyResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := s.pipeline.CompanyResearch(r.Context(), &req)
	s.jsonResponse(w, result.StatusCode, result)
}

// handleInterviewerResearch runs the optional interviewer research stage
func (s *Server) handleInterviewerResearch(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewerResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := s.pipeline.InterviewerResearch(r.Context(), &req)
	s.jsonResponse(w, result.StatusCode, result)
}

// handleGeneratePersona synthesizes the stage prompts for a session. The
// body is forwarded raw: it may be a single request object or a list of
// prior stage results.
func (s *Server) handleGeneratePersona(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Request body is required")
		return
	}

	result := s.pipeline.GeneratePersona(r.Context(), raw)
	s.jsonResponse(w, result.StatusCode, result)
}

// handleAnalyzeSession scores a finished interview transcript and stores
// the insights on the session
func (s *Server) handleAnalyzeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Transcript body is required")
		return
	}

	// Accept either {"transcript": ...} or the bare transcript.
	transcript := json.RawMessage(raw)
	var envelope struct {
		Transcript json.RawMessage `json:"transcript"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Transcript) > 0 {
		transcript = envelope.Transcript
	}

	session, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	insights, err := s.analyzer.Analyze(r.Context(), sessionID, transcript)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, InsightsResponse{
		SessionID: sessionID,
		Insights:  insights,
	})
}
