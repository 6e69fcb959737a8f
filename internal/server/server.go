// Package server provides the HTTP REST API for interview preparation.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// SessionStore is the session persistence the handlers need. *db.DB satisfies it.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID, jobDescription, resumeText string) (*db.Session, error)
	GetSession(ctx context.Context, sessionID string) (*db.Session, error)
}

// ResearchPipeline runs the research and synthesis stages. *pipeline.Pipeline satisfies it.
type ResearchPipeline interface {
	CompanyResearch(ctx context.Context, req *types.CompanyResearchRequest) *types.StageResult
	InterviewerResearch(ctx context.Context, req *types.InterviewerResearchRequest) *types.StageResult
	GeneratePersona(ctx context.Context, raw json.RawMessage) *types.StageResult
}

// TranscriptAnalyzer scores a finished interview transcript.
type TranscriptAnalyzer interface {
	Analyze(ctx context.Context, sessionID string, transcript json.RawMessage) (map[string]any, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      SessionStore
	pipeline   ResearchPipeline
	analyzer   TranscriptAnalyzer
}

// Config holds server configuration
type Config struct {
	Port int
}

// New creates a new server instance
func New(cfg Config, store SessionStore, pipe ResearchPipeline, analyzer TranscriptAnalyzer) *Server {
	s := &Server{
		store:    store,
		pipeline: pipe,
		analyzer: analyzer,
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Session lifecycle endpoints
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /sessions/{id}/insights", s.handleAnalyzeSession)

	// Research stage endpoints
	mux.HandleFunc("POST /research/company", s.handleCompanyResearch)
	mux.HandleFunc("POST /research/interviewer", s.handleInterviewerResearch)

	// Prompt synthesis endpoint
	mux.HandleFunc("POST /personas", s.handleGeneratePersona)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Research stages poll external providers
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
