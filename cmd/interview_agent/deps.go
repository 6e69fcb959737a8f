package main

import (
	"context"
	"fmt"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/identity"
	"github.com/jonathan/interview-prep/internal/insights"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/persona"
	"github.com/jonathan/interview-prep/internal/pipeline"
	"github.com/jonathan/interview-prep/internal/stages"
)

// deps holds the wired service graph shared by the serve and prepare commands.
type deps struct {
	db       *db.DB
	llm      llm.Client
	pipeline *pipeline.Pipeline
	analyzer *insights.Analyzer
}

// Close releases the underlying clients and the database pool.
func (d *deps) Close() {
	if d.llm != nil {
		_ = d.llm.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

// buildDeps wires providers, storage, and the pipeline from configuration.
// Both commands need the full graph, so every provider key is required.
func buildDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	if err := cfg.Require(
		config.SettingDatabaseURL,
		config.SettingGeminiAPIKey,
		config.SettingTaskRunAPIKey,
		config.SettingProfileAPIKey,
		config.SettingSearchAPIKey,
	); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	model, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	searcher, err := identity.NewSearcher(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
	if err != nil {
		_ = model.Close()
		database.Close()
		return nil, fmt.Errorf("failed to create profile searcher: %w", err)
	}

	d := &deps{db: database, llm: model}
	d.pipeline = &pipeline.Pipeline{
		Store:       database,
		Tasks:       fetch.NewTaskClient(cfg.TaskRunBaseURL, cfg.TaskRunAPIKey),
		Profiles:    fetch.NewProfileClient(cfg.ProfileBaseURL, cfg.ProfileAPIKey),
		Resolver:    identity.NewResolver(searcher),
		Synthesizer: persona.NewSynthesizer(model),
		Builder:     stages.NewBuilder(database),
	}
	d.analyzer = insights.NewAnalyzer(model, database)
	return d, nil
}
