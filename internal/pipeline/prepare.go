package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for preparing one session
type RunOptions struct {
	SessionID              string
	CompanyURL             string
	CompanyName            string
	InterviewerName        string
	InterviewerCompany     string
	InterviewerLinkedInURL string
	Verbose                bool
	Printer                *observability.Printer
	OnProgress             ProgressCallback
}

// PrepareResult holds the per-stage outcomes of a full preparation run.
type PrepareResult struct {
	Company     *types.StageResult
	Interviewer *types.StageResult
	Persona     *types.StageResult
}

// logPrefix is used to distinguish concurrent log output
type logPrefix string

const (
	prefixCompany     logPrefix = "[Company]     "
	prefixInterviewer logPrefix = "[Interviewer] "
)

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, stage, message string, result any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Stage:   stage,
			Message: message,
			Result:  result,
		})
	}
}

// PrepareSession runs the full preparation flow for one session: company and
// interviewer research concurrently, then prompt synthesis from whatever
// context the research produced. Interviewer failures degrade; a company
// research failure aborts before synthesis.
func (p *Pipeline) PrepareSession(ctx context.Context, opts RunOptions) (*PrepareResult, error) {
	result := &PrepareResult{}

	fmt.Printf("Preparing session %s...\n", opts.SessionID)

	g, gCtx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	g.Go(func() error {
		fmt.Printf("%sStage 1/3: Researching company...\n", prefixCompany)
		res := p.CompanyResearch(gCtx, &types.CompanyResearchRequest{
			SessionID:   opts.SessionID,
			CompanyURL:  opts.CompanyURL,
			CompanyName: opts.CompanyName,
		})
		mu.Lock()
		result.Company = res
		mu.Unlock()

		emitProgress(&opts, "company_research", res.Message, res)
		if opts.Verbose && opts.Printer != nil {
			opts.Printer.PrintStageResult("company research", res)
		}
		if !res.OK() {
			return fmt.Errorf("company research failed: %s", res.Message)
		}
		fmt.Printf("%s✅ Company research complete.\n", prefixCompany)
		return nil
	})

	g.Go(func() error {
		fmt.Printf("%sStage 2/3: Researching interviewer...\n", prefixInterviewer)
		res := p.InterviewerResearch(gCtx, &types.InterviewerResearchRequest{
			SessionID:          opts.SessionID,
			InterviewerName:    opts.InterviewerName,
			InterviewerCompany: opts.InterviewerCompany,
			CompanyName:        opts.CompanyName,
			LinkedInURL:        opts.InterviewerLinkedInURL,
		})
		mu.Lock()
		result.Interviewer = res
		mu.Unlock()

		emitProgress(&opts, "interviewer_research", res.Message, res)
		if opts.Verbose && opts.Printer != nil {
			opts.Printer.PrintStageResult("interviewer research", res)
		}
		// SKIPPED and FAILED_OPTIONAL are acceptable outcomes here.
		fmt.Printf("%s✅ Interviewer research finished (%s).\n", prefixInterviewer, res.Status)
		return nil
	})

	if err := g.Wait(); err != nil {
		return result, err
	}

	fmt.Println("Stage 3/3: Synthesizing stage prompts...")
	personaReq := &types.PersonaRequest{SessionID: opts.SessionID}
	if result.Company != nil {
		personaReq.CompanyKey = result.Company.CompanyKey
	}
	if result.Interviewer != nil {
		personaReq.InterviewerHandle = result.Interviewer.InterviewerHandle
	}

	result.Persona = p.BuildPersona(ctx, personaReq)
	emitProgress(&opts, "persona", result.Persona.Message, result.Persona)
	if opts.Verbose && opts.Printer != nil {
		opts.Printer.PrintStageResult("persona", result.Persona)
	}
	if !result.Persona.OK() {
		return result, fmt.Errorf("prompt synthesis failed: %s", result.Persona.Message)
	}

	fmt.Printf("✅ Session %s is READY.\n", opts.SessionID)
	return result, nil
}
