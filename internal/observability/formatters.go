// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStageResult outputs a one-box summary of a pipeline stage outcome.
func (p *Printer) PrintStageResult(stage string, result *types.StageResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:   %s (%d)\n", result.Status, result.StatusCode))
	if result.SessionID != "" {
		sb.WriteString(fmt.Sprintf("Session:  %s\n", result.SessionID))
	}
	if result.CompanyKey != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", result.CompanyKey))
	}
	if result.InterviewerHandle != "" {
		sb.WriteString(fmt.Sprintf("Handle:   %s\n", result.InterviewerHandle))
	}
	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("Message:  %s\n", result.Message))
	}

	p.printBox(strings.ToUpper(stage)+" RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResearchData outputs the top-level fields of a research payload.
func (p *Printer) PrintResearchData(title string, data map[string]any) {
	if len(data) == 0 {
		return
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	count := min(len(keys), maxItemsToShow)
	for i := 0; i < count; i++ {
		value := fmt.Sprintf("%v", data[keys[i]])
		if len(value) > 40 {
			value = value[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s: %s\n", keys[i], value))
	}
	if len(keys) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more fields\n", len(keys)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPersonaProfile outputs the synthesized persona profile headings.
func (p *Printer) PrintPersonaProfile(profile string) {
	if profile == "" {
		return
	}

	var sb strings.Builder
	shown := 0
	for _, line := range strings.Split(profile, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString(line + "\n")
		shown++
		if shown >= maxItemsToShow*2 {
			sb.WriteString("...\n")
			break
		}
	}

	p.printBox("PERSONA PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStagePrompts outputs the sizes of the four synthesized prompts.
func (p *Printer) PrintStagePrompts(prompts *db.StagePrompts) {
	if prompts == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Introduction:  %6d chars\n", len(prompts.Introduction)))
	sb.WriteString(fmt.Sprintf("Technical:     %6d chars\n", len(prompts.Technical)))
	sb.WriteString(fmt.Sprintf("Behavioral:    %6d chars\n", len(prompts.Behavioral)))
	sb.WriteString(fmt.Sprintf("Conclusion:    %6d chars", len(prompts.Conclusion)))

	p.printBox("STAGE PROMPTS", sb.String())
}
