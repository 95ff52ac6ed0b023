// Package workflow sequences the pipeline stages and enforces the
// bounded reflection loop of each generation stage.
package workflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"repoadvisor/internal/fetch"
	"repoadvisor/internal/llmclient"
	"repoadvisor/internal/report"
	"repoadvisor/internal/types"
)

// State is one node of the linear machine. Failed is an absorbing state
// reachable from any other.
type State int

const (
	StateStart State = iota
	StateDiscovery
	StateAnalysis
	StateRecommendation
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDiscovery:
		return "discovery"
	case StateAnalysis:
		return "analysis"
	case StateRecommendation:
		return "recommendation"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Error is a terminal stage failure. Absence of a final state always
// means failure, never "nothing to do".
type Error struct {
	Stage  State
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow: %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("workflow: %s: %s", e.Stage, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// SnapshotFetcher is the discovery-stage collaborator.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, repoURL string) (*types.Snapshot, error)
}

// ReportWriter persists a built block sequence and returns the file path.
type ReportWriter interface {
	Write(blocks []report.Block) (string, error)
}

// Options tunes a single run.
type Options struct {
	UserNotes string
	// ResumeFromAnalysis seeds the analysis counter to 1 so already
	// completed rounds are not repeated.
	ResumeFromAnalysis bool
}

// Default reflection ceilings: the analysis loop exits after one round,
// the recommendation loop after two.
const (
	DefaultAnalysisCeiling       = 1
	DefaultRecommendationCeiling = 2
)

// Machine runs Start → Discovery → Analysis → Recommendation → Done.
type Machine struct {
	Fetcher               SnapshotFetcher
	LLM                   llmclient.Client
	AnalysisReports       ReportWriter
	RecommendationReports ReportWriter

	AnalysisCeiling       int
	RecommendationCeiling int

	Now func() time.Time
}

func New(f SnapshotFetcher, llm llmclient.Client, analysis, recommendation ReportWriter) *Machine {
	return &Machine{
		Fetcher:               f,
		LLM:                   llm,
		AnalysisReports:       analysis,
		RecommendationReports: recommendation,
		AnalysisCeiling:       DefaultAnalysisCeiling,
		RecommendationCeiling: DefaultRecommendationCeiling,
		Now:                   time.Now,
	}
}

// Run executes the whole pipeline for one repository. On failure it
// returns (nil, *Error); the caller receives no partial state.
func (m *Machine) Run(ctx context.Context, repoURL string, opts Options) (*types.WorkflowState, error) {
	st := &types.WorkflowState{
		RepoURL:   fetch.NormalizeLocator(repoURL),
		UserNotes: opts.UserNotes,
	}

	// Discovery.
	log.Printf("workflow: %s -> %s (%s)", StateStart, StateDiscovery, st.RepoURL)
	snap, err := m.Fetcher.Fetch(ctx, st.RepoURL)
	if err != nil {
		return nil, m.fail(StateDiscovery, "repository fetch failed", err)
	}
	if strings.TrimSpace(snap.FileContents) == "" {
		return nil, m.fail(StateDiscovery, "empty repository content", nil)
	}
	st.ApplySnapshot(snap)
	log.Printf("workflow: discovery complete, languages: %s", strings.Join(st.Languages, ", "))

	// Analysis.
	log.Printf("workflow: %s -> %s", StateDiscovery, StateAnalysis)
	counter := 0
	if opts.ResumeFromAnalysis {
		counter = 1
	}
	records, err := m.reflect(ctx, StateAnalysis, st, counter, m.AnalysisCeiling)
	if err != nil {
		return nil, m.fail(StateAnalysis, "generation failed", err)
	}
	st.AnalysisText = records[len(records)-1].Text
	path, err := m.AnalysisReports.Write(report.Build(
		"Code Analysis Report", "Analysis Iteration",
		recordTexts(records), m.meta(st, "Analysis Date", len(records))))
	if err != nil {
		return nil, m.fail(StateAnalysis, "report write failed", err)
	}
	st.AnalysisReportPath = path
	log.Printf("workflow: analysis report saved to %s", path)

	// Recommendation.
	log.Printf("workflow: %s -> %s", StateAnalysis, StateRecommendation)
	records, err = m.reflect(ctx, StateRecommendation, st, 0, m.RecommendationCeiling)
	if err != nil {
		return nil, m.fail(StateRecommendation, "generation failed", err)
	}
	st.RecommendationText = records[len(records)-1].Text
	path, err = m.RecommendationReports.Write(report.Build(
		"Code Recommendations Report", "Recommendation Iteration",
		recordTexts(records), m.meta(st, "Generation Date", len(records))))
	if err != nil {
		return nil, m.fail(StateRecommendation, "report write failed", err)
	}
	st.RecommendationReportPath = path
	log.Printf("workflow: recommendation report saved to %s", path)

	log.Printf("workflow: %s -> %s", StateRecommendation, StateDone)
	return st, nil
}

// reflect is the bounded inner loop: generate, record, increment, exit
// once the counter reaches the stage ceiling. At least one round always
// runs. Every round's output is kept, duplicates included.
func (m *Machine) reflect(ctx context.Context, stage State, st *types.WorkflowState, counter, ceiling int) ([]types.IterationRecord, error) {
	if ceiling < 1 {
		ceiling = 1
	}
	var records []types.IterationRecord
	for {
		var prompt string
		switch stage {
		case StateAnalysis:
			focus := analysisFocusInitial
			if len(records) > 0 {
				focus = analysisFocusReflect
			}
			prompt = analysisPrompt(st, focus)
		case StateRecommendation:
			prompt = recommendationPrompt(st)
		}
		out, err := m.LLM.Generate(ctx, prompt)
		if err != nil {
			return nil, err
		}
		counter++
		records = append(records, types.IterationRecord{Round: counter, Text: out})
		st.IterationCounter = counter
		if counter >= ceiling {
			return records, nil
		}
	}
}

func (m *Machine) fail(stage State, reason string, err error) error {
	werr := &Error{Stage: stage, Reason: reason, Err: err}
	log.Printf("workflow: %s -> %s: %s", stage, StateFailed, werr)
	return werr
}

func (m *Machine) meta(st *types.WorkflowState, dateLabel string, rounds int) []report.MetaEntry {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return []report.MetaEntry{
		{Label: "Programming Languages", Value: strings.Join(st.Languages, ", ")},
		{Label: dateLabel, Value: now().Format("2006-01-02 15:04:05")},
		{Label: "Total Iterations", Value: strconv.Itoa(rounds)},
	}
}

func recordTexts(records []types.IterationRecord) []string {
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	return texts
}
