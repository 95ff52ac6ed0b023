package workflow

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoadvisor/internal/report"
	"repoadvisor/internal/types"
)

type stubFetcher struct {
	snap *types.Snapshot
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, repoURL string) (*types.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snap := *s.snap
	snap.RepoURL = repoURL
	return &snap, nil
}

type scriptLLM struct {
	out     string
	err     error
	prompts []string
}

func (s *scriptLLM) Name() string { return "script" }
func (s *scriptLLM) Close() error { return nil }
func (s *scriptLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func (s *scriptLLM) countPrompts(marker string) int {
	n := 0
	for _, p := range s.prompts {
		if strings.Contains(p, marker) {
			n++
		}
	}
	return n
}

type blockRecorder struct {
	calls [][]report.Block
	path  string
	err   error
}

func (r *blockRecorder) Write(blocks []report.Block) (string, error) {
	r.calls = append(r.calls, blocks)
	if r.err != nil {
		return "", r.err
	}
	return r.path, nil
}

func pySnapshot() *types.Snapshot {
	return &types.Snapshot{
		FileTree:     "├── a.py\n",
		FileContents: "File: a.py\nContent:\ndef f(): pass\n",
		Languages:    []string{"Python"},
	}
}

const analysisMarker = "Code Analyzer Agent"
const recommendationMarker = "Recommendations Agent"

func TestRun_EndToEnd(t *testing.T) {
	llm := &scriptLLM{out: "## Report\n\nLooks fine."}
	analysisDir := t.TempDir()
	m := New(&stubFetcher{snap: pySnapshot()}, llm,
		report.NewWriter(analysisDir, "code_analysis"),
		report.NewWriter(t.TempDir(), "recommendations"))

	st, err := m.Run(context.Background(), "https://github.com/octocat/demo.git", Options{})
	require.NoError(t, err)
	require.NotNil(t, st)

	assert.Equal(t, "https://github.com/octocat/demo", st.RepoURL)
	assert.Equal(t, "## Report\n\nLooks fine.", st.AnalysisText)
	assert.Equal(t, "## Report\n\nLooks fine.", st.RecommendationText)

	// Analysis runs one round, recommendation two.
	assert.Equal(t, 1, llm.countPrompts(analysisMarker))
	assert.Equal(t, 2, llm.countPrompts(recommendationMarker))
	assert.Equal(t, 2, st.IterationCounter)

	for _, path := range []string{st.AnalysisReportPath, st.RecommendationReportPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRun_AnalysisBlocks(t *testing.T) {
	llm := &scriptLLM{out: "## Report\n\nLooks fine."}
	analysis := &blockRecorder{path: "analysis.pdf"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, analysis,
		&blockRecorder{path: "recommendations.pdf"})

	st, err := m.Run(context.Background(), "octocat/demo", Options{})
	require.NoError(t, err)
	require.Len(t, analysis.calls, 1)
	assert.Equal(t, "analysis.pdf", st.AnalysisReportPath)

	var styled []report.Block
	for _, b := range analysis.calls[0] {
		if b.Style == report.StyleHeading || b.Style == report.StyleBody {
			styled = append(styled, b)
		}
	}
	// Title aside: iteration heading, then heading "Report", then body.
	require.Len(t, styled, 3)
	assert.Equal(t, "Analysis Iteration 1", styled[0].Text)
	assert.Equal(t, report.StyleHeading, styled[1].Style)
	assert.Equal(t, "Report", styled[1].Text)
	assert.Equal(t, report.StyleBody, styled[2].Style)
	assert.Equal(t, "Looks fine.", styled[2].Text)
}

func TestRun_EmptyRepositoryContent(t *testing.T) {
	llm := &scriptLLM{out: "unused"}
	m := New(&stubFetcher{snap: &types.Snapshot{FileTree: "├── empty/\n"}}, llm,
		&blockRecorder{}, &blockRecorder{})

	st, err := m.Run(context.Background(), "octocat/demo", Options{})
	assert.Nil(t, st)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, StateDiscovery, werr.Stage)
	assert.Equal(t, "empty repository content", werr.Reason)
	// The generation client is never invoked.
	assert.Empty(t, llm.prompts)
}

func TestRun_FetchFailure(t *testing.T) {
	boom := errors.New("boom")
	llm := &scriptLLM{out: "unused"}
	m := New(&stubFetcher{err: boom}, llm, &blockRecorder{}, &blockRecorder{})

	st, err := m.Run(context.Background(), "octocat/demo", Options{})
	assert.Nil(t, st)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, StateDiscovery, werr.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, llm.prompts)
}

func TestRun_GenerationFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	llm := &scriptLLM{err: boom}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{}, &blockRecorder{})

	st, err := m.Run(context.Background(), "octocat/demo", Options{})
	assert.Nil(t, st)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, StateAnalysis, werr.Stage)
	assert.ErrorIs(t, err, boom)
}

func TestRun_ReportWriteFailure(t *testing.T) {
	llm := &scriptLLM{out: "fine"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm,
		&blockRecorder{err: errors.New("disk full")}, &blockRecorder{})

	st, err := m.Run(context.Background(), "octocat/demo", Options{})
	assert.Nil(t, st)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, StateAnalysis, werr.Stage)
	assert.Equal(t, "report write failed", werr.Reason)
}

func TestReflect_CounterMatchesCalls(t *testing.T) {
	// The counter after a stage equals the number of generation calls.
	for _, ceiling := range []int{1, 2, 3, 5} {
		llm := &scriptLLM{out: "round"}
		m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{}, &blockRecorder{})
		st := &types.WorkflowState{}
		st.ApplySnapshot(pySnapshot())

		records, err := m.reflect(context.Background(), StateAnalysis, st, 0, ceiling)
		require.NoError(t, err)
		assert.Len(t, records, ceiling)
		assert.Len(t, llm.prompts, ceiling)
		assert.Equal(t, ceiling, st.IterationCounter)
		for i, r := range records {
			assert.Equal(t, i+1, r.Round)
		}
	}
}

func TestReflect_FocusChangesAfterFirstRound(t *testing.T) {
	llm := &scriptLLM{out: "round"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{}, &blockRecorder{})
	st := &types.WorkflowState{}
	st.ApplySnapshot(pySnapshot())

	_, err := m.reflect(context.Background(), StateAnalysis, st, 0, 2)
	require.NoError(t, err)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0], analysisFocusInitial)
	assert.Contains(t, llm.prompts[1], analysisFocusReflect)
}

func TestRun_ResumeSkipsCompletedRounds(t *testing.T) {
	llm := &scriptLLM{out: "round"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{}, &blockRecorder{})
	m.AnalysisCeiling = 2

	_, err := m.Run(context.Background(), "octocat/demo", Options{ResumeFromAnalysis: true})
	require.NoError(t, err)
	// Seeded counter leaves a single analysis round to run.
	assert.Equal(t, 1, llm.countPrompts(analysisMarker))
}

func TestRun_DuplicateRoundsKept(t *testing.T) {
	llm := &scriptLLM{out: "Identical output."}
	rec := &blockRecorder{path: "r.pdf"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{path: "a.pdf"}, rec)

	_, err := m.Run(context.Background(), "octocat/demo", Options{})
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)

	var bodies []string
	for _, b := range rec.calls[0] {
		if b.Style == report.StyleBody {
			bodies = append(bodies, b.Text)
		}
	}
	assert.Equal(t, []string{"Identical output.", "Identical output."}, bodies)
}

func TestRun_UserNotesReachPrompt(t *testing.T) {
	llm := &scriptLLM{out: "fine"}
	m := New(&stubFetcher{snap: pySnapshot()}, llm, &blockRecorder{}, &blockRecorder{})

	_, err := m.Run(context.Background(), "octocat/demo", Options{UserNotes: "check SQL injection"})
	require.NoError(t, err)
	require.NotEmpty(t, llm.prompts)
	assert.Contains(t, llm.prompts[0], "check SQL injection")
}
