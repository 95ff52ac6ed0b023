// Package types holds the records threaded through the pipeline.
package types

// Snapshot is the captured view of a repository at fetch time.
// It is produced once by the fetch stage and read-only afterwards.
type Snapshot struct {
	RepoURL      string
	FileTree     string
	FileContents string
	// Sorted, de-duplicated language names.
	Languages []string
}

// IterationRecord is the text produced by one reflection round.
// Records are kept in generation order and never de-duplicated.
type IterationRecord struct {
	Round int
	Text  string
}

// WorkflowState is threaded through every stage. Each stage writes only
// the fields it owns and must not touch fields of an earlier stage.
type WorkflowState struct {
	RepoURL   string
	UserNotes string

	FileTree     string
	FileContents string
	Languages    []string

	AnalysisText       string
	RecommendationText string

	// IterationCounter reflects the round count of the most recently
	// finished reflection loop. It resets at stage entry.
	IterationCounter int

	AnalysisReportPath       string
	RecommendationReportPath string
}

// ApplySnapshot copies fetch-stage output into the state.
func (s *WorkflowState) ApplySnapshot(snap *Snapshot) {
	s.FileTree = snap.FileTree
	s.FileContents = snap.FileContents
	s.Languages = append([]string(nil), snap.Languages...)
}
