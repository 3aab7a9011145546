package analysis

import (
	"context"
	"fmt"
)

// Document is the content representation an analyzer receives. The engine
// holds only the Handle; Name, MediaType and Text come from the document
// store at analysis time. Raw bytes never reach this package.
type Document struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Text      string `json:"text"`
}

// Input carries everything an analyzer needs for one question.
type Input struct {
	QuestionID string
	Prompt     string
	Guidance   string
	AnswerText string
	Document   *Document // nil for text-only questions
}

// Analyzer turns a (question, answer, optional document) triple into a
// compliance verdict. Implementations may block for the duration of an
// external model call and should honor ctx cancellation. The engine does
// not retry or cache — one call per request.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (*Verdict, error)
}

// AnalysisError reports a failed analysis attempt. It is recoverable and
// scoped to a single question: the engine leaves any prior verdict in
// place and the caller may retry.
type AnalysisError struct {
	QuestionID string
	Err        error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s failed: %v", e.QuestionID, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Split routes between two concrete analyzers: one for text-only
// questions and one for questions carrying a document. Both sit behind
// the same Analyzer interface, so callers never branch themselves.
type Split struct {
	Text     Analyzer
	Document Analyzer
}

// Analyze dispatches on the presence of a document.
func (s *Split) Analyze(ctx context.Context, in Input) (*Verdict, error) {
	if in.Document != nil {
		return s.Document.Analyze(ctx, in)
	}
	return s.Text.Analyze(ctx, in)
}
