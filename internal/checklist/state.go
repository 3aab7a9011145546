// Package checklist implements the mutable per-submission state engine:
// answers, attached document handles, compliance verdicts, and the
// analysis lifecycle that connects them.
//
// All state is scoped to a State value owned by the session layer — there
// is no package-level mutable state. The schema is shared read-only.
//
// Concurrency model: every mutation runs under one mutex, but the mutex is
// never held across an analyzer call. Each analysis request is stamped with
// the revision of the question it was computed against; when the analyzer
// returns, the verdict is written only if that revision is still current.
// Stale results — a newer answer or document arrived meanwhile, the
// question was cleared, or the session closed — are dropped.
package checklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// ErrStaleAnalysis is returned by RequestAnalysis when the analysis
// completed but its inputs were superseded before the result could be
// written. The verdict is discarded; the caller may re-run.
var ErrStaleAnalysis = errors.New("checklist: analysis result stale, discarded")

// InvalidStateTransitionError reports a caller error: operating on an
// unknown question id, analyzing a required question with no answer, or
// mutating a closed state. These are integration bugs and fail loudly.
type InvalidStateTransitionError struct {
	Op         string
	QuestionID string
	Reason     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("checklist: %s(%s): %s", e.Op, e.QuestionID, e.Reason)
}

// DocumentSource resolves an opaque document handle into the content
// representation the analyzer consumes. Upload, storage, and text
// extraction live behind this interface — the engine never sees bytes.
type DocumentSource interface {
	Resolve(ctx context.Context, handle string) (*analysis.Document, error)
}

// questionState is everything the engine tracks for one question.
type questionState struct {
	answer    string
	hasAnswer bool
	document  string // handle, "" when none attached
	verdict   *analysis.Verdict
	revision  uint64 // bumped on every answer/document change
}

// QuestionStatus is a read-only view of one question's state.
type QuestionStatus struct {
	Answer      string
	Answered    bool // non-blank answer present
	HasDocument bool
	Verdict     *analysis.Verdict // nil when not analyzed
}

// State holds one submission's checklist state.
type State struct {
	mu        sync.Mutex
	checklist *schema.Checklist
	analyzer  analysis.Analyzer
	docs      DocumentSource
	questions map[string]*questionState
	closed    bool
}

// New creates an empty state over a validated checklist.
func New(checklist *schema.Checklist, analyzer analysis.Analyzer, docs DocumentSource) *State {
	return &State{
		checklist: checklist,
		analyzer:  analyzer,
		docs:      docs,
		questions: make(map[string]*questionState),
	}
}

// lookup validates the operation target. Caller must hold s.mu.
func (s *State) lookup(op, questionID string) (*schema.Question, error) {
	if s.closed {
		return nil, &InvalidStateTransitionError{Op: op, QuestionID: questionID, Reason: "state is closed"}
	}
	q := s.checklist.Question(questionID)
	if q == nil {
		return nil, &InvalidStateTransitionError{Op: op, QuestionID: questionID, Reason: "unknown question id"}
	}
	return q, nil
}

// entry returns the mutable per-question record, creating it on first
// touch. Caller must hold s.mu.
func (s *State) entry(questionID string) *questionState {
	qs, ok := s.questions[questionID]
	if !ok {
		qs = &questionState{}
		s.questions[questionID] = qs
	}
	return qs
}

// SubmitAnswer records the answer text for a question and invalidates any
// existing verdict — even when the text is identical to the previous
// answer, since the engine cannot know the analysis would be unchanged.
func (s *State) SubmitAnswer(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup("SubmitAnswer", questionID); err != nil {
		return err
	}

	qs := s.entry(questionID)
	qs.answer = text
	qs.hasAnswer = true
	qs.verdict = nil
	qs.revision++
	return nil
}

// AttachDocument records a document handle for a question and invalidates
// any existing verdict.
func (s *State) AttachDocument(questionID, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup("AttachDocument", questionID); err != nil {
		return err
	}
	if strings.TrimSpace(handle) == "" {
		return &InvalidStateTransitionError{Op: "AttachDocument", QuestionID: questionID, Reason: "empty document handle"}
	}

	qs := s.entry(questionID)
	qs.document = handle
	qs.verdict = nil
	qs.revision++
	return nil
}

// Clear removes the answer, document, and verdict for a question together.
// Clearing an untouched question is a no-op, so Clear is idempotent.
func (s *State) Clear(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup("Clear", questionID); err != nil {
		return err
	}
	delete(s.questions, questionID)
	return nil
}

// RequestAnalysis runs the compliance analyzer for one question and stores
// the verdict. Rules, in order:
//
//   - unknown question id: InvalidStateTransitionError
//   - question requires a document and none is attached: the synthetic
//     "document required" verdict is stored without invoking the analyzer
//   - required question with a blank answer: InvalidStateTransitionError
//   - otherwise the analyzer runs; on success the verdict is stored unless
//     the question changed underneath it (ErrStaleAnalysis)
//
// Analyzer failures leave the prior verdict untouched.
func (s *State) RequestAnalysis(ctx context.Context, questionID string) (*analysis.Verdict, error) {
	s.mu.Lock()
	q, err := s.lookup("RequestAnalysis", questionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	qs := s.entry(questionID)

	if q.RequiresDocument && qs.document == "" {
		v := analysis.MissingDocumentVerdict()
		qs.verdict = v
		s.mu.Unlock()
		return v, nil
	}

	if q.Required && strings.TrimSpace(qs.answer) == "" {
		s.mu.Unlock()
		return nil, &InvalidStateTransitionError{Op: "RequestAnalysis", QuestionID: questionID, Reason: "required question has no answer"}
	}

	// Snapshot the inputs and the revision they belong to, then release
	// the lock for the duration of the external call.
	answer := qs.answer
	handle := qs.document
	revision := qs.revision
	s.mu.Unlock()

	in := analysis.Input{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Guidance:   q.Guidance,
		AnswerText: answer,
	}
	if handle != "" {
		doc, err := s.docs.Resolve(ctx, handle)
		if err != nil {
			return nil, &analysis.AnalysisError{QuestionID: questionID, Err: fmt.Errorf("resolving document: %w", err)}
		}
		in.Document = doc
	}

	verdict, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	// Atomic replace: write only if the inputs are still current.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStaleAnalysis
	}
	current, ok := s.questions[questionID]
	if !ok || current.revision != revision {
		return nil, ErrStaleAnalysis
	}
	current.verdict = verdict
	return verdict, nil
}

// Status returns a read-only view of one question's state. Unknown ids
// return a zero status — presentation treats them as untouched.
func (s *State) Status(questionID string) QuestionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, ok := s.questions[questionID]
	if !ok {
		return QuestionStatus{}
	}
	return QuestionStatus{
		Answer:      qs.answer,
		Answered:    qs.hasAnswer && strings.TrimSpace(qs.answer) != "",
		HasDocument: qs.document != "",
		Verdict:     qs.verdict,
	}
}

// DocumentHandle returns the attached handle for a question, if any.
func (s *State) DocumentHandle(questionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, ok := s.questions[questionID]
	if !ok || qs.document == "" {
		return "", false
	}
	return qs.document, true
}

// Close marks the state finished. Outstanding analyses are dropped when
// they complete, and further mutations fail.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
