package checklist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// testChecklist has Q1 (required, text only) and Q2 (required, document).
const testChecklistYAML = `
sections:
  - id: s1
    title: Section One
    questions:
      - id: Q1
        prompt: Describe consent procedures
        required: true
        requires_document: false
      - id: Q2
        prompt: Study Protocol
        required: true
        requires_document: true
        document_type: protocol
`

func testChecklist(t *testing.T) *schema.Checklist {
	t.Helper()
	c, err := schema.Load([]byte(testChecklistYAML))
	if err != nil {
		t.Fatalf("loading test checklist: %v", err)
	}
	return c
}

// spyAnalyzer records calls and replays configured verdicts or errors.
// The optional gate channel blocks Analyze until released, which lets
// race tests interleave mutations with an in-flight analysis.
type spyAnalyzer struct {
	mu      sync.Mutex
	calls   int
	inputs  []analysis.Input
	verdict *analysis.Verdict
	err     error
	gate    chan struct{}
}

func (a *spyAnalyzer) Analyze(ctx context.Context, in analysis.Input) (*analysis.Verdict, error) {
	a.mu.Lock()
	a.calls++
	a.inputs = append(a.inputs, in)
	verdict, err, gate := a.verdict, a.err, a.gate
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	v := *verdict
	return &v, nil
}

func (a *spyAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// fakeDocs resolves every handle to a canned document.
type fakeDocs struct {
	err error
}

func (d *fakeDocs) Resolve(_ context.Context, handle string) (*analysis.Document, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &analysis.Document{Handle: handle, Name: "doc.txt", MediaType: "text/plain", Text: "content"}, nil
}

func compliantVerdict() *analysis.Verdict {
	return &analysis.Verdict{Score: 85, Status: analysis.StatusCompliant, Analysis: "fine"}
}

func newTestState(t *testing.T, a analysis.Analyzer) *State {
	t.Helper()
	return New(testChecklist(t), a, &fakeDocs{})
}

func TestSubmitAnswer_InvalidatesVerdict(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := newTestState(t, spy)

	if err := s.SubmitAnswer("Q1", "v1"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if _, err := s.RequestAnalysis(context.Background(), "Q1"); err != nil {
		t.Fatalf("RequestAnalysis: %v", err)
	}
	if s.Status("Q1").Verdict == nil {
		t.Fatal("verdict should be stored after analysis")
	}

	// Re-submitting the identical text still invalidates.
	if err := s.SubmitAnswer("Q1", "v1"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if s.Status("Q1").Verdict != nil {
		t.Error("verdict should be cleared after re-submitting the same answer")
	}
}

func TestAttachDocument_InvalidatesVerdict(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q2", "see protocol"))
	mustSetup(t, s.AttachDocument("Q2", "h1"))
	if _, err := s.RequestAnalysis(context.Background(), "Q2"); err != nil {
		t.Fatalf("RequestAnalysis: %v", err)
	}

	mustSetup(t, s.AttachDocument("Q2", "h2"))
	if s.Status("Q2").Verdict != nil {
		t.Error("attaching a new document should clear the verdict")
	}
}

func TestRequestAnalysis_MissingDocument(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q2", "text"))
	v, err := s.RequestAnalysis(context.Background(), "Q2")
	if err != nil {
		t.Fatalf("RequestAnalysis: %v", err)
	}

	if v.Status != analysis.StatusUnanalyzed || v.Score != 0 {
		t.Errorf("verdict = %+v, want synthetic unanalyzed/0", v)
	}
	if len(v.MissingElements) != 1 || v.MissingElements[0] != "document required" {
		t.Errorf("missing = %v, want [document required]", v.MissingElements)
	}
	if spy.callCount() != 0 {
		t.Errorf("analyzer called %d times, want 0", spy.callCount())
	}
	if stored := s.Status("Q2").Verdict; stored == nil || stored.Status != analysis.StatusUnanalyzed {
		t.Error("synthetic verdict should be stored")
	}
}

func TestRequestAnalysis_RequiredUnanswered(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := newTestState(t, spy)

	_, err := s.RequestAnalysis(context.Background(), "Q1")
	var ist *InvalidStateTransitionError
	if !errors.As(err, &ist) {
		t.Fatalf("want InvalidStateTransitionError, got %v", err)
	}
	if spy.callCount() != 0 {
		t.Error("analyzer must not run for an unanswered required question")
	}
}

func TestRequestAnalysis_UnknownQuestion(t *testing.T) {
	s := newTestState(t, &spyAnalyzer{verdict: compliantVerdict()})

	var ist *InvalidStateTransitionError
	if _, err := s.RequestAnalysis(context.Background(), "nope"); !errors.As(err, &ist) {
		t.Errorf("want InvalidStateTransitionError, got %v", err)
	}
	if err := s.SubmitAnswer("nope", "x"); !errors.As(err, &ist) {
		t.Errorf("SubmitAnswer on unknown id: want InvalidStateTransitionError, got %v", err)
	}
	if err := s.AttachDocument("nope", "h"); !errors.As(err, &ist) {
		t.Errorf("AttachDocument on unknown id: want InvalidStateTransitionError, got %v", err)
	}
}

func TestRequestAnalysis_AnalyzerFailureKeepsPriorVerdict(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q1", "v1"))
	if _, err := s.RequestAnalysis(context.Background(), "Q1"); err != nil {
		t.Fatalf("first analysis: %v", err)
	}
	prior := s.Status("Q1").Verdict

	spy.mu.Lock()
	spy.err = errors.New("model timeout")
	spy.mu.Unlock()

	_, err := s.RequestAnalysis(context.Background(), "Q1")
	if err == nil {
		t.Fatal("want error from failed analysis")
	}
	if got := s.Status("Q1").Verdict; got != prior {
		t.Error("failed analysis must leave the prior verdict untouched")
	}
}

func TestRequestAnalysis_DocumentResolveFailure(t *testing.T) {
	spy := &spyAnalyzer{verdict: compliantVerdict()}
	s := New(testChecklist(t), spy, &fakeDocs{err: errors.New("gone")})

	mustSetup(t, s.SubmitAnswer("Q2", "text"))
	mustSetup(t, s.AttachDocument("Q2", "h1"))

	_, err := s.RequestAnalysis(context.Background(), "Q2")
	var ae *analysis.AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("want *AnalysisError, got %v", err)
	}
	if spy.callCount() != 0 {
		t.Error("analyzer must not run when the document cannot be resolved")
	}
}

func TestRequestAnalysis_StaleResultDropped(t *testing.T) {
	gate := make(chan struct{})
	spy := &spyAnalyzer{verdict: compliantVerdict(), gate: gate}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q1", "v1"))

	done := make(chan error, 1)
	go func() {
		_, err := s.RequestAnalysis(context.Background(), "Q1")
		done <- err
	}()

	// Wait until the slow analysis is in flight, then supersede its input.
	waitForCalls(t, spy, 1)
	mustSetup(t, s.SubmitAnswer("Q1", "v2"))
	close(gate)

	if err := <-done; !errors.Is(err, ErrStaleAnalysis) {
		t.Fatalf("want ErrStaleAnalysis, got %v", err)
	}
	if s.Status("Q1").Verdict != nil {
		t.Error("stale verdict must not be stored")
	}
}

func TestRequestAnalysis_DroppedAfterClear(t *testing.T) {
	gate := make(chan struct{})
	spy := &spyAnalyzer{verdict: compliantVerdict(), gate: gate}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q1", "v1"))

	done := make(chan error, 1)
	go func() {
		_, err := s.RequestAnalysis(context.Background(), "Q1")
		done <- err
	}()

	waitForCalls(t, spy, 1)
	mustSetup(t, s.Clear("Q1"))
	close(gate)

	if err := <-done; !errors.Is(err, ErrStaleAnalysis) {
		t.Fatalf("want ErrStaleAnalysis after clear, got %v", err)
	}
}

func TestRequestAnalysis_DroppedAfterClose(t *testing.T) {
	gate := make(chan struct{})
	spy := &spyAnalyzer{verdict: compliantVerdict(), gate: gate}
	s := newTestState(t, spy)

	mustSetup(t, s.SubmitAnswer("Q1", "v1"))

	done := make(chan error, 1)
	go func() {
		_, err := s.RequestAnalysis(context.Background(), "Q1")
		done <- err
	}()

	waitForCalls(t, spy, 1)
	s.Close()
	close(gate)

	if err := <-done; !errors.Is(err, ErrStaleAnalysis) {
		t.Fatalf("want ErrStaleAnalysis after close, got %v", err)
	}
}

func TestClear_Idempotent(t *testing.T) {
	s := newTestState(t, &spyAnalyzer{verdict: compliantVerdict()})

	mustSetup(t, s.SubmitAnswer("Q1", "v1"))
	mustSetup(t, s.Clear("Q1"))
	if err := s.Clear("Q1"); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}

	st := s.Status("Q1")
	if st.Answered || st.HasDocument || st.Verdict != nil {
		t.Errorf("state after clear = %+v, want empty", st)
	}
}

func TestClose_RejectsMutations(t *testing.T) {
	s := newTestState(t, &spyAnalyzer{verdict: compliantVerdict()})
	s.Close()

	var ist *InvalidStateTransitionError
	if err := s.SubmitAnswer("Q1", "x"); !errors.As(err, &ist) {
		t.Errorf("mutation after close: want InvalidStateTransitionError, got %v", err)
	}
}

func TestStatus_WhitespaceAnswerNotAnswered(t *testing.T) {
	s := newTestState(t, &spyAnalyzer{verdict: compliantVerdict()})

	mustSetup(t, s.SubmitAnswer("Q1", "   "))
	if s.Status("Q1").Answered {
		t.Error("whitespace-only answer should not count as answered")
	}
}

func mustSetup(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func waitForCalls(t *testing.T, spy *spyAnalyzer, n int) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if spy.callCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("analyzer never reached %d calls", n)
}
