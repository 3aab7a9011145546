// Package session manages the single active ethics submission. A server
// process works on one submission at a time: starting a new one while
// another is open is rejected, and discarding tears down the checklist
// state so a fresh submission can begin.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
	"github.com/Jgam2/EthicsPoC/internal/checklist"
	"github.com/Jgam2/EthicsPoC/internal/research"
	"github.com/Jgam2/EthicsPoC/internal/schema"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ErrNoActiveSubmission is returned when an operation needs an open
// submission and none exists.
var ErrNoActiveSubmission = errors.New("session: no active submission (call ethics_start first)")

// Submission is one in-flight ethics application: the research context
// captured at start time plus the live checklist state.
//
// The research context is frozen once the submission starts. Changing it
// would silently re-route question visibility under answers already given,
// so the only way to change it is to discard and start over.
type Submission struct {
	ID        string
	StartedAt time.Time
	Research  research.Context
	State     *checklist.State
}

// Manager guards the single active submission.
type Manager struct {
	mu        sync.Mutex
	checklist *schema.Checklist
	analyzer  analysis.Analyzer
	docs      checklist.DocumentSource
	active    *Submission
}

// NewManager builds a session manager around the shared checklist schema
// and the collaborators each new submission's state will use.
func NewManager(c *schema.Checklist, analyzer analysis.Analyzer, docs checklist.DocumentSource) *Manager {
	return &Manager{checklist: c, analyzer: analyzer, docs: docs}
}

// Start opens a new submission with the given research context. It fails
// if another submission is already active or the context is invalid.
func (m *Manager) Start(rc research.Context) (*Submission, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, fmt.Errorf("session: submission %s is already active; discard it before starting another", m.active.ID)
	}

	m.active = &Submission{
		ID:        uuid.NewString(),
		StartedAt: timeNow().UTC(),
		Research:  rc,
		State:     checklist.New(m.checklist, m.analyzer, m.docs),
	}
	return m.active, nil
}

// Current returns the active submission, or ErrNoActiveSubmission.
func (m *Manager) Current() (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, ErrNoActiveSubmission
	}
	return m.active, nil
}

// Discard closes the active submission's checklist state and clears the
// slot. Discarding when nothing is active returns ErrNoActiveSubmission.
func (m *Manager) Discard() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoActiveSubmission
	}
	m.active.State.Close()
	m.active = nil
	return nil
}
