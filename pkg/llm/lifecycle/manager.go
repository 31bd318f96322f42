package lifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/pkg/llm"
)

// State is the availability state of the configured chat model.
type State string

const (
	StateUnknown     State = "unknown"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateUnavailable State = "unavailable"
	StatePulling     State = "pulling"
	StatePullFailed  State = "pull_failed"
)

// Snapshot is a point-in-time view of the manager. LastError is empty
// unless the previous probe or pull failed.
type Snapshot struct {
	State       State     `json:"state"`
	Model       string    `json:"model"`
	LastChecked time.Time `json:"lastChecked"`
	LastError   string    `json:"lastError,omitempty"`
}

// defaultFreshness bounds how long a successful probe is trusted.
// Availability is not permanent: past this window EnsureAvailable
// re-probes before serving, so a dead backend is noticed.
const defaultFreshness = 30 * time.Second

// Manager tracks whether the configured model is installed on the
// inference backend and serializes pull operations. It never pulls on
// its own; a pull happens only through an explicit PullModel call.
type Manager struct {
	backend  llm.ModelManager
	model    string
	log      logger.ILogger
	freshFor time.Duration

	mu          sync.Mutex
	state       State
	lastChecked time.Time
	lastErr     error

	// pullDone is non-nil while a pull is in flight. Concurrent
	// PullModel calls wait on the same channel instead of starting a
	// second download.
	pullDone chan struct{}
	pullErr  error
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithFreshness overrides how long a probe result is trusted before
// EnsureAvailable re-probes. Zero means every call re-probes.
func WithFreshness(d time.Duration) Option {
	return func(m *Manager) {
		m.freshFor = d
	}
}

func NewManager(backend llm.ModelManager, model string, log logger.ILogger, opts ...Option) *Manager {
	m := &Manager{
		backend:  backend,
		model:    model,
		log:      log,
		freshFor: defaultFreshness,
		state:    StateUnknown,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the current snapshot without touching the backend.
func (m *Manager) Status() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{
		State:       m.state,
		Model:       m.model,
		LastChecked: m.lastChecked,
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// CheckAvailability probes the backend for the configured model and
// moves the manager to Available or Unavailable. A probe during an
// active pull is skipped; the pull outcome decides the next state.
func (m *Manager) CheckAvailability(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	if m.state == StatePulling {
		s := m.snapshotLocked()
		m.mu.Unlock()
		return s, nil
	}
	m.state = StateChecking
	m.mu.Unlock()

	models, err := m.backend.ListModels(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePulling {
		// A pull started while we were probing; let it win.
		return m.snapshotLocked(), nil
	}
	m.lastChecked = time.Now()
	if err != nil {
		m.state = StateUnavailable
		m.lastErr = err
		m.log.Warn("lifecycle", "model availability probe failed", map[string]interface{}{
			"model": m.model,
			"error": err.Error(),
		})
		return m.snapshotLocked(), nil
	}

	if containsModel(models, m.model) {
		m.state = StateAvailable
		m.lastErr = nil
	} else {
		m.state = StateUnavailable
		m.lastErr = nil
	}
	return m.snapshotLocked(), nil
}

// PullModel downloads the configured model. If a pull is already in
// flight the call attaches to it and returns its outcome; only one
// download runs at a time. A failed pull leaves the manager in
// PullFailed until the next probe or pull.
func (m *Manager) PullModel(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateAvailable {
		m.mu.Unlock()
		return nil
	}
	if m.pullDone != nil {
		done := m.pullDone
		m.mu.Unlock()
		select {
		case <-done:
			m.mu.Lock()
			err := m.pullErr
			m.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	done := make(chan struct{})
	m.pullDone = done
	m.state = StatePulling
	m.lastErr = nil
	m.mu.Unlock()

	m.log.Info("lifecycle", "pulling model", map[string]interface{}{"model": m.model})

	// The download is detached from the caller's context so one
	// impatient client cannot cancel a pull others are waiting on.
	pullErr := m.backend.Pull(context.Background(), m.model)

	m.mu.Lock()
	if pullErr != nil {
		m.state = StatePullFailed
		m.lastErr = pullErr
		m.pullErr = apperror.ErrPullFailed
		m.log.Error("lifecycle", "model pull failed", map[string]interface{}{
			"model": m.model,
			"error": pullErr.Error(),
		})
	} else {
		m.state = StateAvailable
		m.lastErr = nil
		m.pullErr = nil
		m.lastChecked = time.Now()
		m.log.Info("lifecycle", "model pull complete", map[string]interface{}{"model": m.model})
	}
	err := m.pullErr
	m.pullDone = nil
	close(done)
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return err
}

// EnsureAvailable reports whether the model can serve a request right
// now. Any state other than a fresh Available triggers one re-probe,
// including Available past the freshness window; if a pull is in flight
// it waits up to maxWait for the pull to finish. It never starts a pull
// itself.
func (m *Manager) EnsureAvailable(ctx context.Context, maxWait time.Duration) bool {
	m.mu.Lock()
	state := m.state
	done := m.pullDone
	checked := m.lastChecked
	m.mu.Unlock()

	switch state {
	case StateAvailable:
		if time.Since(checked) < m.freshFor {
			return true
		}
		s, _ := m.CheckAvailability(ctx)
		return s.State == StateAvailable
	case StatePulling:
		if done == nil || maxWait <= 0 {
			return false
		}
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		select {
		case <-done:
			return m.Status().State == StateAvailable
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	case StateUnknown, StateChecking, StateUnavailable, StatePullFailed:
		s, _ := m.CheckAvailability(ctx)
		return s.State == StateAvailable
	}
	return false
}

func containsModel(models []llm.ModelInfo, name string) bool {
	for _, m := range models {
		if m.Name == name {
			return true
		}
		// Ollama reports the default tag explicitly ("llama3:latest").
		if strings.TrimSuffix(m.Name, ":latest") == name {
			return true
		}
	}
	return false
}
