package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/pkg/llm"
)

type fakeBackend struct {
	mu        sync.Mutex
	installed []string
	listErr   error
	pullErr   error
	pullDelay time.Duration
	pullCalls int32
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	models := make([]llm.ModelInfo, len(f.installed))
	for i, name := range f.installed {
		models[i] = llm.ModelInfo{Name: name}
	}
	return models, nil
}

func (f *fakeBackend) Pull(ctx context.Context, model string) error {
	atomic.AddInt32(&f.pullCalls, 1)
	if f.pullDelay > 0 {
		time.Sleep(f.pullDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pullErr != nil {
		return f.pullErr
	}
	f.installed = append(f.installed, model)
	return nil
}

func TestCheckAvailabilityTransitions(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		listErr   error
		want      State
		wantErr   bool
	}{
		{
			name:      "model installed",
			installed: []string{"llama3"},
			want:      StateAvailable,
		},
		{
			name:      "model installed with tag",
			installed: []string{"llama3:latest"},
			want:      StateAvailable,
		},
		{
			name:      "model missing",
			installed: []string{"mistral"},
			want:      StateUnavailable,
		},
		{
			name:    "backend unreachable",
			listErr: errors.New("connection refused"),
			want:    StateUnavailable,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{installed: tt.installed, listErr: tt.listErr}
			m := NewManager(backend, "llama3", logger.NewNoopLogger())

			snap, err := m.CheckAvailability(context.Background())
			if err != nil {
				t.Fatalf("CheckAvailability returned error: %v", err)
			}
			if snap.State != tt.want {
				t.Errorf("state = %s, want %s", snap.State, tt.want)
			}
			if tt.wantErr && snap.LastError == "" {
				t.Error("expected LastError to be set")
			}
			if !tt.wantErr && snap.LastError != "" {
				t.Errorf("unexpected LastError: %s", snap.LastError)
			}
		})
	}
}

func TestStatusDoesNotProbe(t *testing.T) {
	backend := &fakeBackend{installed: []string{"llama3"}}
	m := NewManager(backend, "llama3", logger.NewNoopLogger())

	snap := m.Status()
	if snap.State != StateUnknown {
		t.Errorf("fresh manager state = %s, want %s", snap.State, StateUnknown)
	}
	if snap.Model != "llama3" {
		t.Errorf("model = %s, want llama3", snap.Model)
	}
}

func TestConcurrentPullsRunOneDownload(t *testing.T) {
	backend := &fakeBackend{pullDelay: 50 * time.Millisecond}
	m := NewManager(backend, "llama3", logger.NewNoopLogger())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.PullModel(context.Background())
		}(i)
	}
	wg.Wait()

	if calls := atomic.LoadInt32(&backend.pullCalls); calls != 1 {
		t.Errorf("backend pull calls = %d, want 1", calls)
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("waiter %d got error: %v", i, err)
		}
	}
	if got := m.Status().State; got != StateAvailable {
		t.Errorf("state after pull = %s, want %s", got, StateAvailable)
	}
}

func TestPullFailure(t *testing.T) {
	backend := &fakeBackend{pullErr: errors.New("manifest not found")}
	m := NewManager(backend, "no-such-model", logger.NewNoopLogger())

	err := m.PullModel(context.Background())
	if !errors.Is(err, apperror.ErrPullFailed) {
		t.Fatalf("err = %v, want ErrPullFailed", err)
	}

	snap := m.Status()
	if snap.State != StatePullFailed {
		t.Errorf("state = %s, want %s", snap.State, StatePullFailed)
	}
	if snap.LastError == "" {
		t.Error("expected LastError to carry the backend failure")
	}
}

func TestPullAfterFailureRetries(t *testing.T) {
	backend := &fakeBackend{pullErr: errors.New("manifest not found")}
	m := NewManager(backend, "llama3", logger.NewNoopLogger())

	if err := m.PullModel(context.Background()); err == nil {
		t.Fatal("expected first pull to fail")
	}

	backend.mu.Lock()
	backend.pullErr = nil
	backend.mu.Unlock()

	if err := m.PullModel(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := m.Status().State; got != StateAvailable {
		t.Errorf("state = %s, want %s", got, StateAvailable)
	}
}

func TestPullWhenAlreadyAvailableIsNoop(t *testing.T) {
	backend := &fakeBackend{installed: []string{"llama3"}}
	m := NewManager(backend, "llama3", logger.NewNoopLogger())

	if _, err := m.CheckAvailability(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := m.PullModel(context.Background()); err != nil {
		t.Fatalf("pull on available model: %v", err)
	}
	if calls := atomic.LoadInt32(&backend.pullCalls); calls != 0 {
		t.Errorf("backend pull calls = %d, want 0", calls)
	}
}

func TestEnsureAvailable(t *testing.T) {
	t.Run("probes on unknown", func(t *testing.T) {
		backend := &fakeBackend{installed: []string{"llama3"}}
		m := NewManager(backend, "llama3", logger.NewNoopLogger())

		if !m.EnsureAvailable(context.Background(), time.Second) {
			t.Error("expected available after probe")
		}
	})

	t.Run("does not auto-pull", func(t *testing.T) {
		backend := &fakeBackend{}
		m := NewManager(backend, "llama3", logger.NewNoopLogger())

		if m.EnsureAvailable(context.Background(), time.Second) {
			t.Error("expected unavailable")
		}
		if calls := atomic.LoadInt32(&backend.pullCalls); calls != 0 {
			t.Errorf("backend pull calls = %d, want 0", calls)
		}
	})

	t.Run("stale availability is re-probed", func(t *testing.T) {
		backend := &fakeBackend{installed: []string{"llama3"}}
		m := NewManager(backend, "llama3", logger.NewNoopLogger(), WithFreshness(0))

		if !m.EnsureAvailable(context.Background(), time.Second) {
			t.Fatal("expected available while backend is up")
		}

		backend.mu.Lock()
		backend.listErr = errors.New("connection refused")
		backend.mu.Unlock()

		for i := 0; i < 5; i++ {
			if m.EnsureAvailable(context.Background(), time.Second) {
				t.Fatalf("call %d: still available after backend death", i)
			}
		}
		if got := m.Status().State; got != StateUnavailable {
			t.Errorf("state = %s, want %s", got, StateUnavailable)
		}
	})

	t.Run("fresh probe result is trusted", func(t *testing.T) {
		backend := &fakeBackend{installed: []string{"llama3"}}
		m := NewManager(backend, "llama3", logger.NewNoopLogger())

		if _, err := m.CheckAvailability(context.Background()); err != nil {
			t.Fatal(err)
		}

		backend.mu.Lock()
		backend.listErr = errors.New("connection refused")
		backend.mu.Unlock()

		// Inside the freshness window the last probe result stands.
		if !m.EnsureAvailable(context.Background(), time.Second) {
			t.Error("expected the fresh probe result to be trusted")
		}
	})

	t.Run("waits for in-flight pull", func(t *testing.T) {
		backend := &fakeBackend{pullDelay: 30 * time.Millisecond}
		m := NewManager(backend, "llama3", logger.NewNoopLogger())

		go func() { _ = m.PullModel(context.Background()) }()
		for m.Status().State != StatePulling {
			time.Sleep(time.Millisecond)
		}

		if !m.EnsureAvailable(context.Background(), time.Second) {
			t.Error("expected available once pull finished")
		}
	})

	t.Run("gives up before slow pull finishes", func(t *testing.T) {
		backend := &fakeBackend{pullDelay: 200 * time.Millisecond}
		m := NewManager(backend, "llama3", logger.NewNoopLogger())

		go func() { _ = m.PullModel(context.Background()) }()
		for m.Status().State != StatePulling {
			time.Sleep(time.Millisecond)
		}

		if m.EnsureAvailable(context.Background(), 10*time.Millisecond) {
			t.Error("expected timeout before pull completion")
		}
	})
}
