package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/pkg/llm"
	"shop-assistant-be/pkg/llm/lifecycle"
	"shop-assistant-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a running Ollama daemon with the target model pulled.
// Set OLLAMA_INTEGRATION=1 to enable.
func TestOllamaProvider(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	provider := ollama.NewOllamaProvider(baseURL, model)

	t.Run("ListModels", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		models, err := provider.ListModels(ctx)
		require.NoError(t, err)
		t.Logf("Installed models: %d", len(models))
		for _, m := range models {
			t.Logf("  %s (%d bytes)", m.Name, m.SizeBytes)
		}
	})

	t.Run("Chat", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		reply, err := provider.Chat(ctx, []llm.Message{
			{Role: "system", Content: "You are a terse assistant. Answer in one short sentence."},
			{Role: "user", Content: "What is the capital of France?"},
		}, llm.WithTemperature(0.1))
		require.NoError(t, err)
		assert.NotEmpty(t, reply)
		t.Logf("Reply: %s", reply)
	})

	t.Run("LifecycleProbe", func(t *testing.T) {
		mgr := lifecycle.NewManager(provider, model, logger.NewNoopLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snap, err := mgr.CheckAvailability(ctx)
		require.NoError(t, err)
		t.Logf("Model state: %s", snap.State)
		assert.Contains(t, []lifecycle.State{lifecycle.StateAvailable, lifecycle.StateUnavailable}, snap.State)
	})
}
