package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// ModelInfo describes one model installed on the inference backend.
type ModelInfo struct {
	Name       string
	SizeBytes  int64
	ModifiedAt string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ModelManager is implemented by backends that can report and change the
// set of installed models. The lifecycle manager drives availability
// probes and pulls through this interface.
type ModelManager interface {
	// ListModels returns the models currently installed on the backend.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Pull downloads a model onto the backend. Blocking; the call
	// returns once the download completes or fails.
	Pull(ctx context.Context, model string) error
}
