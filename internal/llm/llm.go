package llm

import (
	"context"
)

// Message is one turn in a conversation. A model turn may carry tool calls;
// a user turn may carry tool results being fed back to the model.
type Message struct {
	Role        string
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

type ToolCall struct {
	Name string
	Args map[string]any
}

type ToolResult struct {
	Name    string
	Content string
}

// Tool declares a callable function to the model. Parameters is a JSON-schema
// object describing the arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type Request struct {
	Messages    []Message
	Tools       []Tool
	Temperature float64
}

// Response is the model's next turn: either final text, tool calls, or both.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiProvider(GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	default:
		return nil, ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}
