// Package agent drives a zero-shot research loop: the model alternates
// between reasoning turns and web_search tool calls until it emits the
// finished report.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/topicline/research-service/internal/llm"
)

const webSearchToolName = "web_search"

const researchPromptTemplate = `You are a diligent AI Research Assistant. Your task is to investigate the following topic: %q.

Follow these steps:
1. Use the web_search tool to find relevant information.
2. Synthesize the information you find into a concise, well-structured report.
3. The final report should be your final answer. Do not include your thought process, just the report itself.

Begin your work now.`

type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}

type Config struct {
	MaxSteps    int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxSteps: 8, Temperature: 0.7}
}

type Agent struct {
	provider    llm.Provider
	search      SearchClient
	maxSteps    int
	temperature float64
}

func New(provider llm.Provider, search SearchClient, cfg Config) *Agent {
	defaults := DefaultConfig()
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = defaults.MaxSteps
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	return &Agent{
		provider:    provider,
		search:      search,
		maxSteps:    cfg.MaxSteps,
		temperature: cfg.Temperature,
	}
}

func webSearchTool() llm.Tool {
	return llm.Tool{
		Name:        webSearchToolName,
		Description: "Useful for when you need to answer questions about current events or find information on the internet.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query.",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Research runs the tool loop for a topic and returns the final report text.
// Tool failures are fed back to the model rather than aborting the loop; only
// provider failures and an exhausted step budget are terminal.
func (a *Agent) Research(ctx context.Context, topic string) (string, error) {
	messages := []llm.Message{
		{Role: "user", Text: fmt.Sprintf(researchPromptTemplate, topic)},
	}
	tools := []llm.Tool{webSearchTool()}

	for step := 0; step < a.maxSteps; step++ {
		response, err := a.provider.Generate(ctx, llm.Request{
			Messages:    messages,
			Tools:       tools,
			Temperature: a.temperature,
		})
		if err != nil {
			return "", err
		}
		if len(response.ToolCalls) == 0 {
			report := strings.TrimSpace(response.Text)
			if report == "" {
				return "", errors.New("agent produced an empty report")
			}
			return report, nil
		}

		messages = append(messages, llm.Message{
			Role:      "model",
			Text:      response.Text,
			ToolCalls: response.ToolCalls,
		})
		results := make([]llm.ToolResult, 0, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			results = append(results, llm.ToolResult{
				Name:    call.Name,
				Content: a.executeTool(ctx, call),
			})
		}
		messages = append(messages, llm.Message{Role: "user", ToolResults: results})
	}

	return "", fmt.Errorf("agent exceeded %d steps without a final report", a.maxSteps)
}

func (a *Agent) executeTool(ctx context.Context, call llm.ToolCall) string {
	if call.Name != webSearchToolName {
		return fmt.Sprintf("Tool %s error: unknown tool", call.Name)
	}
	query, ok := call.Args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return fmt.Sprintf("Tool %s error: missing query argument", call.Name)
	}
	result, err := a.search.Search(ctx, query)
	if err != nil {
		return fmt.Sprintf("Tool %s error: %s", call.Name, err.Error())
	}
	return result
}
