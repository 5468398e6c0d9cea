package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiProvider(cfg GeminiConfig) *GeminiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiProvider{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type geminiFunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if p.apiKey == "" {
		return Response{}, errors.New("missing API key for Gemini provider")
	}
	if p.model == "" {
		return Response{}, errors.New("missing model for Gemini provider")
	}

	payload := map[string]any{
		"contents": toGeminiContents(req.Messages),
		"generationConfig": map[string]any{
			"temperature": req.Temperature,
		},
	}
	if len(req.Tools) > 0 {
		declarations := make([]map[string]any, 0, len(req.Tools))
		for _, tool := range req.Tools {
			declarations = append(declarations, map[string]any{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			})
		}
		payload["tools"] = []map[string]any{{"functionDeclarations": declarations}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Response{}, &ProviderError{Provider: "gemini", Status: resp.Status}
	}

	var parsed struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Response{}, err
	}
	if len(parsed.Candidates) == 0 {
		return Response{}, &ProviderError{Provider: "gemini", Message: "response had no candidates"}
	}
	return fromGeminiContent(parsed.Candidates[0].Content), nil
}

func toGeminiContents(messages []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		content := geminiContent{Role: msg.Role}
		if msg.Text != "" {
			content.Parts = append(content.Parts, geminiPart{Text: msg.Text})
		}
		for _, call := range msg.ToolCalls {
			content.Parts = append(content.Parts, geminiPart{
				FunctionCall: &geminiFunctionCall{Name: call.Name, Args: call.Args},
			})
		}
		for _, result := range msg.ToolResults {
			content.Parts = append(content.Parts, geminiPart{
				FunctionResponse: &geminiFunctionResponse{
					Name:     result.Name,
					Response: map[string]any{"output": result.Content},
				},
			})
		}
		if len(content.Parts) == 0 {
			continue
		}
		contents = append(contents, content)
	}
	return contents
}

func fromGeminiContent(content geminiContent) Response {
	var texts []string
	var calls []ToolCall
	for _, part := range content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
		if part.FunctionCall != nil {
			calls = append(calls, ToolCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args})
		}
	}
	return Response{
		Text:      strings.TrimSpace(strings.Join(texts, "\n")),
		ToolCalls: calls,
	}
}
