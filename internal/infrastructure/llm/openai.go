package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PaperRAG/internal/config"
	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

const truncationMarker = "\n\n[content truncated]"

// OpenAIClient implements ports.Summarizer backed by OpenAI-compatible
// chat-completions APIs.
type OpenAIClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	maxTokens    int
	temperature  float64
	inputBudget  int
	httpClient   *http.Client
}

var _ ports.Summarizer = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		inputBudget:  cfg.InputBudget,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Summarize posts the (budget-truncated) text as a user message. Any
// failure maps to ErrSummarizationUnavailable so callers can degrade.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, safePrompt(c.systemPrompt), c.truncate(text))
}

// Answer posts an already-assembled prompt, used by the chat flow where
// the caller builds the retrieval context itself.
func (c *OpenAIClient) Answer(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, answerSystemPrompt, c.truncate(prompt))
}

const answerSystemPrompt = "You are a helpful assistant answering questions about a scientific paper."

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("%w: client misconfigured", domain.ErrSummarizationUnavailable)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload: %v", domain.ErrSummarizationUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: new request: %v", domain.ErrSummarizationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummarizationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: api error %s: %s",
			domain.ErrSummarizationUnavailable, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrSummarizationUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrSummarizationUnavailable)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// truncate bounds the model input to the configured character budget.
func (c *OpenAIClient) truncate(text string) string {
	if c.inputBudget <= 0 || len(text) <= c.inputBudget {
		return text
	}
	return text[:c.inputBudget] + truncationMarker
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a helpful assistant that summarizes academic papers."
	}
	return prompt
}
