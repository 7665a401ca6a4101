// OpenAI chat-completion adapter.
// Calls POST /v1/chat/completions with a two-message conversation:
// system = bot behavior, user = question. Non-streaming; the top choice's
// message text is the answer.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	defaultOpenAIBaseURL = "https://api.openai.com"
)

// OpenAIProvider implements Provider against the OpenAI chat completions API.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates an adapter for the given model identifier.
// baseURL may be empty to use the public API endpoint.
func NewOpenAIProvider(baseURL, apiKey, model string, timeout time.Duration) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Generate implements Provider. behavior is sent as the system message even
// when empty, matching what the upstream API tolerates.
func (p *OpenAIProvider) Generate(ctx context.Context, behavior, question string) (string, error) {
	body, err := json.Marshal(openAIChatRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: behavior},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("chat completion rejected"))
	}

	var chatResp openAIChatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&chatResp); decodeErr != nil {
		return "", upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("decode chat response: %w", decodeErr))
	}
	if len(chatResp.Choices) == 0 {
		return "", upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("chat response has no choices"))
	}
	return chatResp.Choices[0].Message.Content, nil
}
