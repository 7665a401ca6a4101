// Anthropic streaming completion adapter (claude-2, claude-instant-1).
// Both identifiers share this implementation; only the model string sent
// upstream differs. The prompt is the single human/assistant turn pair the
// completions API expects — the bot behavior has no slot in this request
// shape and is not forwarded. The SSE fragment stream is fully drained and
// concatenated in emission order before the answer is returned.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicAPIVersion     = "2023-06-01"

	anthropicHumanPrompt = "\n\nHuman:"
	anthropicAIPrompt    = "\n\nAssistant:"

	anthropicMaxTokensToSample = 300
)

// AnthropicProvider implements Provider against the Anthropic completions API.
type AnthropicProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicProvider creates an adapter for the given claude model
// identifier. baseURL may be empty to use the public API endpoint.
func NewAnthropicProvider(baseURL, apiKey, model string, timeout time.Duration) *AnthropicProvider {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &AnthropicProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type anthropicCompletionRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	MaxTokensToSample int    `json:"max_tokens_to_sample"`
	Stream            bool   `json:"stream"`
}

// anthropicStreamEvent is one SSE data payload from the completion stream.
type anthropicStreamEvent struct {
	Type       string `json:"type"` // completion | ping | error
	Completion string `json:"completion"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Generate implements Provider.
func (p *AnthropicProvider) Generate(ctx context.Context, _, question string) (string, error) {
	body, err := json.Marshal(anthropicCompletionRequest{
		Model:             p.model,
		Prompt:            fmt.Sprintf("%s %s %s", anthropicHumanPrompt, question, anthropicAIPrompt),
		MaxTokensToSample: anthropicMaxTokensToSample,
		Stream:            true,
	})
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/complete", bytes.NewReader(body))
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", upstreamErr(p.Name(), 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("completion request rejected"))
	}

	answer, err := p.drainStream(bufio.NewScanner(resp.Body))
	if err != nil {
		return "", err
	}
	return answer, nil
}

// drainStream consumes the SSE event stream, appending completion fragments
// in order. The stream is a sequence of "event:"/"data:" line pairs; ping
// events are skipped, an error event aborts the whole answer.
func (p *AnthropicProvider) drainStream(scanner *bufio.Scanner) (string, error) {
	var answer strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var evt anthropicStreamEvent
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			return "", upstreamErr(p.Name(), 0, fmt.Errorf("decode stream event: %w", err))
		}
		switch evt.Type {
		case "error":
			msg := "stream error"
			if evt.Error != nil {
				msg = evt.Error.Message
			}
			return "", upstreamErr(p.Name(), 0, fmt.Errorf("completion stream: %s", msg))
		case "ping":
			continue
		default:
			answer.WriteString(evt.Completion)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", upstreamErr(p.Name(), 0, fmt.Errorf("read stream: %w", err))
	}
	return answer.String(), nil
}
