// Replicate prediction adapter (llama-2-70b).
// Runs a hosted inference to completion: create a prediction with the
// question as the prompt, poll until a terminal status, then join the output
// fragments in emission order. The bot behavior is not part of this
// provider's request shape, so only the question is forwarded.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultReplicateBaseURL = "https://api.replicate.com"

	// llama270BVersion pins the exact model version run for llama-2-70b.
	llama270BVersion = "meta/llama-2-70b:a52e56fee2269a78c9279800ec88898cecb6c8f1df22a6483132bea266648f00"

	replicatePollInterval = 500 * time.Millisecond
)

// ReplicateProvider implements Provider against the Replicate predictions API.
type ReplicateProvider struct {
	baseURL    string
	apiToken   string
	version    string
	httpClient *http.Client
}

// NewReplicateProvider creates an adapter running the pinned llama-2-70b
// version. baseURL may be empty to use the public API endpoint.
func NewReplicateProvider(baseURL, apiToken string, timeout time.Duration) *ReplicateProvider {
	if baseURL == "" {
		baseURL = defaultReplicateBaseURL
	}
	return &ReplicateProvider{
		baseURL:    baseURL,
		apiToken:   apiToken,
		version:    llama270BVersion,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type replicateCreateRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type replicatePrediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"` // starting | processing | succeeded | failed | canceled
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

// Name implements Provider.
func (p *ReplicateProvider) Name() string { return "replicate" }

// Generate implements Provider. Blocks until the prediction reaches a
// terminal status; the full fragment sequence is drained before returning so
// partial answers never escape.
func (p *ReplicateProvider) Generate(ctx context.Context, _, question string) (string, error) {
	pred, err := p.createPrediction(ctx, question)
	if err != nil {
		return "", err
	}

	for !isTerminalStatus(pred.Status) {
		select {
		case <-ctx.Done():
			return "", upstreamErr(p.Name(), 0, ctx.Err())
		case <-time.After(replicatePollInterval):
		}
		pred, err = p.getPrediction(ctx, pred.ID)
		if err != nil {
			return "", err
		}
	}

	if pred.Status != "succeeded" {
		return "", upstreamErr(p.Name(), 0, fmt.Errorf("prediction %s: %s", pred.Status, pred.Error))
	}
	return strings.Join(pred.Output, ""), nil
}

// createPrediction starts a prediction run with prompt=question.
func (p *ReplicateProvider) createPrediction(ctx context.Context, question string) (*replicatePrediction, error) {
	body, err := json.Marshal(replicateCreateRequest{
		Version: p.version,
		Input:   map[string]any{"prompt": question},
	})
	if err != nil {
		return nil, upstreamErr(p.Name(), 0, err)
	}
	return p.doPredictionRequest(ctx, http.MethodPost, "/v1/predictions", body)
}

// getPrediction fetches the current state of a running prediction.
func (p *ReplicateProvider) getPrediction(ctx context.Context, id string) (*replicatePrediction, error) {
	return p.doPredictionRequest(ctx, http.MethodGet, "/v1/predictions/"+id, nil)
}

func (p *ReplicateProvider) doPredictionRequest(ctx context.Context, method, path string, body []byte) (*replicatePrediction, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, upstreamErr(p.Name(), 0, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("Authorization", "Token "+p.apiToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, upstreamErr(p.Name(), 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("prediction request rejected"))
	}

	var pred replicatePrediction
	if decodeErr := json.NewDecoder(resp.Body).Decode(&pred); decodeErr != nil {
		return nil, upstreamErr(p.Name(), resp.StatusCode, fmt.Errorf("decode prediction: %w", decodeErr))
	}
	return &pred, nil
}

// isTerminalStatus reports whether the prediction has finished running.
func isTerminalStatus(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}
