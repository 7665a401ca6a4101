// Unit tests for AnthropicProvider. Serves a canned SSE stream via httptest.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newCompletionStreamServer serves the given SSE body for /v1/complete and
// captures the request body for assertions.
func newCompletionStreamServer(t *testing.T, sseBody string, capture *anthropicCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/complete" || r.Method != http.MethodPost {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		if r.Header.Get("x-api-key") == "" {
			http.Error(w, "missing api key", http.StatusUnauthorized)
			return
		}
		if capture != nil {
			json.NewDecoder(r.Body).Decode(capture) //nolint:errcheck
		}
		w.Header().Set(headerContentType, "text/event-stream")
		fmt.Fprint(w, sseBody) //nolint:errcheck
	}))
}

// sseEvents renders completion fragments as an SSE stream with a leading
// ping, the way the completions API emits them.
func sseEvents(fragments ...string) string {
	var b strings.Builder
	b.WriteString("event: ping\ndata: {\"type\": \"ping\"}\n\n")
	for _, f := range fragments {
		payload, _ := json.Marshal(anthropicStreamEvent{Type: "completion", Completion: f})
		fmt.Fprintf(&b, "event: completion\ndata: %s\n\n", payload)
	}
	return b.String()
}

func TestAnthropicProvider_Generate_ConcatenatesFragmentsInOrder(t *testing.T) {
	t.Parallel()

	srv := newCompletionStreamServer(t, sseEvents("Hel", "lo, ", "world"), nil)
	defer srv.Close()

	p := NewAnthropicProvider(srv.URL, "key", ModelClaude2, time.Minute)
	answer, err := p.Generate(context.Background(), "ignored", "Q")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "Hello, world" {
		t.Errorf("expected %q, got %q", "Hello, world", answer)
	}
}

func TestAnthropicProvider_Generate_RequestShape(t *testing.T) {
	t.Parallel()

	var gotReq anthropicCompletionRequest
	srv := newCompletionStreamServer(t, sseEvents("ok"), &gotReq)
	defer srv.Close()

	p := NewAnthropicProvider(srv.URL, "key", ModelClaudeInstant, time.Minute)
	if _, err := p.Generate(context.Background(), "SECRET BEHAVIOR", "How deep is the ocean?"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantPrompt := fmt.Sprintf("%s %s %s", anthropicHumanPrompt, "How deep is the ocean?", anthropicAIPrompt)
	if gotReq.Prompt != wantPrompt {
		t.Errorf("expected prompt %q, got %q", wantPrompt, gotReq.Prompt)
	}
	if gotReq.Model != ModelClaudeInstant {
		t.Errorf("expected model %q, got %q", ModelClaudeInstant, gotReq.Model)
	}
	if gotReq.MaxTokensToSample != anthropicMaxTokensToSample {
		t.Errorf("expected max_tokens_to_sample %d, got %d", anthropicMaxTokensToSample, gotReq.MaxTokensToSample)
	}
	if !gotReq.Stream {
		t.Error("expected stream=true")
	}
	if strings.Contains(gotReq.Prompt, "SECRET BEHAVIOR") {
		t.Error("behavior must not be forwarded in the prompt")
	}
}

func TestAnthropicProvider_Generate_EmptyStream_ReturnsEmptyAnswer(t *testing.T) {
	t.Parallel()

	srv := newCompletionStreamServer(t, sseEvents(), nil)
	defer srv.Close()

	p := NewAnthropicProvider(srv.URL, "key", ModelClaude2, time.Minute)
	answer, err := p.Generate(context.Background(), "", "Q")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "" {
		t.Errorf("expected empty answer for fragmentless stream, got %q", answer)
	}
}

func TestAnthropicProvider_Generate_ErrorEvent_ReturnsUpstreamError(t *testing.T) {
	t.Parallel()

	body := sseEvents("partial") +
		"event: error\ndata: {\"type\": \"error\", \"error\": {\"type\": \"overloaded_error\", \"message\": \"Overloaded\"}}\n\n"
	srv := newCompletionStreamServer(t, body, nil)
	defer srv.Close()

	p := NewAnthropicProvider(srv.URL, "key", ModelClaude2, time.Minute)
	_, err := p.Generate(context.Background(), "", "Q")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if !strings.Contains(upErr.Error(), "Overloaded") {
		t.Errorf("expected upstream message in error, got %q", upErr.Error())
	}
}

func TestAnthropicProvider_Generate_RejectedRequest_ReturnsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewAnthropicProvider(srv.URL, "bad", ModelClaude2, time.Minute)
	_, err := p.Generate(context.Background(), "", "Q")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", upErr.Status)
	}
}
