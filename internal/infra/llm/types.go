// Package llm defines the provider abstraction for answer generation.
// A Provider wraps exactly one upstream LLM API; the Registry dispatches on
// the model identifier stored in the bot's model config.
package llm

import "fmt"

// Known provider identifiers. These are the exact strings stored in
// ll_model.model and matched by the Registry — no fuzzy matching.
const (
	ModelGPT35Turbo    = "gpt-3.5-turbo"
	ModelChatBison     = "chat-bison"
	ModelLlama270B     = "llama-2-70b"
	ModelClaude2       = "claude-2"
	ModelClaudeInstant = "claude-instant-1"
)

// UpstreamError wraps any network, auth, rate-limit, or malformed-response
// failure from a provider API. Adapters never let raw transport errors
// escape; callers classify with errors.As.
type UpstreamError struct {
	Provider string // adapter name, e.g. "openai"
	Status   int    // HTTP status from the upstream, 0 if the call never completed
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s upstream: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// upstreamErr builds an UpstreamError for a failed call.
func upstreamErr(provider string, status int, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Status: status, Err: err}
}
