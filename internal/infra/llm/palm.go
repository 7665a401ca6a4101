// PaLM chat adapter (chat-bison).
// The adapter stays registered so the identifier routes here, but the
// upstream call path is disabled: Generate returns a fixed diagnostic answer
// without touching the network. The request shape and sampling parameters
// are kept for when the upstream path is re-enabled.
package llm

import "context"

// palmDisabledAnswer is returned for every chat-bison request while the
// upstream path is disabled. It is an answer, not an error.
const palmDisabledAnswer = "model doesn't exist"

// Sampling parameters used by the chat-bison request when enabled.
const (
	palmCandidateCount  = 1
	palmMaxOutputTokens = 1024
	palmTemperature     = 0.2
	palmTopP            = 0.8
	palmTopK            = 40
)

// palmChatRequest is the wire shape for a single-turn chat-bison call.
type palmChatRequest struct {
	Context  string `json:"context"` // bot behavior
	Messages []struct {
		Content string `json:"content"`
	} `json:"messages"`
	CandidateCount  int     `json:"candidate_count"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p"`
	TopK            int     `json:"top_k"`
}

// PaLMProvider implements Provider for chat-bison with the upstream call
// disabled.
type PaLMProvider struct{}

// NewPaLMProvider creates the disabled chat-bison adapter.
func NewPaLMProvider() *PaLMProvider { return &PaLMProvider{} }

// Name implements Provider.
func (p *PaLMProvider) Name() string { return "palm" }

// Generate implements Provider. Always returns the fixed diagnostic answer.
func (p *PaLMProvider) Generate(_ context.Context, _, _ string) (string, error) {
	return palmDisabledAnswer, nil
}
