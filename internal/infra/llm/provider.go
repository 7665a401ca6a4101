package llm

import "context"

// Provider is the single capability every adapter implements.
// behavior is the bot's system prompt and is passed verbatim; some upstream
// APIs have no system slot and ignore it (see the replicate and anthropic
// adapters). The returned string is the complete answer — adapters drain any
// incremental upstream output before returning, never a partial result.
type Provider interface {
	// Generate asks the upstream model to answer question. Failures are
	// always returned as *UpstreamError.
	Generate(ctx context.Context, behavior, question string) (string, error)

	// Name returns the adapter's identifier for logs and error reports.
	Name() string
}
