// Unit tests for Registry. Uses stub Provider implementations — no HTTP.
package llm

import (
	"context"
	"testing"
	"time"
)

// stubProvider is a minimal Provider stub for registry tests.
type stubProvider struct{ name string }

func (s *stubProvider) Generate(_ context.Context, _, _ string) (string, error) {
	return "stub answer", nil
}
func (s *stubProvider) Name() string { return s.name }

func TestRegistry_Resolve_KnownIdentifiers(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Provider{
		ModelGPT35Turbo:    NewOpenAIProvider("", "key", ModelGPT35Turbo, time.Minute),
		ModelChatBison:     NewPaLMProvider(),
		ModelLlama270B:     NewReplicateProvider("", "token", time.Minute),
		ModelClaude2:       NewAnthropicProvider("", "key", ModelClaude2, time.Minute),
		ModelClaudeInstant: NewAnthropicProvider("", "key", ModelClaudeInstant, time.Minute),
	})

	cases := []struct {
		identifier string
		wantName   string
	}{
		{ModelGPT35Turbo, "openai"},
		{ModelChatBison, "palm"},
		{ModelLlama270B, "replicate"},
		{ModelClaude2, "anthropic"},
		{ModelClaudeInstant, "anthropic"},
	}
	for _, tc := range cases {
		p, ok := reg.Resolve(tc.identifier)
		if !ok {
			t.Errorf("Resolve(%q): expected hit, got miss", tc.identifier)
			continue
		}
		if p.Name() != tc.wantName {
			t.Errorf("Resolve(%q): expected adapter %q, got %q", tc.identifier, tc.wantName, p.Name())
		}
	}
}

func TestRegistry_Resolve_UnknownIdentifier_Misses(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Provider{ModelGPT35Turbo: &stubProvider{name: "openai"}})

	for _, id := range []string{"gpt-4", "GPT-3.5-TURBO", "gpt-3.5-turbo ", "", "llama"} {
		if _, ok := reg.Resolve(id); ok {
			t.Errorf("Resolve(%q): expected miss, got hit", id)
		}
	}
}

func TestRegistry_Resolve_ClaudeVariants_ShareAdapterType(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Provider{
		ModelClaude2:       NewAnthropicProvider("", "key", ModelClaude2, time.Minute),
		ModelClaudeInstant: NewAnthropicProvider("", "key", ModelClaudeInstant, time.Minute),
	})

	p1, _ := reg.Resolve(ModelClaude2)
	p2, _ := reg.Resolve(ModelClaudeInstant)

	a1, ok1 := p1.(*AnthropicProvider)
	a2, ok2 := p2.(*AnthropicProvider)
	if !ok1 || !ok2 {
		t.Fatalf("expected both claude identifiers to resolve to *AnthropicProvider, got %T and %T", p1, p2)
	}
	if a1.model != ModelClaude2 || a2.model != ModelClaudeInstant {
		t.Errorf("expected model strings %q and %q, got %q and %q", ModelClaude2, ModelClaudeInstant, a1.model, a2.model)
	}
}

func TestRegistry_NewRegistry_CopiesMap(t *testing.T) {
	t.Parallel()

	src := map[string]Provider{ModelGPT35Turbo: &stubProvider{name: "openai"}}
	reg := NewRegistry(src)
	delete(src, ModelGPT35Turbo)

	if _, ok := reg.Resolve(ModelGPT35Turbo); !ok {
		t.Error("mutating the source map must not affect the registry")
	}
}

func TestRegistry_Identifiers_Sorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(map[string]Provider{
		ModelLlama270B:  &stubProvider{},
		ModelChatBison:  &stubProvider{},
		ModelGPT35Turbo: &stubProvider{},
	})

	got := reg.Identifiers()
	want := []string{ModelChatBison, ModelGPT35Turbo, ModelLlama270B}
	if len(got) != len(want) {
		t.Fatalf("expected %d identifiers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("identifiers[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}
