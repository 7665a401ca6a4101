// Unit tests for the disabled PaLM adapter.
package llm

import (
	"context"
	"testing"
)

func TestPaLMProvider_Generate_AlwaysReturnsDisabledAnswer(t *testing.T) {
	t.Parallel()

	p := NewPaLMProvider()
	for _, question := range []string{"hello", ""} {
		answer, err := p.Generate(context.Background(), "behavior", question)
		if err != nil {
			t.Fatalf("Generate(%q) returned error: %v", question, err)
		}
		if answer != palmDisabledAnswer {
			t.Errorf("Generate(%q): expected %q, got %q", question, palmDisabledAnswer, answer)
		}
	}
}

func TestPaLMProvider_Name(t *testing.T) {
	t.Parallel()

	if got := NewPaLMProvider().Name(); got != "palm" {
		t.Errorf("expected name palm, got %q", got)
	}
}
