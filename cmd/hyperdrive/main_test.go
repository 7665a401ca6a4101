package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_VersionFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--version"}, &out)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "hyperdrive version") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if code := run([]string{"--bogus"}, &out); code != 2 {
		t.Errorf("expected exit code 2 for unknown flag, got %d", code)
	}
}
