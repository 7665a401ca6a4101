package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Not parallel: these tests mutate the process environment.

// chdir is t.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config.yml present

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SQLitePath != defaultSQLitePath {
		t.Errorf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
	if cfg.EmbeddingModel != defaultEmbeddingModel {
		t.Errorf("expected default embedding model, got %q", cfg.EmbeddingModel)
	}
	if cfg.ChunkSize != defaultChunkSize || cfg.ChunkOverlap != defaultChunkOverlap {
		t.Errorf("unexpected chunking defaults: %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.ProviderTimeout() != time.Duration(defaultTimeoutSeconds)*time.Second {
		t.Errorf("unexpected provider timeout: %v", cfg.ProviderTimeout())
	}
}

func TestLoad_YAMLFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyperdrive.yml")
	content := "sqlite_path: /tmp/custom.db\nchunk_size: 1000\nchunk_overlap: 100\nopenai_api_key: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SQLitePath != "/tmp/custom.db" {
		t.Errorf("expected sqlite path from file, got %q", cfg.SQLitePath)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 100 {
		t.Errorf("expected chunking from file, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.OpenAIAPIKey != "from-file" {
		t.Errorf("expected api key from file, got %q", cfg.OpenAIAPIKey)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyperdrive.yml")
	if err := os.WriteFile(path, []byte("openai_api_key: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfigFile, path)
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("CHUNK_SIZE", "512")
	t.Setenv("CHUNK_OVERLAP", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OpenAIAPIKey != "from-env" {
		t.Errorf("expected env to win over file, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.ChunkSize != 512 || cfg.ChunkOverlap != 50 {
		t.Errorf("expected chunking from env, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
}

func TestLoad_ExplicitMissingFile_Fails(t *testing.T) {
	t.Setenv(envConfigFile, filepath.Join(t.TempDir(), "nope.yml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for explicitly named missing config file")
	}
}

func TestLoad_OverlapNotSmallerThanSize_Fails(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	if _, err := Load(); err == nil {
		t.Error("expected error when chunk_overlap >= chunk_size")
	}
}
