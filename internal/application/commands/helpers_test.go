package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"confluenz/internal/adapters/filesystem"
	"confluenz/internal/application"
)

func setupEngine(t *testing.T, files map[string]string) (*application.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}

	engine := application.NewEngine(filesystem.NewStore(dir))
	if _, err := engine.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return engine, dir
}

func readFile(t *testing.T, dir, p string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", p, err)
	}
	return string(content)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
