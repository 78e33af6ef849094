package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Load()
	if cfg.Prompt != "parseflow > " {
		t.Errorf("default prompt wrong. got=%q", cfg.Prompt)
	}
	if cfg.HistoryFile == "" {
		t.Errorf("default history file should be set")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	content := "prompt: \"pf> \"\nemit_code: out.txt\n"
	if err := os.WriteFile(filepath.Join(home, ".parseflow.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Load()
	if cfg.Prompt != "pf> " {
		t.Errorf("prompt not overridden. got=%q", cfg.Prompt)
	}
	if cfg.EmitCodePath != "out.txt" {
		t.Errorf("emit_code not loaded. got=%q", cfg.EmitCodePath)
	}
	if cfg.HistoryFile == "" {
		t.Errorf("unset keys keep their defaults")
	}
}

func TestLoadIgnoresMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := os.WriteFile(filepath.Join(home, ".parseflow.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Load()
	if cfg.Prompt != "parseflow > " {
		t.Errorf("malformed file should fall back to defaults. got=%q", cfg.Prompt)
	}
}
