package util

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Version   string `yaml:"-"`
	BuildDate string `yaml:"-"`
	Commit    string `yaml:"-"`

	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
	EmitCodePath string `yaml:"emit_code"`
	DebugAST     bool   `yaml:"debug_ast"`
}

func Default() Configuration {
	cfg := Configuration{
		Prompt: "parseflow > ",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".parseflow_history")
	}
	return cfg
}

// Load returns the defaults overlaid with ~/.parseflow.yaml when present.
// A missing file is not an error; a malformed one is logged and ignored.
func Load() Configuration {
	cfg := Default()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".parseflow.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("ignoring malformed config file",
			slog.String("path", path),
			slog.Any("error", err))
		return Default()
	}
	return cfg
}
