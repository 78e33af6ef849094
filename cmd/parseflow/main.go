package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"parseflow/internal/evaluator"
	"parseflow/internal/lexer"
	"parseflow/internal/parser"
	"parseflow/internal/repl"
	"parseflow/internal/util"
)

var (
	// Version is the current version of the parseflow binary.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	// logging
	logLevel string
	logFile  string
	// pipeline config
	emitCode string
	debugAST bool
)

func main() {
	root := &cobra.Command{
		Use:     "parseflow",
		Short:   "ParseFlow interpreter",
		Long:    "ParseFlow is an interpreter for a small dynamically-typed expression language.\nWithout arguments it starts an interactive session.",
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, Commit),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			e := newEvaluator(cfg)
			return repl.Start(cfg, e, os.Stdout)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "none", "Log level: debug, info, warn, error, none")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	root.PersistentFlags().StringVar(&emitCode, "emit-code", "", "Write the intermediate code of each run to this file")
	root.PersistentFlags().BoolVar(&debugAST, "debug-ast", false, "Render the AST of a run script instead of evaluating it (ignored by the REPL)")

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a ParseFlow script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() util.Configuration {
	cfg := util.Load()
	cfg.Version = Version
	cfg.BuildDate = BuildDate
	cfg.Commit = Commit
	if emitCode != "" {
		cfg.EmitCodePath = emitCode
	}
	if debugAST {
		cfg.DebugAST = true
	}
	return cfg
}

func newEvaluator(cfg util.Configuration) *evaluator.Evaluator {
	e := evaluator.New()
	if cfg.EmitCodePath != "" {
		sink, err := os.Create(cfg.EmitCodePath)
		if err != nil {
			slog.Warn("cannot open intermediate code sink",
				slog.String("path", cfg.EmitCodePath),
				slog.Any("error", err))
		} else {
			e.CodeSink = sink
		}
	}
	return e
}

func runFile(path string) error {
	cfg := loadConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load script %q: %w", path, err)
	}
	source := string(data)

	if cfg.DebugAST {
		tokens, lexErr := lexer.New(path, source).Tokens()
		if lexErr != nil {
			fmt.Fprintln(os.Stderr, lexErr.AsString())
			os.Exit(1)
		}
		parseRes := parser.New(tokens).Parse()
		if parseRes.Err != nil {
			fmt.Fprintln(os.Stderr, parseRes.Err.AsString())
			os.Exit(1)
		}
		fmt.Println(parser.RenderProgram(parseRes.Node))
		return nil
	}

	e := newEvaluator(cfg)
	if _, derr := e.Run(path, source); derr != nil {
		fmt.Fprintln(os.Stderr, derr.AsString())
		os.Exit(1)
	}
	return nil
}

func configureLogging() {
	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(logLevel),
	}
	logger := slog.New(slog.NewJSONHandler(configureLogWriter(), options))
	slog.SetDefault(logger)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// effectively disables logging
		return slog.Level(127)
	}
}

func configureLogWriter() io.Writer {
	if logFile == "" {
		return os.Stderr
	}
	fh, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return os.Stderr
	}
	return fh
}
