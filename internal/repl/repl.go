package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/muesli/termenv"

	"parseflow/internal/evaluator"
	"parseflow/internal/object"
	"parseflow/internal/util"
)

// Start runs the interactive loop until the user enters `exit` or closes the
// input. Session state lives in the evaluator's root environment, so bindings
// persist across lines.
func Start(cfg util.Configuration, e *evaluator.Evaluator, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	output := termenv.NewOutput(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") {
			return nil
		}

		value, derr := e.Run("<stdin>", line)
		if derr != nil {
			fmt.Fprintln(out, output.String(derr.AsString()).Foreground(termenv.ANSIRed))
			continue
		}
		if value != nil {
			printResult(out, value)
		}
	}
}

// printResult unwraps a single-statement line so `1 + 2` shows `3`, not `[3]`.
func printResult(out io.Writer, value object.Object) {
	if list, ok := value.(*object.List); ok && len(list.Elements) == 1 {
		fmt.Fprintln(out, list.Elements[0].Inspect())
		return
	}
	fmt.Fprintln(out, value.Inspect())
}
