package evaluator

import (
	"fmt"
	"log/slog"

	"parseflow/internal/diag"
	"parseflow/internal/lexer"
	"parseflow/internal/object"
	"parseflow/internal/parser"
)

// Run lexes, parses and evaluates source against the evaluator's root
// environment. fileLabel names the source in rendered errors ("<stdin>" for
// REPL lines). The returned value is the List of statement results, or nil
// with the diagnostic that aborted the pipeline. A RETURN, CONTINUE or BREAK
// signal that reaches the program root stops the run and yields nil with no
// diagnostic.
func (e *Evaluator) Run(fileLabel, source string) (object.Object, diag.Diagnostic) {
	return e.RunInEnv(fileLabel, source, e.Root)
}

// RunInEnv is Run against an explicit environment.
func (e *Evaluator) RunInEnv(fileLabel, source string, env *object.Environment) (object.Object, diag.Diagnostic) {
	tokens, lexErr := lexer.New(fileLabel, source).Tokens()
	if lexErr != nil {
		return nil, lexErr
	}

	parseRes := parser.New(tokens).Parse()
	if parseRes.Err != nil {
		return nil, parseRes.Err
	}

	if e.CodeSink != nil {
		fmt.Fprintln(e.CodeSink, parser.RenderProgram(parseRes.Node))
	}

	slog.Debug("evaluating program",
		slog.String("file", fileLabel),
		slog.Int("tokens", len(tokens)))

	ctx := object.NewContext("<program>", nil, nil)
	ctx.Env = env

	res := e.Eval(parseRes.Node, ctx)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Value, nil
}
