package parser

import (
	"parseflow/internal/ast"
	"parseflow/internal/diag"
)

// ParseResult threads a node or error through the recursive descent together
// with an advance count, so the parser can rewind failed speculation and keep
// the deepest error when two alternatives both partially match.
type ParseResult struct {
	Node                       ast.Node
	Err                        *diag.Error
	AdvanceCount               int
	ToReverseCount             int
	LastRegisteredAdvanceCount int
}

func (r *ParseResult) registerAdvancement() {
	r.LastRegisteredAdvanceCount = 1
	r.AdvanceCount++
}

// register merges a sub-result, keeping its error (if any) and returning its node.
func (r *ParseResult) register(res *ParseResult) ast.Node {
	r.LastRegisteredAdvanceCount = res.AdvanceCount
	r.AdvanceCount += res.AdvanceCount
	if res.Err != nil {
		r.Err = res.Err
	}
	return res.Node
}

// tryRegister is register for optional constructs: on failure it records how
// many tokens the speculation consumed and returns nil so the caller can rewind.
func (r *ParseResult) tryRegister(res *ParseResult) ast.Node {
	if res.Err != nil {
		r.ToReverseCount = res.AdvanceCount
		return nil
	}
	return r.register(res)
}

func (r *ParseResult) success(node ast.Node) *ParseResult {
	r.Node = node
	return r
}

// failure keeps an already-registered error unless this one failed without
// consuming input, so the deepest failure wins for reporting.
func (r *ParseResult) failure(err *diag.Error) *ParseResult {
	if r.Err == nil || r.LastRegisteredAdvanceCount == 0 {
		r.Err = err
	}
	return r
}
