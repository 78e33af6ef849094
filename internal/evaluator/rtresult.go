package evaluator

import "parseflow/internal/object"

// RTResult is the outcome of evaluating one node: a value, an error, or a
// non-local control signal. At most one of Err, FuncReturnValue, LoopContinue
// and LoopBreak is set at a time.
type RTResult struct {
	Value           object.Object
	Err             *object.RTError
	FuncReturnValue object.Object
	LoopContinue    bool
	LoopBreak       bool
}

func NewRTResult() *RTResult {
	return &RTResult{}
}

func (r *RTResult) reset() {
	r.Value = nil
	r.Err = nil
	r.FuncReturnValue = nil
	r.LoopContinue = false
	r.LoopBreak = false
}

// Register absorbs a sub-result's error and signals and hands back its value.
func (r *RTResult) Register(res *RTResult) object.Object {
	r.Err = res.Err
	r.FuncReturnValue = res.FuncReturnValue
	r.LoopContinue = res.LoopContinue
	r.LoopBreak = res.LoopBreak
	return res.Value
}

func (r *RTResult) Success(value object.Object) *RTResult {
	r.reset()
	r.Value = value
	return r
}

func (r *RTResult) SuccessReturn(value object.Object) *RTResult {
	r.reset()
	r.FuncReturnValue = value
	return r
}

func (r *RTResult) SuccessContinue() *RTResult {
	r.reset()
	r.LoopContinue = true
	return r
}

func (r *RTResult) SuccessBreak() *RTResult {
	r.reset()
	r.LoopBreak = true
	return r
}

func (r *RTResult) Failure(err *object.RTError) *RTResult {
	r.reset()
	r.Err = err
	return r
}

// ShouldReturn reports whether evaluation must stop and propagate upward.
func (r *RTResult) ShouldReturn() bool {
	return r.Err != nil || r.FuncReturnValue != nil || r.LoopContinue || r.LoopBreak
}
