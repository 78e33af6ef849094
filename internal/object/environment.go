package object

import "log/slog"

// Environment is a symbol table with an optional parent. Reads walk the
// parent chain; writes and removals act on the local table only.
type Environment struct {
	Bindings map[string]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a call-frame table chained to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.Bindings[name]
	if !ok && e.Outer != nil {
		return e.Outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Set(name string, val Object) Object {
	slog.Debug("binding value",
		slog.String("name", name),
		slog.Any("type", val.Type()))
	e.Bindings[name] = val
	return val
}

func (e *Environment) Remove(name string) {
	delete(e.Bindings, name)
}
