package object

import "testing"

func TestInspect(t *testing.T) {
	anon := &Function{}
	named := &Function{Name: "square"}

	tests := []struct {
		obj      Object
		expected string
	}{
		{&Number{Value: 8}, "8"},
		{&Number{Value: 2.5}, "2.5"},
		{&Number{Value: -0.125}, "-0.125"},
		{&String{Value: "hi"}, `"hi"`},
		{&String{Value: "a\nb"}, `"a\nb"`},
		{&List{Elements: []Object{&Number{Value: 1}, &String{Value: "x"}}}, `[1, "x"]`},
		{&List{}, "[]"},
		{named, "<function square>"},
		{anon, "<function <anonymous>>"},
		{&Builtin{Name: "PRINT"}, "<built-in function PRINT>"},
		{NULL, "null"},
	}

	for i, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - inspect wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestStr(t *testing.T) {
	if got := Str(&String{Value: "hi"}); got != "hi" {
		t.Errorf("strings print raw, got=%q", got)
	}
	if got := Str(&Number{Value: 3}); got != "3" {
		t.Errorf("numbers print as inspect, got=%q", got)
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		obj      Object
		expected bool
	}{
		{&Number{Value: 0}, false},
		{&Number{Value: 1}, true},
		{&Number{Value: -0.5}, true},
		{&String{Value: ""}, false},
		{&String{Value: "x"}, true},
		{&List{}, false},
		{&List{Elements: []Object{NULL}}, true},
		{&Function{}, true},
		{&Builtin{Name: "PRINT"}, true},
		{NULL, false},
	}

	for i, tt := range tests {
		if got := IsTruthy(tt.obj); got != tt.expected {
			t.Fatalf("tests[%d] - truthiness of %s wrong. expected=%v, got=%v",
				i, tt.obj.Inspect(), tt.expected, got)
		}
	}
}

func TestEnvironmentGetWalksOuter(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("a", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)
	if _, ok := inner.Get("a"); !ok {
		t.Fatalf("inner environment should see outer binding")
	}
}

func TestEnvironmentSetIsLocal(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("a", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("a", &Number{Value: 2})

	got, _ := outer.Get("a")
	if got.(*Number).Value != 1 {
		t.Fatalf("write leaked into outer environment: %s", got.Inspect())
	}
	got, _ = inner.Get("a")
	if got.(*Number).Value != 2 {
		t.Fatalf("inner binding should shadow outer: %s", got.Inspect())
	}
}

func TestEnvironmentRemoveIsLocal(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("a", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("a", &Number{Value: 2})
	inner.Remove("a")

	got, ok := inner.Get("a")
	if !ok || got.(*Number).Value != 1 {
		t.Fatalf("remove should only delete the local binding")
	}

	inner.Remove("a") // removing a name with no local binding is a no-op
	if _, ok := outer.Get("a"); !ok {
		t.Fatalf("outer binding must survive inner removals")
	}
}
