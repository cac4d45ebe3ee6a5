package tests

import (
	"strings"
	"testing"

	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
)

// evalTryHelper runs a script that is expected to succeed, returning its value
func evalTryHelper(t *testing.T, input string) evaluator.Value {
	t.Helper()
	return mustEval(t, input)
}

func TestTryCatchesRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"division", "try { 1 / 0 } catch(e) { e }", "Division by Zero"},
		{"arabic keywords", "حاول { 1 / 0 } التقط(خ) { خ }", "القسمة على صفر"},
		{"undefined variable", "try { missing } catch(e) { e }", "missing"},
		{"builtin error", "try { sum(1) } catch(e) { e }", "Invalid Argument Type"},
		{"nested call", "function f() { return 1 / 0 }\ntry { f() } catch(e) { e }", "Division by Zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := evalTryHelper(t, tt.input)
			s, ok := v.(*evaluator.String)
			if !ok {
				t.Fatalf("expected String, got %s (%s)", evaluator.TypeName(v), v.Inspect())
			}
			if !strings.Contains(s.Value, tt.contains) {
				t.Errorf("%q does not contain %q", s.Value, tt.contains)
			}
		})
	}
}

func TestTrySuccessSkipsCatch(t *testing.T) {
	v := evalTryHelper(t, "x = 0\ntry { x = 1 } catch(e) { x = 2 }\nx")
	if v.Inspect() != "1" {
		t.Errorf("x = %s", v.Inspect())
	}
}

func TestReturnInsideTryIsNotCaught(t *testing.T) {
	v := evalTryHelper(t, `function f() {
  try { return "from try" } catch(e) { return "from catch" }
  return "after"
}
f()`)
	if v.Inspect() != "from try" {
		t.Errorf("f() = %s", v.Inspect())
	}
}

func TestErrorInsideCatchPropagates(t *testing.T) {
	_, err := evalHelper("try { 1 / 0 } catch(e) { 2 / 0 }")
	if err == nil {
		t.Fatal("error raised in catch should propagate")
	}
}

func TestCatchVariableIsAString(t *testing.T) {
	v := evalTryHelper(t, "try { get(list(), 3) } catch(err) { type(err) }")
	if v.Inspect() != "string" {
		t.Errorf("type(err) = %s", v.Inspect())
	}
}
