package tests

import (
	"testing"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
)

func TestDigitFolding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"١٢٣", "123"},
		{"١٢٣ == 123", "صحيح"},
		{`to_number("١٢٣")`, "123"},
		{`to_number("١٢٣") == ١٢٣`, "صحيح"},
		{"٣.٥ * ٢", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestArithmeticProperties(t *testing.T) {
	if got := mustEval(t, "(1 + 2) * 3 - 4 / 2").Inspect(); got != "7" {
		t.Errorf("expected 7, got %s", got)
	}
	mustFail(t, "1 / 0", ierrors.KindDivisionByZero)
	mustFail(t, "1 % 0", ierrors.KindModuloByZero)
}

func TestCollectionPurity(t *testing.T) {
	v := mustEval(t, "l = list(1, 2, 3)\nm = append(l, 4)\n[list_len(m), list_len(l)]")
	if v.Inspect() != "[4, 3]" {
		t.Errorf("expected [4, 3], got %s", v.Inspect())
	}
}

func TestFunctionCallAndFrames(t *testing.T) {
	if got := mustEval(t, "function f(a, b) { return a + b }\nf(2, 3)").Inspect(); got != "5" {
		t.Errorf("f(2, 3) = %s", got)
	}

	mustFail(t, "function f(a, b) { return a + b }\nf(2)", ierrors.KindArgumentCount)

	v := mustEval(t, `a = "outer"
b = 100
function f(a, b) {
  c = a + b
  return c
}
r = f(1, 2)
[a, b, r]`)
	if v.Inspect() != "[outer, 100, 3]" {
		t.Errorf("caller frame changed: %s", v.Inspect())
	}

	v = mustEval(t, `function fact(n) {
  if n <= 1 { return 1 }
  return n * fact(n - 1)
}
fact(10)`)
	if v.Inspect() != "3628800" {
		t.Errorf("fact(10) = %s", v.Inspect())
	}
}

func TestIndexingBounds(t *testing.T) {
	mustFail(t, "get(list(1, 2, 3), 5)", ierrors.KindIndexOutOfBounds)
	mustFail(t, `map_get(map("a", "x"), "b")`, ierrors.KindKeyNotFound)
}

func TestIdempotentParsing(t *testing.T) {
	src := `دالة f(x) {
  إذا x > 0 { ارجع x } وإلا { ارجع -x }
}
i = 0
while i < 3 { i = i + 1 }
try { f("a") } catch(e) { print(e) }
[f(-2), map("k", list(1, 2))["k"][1]]`

	first, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("parses differ:\n%s\n---\n%s", first.String(), second.String())
	}
	if len(first.Statements) != len(second.Statements) {
		t.Errorf("statement counts differ: %d vs %d", len(first.Statements), len(second.Statements))
	}
}

func TestSyntaxErrorsAbortWholeProgram(t *testing.T) {
	ie := mustFail(t, "print(\"never\")\nx = = 1", ierrors.KindUnexpectedToken)
	if ie.Line != 2 {
		t.Errorf("line = %d, want 2", ie.Line)
	}
	if ie.MessageAR == "" || ie.MessageEN == "" {
		t.Error("error must carry both messages")
	}
}
