package evaluator

import (
	"fmt"
	"testing"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
)

func TestCollectionBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"list(1, 2, 3)", "[1, 2, 3]"},
		{"قائمة()", "[]"},
		{"list_len(list(1, 2))", "2"},
		{"get(list(1, 2, 3), 2)", "3"},
		{"عنصر(قائمة(\"أ\", \"ب\"), 0)", "أ"},
		{"append(list(1), 2)", "[1, 2]"},
		{"remove(list(1, 2, 1, 3), 1)", "[2, 3]"},
		{"contains(list(1, \"a\"), \"a\")", "صحيح"},
		{"يحتوي(قائمة(1), 2)", "خطأ"},
		{`map("b", 2, "a", 1)`, "{a: 1, b: 2}"},
		{`map()`, "{}"},
		{`map_get(map("a", "x"), "a")`, "x"},
		{`map_set(map("a", 1), "b", 2)`, "{a: 1, b: 2}"},
		{`map_set(map("a", 1), "a", 5)`, "{a: 5}"},
		{`map_remove(map("a", 1, "b", 2), "a")`, "{b: 2}"},
		{`map_remove(map("a", 1), "zzz")`, "{a: 1}"},
		{`حذف_عنصر(قاموس("أ", 1), "أ")`, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectValue(t, tt.input, tt.expected)
		})
	}
}

func TestCollectionBuiltinsDoNotAlias(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"append", "l = list(1, 2, 3)\nm = append(l, 4)\n[list_len(l), list_len(m)]", "[3, 4]"},
		{"remove", "l = list(1, 2)\nm = remove(l, 1)\n[l, m]", "[[1, 2], [2]]"},
		{"map_set", "a = map(\"k\", 1)\nb = map_set(a, \"k\", 2)\n[a, b]", "[{k: 1}, {k: 2}]"},
		{"map_remove", "a = map(\"k\", 1)\nb = map_remove(a, \"k\")\n[a, b]", "[{k: 1}, {}]"},
		{"reverse list", "l = list(1, 2)\nr = reverse(l)\n[l, r]", "[[1, 2], [2, 1]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectValue(t, tt.input, tt.expected)
		})
	}
}

func TestPrint(t *testing.T) {
	logger := &captureLogger{}
	v, err := New(WithLogger(logger)).Execute(`print("س", 1, صحيح, list(1, 2))
اطبع()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != NIL {
		t.Errorf("print returned %s", v.Inspect())
	}
	if len(logger.lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", logger.lines)
	}
	if logger.lines[0] != "س 1 صحيح [1, 2]" {
		t.Errorf("line 0 = %q", logger.lines[0])
	}
	if logger.lines[1] != "" {
		t.Errorf("line 1 = %q", logger.lines[1])
	}
}

func TestTypeAndConversionBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"type(1)", "number"},
		{`نوع("a")`, "string"},
		{"type(list())", "list"},
		{"type(map())", "map"},
		{"type(صحيح)", "bool"},
		{"function f() { return }\ntype(f())", "nil"},
		{`to_number("١٢٣")`, "123"},
		{`to_number(" 4.5 ")`, "4.5"},
		{`إلى_رقم("٣.٥")`, "3.5"},
		{"to_number(7)", "7"},
		{"to_string(12)", "12"},
		{"to_string(list(1, 2))", "[1, 2]"},
		{"إلى_نص(صحيح)", "صحيح"},
		{"is_number(1)", "صحيح"},
		{`is_number("1")`, "خطأ"},
		{`رقم؟(1)`, "صحيح"},
		{`is_string("x")`, "صحيح"},
		{`نص؟(1)`, "خطأ"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectValue(t, tt.input, tt.expected)
		})
	}
}

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`len("مرحبا")`, "5"},
		{`len("abc")`, "3"},
		{"len(list(1, 2))", "2"},
		{`word_count("  one two\tthree\n")`, "3"},
		{`عدد_الكلمات("")`, "0"},
		{`reverse("abc")`, "cba"},
		{`عكس("سلام")`, "مالس"},
		{"reverse(list(1, 2, 3))", "[3, 2, 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectValue(t, tt.input, tt.expected)
		})
	}
}

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sum(list(1, 2, 3.5))", "6.5"},
		{"sum(list())", "0"},
		{"جمع([١, ٢])", "3"},
		{"average(list(1, 2, 3, 4))", "2.5"},
		{"average(list())", "0"},
		{"max(list(3, 9, -1))", "9"},
		{"أصغر(قائمة(3, 9, -1))", "-1"},
		{"min(list(5))", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectValue(t, tt.input, tt.expected)
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"list_len()", ierrors.KindArgumentCount},
		{"list_len(1)", ierrors.KindInvalidArgument},
		{"get(list(1, 2, 3), 5)", ierrors.KindIndexOutOfBounds},
		{`map_get(map("a", "x"), "b")`, ierrors.KindKeyNotFound},
		{"append(1, 2)", ierrors.KindInvalidArgument},
		{`map("a")`, ierrors.KindArgumentCount},
		{`map(1, 2)`, ierrors.KindInvalidMapKey},
		{`map_set(map(), 1, 2)`, ierrors.KindInvalidMapKey},
		{`map_set(list(), "a", 2)`, ierrors.KindInvalidArgument},
		{`to_number("abc")`, ierrors.KindConversion},
		{`to_number(list())`, ierrors.KindConversion},
		{"to_number(صحيح)", ierrors.KindConversion},
		{"إلى_رقم(خطأ)", ierrors.KindConversion},
		{"list_len(map())", ierrors.KindInvalidArgument},
		{"contains(1, 1)", ierrors.KindInvalidArgument},
		{`map_remove(list(), "a")`, ierrors.KindInvalidArgument},
		{"len(1)", ierrors.KindInvalidArgument},
		{`sum(list(1, "2"))`, ierrors.KindInvalidArgument},
		{"sum(1)", ierrors.KindInvalidArgument},
		{"max(list())", ierrors.KindEmptyList},
		{"أكبر(قائمة())", ierrors.KindEmptyList},
		{"min(list())", ierrors.KindEmptyList},
		{"type(1, 2)", ierrors.KindArgumentCount},
		{"today(1)", ierrors.KindArgumentCount},
		{"system(1)", ierrors.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectKind(t, tt.input, tt.kind)
		})
	}
}

func TestBuiltinErrorEchoesCalledName(t *testing.T) {
	ie := expectKind(t, "طول_القائمة(1)", ierrors.KindInvalidArgument)
	if ie.MessageEN != "function 'طول_القائمة' expects list for argument 1, got number" {
		t.Errorf("MessageEN = %q", ie.MessageEN)
	}

	ie = expectKind(t, "len(صحيح)", ierrors.KindInvalidArgument)
	if ie.MessageEN != "function 'len' expects string or list for argument 1, got bool" {
		t.Errorf("MessageEN = %q", ie.MessageEN)
	}
}

func TestSystemBuiltins(t *testing.T) {
	exec := newMockExecutor()
	exec.commands["echo hi"] = "hi\n"
	exec.commands["wc -c"] = "  5\n"
	exec.files["notes.txt"] = "سطر"
	exec.dirs["."] = []string{"a.iq", "b.iq"}
	exec.env["HOME"] = "/home/iqra"

	tests := []struct {
		input    string
		expected string
	}{
		{`system("echo hi")`, "hi"},
		{`نفذ_أمر("echo hi")`, "hi"},
		{`system_with_io("wc -c", "hello")`, "5"},
		{`read_file("notes.txt")`, "سطر"},
		{`write_file("out.txt", "x")`, "صحيح"},
		{`اكتب_ملف("out.txt", "y")`, "صحيح"},
		{`list_files(".")`, "[a.iq, b.iq]"},
		{`env_var("HOME")`, "/home/iqra"},
		{`متغير_بيئة("NOPE")`, "فارغ"},
		{`map_get(system_info(), "os")`, "linux"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := New(WithExecutor(exec), WithLogger(&captureLogger{})).Execute(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Inspect() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, v.Inspect())
			}
		})
	}

	if exec.stdin != "hello" {
		t.Errorf("stdin = %q", exec.stdin)
	}
	if exec.files["out.txt"] != "y" {
		t.Errorf("out.txt = %q", exec.files["out.txt"])
	}
}

func TestSystemBuiltinFailures(t *testing.T) {
	exec := newMockExecutor()

	tests := []struct {
		input string
		kind  string
	}{
		{`system("missing")`, ierrors.KindSystemCommand},
		{`system_with_io("missing", "")`, ierrors.KindSystemCommand},
		{`read_file("missing.txt")`, ierrors.KindFileRead},
		{`list_files("missing")`, ierrors.KindListFiles},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New(WithExecutor(exec), WithLogger(&captureLogger{})).Execute(tt.input)
			ie, ok := ierrors.As(err)
			if !ok {
				t.Fatalf("expected IqraError, got %v", err)
			}
			if ie.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", ie.Kind, tt.kind)
			}
			if ie.Line != 1 {
				t.Errorf("line = %d, want 1", ie.Line)
			}
		})
	}

	failing := newMockExecutor()
	failing.failWith = fmt.Errorf("disk full")
	_, err := New(WithExecutor(failing), WithLogger(&captureLogger{})).Execute(`write_file("a", "b")`)
	if ie, ok := ierrors.As(err); !ok || ie.Kind != ierrors.KindFileWrite {
		t.Errorf("expected file write error, got %v", err)
	}
	_, err = New(WithExecutor(failing), WithLogger(&captureLogger{})).Execute(`system_info()`)
	if ie, ok := ierrors.As(err); !ok || ie.Kind != ierrors.KindSystemInfo {
		t.Errorf("expected system info error, got %v", err)
	}
}

func TestSystemInfoIsCached(t *testing.T) {
	exec := newMockExecutor()
	r := New(WithExecutor(exec), WithLogger(&captureLogger{}))
	if _, err := r.Execute("a = system_info()\nb = معلومات_النظام()\na == b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.infoCalls != 1 {
		t.Errorf("SystemInfo called %d times, want 1", exec.infoCalls)
	}

	r.Reset()
	if _, err := r.Execute("system_info()"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.infoCalls != 2 {
		t.Errorf("Reset should drop the cache; calls = %d", exec.infoCalls)
	}
}

func TestEveryBuiltinHasBothSpellings(t *testing.T) {
	for _, b := range Builtins() {
		if b.Name == "" || b.Arabic == "" || b.Fn == nil {
			t.Errorf("incomplete builtin %+v", b)
			continue
		}
		if !IsBuiltin(b.Name) || !IsBuiltin(b.Arabic) {
			t.Errorf("%s/%s not resolvable", b.Name, b.Arabic)
		}
	}
	if len(Builtins()) != 31 {
		t.Errorf("expected 31 builtins, got %d", len(Builtins()))
	}
}
