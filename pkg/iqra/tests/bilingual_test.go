package tests

import (
	"testing"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
)

func TestBilingualEquivalence(t *testing.T) {
	tests := []struct {
		name    string
		english string
		arabic  string
	}{
		{"if", "if 1 < 2 { 10 } else { 20 }", "إذا 1 < 2 { 10 } وإلا { 20 }"},
		{"if without hamza", "if false { 1 } else { 2 }", "اذا خطأ { 1 } والا { 2 }"},
		{"while", "i = 0\nwhile i < 5 { i = i + 1 }\ni", "i = 0\nبينما i < 5 { i = i + 1 }\ni"},
		{"logic", "true and not false or false", "صحيح و ليس خطأ أو خطأ"},
		{"function", "function f(a, b) { return a * b }\nf(6, 7)", "دالة f(a, b) { ارجع a * b }\nf(6, 7)"},
		{"def", "def g() { return 1 }\ng()", "دالة g() { أرجع 1 }\ng()"},
		{"try", "try { 1 / 0 } catch(e) { \"caught\" }", "حاول { 1 / 0 } التقط(e) { \"caught\" }"},
		{"catch spelling", "try { x } catch(e) { 1 }", "حاول { x } امسك(e) { 1 }"},
		{"sum", "sum(list(1, 2, 3))", "جمع(قائمة(1, 2, 3))"},
		{"average", "average(list(2, 4))", "متوسط(قائمة(2, 4))"},
		{"max min", "[max(list(1, 9)), min(list(1, 9))]", "[أكبر(قائمة(1, 9)), أصغر(قائمة(1, 9))]"},
		{"list ops", "append(remove(list(1, 2, 3), 2), 4)", "أضف(احذف(قائمة(1, 2, 3), 2), 4)"},
		{"list access", "[get(list(5, 6), 1), list_len(list(1)), contains(list(1), 1)]", "[عنصر(قائمة(5, 6), 1), طول_القائمة(قائمة(1)), يحتوي(قائمة(1), 1)]"},
		{"maps", `map_remove(map_set(map("a", 1), "b", map_get(map("c", 2), "c")), "a")`, `حذف_عنصر(تعيين_عنصر(قاموس("a", 1), "b", جلب_عنصر(قاموس("c", 2), "c")), "a")`},
		{"types", `[type(1), to_number("5"), to_string(5), is_number(1), is_string(1)]`, `[نوع(1), إلى_رقم("5"), إلى_نص(5), رقم؟(1), نص؟(1)]`},
		{"strings", `[len("abc"), word_count("a b"), reverse("ab")]`, `[طول("abc"), عدد_الكلمات("a b"), عكس("ab")]`},
		{"print", `print("x")`, `اطبع("x")`},
		{"digits", "123 + 4.5", "١٢٣ + ٤.٥"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			en := mustEval(t, tt.english)
			ar := mustEval(t, tt.arabic)
			if !evaluator.Equal(en, ar) {
				t.Errorf("english = %s, arabic = %s", en.Inspect(), ar.Inspect())
			}
		})
	}
}

func TestBilingualErrorsMatch(t *testing.T) {
	tests := []struct {
		english string
		arabic  string
	}{
		{"sum(1)", "جمع(1)"},
		{"max(list())", "أكبر(قائمة())"},
		{"get(list(), 0)", "عنصر(قائمة(), 0)"},
		{"list_len(1, 2)", "طول_القائمة(1, 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.english, func(t *testing.T) {
			_, errEN := evalHelper(tt.english)
			_, errAR := evalHelper(tt.arabic)
			en, okEN := ierrors.As(errEN)
			ar, okAR := ierrors.As(errAR)
			if !okEN || !okAR {
				t.Fatalf("expected both to fail: %v / %v", errEN, errAR)
			}
			if en.Kind != ar.Kind || en.Code != ar.Code {
				t.Errorf("errors differ: %s/%s vs %s/%s", en.Code, en.Kind, ar.Code, ar.Kind)
			}
		})
	}
}
