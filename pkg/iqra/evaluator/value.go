package evaluator

import (
	"math"
	"sort"
	"strconv"
	"strings"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
)

// ValueType is the ASCII tag returned by type()
type ValueType string

const (
	NIL_VAL    ValueType = "nil"
	BOOL_VAL   ValueType = "bool"
	NUMBER_VAL ValueType = "number"
	STRING_VAL ValueType = "string"
	LIST_VAL   ValueType = "list"
	MAP_VAL    ValueType = "map"
)

var arabicTypeNames = map[ValueType]string{
	NIL_VAL:    "فارغ",
	BOOL_VAL:   "منطقي",
	NUMBER_VAL: "رقم",
	STRING_VAL: "سلسلة",
	LIST_VAL:   "قائمة",
	MAP_VAL:    "قاموس",
}

// Value is the only runtime datum. The set of implementations is closed.
type Value interface {
	Type() ValueType
	Inspect() string
	value()
}

// Nil represents the absence of a value
type Nil struct{}

func (n *Nil) Type() ValueType { return NIL_VAL }
func (n *Nil) Inspect() string { return "فارغ" }
func (n *Nil) value()          {}

// Bool represents a boolean
type Bool struct {
	Value bool
}

func (b *Bool) Type() ValueType { return BOOL_VAL }
func (b *Bool) Inspect() string {
	if b.Value {
		return "صحيح"
	}
	return "خطأ"
}
func (b *Bool) value() {}

// Number is a 64-bit float; there is no separate integer type
type Number struct {
	Value float64
}

func (n *Number) Type() ValueType { return NUMBER_VAL }
func (n *Number) Inspect() string { return formatNumber(n.Value) }
func (n *Number) value()          {}

// String is immutable text
type String struct {
	Value string
}

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return s.Value }
func (s *String) value()          {}

// List is an ordered sequence. Builtins never mutate Elements in place.
type List struct {
	Elements []Value
}

func (l *List) Type() ValueType { return LIST_VAL }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) value() {}

// Map is a string-keyed mapping without order
type Map struct {
	Pairs map[string]Value
}

func (m *Map) Type() ValueType { return MAP_VAL }

// Inspect renders keys in sorted order so output is stable.
func (m *Map) Inspect() string {
	keys := m.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m.Pairs[k].Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *Map) value() {}

// Keys returns the map keys sorted
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	NIL   = &Nil{}
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
)

func nativeBoolToBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

// NewList copies elems into a fresh list
func NewList(elems ...Value) *List {
	out := make([]Value, len(elems))
	copy(out, elems)
	return &List{Elements: out}
}

// NewMap returns an empty map
func NewMap() *Map {
	return &Map{Pairs: make(map[string]Value)}
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	case n == 0:
		// negative zero
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// IsTruthy: nil is false, numbers are true when nonzero, and strings, lists
// and maps are true when nonempty.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case *Nil:
		return false
	case *Bool:
		return v.Value
	case *Number:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *List:
		return len(v.Elements) > 0
	case *Map:
		return len(v.Pairs) > 0
	}
	return false
}

// TypeName returns the ASCII type tag
func TypeName(v Value) string {
	return string(v.Type())
}

// TypeNameAR returns the Arabic type name used in error text
func TypeNameAR(v Value) string {
	return arabicTypeNames[v.Type()]
}

// Equal compares values structurally
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Bool:
		b, ok := b.(*Bool)
		return ok && a.Value == b.Value
	case *Number:
		b, ok := b.(*Number)
		return ok && a.Value == b.Value
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case *Map:
		b, ok := b.(*Map)
		if !ok || len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for k, av := range a.Pairs {
			bv, ok := b.Pairs[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

func conversionError(v Value, to ValueType) *ierrors.IqraError {
	return ierrors.New("CONV-0001", map[string]any{
		"From":   TypeName(v),
		"FromAR": TypeNameAR(v),
		"To":     string(to),
		"ToAR":   arabicTypeNames[to],
	})
}

// ToNumber accepts numbers and numeric strings. Strings are trimmed and
// Arabic-Indic digits folded before parsing.
func ToNumber(v Value) (float64, error) {
	switch v := v.(type) {
	case *Number:
		return v.Value, nil
	case *String:
		text := strings.TrimSpace(lexer.FoldDigits(v.Value))
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, ierrors.New("CONV-0002", map[string]any{"Value": v.Value})
		}
		return n, nil
	}
	return 0, conversionError(v, NUMBER_VAL)
}

// ToString accepts scalars; lists and maps have no scalar string form
func ToString(v Value) (string, error) {
	switch v := v.(type) {
	case *String:
		return v.Value, nil
	case *List, *Map:
		return "", conversionError(v, STRING_VAL)
	}
	return v.Inspect(), nil
}

// ToList returns the elements of a list without copying
func ToList(v Value) ([]Value, error) {
	if l, ok := v.(*List); ok {
		return l.Elements, nil
	}
	return nil, conversionError(v, LIST_VAL)
}

// ToMap returns the pairs of a map without copying
func ToMap(v Value) (map[string]Value, error) {
	if m, ok := v.(*Map); ok {
		return m.Pairs, nil
	}
	return nil, conversionError(v, MAP_VAL)
}

// FromNative converts Go values to Iqra values, used by embedders and tests.
func FromNative(v any) Value {
	switch v := v.(type) {
	case nil:
		return NIL
	case Value:
		return v
	case bool:
		return nativeBoolToBool(v)
	case int:
		return &Number{Value: float64(v)}
	case int64:
		return &Number{Value: float64(v)}
	case float64:
		return &Number{Value: v}
	case string:
		return &String{Value: v}
	case []string:
		out := make([]Value, len(v))
		for i, s := range v {
			out[i] = &String{Value: s}
		}
		return &List{Elements: out}
	case []any:
		out := make([]Value, len(v))
		for i, el := range v {
			out[i] = FromNative(el)
		}
		return &List{Elements: out}
	case map[string]string:
		m := NewMap()
		for k, s := range v {
			m.Pairs[k] = &String{Value: s}
		}
		return m
	case map[string]any:
		m := NewMap()
		for k, el := range v {
			m.Pairs[k] = FromNative(el)
		}
		return m
	}
	return NIL
}
