// eval_errors.go - Error creation helpers for the Iqra evaluator
//
// All runtime failures are *errors.IqraError values built from the catalog,
// so the bilingual message pair is always present.

package evaluator

import (
	"strings"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
)

// withLine sets the line on an IqraError that does not have one yet.
func withLine(err error, line int) error {
	ie, ok := err.(*ierrors.IqraError)
	if !ok || ie.Line != 0 || line == 0 {
		return err
	}
	return ie.WithLine(line)
}

func arityError(name string, expected, got int) *ierrors.IqraError {
	return ierrors.New("ARITY-0001", map[string]any{
		"Name":     name,
		"Expected": expected,
		"Got":      got,
	})
}

// checkArity fails unless exactly n arguments were passed.
func checkArity(name string, args []Value, n int) error {
	if len(args) != n {
		return arityError(name, n, len(args))
	}
	return nil
}

// argTypeError reports argument pos (1-based) having none of the expected types.
func argTypeError(name string, pos int, got Value, expected ...ValueType) *ierrors.IqraError {
	en := make([]string, len(expected))
	ar := make([]string, len(expected))
	for i, t := range expected {
		en[i] = string(t)
		ar[i] = arabicTypeNames[t]
	}
	return ierrors.New("TYPE-0004", map[string]any{
		"Name":       name,
		"Position":   pos,
		"Expected":   strings.Join(en, " or "),
		"ExpectedAR": strings.Join(ar, " أو "),
		"Got":        TypeName(got),
		"GotAR":      TypeNameAR(got),
	})
}

func operandError(code, op string, left, right Value) *ierrors.IqraError {
	return ierrors.New(code, map[string]any{
		"Op":      op,
		"Left":    TypeName(left),
		"LeftAR":  TypeNameAR(left),
		"Right":   TypeName(right),
		"RightAR": TypeNameAR(right),
	})
}

func unaryOperandError(op string, operand Value) *ierrors.IqraError {
	return ierrors.New("TYPE-0003", map[string]any{
		"Op":     op,
		"Type":   TypeName(operand),
		"TypeAR": TypeNameAR(operand),
	})
}

func invalidIndexError(object, index Value) *ierrors.IqraError {
	return ierrors.New("INDEX-0003", map[string]any{
		"Object":   TypeName(object),
		"ObjectAR": TypeNameAR(object),
		"Index":    TypeName(index),
		"IndexAR":  TypeNameAR(index),
	})
}

func elementTypeError(name string, got Value) *ierrors.IqraError {
	return ierrors.New("TYPE-0005", map[string]any{
		"Name":  name,
		"Got":   TypeName(got),
		"GotAR": TypeNameAR(got),
	})
}

func mapKeyError(got Value) *ierrors.IqraError {
	return ierrors.New("TYPE-0006", map[string]any{
		"Got":   TypeName(got),
		"GotAR": TypeNameAR(got),
	})
}

func emptyListError(name string) *ierrors.IqraError {
	return ierrors.New("INDEX-0004", map[string]any{"Name": name})
}

func newPairsError(name string, got int) *ierrors.IqraError {
	return ierrors.New("ARITY-0002", map[string]any{"Name": name, "Got": got})
}

func ioError(code string, data map[string]any, err error) *ierrors.IqraError {
	data["Err"] = err.Error()
	return ierrors.New(code, data)
}
