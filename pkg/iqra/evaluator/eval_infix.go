package evaluator

import (
	"math"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
)

// evalInfix applies a binary operator to two already evaluated operands.
func evalInfix(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return nativeBoolToBool(Equal(left, right)), nil
	case "!=":
		return nativeBoolToBool(!Equal(left, right)), nil
	case "and":
		return nativeBoolToBool(IsTruthy(left) && IsTruthy(right)), nil
	case "or":
		return nativeBoolToBool(IsTruthy(left) || IsTruthy(right)), nil
	case "+":
		return evalPlus(left, right)
	}

	l, lok := left.(*Number)
	r, rok := right.(*Number)
	if !lok || !rok {
		return nil, operandError("TYPE-0002", op, left, right)
	}
	return evalNumberInfix(op, l.Value, r.Value)
}

// evalPlus adds numbers or concatenates strings; mixed operands are an error.
func evalPlus(left, right Value) (Value, error) {
	switch l := left.(type) {
	case *Number:
		if r, ok := right.(*Number); ok {
			return &Number{Value: l.Value + r.Value}, nil
		}
	case *String:
		if r, ok := right.(*String); ok {
			return &String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, operandError("TYPE-0001", "+", left, right)
}

func evalNumberInfix(op string, l, r float64) (Value, error) {
	switch op {
	case "-":
		return &Number{Value: l - r}, nil
	case "*":
		return &Number{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, ierrors.New("ARITH-0001", nil)
		}
		return &Number{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, ierrors.New("ARITH-0002", nil)
		}
		return &Number{Value: math.Mod(l, r)}, nil
	case "<":
		return nativeBoolToBool(l < r), nil
	case "<=":
		return nativeBoolToBool(l <= r), nil
	case ">":
		return nativeBoolToBool(l > r), nil
	case ">=":
		return nativeBoolToBool(l >= r), nil
	}
	return nil, ierrors.New("PARSE-0002", map[string]any{"Token": op})
}

func evalPrefix(op string, right Value) (Value, error) {
	switch op {
	case "not":
		return nativeBoolToBool(!IsTruthy(right)), nil
	case "-":
		n, ok := right.(*Number)
		if !ok {
			return nil, unaryOperandError("-", right)
		}
		return &Number{Value: -n.Value}, nil
	}
	return nil, ierrors.New("PARSE-0002", map[string]any{"Token": op})
}

// evalIndex handles list[number] and map[string]. List indexes are truncated
// toward zero; negative indexes are out of bounds.
func evalIndex(object, index Value) (Value, error) {
	switch obj := object.(type) {
	case *List:
		n, ok := index.(*Number)
		if !ok {
			return nil, invalidIndexError(object, index)
		}
		i := math.Trunc(n.Value)
		if math.IsNaN(i) || i < 0 || i >= float64(len(obj.Elements)) {
			return nil, ierrors.New("INDEX-0001", map[string]any{
				"Index":  formatNumber(n.Value),
				"Length": len(obj.Elements),
			})
		}
		return obj.Elements[int(i)], nil

	case *Map:
		key, ok := index.(*String)
		if !ok {
			return nil, invalidIndexError(object, index)
		}
		v, ok := obj.Pairs[key.Value]
		if !ok {
			return nil, ierrors.New("INDEX-0002", map[string]any{"Key": key.Value})
		}
		return v, nil
	}
	return nil, invalidIndexError(object, index)
}
