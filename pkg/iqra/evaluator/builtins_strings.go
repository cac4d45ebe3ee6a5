package evaluator

import (
	"strings"
	"unicode/utf8"
)

func builtinType(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	return &String{Value: TypeName(args[0])}, nil
}

func builtinToNumber(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	if n, ok := args[0].(*Number); ok {
		return n, nil
	}
	n, err := ToNumber(args[0])
	if err != nil {
		return nil, err
	}
	return &Number{Value: n}, nil
}

// builtinToString renders lists and maps in their display form.
func builtinToString(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case *String:
		return v, nil
	case *List, *Map:
		return &String{Value: v.Inspect()}, nil
	}
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	return &String{Value: s}, nil
}

func builtinIsNumber(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(*Number)
	return nativeBoolToBool(ok), nil
}

func builtinIsString(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(*String)
	return nativeBoolToBool(ok), nil
}

// builtinLen counts runes, not bytes, so Arabic text has its visible length.
func builtinLen(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case *String:
		return &Number{Value: float64(utf8.RuneCountInString(v.Value))}, nil
	case *List:
		return &Number{Value: float64(len(v.Elements))}, nil
	}
	return nil, argTypeError(name, 1, args[0], STRING_VAL, LIST_VAL)
}

func builtinWordCount(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	s, ok := args[0].(*String)
	if !ok {
		return nil, argTypeError(name, 1, args[0], STRING_VAL)
	}
	return &Number{Value: float64(len(strings.Fields(s.Value)))}, nil
}

func builtinReverse(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case *String:
		runes := []rune(v.Value)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return &String{Value: string(runes)}, nil
	case *List:
		out := make([]Value, len(v.Elements))
		for i, el := range v.Elements {
			out[len(out)-1-i] = el
		}
		return &List{Elements: out}, nil
	}
	return nil, argTypeError(name, 1, args[0], STRING_VAL, LIST_VAL)
}
