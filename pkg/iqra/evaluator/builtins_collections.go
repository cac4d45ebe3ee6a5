package evaluator

import "strings"

// Collection builtins never alias their input; every "mutation" returns a copy.

func builtinPrint(r *Runtime, _ string, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	r.logger.LogLine(strings.Join(parts, " "))
	return NIL, nil
}

// listArg returns the elements of the list at args[i]
func listArg(name string, args []Value, i int) ([]Value, error) {
	els, err := ToList(args[i])
	if err != nil {
		return nil, argTypeError(name, i+1, args[i], LIST_VAL)
	}
	return els, nil
}

// mapArg returns the pairs of the map at args[i]
func mapArg(name string, args []Value, i int) (map[string]Value, error) {
	pairs, err := ToMap(args[i])
	if err != nil {
		return nil, argTypeError(name, i+1, args[i], MAP_VAL)
	}
	return pairs, nil
}

func builtinList(_ *Runtime, _ string, args []Value) (Value, error) {
	return NewList(args...), nil
}

func builtinListLen(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	elements, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	return &Number{Value: float64(len(elements))}, nil
}

func builtinGet(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	return evalIndex(args[0], args[1])
}

func builtinAppend(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	elements, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(elements), len(elements)+1)
	copy(out, elements)
	return &List{Elements: append(out, args[1])}, nil
}

// builtinRemove drops every element equal to the argument.
func builtinRemove(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	elements, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, len(elements))
	for _, el := range elements {
		if !Equal(el, args[1]) {
			out = append(out, el)
		}
	}
	return &List{Elements: out}, nil
}

func builtinContains(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	elements, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		if Equal(el, args[1]) {
			return TRUE, nil
		}
	}
	return FALSE, nil
}

// builtinMap builds a map from alternating keys and values. Later keys win.
func builtinMap(_ *Runtime, name string, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return nil, newPairsError(name, len(args))
	}
	m := NewMap()
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(*String)
		if !ok {
			return nil, mapKeyError(args[i])
		}
		m.Pairs[key.Value] = args[i+1]
	}
	return m, nil
}

func builtinMapGet(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	return evalIndex(args[0], args[1])
}

func builtinMapSet(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 3); err != nil {
		return nil, err
	}
	pairs, err := mapArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	key, ok := args[1].(*String)
	if !ok {
		return nil, mapKeyError(args[1])
	}
	out := copyMap(pairs)
	out.Pairs[key.Value] = args[2]
	return out, nil
}

// builtinMapRemove returns a copy without the key; a missing key is not an error.
func builtinMapRemove(_ *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	pairs, err := mapArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	key, ok := args[1].(*String)
	if !ok {
		return nil, mapKeyError(args[1])
	}
	out := copyMap(pairs)
	delete(out.Pairs, key.Value)
	return out, nil
}

func copyMap(pairs map[string]Value) *Map {
	out := &Map{Pairs: make(map[string]Value, len(pairs)+1)}
	for k, v := range pairs {
		out.Pairs[k] = v
	}
	return out
}
