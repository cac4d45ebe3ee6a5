package evaluator

// numbersArg checks the single list argument of an aggregate and returns its
// elements as floats.
func numbersArg(name string, args []Value) ([]float64, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	elements, err := listArg(name, args, 0)
	if err != nil {
		return nil, err
	}
	nums := make([]float64, len(elements))
	for i, el := range elements {
		n, ok := el.(*Number)
		if !ok {
			return nil, elementTypeError(name, el)
		}
		nums[i] = n.Value
	}
	return nums, nil
}

func builtinSum(_ *Runtime, name string, args []Value) (Value, error) {
	nums, err := numbersArg(name, args)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return &Number{Value: total}, nil
}

// builtinAverage returns 0 for an empty list, unlike max and min.
func builtinAverage(_ *Runtime, name string, args []Value) (Value, error) {
	nums, err := numbersArg(name, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return &Number{Value: 0}, nil
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return &Number{Value: total / float64(len(nums))}, nil
}

func builtinMax(_ *Runtime, name string, args []Value) (Value, error) {
	nums, err := numbersArg(name, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, emptyListError(name)
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return &Number{Value: best}, nil
}

func builtinMin(_ *Runtime, name string, args []Value) (Value, error) {
	nums, err := numbersArg(name, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, emptyListError(name)
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n < best {
			best = n
		}
	}
	return &Number{Value: best}, nil
}
