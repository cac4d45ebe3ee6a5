package evaluator

import "strings"

// Host builtins delegate to the SystemExecutor and wrap its failures in
// IO errors. Executor errors never escape unwrapped.

func stringArg(name string, args []Value, pos int) (string, error) {
	s, ok := args[pos-1].(*String)
	if !ok {
		return "", argTypeError(name, pos, args[pos-1], STRING_VAL)
	}
	return s.Value, nil
}

// builtinToday is computed once per Runtime.
func builtinToday(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 0); err != nil {
		return nil, err
	}
	if r.todayCache == nil {
		r.todayCache = &String{Value: r.clock().Format("2006-01-02")}
	}
	return r.todayCache, nil
}

func builtinSystem(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	cmd, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	out, err := r.executor.Exec(cmd)
	if err != nil {
		return nil, ioError("IO-0001", map[string]any{"Command": cmd}, err)
	}
	return &String{Value: strings.TrimSpace(out)}, nil
}

func builtinSystemWithIO(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	cmd, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	stdin, err := stringArg(name, args, 2)
	if err != nil {
		return nil, err
	}
	out, err := r.executor.ExecWithIO(cmd, stdin)
	if err != nil {
		return nil, ioError("IO-0001", map[string]any{"Command": cmd}, err)
	}
	return &String{Value: strings.TrimSpace(out)}, nil
}

func builtinReadFile(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	path, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	content, err := r.executor.ReadFile(path)
	if err != nil {
		return nil, ioError("IO-0002", map[string]any{"Path": path}, err)
	}
	return &String{Value: content}, nil
}

func builtinWriteFile(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 2); err != nil {
		return nil, err
	}
	path, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	content, err := stringArg(name, args, 2)
	if err != nil {
		return nil, err
	}
	ok, err := r.executor.WriteFile(path, content)
	if err != nil {
		return nil, ioError("IO-0003", map[string]any{"Path": path}, err)
	}
	return nativeBoolToBool(ok), nil
}

func builtinListFiles(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	dir, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	names, err := r.executor.ListFiles(dir)
	if err != nil {
		return nil, ioError("IO-0004", map[string]any{"Path": dir}, err)
	}
	return FromNative(names), nil
}

// builtinEnvVar returns nil for an unset variable. Without an executor the
// environment is unreadable, which is an error rather than "unset".
func builtinEnvVar(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	key, err := stringArg(name, args, 1)
	if err != nil {
		return nil, err
	}
	if _, locked := r.executor.(noExecutor); locked {
		return nil, ioError("IO-0006", map[string]any{"Name": key}, errNoExecutor)
	}
	v, ok := r.executor.EnvVar(key)
	if !ok {
		return NIL, nil
	}
	return &String{Value: v}, nil
}

// builtinSystemInfo is computed once per Runtime.
func builtinSystemInfo(r *Runtime, name string, args []Value) (Value, error) {
	if err := checkArity(name, args, 0); err != nil {
		return nil, err
	}
	if r.systemInfoCache == nil {
		info, err := r.executor.SystemInfo()
		if err != nil {
			return nil, ioError("IO-0005", map[string]any{}, err)
		}
		r.systemInfoCache = FromNative(info).(*Map)
	}
	return r.systemInfoCache, nil
}
