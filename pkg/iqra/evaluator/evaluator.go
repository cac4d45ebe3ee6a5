package evaluator

import (
	"os"
	"sort"
	"time"

	"github.com/oarkflow/log"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
)

// Function is a user-defined function. Functions see their own frame and
// the globals; they do not capture the caller's variables.
type Function struct {
	Name       string
	Parameters []string
	Body       *ast.BlockStatement
}

// frame holds the variables of one scope
type frame map[string]Value

// Runtime owns all interpreter state for one script session. It is not
// safe for concurrent use.
type Runtime struct {
	globals   frame
	frames    []frame // call frames; empty at top level
	functions map[string]*Function

	executor SystemExecutor
	logger   Logger
	diag     *log.Logger
	clock    func() time.Time
	maxDepth int

	// first call wins for the lifetime of the Runtime
	todayCache      *String
	systemInfoCache *Map
}

// Option configures a Runtime
type Option func(*Runtime)

// WithExecutor sets the host capability used by system builtins
func WithExecutor(e SystemExecutor) Option {
	return func(r *Runtime) {
		if e != nil {
			r.executor = e
		}
	}
}

// WithLogger sets the destination of print()
func WithLogger(l Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now for today()
func WithClock(clock func() time.Time) Option {
	return func(r *Runtime) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithMaxDepth bounds user function call depth. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		if n >= 0 {
			r.maxDepth = n
		}
	}
}

// WithDiagnostics sets the operational logger
func WithDiagnostics(l *log.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.diag = l
		}
	}
}

// New creates a Runtime with empty globals and no user functions.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		globals:   frame{},
		functions: make(map[string]*Function),
		executor:  noExecutor{},
		logger:    DefaultLogger,
		diag: &log.Logger{
			Level:  log.WarnLevel,
			Writer: &log.IOWriter{Writer: os.Stderr},
		},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StepFunc observes each top-level statement after it runs
type StepFunc func(stmt ast.Statement, result Value)

// Execute lexes, parses and runs src, returning the value of the last
// statement. Syntax errors abort before anything runs.
func (r *Runtime) Execute(src string) (Value, error) {
	program, err := parser.Parse(src)
	if err != nil {
		r.diag.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	return r.Run(program)
}

// Run evaluates a parsed program
func (r *Runtime) Run(program *ast.Program) (Value, error) {
	return r.RunStep(program, nil)
}

// RunStep evaluates a parsed program, calling step after every top-level
// statement. A top-level return ends the program with its value.
func (r *Runtime) RunStep(program *ast.Program, step StepFunc) (Value, error) {
	start := time.Now()
	var result Value = NIL

	for _, stmt := range program.Statements {
		out, err := r.execStatement(stmt)
		if err != nil {
			r.diag.Debug().Int("line", stmt.Line()).Err(err).Msg("script failed")
			return nil, err
		}
		result = out.value
		if step != nil {
			step(stmt, result)
		}
		if out.kind == returning {
			break
		}
	}

	r.diag.Debug().
		Int("statements", len(program.Statements)).
		Dur("elapsed", time.Since(start)).
		Msg("script finished")
	return result, nil
}

// Reset clears variables, functions and cached builtin results.
func (r *Runtime) Reset() {
	r.globals = frame{}
	r.frames = nil
	r.functions = make(map[string]*Function)
	r.todayCache = nil
	r.systemInfoCache = nil
}

// Variables returns a copy of the global variables
func (r *Runtime) Variables() map[string]Value {
	out := make(map[string]Value, len(r.globals))
	for k, v := range r.globals {
		out[k] = v
	}
	return out
}

// SetVariable binds a global variable, for embedders
func (r *Runtime) SetVariable(name string, v Value) {
	r.globals[name] = v
}

// Functions returns the user-defined functions sorted by name
func (r *Runtime) Functions() []*Function {
	out := make([]*Function, 0, len(r.functions))
	for _, fn := range r.functions {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Logger returns the print destination
func (r *Runtime) Logger() Logger {
	return r.logger
}

// ============================================================================
// Scopes
// ============================================================================

func (r *Runtime) current() frame {
	if len(r.frames) == 0 {
		return r.globals
	}
	return r.frames[len(r.frames)-1]
}

func (r *Runtime) lookup(name string) (Value, bool) {
	if v, ok := r.current()[name]; ok {
		return v, true
	}
	v, ok := r.globals[name]
	return v, ok
}

func (r *Runtime) assign(name string, v Value) {
	r.current()[name] = v
}

func (r *Runtime) visibleNames() []string {
	seen := make(map[string]bool)
	for k := range r.globals {
		seen[k] = true
	}
	for k := range r.current() {
		seen[k] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Runtime) callableNames() []string {
	names := builtinNames()
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============================================================================
// Statements
// ============================================================================

type outcomeKind int

const (
	completed outcomeKind = iota
	returning
)

// outcome is the result of a statement that did not fail. A returning
// outcome unwinds to the nearest function call, or ends the script.
type outcome struct {
	kind  outcomeKind
	value Value
}

func done(v Value) outcome {
	return outcome{kind: completed, value: v}
}

func (r *Runtime) execStatement(stmt ast.Statement) (outcome, error) {
	out, err := r.execNode(stmt)
	if err != nil {
		return outcome{}, withLine(err, stmt.Line())
	}
	return out, nil
}

func (r *Runtime) execNode(stmt ast.Statement) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		v, err := r.eval(s.Expression)
		if err != nil {
			return outcome{}, err
		}
		return done(v), nil

	case *ast.AssignmentStatement:
		v, err := r.eval(s.Value)
		if err != nil {
			return outcome{}, err
		}
		r.assign(s.Name.Value, v)
		return done(v), nil

	case *ast.IfStatement:
		cond, err := r.eval(s.Condition)
		if err != nil {
			return outcome{}, err
		}
		if IsTruthy(cond) {
			return r.execBlock(s.Consequence)
		}
		if s.Alternative != nil {
			return r.execStatement(s.Alternative)
		}
		return done(NIL), nil

	case *ast.WhileStatement:
		return r.execWhile(s)

	case *ast.BlockStatement:
		return r.execBlock(s)

	case *ast.FunctionStatement:
		r.functions[s.Name.Value] = &Function{
			Name:       s.Name.Value,
			Parameters: s.ParameterNames(),
			Body:       s.Body,
		}
		return done(NIL), nil

	case *ast.ReturnStatement:
		v, err := r.eval(s.ReturnValue)
		if err != nil {
			return outcome{}, err
		}
		return outcome{kind: returning, value: v}, nil

	case *ast.TryStatement:
		return r.execTry(s)
	}

	return outcome{}, ierrors.NewWithLine("PARSE-0002", stmt.Line(), map[string]any{"Token": stmt.TokenLiteral()})
}

func (r *Runtime) execBlock(block *ast.BlockStatement) (outcome, error) {
	var result Value = NIL
	for _, stmt := range block.Statements {
		out, err := r.execStatement(stmt)
		if err != nil {
			return outcome{}, err
		}
		if out.kind == returning {
			return out, nil
		}
		result = out.value
	}
	return done(result), nil
}

// execWhile yields the value of the last iteration, or nil if the body never ran.
func (r *Runtime) execWhile(s *ast.WhileStatement) (outcome, error) {
	var result Value = NIL
	for {
		cond, err := r.eval(s.Condition)
		if err != nil {
			return outcome{}, err
		}
		if !IsTruthy(cond) {
			return done(result), nil
		}
		out, err := r.execBlock(s.Body)
		if err != nil {
			return outcome{}, err
		}
		if out.kind == returning {
			return out, nil
		}
		result = out.value
	}
}

// execTry catches failures only; a return inside the try block keeps unwinding.
func (r *Runtime) execTry(s *ast.TryStatement) (outcome, error) {
	out, err := r.execBlock(s.Try)
	if err == nil {
		return out, nil
	}
	if s.ErrorVar != nil {
		r.assign(s.ErrorVar.Value, &String{Value: err.Error()})
	}
	return r.execBlock(s.Catch)
}

// ============================================================================
// Expressions
// ============================================================================

func (r *Runtime) eval(node ast.Expression) (Value, error) {
	switch node := node.(type) {
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &String{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return nativeBoolToBool(node.Value), nil

	case *ast.NilLiteral:
		return NIL, nil

	case *ast.Identifier:
		if v, ok := r.lookup(node.Value); ok {
			return v, nil
		}
		return nil, ierrors.NewUndefinedVariable(node.Value, node.Line(), r.visibleNames())

	case *ast.PrefixExpression:
		right, err := r.eval(node.Right)
		if err != nil {
			return nil, err
		}
		return evalPrefix(node.Operator, right)

	case *ast.InfixExpression:
		// both operands are always evaluated, including for and/or
		left, err := r.eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.eval(node.Right)
		if err != nil {
			return nil, err
		}
		v, err := evalInfix(node.Operator, left, right)
		if err != nil {
			return nil, withLine(err, node.Line())
		}
		return v, nil

	case *ast.ListLiteral:
		elems := make([]Value, 0, len(node.Elements))
		for _, el := range node.Elements {
			v, err := r.eval(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &List{Elements: elems}, nil

	case *ast.IndexExpression:
		left, err := r.eval(node.Left)
		if err != nil {
			return nil, err
		}
		index, err := r.eval(node.Index)
		if err != nil {
			return nil, err
		}
		v, err := evalIndex(left, index)
		if err != nil {
			return nil, withLine(err, node.Line())
		}
		return v, nil

	case *ast.CallExpression:
		args := make([]Value, 0, len(node.Arguments))
		for _, a := range node.Arguments {
			v, err := r.eval(a)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		v, err := r.call(node.Function, args, node.Line())
		if err != nil {
			return nil, withLine(err, node.Line())
		}
		return v, nil
	}

	return nil, ierrors.NewWithLine("PARSE-0002", node.Line(), map[string]any{"Token": node.TokenLiteral()})
}

// Call invokes a user function or builtin by name, as a script call would.
func (r *Runtime) Call(name string, args ...Value) (Value, error) {
	return r.call(name, args, 0)
}

func (r *Runtime) call(name string, args []Value, line int) (Value, error) {
	if fn, ok := r.functions[name]; ok {
		return r.callUser(fn, args)
	}
	if b, ok := lookupBuiltin(name); ok {
		return b.Fn(r, name, args)
	}
	return nil, ierrors.NewUndefinedFunction(name, line, r.callableNames())
}

// callUser runs fn in a fresh frame that is popped on every exit path.
func (r *Runtime) callUser(fn *Function, args []Value) (Value, error) {
	if len(args) != len(fn.Parameters) {
		return nil, arityError(fn.Name, len(fn.Parameters), len(args))
	}
	if r.maxDepth > 0 && len(r.frames) >= r.maxDepth {
		r.diag.Warn().Str("function", fn.Name).Int("limit", r.maxDepth).Msg("call depth limit reached")
		return nil, ierrors.New("STATE-0001", map[string]any{"Limit": r.maxDepth})
	}

	f := make(frame, len(args))
	for i, p := range fn.Parameters {
		f[p] = args[i]
	}
	r.frames = append(r.frames, f)
	defer func() {
		r.frames = r.frames[:len(r.frames)-1]
	}()

	out, err := r.execBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	return out.value, nil
}
