// Package iqra provides a public API for embedding the Iqra interpreter.
package iqra

import (
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/parser"
	"github.com/iqra-lang/iqra/pkg/iqra/system"
)

// Version is the interpreter version reported by the CLI
const Version = "0.3.0"

// Value is an alias for evaluator.Value for convenience
type Value = evaluator.Value

// Option is an alias for evaluator.Option for convenience
type Option = evaluator.Option

// Runtime options, re-exported so embedders need only this package.
var (
	WithExecutor    = evaluator.WithExecutor
	WithLogger      = evaluator.WithLogger
	WithClock       = evaluator.WithClock
	WithMaxDepth    = evaluator.WithMaxDepth
	WithDiagnostics = evaluator.WithDiagnostics
)

// New creates a Runtime backed by the operating system. A WithExecutor
// option replaces the default executor.
func New(opts ...Option) *evaluator.Runtime {
	return NewWithSystem(nil, opts...)
}

// NewWithSystem is New with options for the default executor. Its
// diagnostics go to stderr at warn level unless sysOpts set a logger.
func NewWithSystem(sysOpts []system.Option, opts ...Option) *evaluator.Runtime {
	sysOpts = append([]system.Option{system.WithLogger(DiagnosticsLogger("warn", nil))}, sysOpts...)
	all := append([]Option{WithExecutor(system.NewExecutor(sysOpts...))}, opts...)
	return evaluator.New(all...)
}

// Execute runs src once in a fresh Runtime and returns its final value
func Execute(src string, opts ...Option) (Value, error) {
	return New(opts...).Execute(src)
}

// Check parses src without running it. The error, if any, is an
// *errors.IqraError.
func Check(src string) error {
	_, err := parser.Parse(src)
	return err
}
