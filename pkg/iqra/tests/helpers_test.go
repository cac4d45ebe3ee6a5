package tests

import (
	"testing"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
)

func evalHelper(input string) (evaluator.Value, error) {
	return iqra.Execute(input, iqra.WithLogger(iqra.NullLogger()))
}

func mustEval(t *testing.T, input string) evaluator.Value {
	t.Helper()
	v, err := evalHelper(input)
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", input, err)
	}
	return v
}

func mustFail(t *testing.T, input, kind string) *ierrors.IqraError {
	t.Helper()
	_, err := evalHelper(input)
	ie, ok := ierrors.As(err)
	if !ok {
		t.Fatalf("%q: expected IqraError, got %v", input, err)
	}
	if ie.Kind != kind {
		t.Errorf("%q: kind = %q, want %q", input, ie.Kind, kind)
	}
	return ie
}
