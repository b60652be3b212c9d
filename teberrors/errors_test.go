package teberrors

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrNotInitialized,
		ErrInvalidInput,
		ErrDisabledByConfig,
		ErrGraphNotEmpty,
		ErrSolverFailed,
		ErrNoTrajectory,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			test.That(t, errors.Is(a, b), test.ShouldBeFalse)
		}
	}
}
