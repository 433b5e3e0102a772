package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInputRejected is wrapped by every InputRejectedError.
	ErrInputRejected = errors.New("input rejected")

	// ErrTooManyTies is returned by DiceArbiter.Decide when the retry cap is hit.
	ErrTooManyTies = errors.New("dice still tied after retry cap")

	// ErrMatchFinished is returned when recording a round on a finished match.
	ErrMatchFinished = errors.New("match already finished")
)

// InputRejectedError reports an input that is well formed but illegal in the
// current phase. It is never fatal: the state is left as it was.
type InputRejectedError struct {
	Input  string
	Phase  Phase
	Reason string
}

func (e *InputRejectedError) Error() string {
	return fmt.Sprintf("%s rejected in %s: %s", e.Input, e.Phase, e.Reason)
}

func (e *InputRejectedError) Unwrap() error { return ErrInputRejected }

func reject(input string, phase Phase, format string, args ...any) error {
	return &InputRejectedError{Input: input, Phase: phase, Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError is the panic value for programming errors such as scoring
// answers whose verdict is still Unknown.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition violated: " + e.Reason
}

func precondition(format string, args ...any) {
	panic(&PreconditionError{Reason: fmt.Sprintf(format, args...)})
}
