package extractor

import (
	"errors"
	"fmt"
)

// ErrStage is returned when an operation runs before its inputs exist
var ErrStage = errors.New("extractor stage out of order")

// InvariantError reports an internal inconsistency between pipeline stages
type InvariantError struct {
	Stage string // Operation that found the problem
	Kind  string // "face", "edge" or "cell"
	ID    uint32
	Slot  int
	Msg   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s %d slot %d: %s", e.Stage, e.Kind, e.ID, e.Slot, e.Msg)
}

func stageError(op string, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", op, ErrStage, fmt.Sprintf(format, args...))
}
