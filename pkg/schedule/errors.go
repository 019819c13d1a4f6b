package schedule

import (
	"errors"
	"fmt"

	"github.com/zsunberg/satisfaculty/pkg/milp"
)

// Error categories. Callers match them with errors.Is.
var (
	// ErrSetup reports that required record sets were missing or inconsistent
	// when the model was built.
	ErrSetup = errors.New("setup failed")

	// ErrValidation reports malformed constraint or objective arguments.
	ErrValidation = errors.New("validation failed")

	// ErrFormat reports clock-time text that cannot be mapped to minutes.
	ErrFormat = errors.New("bad time format")
)

// SolveError reports a solver round that ended with a non-optimal status. The
// whole session yields no schedule; results of earlier rounds are discarded.
type SolveError struct {
	Round     int
	Objective string
	Status    milp.Status
}

func (e *SolveError) Error() string {
	if e.Objective == "" {
		return fmt.Sprintf("solve failed with status %v", e.Status)
	}
	return fmt.Sprintf("solve failed at round %d (%v) with status %v", e.Round+1, e.Objective, e.Status)
}
