package batch

import (
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	"github.com/PolarWolf314/envcrypt/internal/transform"
)

type Status int

const (
	Processed Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Processed:
		return "processed"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the result of one stack in a run.
type Outcome struct {
	Candidate

	Status   Status
	Reason   string
	Warnings []transform.Warning
	Err      error
}

// LineError returns the failing line when the stack failed inside a transform.
func (o Outcome) LineError() (*transform.LineError, bool) {
	var le *transform.LineError
	if errors.As(o.Err, &le) {
		return le, true
	}
	return nil, false
}

// Summary aggregates a run. It is built after every worker has finished.
type Summary struct {
	Outcomes  []Outcome
	Processed int
	Skipped   int
	Failed    int
}

func summarize(outcomes []Outcome) *Summary {
	s := &Summary{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case Processed:
			s.Processed++
		case Skipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

// Err returns ErrBatchFailed when any stack failed.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", kerrors.ErrBatchFailed, s.Failed, len(s.Outcomes))
}

func (s *Summary) String() string {
	return fmt.Sprintf("processed %d, skipped %d, failed %d", s.Processed, s.Skipped, s.Failed)
}
