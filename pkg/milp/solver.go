package milp

// Status classifies a solve outcome. Anything but StatusOptimal means the
// problem produced no usable assignment.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusOther
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "other"
	}
}

// Solution carries one solve outcome. Values holds one entry per column and
// is fully populated whenever Status is StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Solver runs one blocking solve of a problem. Implementations shell out to
// an external MIP solver binary; a returned error means the invocation itself
// failed, while unsolvable problems travel in Solution.Status.
type Solver interface {
	Solve(problem Problem) (Solution, error)
}
