package milp

import "math"

const feasibilityEpsilon = 1e-9

type bruteForceSolver struct{}

// NewBruteForceSolver returns an exhaustive reference solver that enumerates
// every binary assignment and keeps the best feasible one. It exists for
// tests and tiny examples; cost grows as 2^Cols, so keep problems under
// roughly twenty columns.
func NewBruteForceSolver() Solver {
	return &bruteForceSolver{}
}

func (solver *bruteForceSolver) Solve(problem Problem) (Solution, error) {
	best := Solution{Status: StatusInfeasible}
	values := make([]float64, problem.Cols)

	for assignment := 0; assignment < 1<<problem.Cols; assignment++ {
		for col := 0; col < problem.Cols; col++ {
			values[col] = float64((assignment >> col) & 1)
		}
		if !AssertFeasible(problem.Rows, values) {
			continue
		}
		objective := problem.Objective.Value(values)
		if best.Status != StatusOptimal || improves(problem.Sense, objective, best.Objective) {
			best = Solution{
				Status:    StatusOptimal,
				Objective: objective,
				Values:    append([]float64(nil), values...),
			}
		}
	}
	return best, nil
}

// AssertFeasible reports whether the values satisfy every row within a small
// numeric epsilon.
func AssertFeasible(rows []Row, values []float64) bool {
	for _, row := range rows {
		lhs := row.Expr.Value(values)
		switch row.Op {
		case LE:
			if lhs > row.RHS+feasibilityEpsilon {
				return false
			}
		case GE:
			if lhs < row.RHS-feasibilityEpsilon {
				return false
			}
		case EQ:
			if math.Abs(lhs-row.RHS) > feasibilityEpsilon {
				return false
			}
		}
	}
	return true
}

func improves(sense Sense, candidate, incumbent float64) bool {
	if sense == Maximize {
		return candidate > incumbent+feasibilityEpsilon
	}
	return candidate < incumbent-feasibilityEpsilon
}
