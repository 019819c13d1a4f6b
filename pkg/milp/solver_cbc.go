package milp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const cbcPath = "cbc"

type cbcSolver struct{}

// NewCBCSolver returns the COIN-OR branch-and-cut backend. The cbc binary
// must be reachable on PATH.
func NewCBCSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(problem Problem) (Solution, error) {
	dir, err := os.MkdirTemp("", "satisfaculty-cbc-")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	lpFile := filepath.Join(dir, "problem.lp")
	solutionFile := filepath.Join(dir, "problem.sol")
	if err := os.WriteFile(lpFile, []byte(problem.WriteLP()), 0o644); err != nil {
		return Solution{}, fmt.Errorf("failed to write lp file: %v", err)
	}

	// printingOptions all makes cbc dump every column, including zeros.
	cmd := exec.Command(cbcPath, lpFile, "solve", "printingOptions", "all", "solution", solutionFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	output, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("failed to read cbc solution file: %v", err)
	}
	return ParseCBCSolution(string(output), problem.Cols)
}

// ParseCBCSolution reads a cbc solution file. The first line carries the
// status and, when solved, "objective value <v>"; the remaining lines are
// "<index> <name> <value> <reduced cost>" records.
func ParseCBCSolution(output string, cols int) (Solution, error) {
	lines := strings.Split(output, "\n")
	header := strings.TrimSpace(lines[0])
	if header == "" {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}

	solution := Solution{Status: cbcStatus(header), Values: make([]float64, cols)}

	if at := strings.Index(header, "objective value"); at >= 0 {
		fields := strings.Fields(header[at:])
		if len(fields) >= 3 {
			objective, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid objective value in cbc output: %v", err)
			}
			solution.Objective = objective
		}
	}
	if solution.Status != StatusOptimal {
		return solution, nil
	}

	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		col, ok := columnIndex(fields[1])
		if !ok || col >= cols {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value for %v in cbc output: %v", fields[1], err)
		}
		solution.Values[col] = value
	}
	return solution, nil
}

func cbcStatus(header string) Status {
	switch {
	case strings.HasPrefix(header, "Optimal"):
		return StatusOptimal
	case strings.HasPrefix(header, "Infeasible"), strings.HasPrefix(header, "Integer infeasible"):
		return StatusInfeasible
	case strings.HasPrefix(header, "Unbounded"):
		return StatusUnbounded
	default:
		return StatusOther
	}
}

// columnIndex recovers the column number from an x_<n> variable name.
func columnIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "x_") {
		return 0, false
	}
	col, err := strconv.Atoi(name[2:])
	if err != nil || col < 0 {
		return 0, false
	}
	return col, true
}
