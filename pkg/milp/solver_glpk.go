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

const glpsolPath = "glpsol"

type glpkSolver struct{}

// NewGLPKSolver returns the GNU GLPK backend. The glpsol binary must be
// reachable on PATH.
func NewGLPKSolver() Solver {
	return &glpkSolver{}
}

func (solver *glpkSolver) Solve(problem Problem) (Solution, error) {
	dir, err := os.MkdirTemp("", "satisfaculty-glpk-")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	lpFile := filepath.Join(dir, "problem.lp")
	solutionFile := filepath.Join(dir, "problem.sol")
	if err := os.WriteFile(lpFile, []byte(problem.WriteLP()), 0o644); err != nil {
		return Solution{}, fmt.Errorf("failed to write lp file: %v", err)
	}

	cmd := exec.Command(glpsolPath, "--lp", lpFile, "--write", solutionFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during glpsol execution: %v : %v", err.Error(), stderr.String())
	}

	output, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("failed to read glpsol solution file: %v", err)
	}
	return ParseGLPKSolution(string(output), problem.Cols)
}

// ParseGLPKSolution reads a glpsol --write dump for a MIP: an
// "s mip <rows> <cols> <status> <objective>" line followed by
// "j <column> <value>" records with 1-based column numbers.
func ParseGLPKSolution(output string, cols int) (Solution, error) {
	solution := Solution{Status: StatusOther, Values: make([]float64, cols)}

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "s":
			if len(fields) < 6 || fields[1] != "mip" {
				return Solution{}, fmt.Errorf("unexpected solution line in glpsol output: %q", line)
			}
			switch fields[4] {
			case "o":
				solution.Status = StatusOptimal
			case "n":
				solution.Status = StatusInfeasible
			default:
				solution.Status = StatusOther
			}
			objective, err := strconv.ParseFloat(fields[5], 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid objective value in glpsol output: %v", err)
			}
			solution.Objective = objective
		case "j":
			if len(fields) < 3 {
				continue
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil || col < 1 || col > cols {
				continue
			}
			value, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid value in glpsol output: %q", line)
			}
			solution.Values[col-1] = value
		}
	}
	return solution, nil
}
