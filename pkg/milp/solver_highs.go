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

const highsPath = "highs"

type highsSolver struct{}

// NewHiGHSSolver returns the HiGHS backend. The highs binary must be
// reachable on PATH.
func NewHiGHSSolver() Solver {
	return &highsSolver{}
}

func (solver *highsSolver) Solve(problem Problem) (Solution, error) {
	dir, err := os.MkdirTemp("", "satisfaculty-highs-")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	lpFile := filepath.Join(dir, "problem.lp")
	solutionFile := filepath.Join(dir, "problem.sol")
	if err := os.WriteFile(lpFile, []byte(problem.WriteLP()), 0o644); err != nil {
		return Solution{}, fmt.Errorf("failed to write lp file: %v", err)
	}

	// highs exits non-zero only on invocation errors; the model outcome is
	// reported inside the solution file.
	cmd := exec.Command(highsPath, "--solution_file", solutionFile, lpFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during highs execution: %v : %v", err.Error(), stderr.String())
	}

	output, err := os.ReadFile(solutionFile)
	if err != nil {
		return Solution{}, fmt.Errorf("failed to read highs solution file: %v", err)
	}
	return ParseHiGHSSolution(string(output), problem.Cols)
}

// ParseHiGHSSolution reads a HiGHS --solution_file dump: a "Model status"
// header, an "Objective <v>" line, and a "# Columns <n>" section of
// name/value pairs.
func ParseHiGHSSolution(output string, cols int) (Solution, error) {
	solution := Solution{Status: StatusOther, Values: make([]float64, cols)}

	lines := strings.Split(output, "\n")
	inColumns := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "Model status":
			if i+1 < len(lines) {
				solution.Status = highsStatus(strings.TrimSpace(lines[i+1]))
				i++
			}
		case strings.HasPrefix(line, "Objective "):
			objective, err := strconv.ParseFloat(strings.TrimSpace(line[len("Objective "):]), 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid objective value in highs output: %v", err)
			}
			solution.Objective = objective
		case strings.HasPrefix(line, "# Columns"):
			inColumns = true
		case strings.HasPrefix(line, "#"):
			inColumns = false
		case inColumns && line != "":
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			col, ok := columnIndex(fields[0])
			if !ok || col >= cols {
				continue
			}
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return Solution{}, fmt.Errorf("invalid value for %v in highs output: %v", fields[0], err)
			}
			solution.Values[col] = value
		}
	}
	return solution, nil
}

func highsStatus(status string) Status {
	switch status {
	case "Optimal":
		return StatusOptimal
	case "Infeasible":
		return StatusInfeasible
	case "Unbounded":
		return StatusUnbounded
	default:
		return StatusOther
	}
}
