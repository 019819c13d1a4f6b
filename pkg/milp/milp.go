// Package milp formulates mixed-integer linear programs over binary columns
// and hands them to an external solver through the Solver interface.
package milp

import (
	"fmt"
	"strconv"
	"strings"
)

// Sense is the optimization direction of an objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// RelOp relates a row expression to its right-hand side.
type RelOp int

const (
	LE RelOp = iota
	GE
	EQ
)

func (op RelOp) String() string {
	switch op {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

// Term is one linear coefficient on a binary column.
type Term struct {
	Col  int
	Coef float64
}

// Expr is a linear expression over binary columns. The zero Expr is the
// empty sum.
type Expr struct {
	Terms []Term
}

// Value evaluates the expression against per-column values.
func (e Expr) Value(values []float64) float64 {
	total := 0.0
	for _, term := range e.Terms {
		total += term.Coef * values[term.Col]
	}
	return total
}

// Row is one linear constraint relating an expression to a constant. Name is
// diagnostic only; the LP rendering uses positional labels so that domain
// names never have to be legal LP identifiers.
type Row struct {
	Name string
	Expr Expr
	Op   RelOp
	RHS  float64
}

// Problem is one solver-ready formulation: Cols binary columns, the
// accumulated constraint rows, and a single objective.
type Problem struct {
	Name      string
	Cols      int
	Rows      []Row
	Objective Expr
	Sense     Sense
}

// WriteLP renders the problem in CPLEX LP text format. Columns are named
// x_0 .. x_{Cols-1} and rows are labeled c_0 .. c_{len(Rows)-1}.
func (p Problem) WriteLP() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\\ %v\n", p.Name)
	if p.Sense == Maximize {
		builder.WriteString("Maximize\n")
	} else {
		builder.WriteString("Minimize\n")
	}
	builder.WriteString(" obj:")
	if len(p.Objective.Terms) == 0 && p.Cols > 0 {
		// The LP format requires at least one objective term.
		builder.WriteString(" 0 x_0")
	} else {
		writeExpr(&builder, p.Objective)
	}

	builder.WriteString("\nSubject To\n")
	for i, row := range p.Rows {
		fmt.Fprintf(&builder, " c_%d:", i)
		if len(row.Expr.Terms) == 0 && p.Cols > 0 {
			// An empty sum still needs a left-hand side.
			builder.WriteString(" 0 x_0")
		} else {
			writeExpr(&builder, row.Expr)
		}
		fmt.Fprintf(&builder, " %v %v\n", row.Op, formatCoef(row.RHS))
	}

	builder.WriteString("Binaries\n")
	for col := 0; col < p.Cols; col++ {
		fmt.Fprintf(&builder, " x_%d\n", col)
	}
	builder.WriteString("End\n")

	return builder.String()
}

func writeExpr(builder *strings.Builder, expr Expr) {
	for i, term := range expr.Terms {
		switch {
		case term.Coef < 0:
			fmt.Fprintf(builder, " - %v x_%d", formatCoef(-term.Coef), term.Col)
		case i == 0:
			fmt.Fprintf(builder, " %v x_%d", formatCoef(term.Coef), term.Col)
		default:
			fmt.Fprintf(builder, " + %v x_%d", formatCoef(term.Coef), term.Col)
		}
	}
}

func formatCoef(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
