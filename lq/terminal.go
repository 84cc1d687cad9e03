package lq

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/model"
)

// TerminalNode evaluates the terminal/event cost expansion at a boundary
// time and folds in any active terminal (state-only, "type-2") equality
// constraint as a quadratic penalty of the configured weight (spec.md §4.3,
// "Terminal/event contributions").
func TerminalNode(term model.TerminalCost, cons model.TerminalConstraint, t float64, x []float64, penaltyWeight float64) model.EventTerminal {
	qf, qvf, qmf := term.Expansion(t, x)

	out := model.EventTerminal{QF: qf, QvF: qvf, QmF: qmf}
	if cons == nil {
		return out
	}

	f, h, q := cons.Evaluate(t, x)
	if q == 0 {
		return out
	}

	out.F, out.H, out.PenaltyWeight = f, h, penaltyWeight
	fT := transposeOf(f)

	// penalty(x) = weight*(Fx+h)'(Fx+h)
	//            = weight*x'F'Fx + 2*weight*h'Fx + weight*h'h
	out.QmF = add(out.QmF, scale(mul(fT, f), 2*penaltyWeight))
	out.QvF = add(out.QvF, scale(mul(fT, h), 2*penaltyWeight))
	out.QF += penaltyWeight * dot(h, h)

	return out
}

func scale(m *mat.Dense, s float64) *mat.Dense {
	var out mat.Dense
	out.Scale(s, m)

	return &out
}

func dot(a, b *mat.Dense) float64 {
	r, _ := a.Dims()
	sum := 0.0
	for i := 0; i < r; i++ {
		sum += a.At(i, 0) * b.At(i, 0)
	}

	return sum
}
