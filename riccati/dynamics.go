package riccati

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/slq/ode"
)

// rhs builds the ode.Func implementing the right-hand side of spec.md
// §4.4's bracketed Riccati expressions (the "-Ṡ = ..." forms), scaled by
// segDt so the caller can integrate forward over normalized tau in [0,1]
// while segDt encodes the real (reversed) time span of the segment.
//
// hasSve controls whether the Sve/error-correction term is driven by its
// source term Sm*B*D†*e (false zeroes the source, matching an unconstrained
// node where D† is undefined).
func rhs(fs flatState, c coefficients, segDt float64, hasSve bool) ode.Func {
	return func(t float64, x, dx []float64) {
		sm, sv, _, sve := fs.unpack(x)

		// pmcPlusBcTSm = Pmc + Bc'Sm   (m x n)
		bcTSm := matMul(matT(c.bc), sm)
		pmcPlusBcTSm := matAdd(c.pmc, bcTSm)

		// dSm = Qmc + Ac'Sm + Sm*Ac - (Pmc+Bc'Sm)' Rm^-1 (Pmc+Bc'Sm)
		acTSm := matMul(matT(c.ac), sm)
		smAc := matMul(sm, c.ac)
		feedback := matMul(matMul(matT(pmcPlusBcTSm), c.rmInv), pmcPlusBcTSm)
		dSm := matSub(matAdd(c.qmc, matAdd(acTSm, smAc)), feedback)

		// rvcPlusBcTSv = Rvc + Bc'Sv  (m x 1)
		bcTSv := matMul(matT(c.bc), sv)
		rvcPlusBcTSv := matAdd(c.rvc, bcTSv)

		// dSv = Qvc + Ac'Sv - (Pmc+Bc'Sm)' Rm^-1 (Rvc+Bc'Sv)
		acTSv := matMul(matT(c.ac), sv)
		dSv := matSub(matAdd(c.qvc, acTSv), matMul(matMul(matT(pmcPlusBcTSm), c.rmInv), rvcPlusBcTSv))

		// ds = q - 0.5*(Rvc+Bc'Sv)' Rm^-1 (Rvc+Bc'Sv)
		quad := matMul(matMul(matT(rvcPlusBcTSv), c.rmInv), rvcPlusBcTSv)
		ds := c.q - 0.5*quad.At(0, 0)

		// dSve = (Ac - Bc Rm^-1 (Pmc+Bc'Sm))' Sve + Sm*B*D†*e
		inner := matSub(c.ac, matMul(matMul(c.bc, c.rmInv), pmcPlusBcTSm))
		dSve := matMul(matT(inner), sve)
		if hasSve && c.b != nil && c.dPinv != nil && c.e != nil {
			source := matMul(sm, matMul(c.b, matMul(c.dPinv, c.e)))
			dSve = matAdd(dSve, source)
		}

		fs.packInto(dx, scaleMat(dSm, segDt), scaleMat(dSv, segDt), segDt*ds, scaleMat(dSve, segDt))
	}
}

func matMul(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)

	return &out
}

func matAdd(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Add(a, b)

	return &out
}

func matSub(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Sub(a, b)

	return &out
}

func matT(a *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(a.T())

	return &out
}

func scaleMat(a *mat.Dense, s float64) *mat.Dense {
	var out mat.Dense
	out.Scale(s, a)

	return &out
}

func matZero(r, c int) *mat.Dense {
	return mat.NewDense(r, c, nil)
}
