package tvd

import "gonum.org/v1/gonum/floats"

// lineSearch is the outcome of one backtracking search. The candidate for
// the last trial is left in the workspace whether or not it was accepted.
type lineSearch struct {
	step     float64
	accepted bool // sufficient decrease held for a strictly feasible candidate
	feasible bool // the last candidate is strictly inside (-λ, λ)
}

// backtrack shrinks step by lsBeta until the candidate is strictly feasible
// and the combined residual norm has fallen to (1 - α·step)·resNorm, with
// α = s.decrease, giving up after lsMaxIter trials.
func (s *Solver) backtrack(st *DualState, lambda, invT, step, resNorm float64) lineSearch {
	ws := &s.ws
	var ls lineSearch
	for trial := 0; trial < lsMaxIter; trial++ {
		floats.AddScaledTo(ws.newZ, st.z, step, ws.dz)
		floats.AddScaledTo(ws.newMu1, st.mu1, step, ws.dmu1)
		floats.AddScaledTo(ws.newMu2, st.mu2, step, ws.dmu2)
		for i, z := range ws.newZ {
			ws.newF1[i] = z - lambda
			ws.newF2[i] = -z - lambda
		}

		ls.step = step
		ls.feasible = floats.Max(ws.newF1) < 0 && floats.Max(ws.newF2) < 0
		if ls.feasible {
			// D·Dᵀ·z - Dy + μ1 - μ2
			s.ddt.MulVec(ws.resDual, ws.newZ)
			for i := range ws.resDual {
				ws.resDual[i] += -s.dy[i] + ws.newMu1[i] - ws.newMu2[i]
			}
			norm := s.residualNorm(ws.resDual, ws.newMu1, ws.newF1, ws.newMu2, ws.newF2, invT)
			if norm <= (1-s.decrease*step)*resNorm {
				ls.accepted = true
				return ls
			}
		}
		step *= lsBeta
	}
	return ls
}

// commit makes the workspace candidate the current iterate.
func (s *Solver) commit(st *DualState) {
	ws := &s.ws
	copy(st.z, ws.newZ)
	copy(st.mu1, ws.newMu1)
	copy(st.mu2, ws.newMu2)
	copy(ws.f1, ws.newF1)
	copy(ws.f2, ws.newF2)
}
