package tvd

import (
	"math"

	"github.com/cwbudde/algo-tvd/dsp/banded"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// workspace holds the per-iteration buffers. Sizes are N for dtz and M = N-1
// for everything else.
type workspace struct {
	dtz  []float64 // Dᵀz
	ddtz []float64 // D·Dᵀ·z
	w    []float64 // Dy - (μ1 - μ2)
	tmp  []float64
	prod []float64

	f1, f2  []float64
	dz      []float64
	dmu1    []float64
	dmu2    []float64
	rhs     []float64
	shift   []float64
	resDual []float64
	newZ    []float64
	newMu1  []float64
	newMu2  []float64
	newF1   []float64
	newF2   []float64

	sys   *banded.Tridiag
	sysLU banded.LU
}

func (ws *workspace) init(n, m int) {
	ws.dtz = make([]float64, n)
	bufs := []*[]float64{
		&ws.ddtz, &ws.w, &ws.tmp, &ws.prod,
		&ws.f1, &ws.f2, &ws.dz, &ws.dmu1, &ws.dmu2,
		&ws.rhs, &ws.shift, &ws.newZ, &ws.newMu1, &ws.newMu2,
		&ws.newF1, &ws.newF2, &ws.resDual,
	}
	for _, b := range bufs {
		*b = make([]float64, m)
	}
	ws.sys = banded.NewTridiag(m)
}

// objectives evaluates the primal and dual objectives at the current dual
// state and returns (pobj, dobj). It leaves Dᵀz in ws.dtz and D·Dᵀ·z in
// ws.ddtz for the Newton step.
func (s *Solver) objectives(st *DualState, lambda float64) (pobj, dobj float64, err error) {
	ws := &s.ws
	banded.DiffT(ws.dtz, st.z)
	banded.Diff(ws.ddtz, ws.dtz)

	// w = Dy - (μ1 - μ2)
	for i := range ws.w {
		ws.w[i] = s.dy[i] - (st.mu1[i] - st.mu2[i])
	}
	if err := s.ddtLU.Solve(ws.tmp, ws.w); err != nil {
		return 0, 0, err
	}

	dtzSq := floats.Dot(ws.dtz, ws.dtz)
	pobj1 := 0.5*floats.Dot(ws.w, ws.tmp) + lambda*(floats.Sum(st.mu1)+floats.Sum(st.mu2))

	var l1 float64
	for i, v := range ws.ddtz {
		l1 += math.Abs(s.dy[i] - v)
	}
	pobj2 := 0.5*dtzSq + lambda*l1

	pobj = math.Min(pobj1, pobj2)
	dobj = -0.5*dtzSq + floats.Dot(s.dy, st.z)
	return pobj, dobj, nil
}

// direction solves the Newton system for (dz, dμ1, dμ2) at centering 1/t.
// It expects ws.ddtz from objectives.
func (s *Solver) direction(st *DualState, invT float64) error {
	ws := &s.ws
	for i := range ws.shift {
		// -(μ1/f1 + μ2/f2) > 0 since f1, f2 < 0.
		ws.shift[i] = -(st.mu1[i]/ws.f1[i] + st.mu2[i]/ws.f2[i])
		ws.rhs[i] = -ws.ddtz[i] + s.dy[i] + invT/ws.f1[i] - invT/ws.f2[i]
	}
	if err := ws.sys.AddDiagonal(s.ddt, ws.shift); err != nil {
		return err
	}
	if err := ws.sysLU.Refactor(ws.sys); err != nil {
		return err
	}
	if err := ws.sysLU.Solve(ws.dz, ws.rhs); err != nil {
		return err
	}

	vecmath.MulBlock(ws.prod, ws.dz, st.mu1)
	for i := range ws.dmu1 {
		ws.dmu1[i] = -(st.mu1[i] + (invT+ws.prod[i])/ws.f1[i])
	}
	vecmath.MulBlock(ws.prod, ws.dz, st.mu2)
	for i := range ws.dmu2 {
		ws.dmu2[i] = -(st.mu2[i] + (invT-ws.prod[i])/ws.f2[i])
	}
	return nil
}

// maxStep returns the largest step in (0, 1] that keeps μ1 and μ2 positive,
// backed off by stepFraction.
func (s *Solver) maxStep(st *DualState) float64 {
	ws := &s.ws
	step := 1.0
	for i, d := range ws.dmu1 {
		if d < 0 {
			step = math.Min(step, stepFraction*(-st.mu1[i]/d))
		}
	}
	for i, d := range ws.dmu2 {
		if d < 0 {
			step = math.Min(step, stepFraction*(-st.mu2[i]/d))
		}
	}
	return step
}

// residualNorm returns ‖[resDual, -μ1·f1 - 1/t, -μ2·f2 - 1/t]‖₂.
func (s *Solver) residualNorm(resDual, mu1, f1, mu2, f2 []float64, invT float64) float64 {
	prod := s.ws.prod
	cent := func(mu, f []float64) float64 {
		vecmath.MulBlock(prod, mu, f)
		for i, v := range prod {
			prod[i] = -v - invT
		}
		return floats.Norm(prod, 2)
	}
	n1 := cent(mu1, f1)
	n2 := cent(mu2, f2)
	return math.Hypot(math.Hypot(floats.Norm(resDual, 2), n1), n2)
}

// feasibleStart sets f1, f2 for lambda, clipping z into (-λ, λ) when a
// hot-restarted state from a larger λ sits outside the new box.
func (s *Solver) feasibleStart(st *DualState, lambda float64) (clipped int) {
	ws := &s.ws
	bound := clipFraction * lambda
	for i, z := range st.z {
		if z >= lambda || z <= -lambda {
			st.z[i] = math.Copysign(bound, z)
			clipped++
		}
		ws.f1[i] = st.z[i] - lambda
		ws.f2[i] = -st.z[i] - lambda
	}
	return clipped
}
