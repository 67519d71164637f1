package nlsolve

import "math"

const macheps = float64(7)/3 - float64(4)/3 - 1

// Newton is a damped Newton iteration. The Jacobian is approximated by
// forward differences and each step is halved until the residual norm
// decreases or the damping floor is hit.
type Newton struct {
	Tol      float64
	MaxIter  int
	MaxHalve int
}

func NewNewton() *Newton {
	return &Newton{
		Tol:      1e-10,
		MaxIter:  100,
		MaxHalve: 20,
	}
}

func (n *Newton) Name() string { return "newton" }

func (n *Newton) Solve(sys *System) Result {
	dim := sys.Size()
	if dim == 0 {
		return Result{Root: []float64{}, Converged: true, Status: Converged}
	}

	x := make([]float64, dim)
	copy(x, sys.X0)

	r := make([]float64, dim)
	rTrial := make([]float64, dim)
	xTrial := make([]float64, dim)
	jac := make([]float64, dim*dim)
	step := make([]float64, dim)
	perm := make([]int, dim)

	sys.Eval(r, x)
	rNorm := maxAbs(r)

	for iter := 1; iter <= n.MaxIter; iter++ {
		if rNorm <= n.Tol {
			return Result{Root: x, Converged: true, Status: Converged, Iterations: iter - 1, ResidNorm: rNorm}
		}

		n.jacobian(sys, x, r, rTrial, jac)
		for i := range step {
			step[i] = -r[i]
		}
		if !luSolve(jac, step, perm, dim) {
			return Result{Root: x, Status: SingularJacobian, Iterations: iter, ResidNorm: rNorm}
		}

		// Halve the step until it actually improves the residual.
		lambda := 1.0
		improved := false
		for h := 0; h <= n.MaxHalve; h++ {
			for i := range x {
				xTrial[i] = x[i] + lambda*step[i]
			}
			sys.Eval(rTrial, xTrial)
			if trial := maxAbs(rTrial); trial < rNorm || trial <= n.Tol {
				copy(x, xTrial)
				copy(r, rTrial)
				rNorm = trial
				improved = true
				break
			}
			lambda *= 0.5
		}
		if !improved {
			return Result{Root: x, Status: Stalled, Iterations: iter, ResidNorm: rNorm}
		}
	}

	if rNorm <= n.Tol {
		return Result{Root: x, Converged: true, Status: Converged, Iterations: n.MaxIter, ResidNorm: rNorm}
	}
	return Result{Root: x, Status: MaxIterations, Iterations: n.MaxIter, ResidNorm: rNorm}
}

// jacobian fills jac (row-major) with forward differences around x,
// reusing r as F(x) and scratch as the perturbed residual.
func (n *Newton) jacobian(sys *System, x, r, scratch []float64, jac []float64) {
	dim := len(x)
	sqrtEps := math.Sqrt(macheps)
	for j := 0; j < dim; j++ {
		h := sqrtEps * (math.Abs(x[j]) + sqrtEps)
		saved := x[j]
		x[j] = saved + h
		sys.Eval(scratch, x)
		x[j] = saved
		for i := 0; i < dim; i++ {
			jac[i*dim+j] = (scratch[i] - r[i]) / h
		}
	}
}

// luSolve factors a in place with partial pivoting and overwrites b with
// the solution. Returns false if a pivot underflows to zero.
func luSolve(a, b []float64, perm []int, dim int) bool {
	for i := range perm {
		perm[i] = i
	}

	for col := 0; col < dim; col++ {
		pivot := col
		pivotMag := math.Abs(a[perm[col]*dim+col])
		for row := col + 1; row < dim; row++ {
			if mag := math.Abs(a[perm[row]*dim+col]); mag > pivotMag {
				pivot, pivotMag = row, mag
			}
		}
		if pivotMag == 0 {
			return false
		}
		perm[col], perm[pivot] = perm[pivot], perm[col]

		pr := perm[col] * dim
		for row := col + 1; row < dim; row++ {
			rr := perm[row] * dim
			factor := a[rr+col] / a[pr+col]
			a[rr+col] = factor
			for k := col + 1; k < dim; k++ {
				a[rr+k] -= factor * a[pr+k]
			}
		}
	}

	// Forward substitution on the permuted rows.
	y := make([]float64, dim)
	for i := 0; i < dim; i++ {
		sum := b[perm[i]]
		for k := 0; k < i; k++ {
			sum -= a[perm[i]*dim+k] * y[k]
		}
		y[i] = sum
	}
	// Back substitution.
	for i := dim - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < dim; k++ {
			sum -= a[perm[i]*dim+k] * b[k]
		}
		b[i] = sum / a[perm[i]*dim+i]
	}
	return true
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
