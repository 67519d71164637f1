package diffeq

import "math"

// MassMatrix is the dense operator M in M·du/dt = f(u, p, t). A nil
// *MassMatrix means identity. Rows that are entirely zero mark
// algebraic constraints: the corresponding equation has no derivative
// term and must hold exactly at every time, the start time included.
type MassMatrix struct {
	n int
	a []float64 // row-major, len n*n
}

// NewMassMatrix builds an n-by-n mass matrix from row-major entries.
func NewMassMatrix(n int, entries []float64) (*MassMatrix, error) {
	if n <= 0 {
		return nil, ErrBadDimension
	}
	if len(entries) != n*n {
		return nil, ErrBadDimension
	}
	a := make([]float64, n*n)
	copy(a, entries)
	return &MassMatrix{n: n, a: a}, nil
}

func (m *MassMatrix) Dim() int { return m.n }

func (m *MassMatrix) At(i, j int) float64 { return m.a[i*m.n+j] }

// MulInto writes M·v into dst.
func (m *MassMatrix) MulInto(dst, v State) {
	for i := 0; i < m.n; i++ {
		sum := 0.0
		row := m.a[i*m.n : (i+1)*m.n]
		for j, mij := range row {
			sum += mij * v[j]
		}
		dst[i] = sum
	}
}

// ZeroRows returns the indices of all-zero rows. The selection is the
// index-1 rule: a zero row is read as the algebraic equation
// 0 = f_i(u, p, t). Nothing stronger is claimed for higher-index
// systems.
func (m *MassMatrix) ZeroRows() []int {
	var rows []int
	for i := 0; i < m.n; i++ {
		zero := true
		for j := 0; j < m.n; j++ {
			if m.a[i*m.n+j] != 0 {
				zero = false
				break
			}
		}
		if zero {
			rows = append(rows, i)
		}
	}
	return rows
}

// Det computes the determinant by LU elimination on a scratch copy.
func (m *MassMatrix) Det() float64 {
	n := m.n
	a := make([]float64, len(m.a))
	copy(a, m.a)

	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row*n+col]) > math.Abs(a[pivot*n+col]) {
				pivot = row
			}
		}
		if a[pivot*n+col] == 0 {
			return 0
		}
		if pivot != col {
			for k := 0; k < n; k++ {
				a[pivot*n+k], a[col*n+k] = a[col*n+k], a[pivot*n+k]
			}
			det = -det
		}
		det *= a[col*n+col]
		for row := col + 1; row < n; row++ {
			factor := a[row*n+col] / a[col*n+col]
			for k := col; k < n; k++ {
				a[row*n+k] -= factor * a[col*n+k]
			}
		}
	}
	return det
}

// Singular reports whether M has no inverse.
func (m *MassMatrix) Singular() bool { return m.Det() == 0 }
