package scheme

import "math"

// Dense square matrices here stay small (q x q with q under ~30), so the
// package carries its own Gauss-Jordan inversion and matrix-vector products
// rather than a linear algebra dependency.

const pivotTol = 1e-12

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func cloneMatrix(a [][]float64) [][]float64 {
	b := make([][]float64, len(a))
	for i := range a {
		b[i] = make([]float64, len(a[i]))
		copy(b[i], a[i])
	}
	return b
}

// invert returns the inverse of a by Gauss-Jordan elimination with partial
// pivoting, or ErrSingular when a pivot falls under tolerance.
func invert(a [][]float64) ([][]float64, error) {
	n := len(a)
	work := cloneMatrix(a)
	inv := newMatrix(n)
	for i := 0; i < n; i++ {
		inv[i][i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(work[r][col]) > math.Abs(work[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(work[pivot][col]) < pivotTol {
			return nil, ErrSingular
		}
		work[col], work[pivot] = work[pivot], work[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := work[col][col]
		for j := 0; j < n; j++ {
			work[col][j] /= p
			inv[col][j] /= p
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := work[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				work[r][j] -= f * work[col][j]
				inv[r][j] -= f * inv[col][j]
			}
		}
	}
	return inv, nil
}

// matVec computes dst = a * x. dst and x must not alias.
func matVec(dst []float64, a [][]float64, x []float64) {
	for i := range a {
		row := a[i]
		sum := 0.0
		for j, v := range x {
			sum += row[j] * v
		}
		dst[i] = sum
	}
}
