package datablock

// Helpers for column-major 4x4 matrices as stored in files: element (row r, column c)
// is at index c*4+r.

// Mul4 returns a * b.
func Mul4(a, b [16]float32) [16]float32 {
	var out [16]float32
	for c := range 4 {
		for r := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}

	return out
}

// Invert4 returns the inverse of m. ok is false for a singular matrix.
func Invert4(m [16]float32) (inv [16]float32, ok bool) {
	// Gauss-Jordan elimination on [m | I] with partial pivoting, in float64.
	var a [4][8]float64
	for r := range 4 {
		for c := range 4 {
			a[r][c] = float64(m[c*4+r])
		}
		a[r][4+r] = 1
	}

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if abs(a[pivot][col]) < 1e-12 {
			return inv, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for c := range 8 {
			a[col][c] /= p
		}
		for r := range 4 {
			if r == col {
				continue
			}
			f := a[r][col]
			for c := range 8 {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	for r := range 4 {
		for c := range 4 {
			inv[c*4+r] = float32(a[r][4+c])
		}
	}

	return inv, true
}

// Translation returns the translation part of m.
func Translation(m [16]float32) [3]float32 {
	return [3]float32{m[12], m[13], m[14]}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
