package heavyhash

import "gonum.org/v1/gonum/mat"

const (
	matrixDim      = 64
	nibblesPerWord = 16
	rankTolerance  = 1e-9
)

// matrix is the 64x64 diffusion matrix with entries in [0, 15].
type matrix [matrixDim][matrixDim]int32

// generateMatrix derives a full-rank diffusion matrix from the generator
// stream. Candidates that fail the rank test are discarded and generation
// continues from the same stream position, never reseeding, so the accepted
// matrix is reproducible for a given seed. The expected number of attempts
// is O(1).
func generateMatrix(g *xoshiro256pp) *matrix {
	for {
		var m matrix
		for i := 0; i < matrixDim; i++ {
			for j := 0; j < matrixDim; j += nibblesPerWord {
				word := g.next()
				for shift := 0; shift < nibblesPerWord; shift++ {
					m[i][j+shift] = int32(word >> (4 * shift) & 0xF)
				}
			}
		}
		if m.fullRank() {
			return &m
		}
	}
}

// fullRank reports whether the matrix has real-valued rank 64, counting
// singular values above a small numerical tolerance.
func (m *matrix) fullRank() bool {
	data := make([]float64, 0, matrixDim*matrixDim)
	for i := range m {
		for j := range m[i] {
			data = append(data, float64(m[i][j]))
		}
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(matrixDim, matrixDim, data), mat.SVDNone) {
		return false
	}
	for _, sv := range svd.Values(nil) {
		if sv <= rankTolerance {
			return false
		}
	}
	return true
}

// mulVec computes the integer matrix-vector product y = m*x. With entries
// and inputs both in [0, 15], each output is at most 64*15*15, far inside
// int32 range.
func (m *matrix) mulVec(x *[matrixDim]int32) [matrixDim]int32 {
	var y [matrixDim]int32
	for i := range m {
		var acc int32
		for j := range m[i] {
			acc += m[i][j] * x[j]
		}
		y[i] = acc
	}
	return y
}
