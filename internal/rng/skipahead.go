package rng

// matrix is a 3x3 transition matrix over one of the component moduli,
// stored row-major.
type matrix [3][3]uint32

// One-step transition matrices. Multiplying the state vector
// (x[n-3], x[n-2], x[n-1]) by these advances the recurrence one step.
var (
	a1Step = matrix{
		{0, 1, 0},
		{0, 0, 1},
		{M1 - uint32(a13n), uint32(a12), 0},
	}
	a2Step = matrix{
		{0, 1, 0},
		{0, 0, 1},
		{M2 - uint32(a23n), 0, uint32(a21)},
	}
)

// Precomputed 2^76-step jump matrices (L'Ecuyer's A1p76/A2p76). One
// subsequence per stream is 2^76 steps, so streams carved this way never
// overlap within any practical draw count.
var (
	a1p76 = matrix{
		{82758667, 1871391091, 4127413238},
		{3672831523, 69195019, 1871391091},
		{3672091415, 3528743235, 69195019},
	}
	a2p76 = matrix{
		{1511326704, 3759209742, 1610795712},
		{4292754251, 1511326704, 3889917532},
		{3859662829, 4292754251, 3708466080},
	}
)

// matMul returns a*b mod m. Entries are below 2^32, so each product fits
// a uint64 and is reduced before accumulation.
func matMul(a, b matrix, m uint32) matrix {
	var out matrix
	mod := uint64(m)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var acc uint64
			for k := 0; k < 3; k++ {
				acc = (acc + uint64(a[i][k])*uint64(b[k][j])%mod) % mod
			}
			out[i][j] = uint32(acc)
		}
	}
	return out
}

// matVec returns a*v mod m.
func matVec(a matrix, v [3]uint32, m uint32) [3]uint32 {
	var out [3]uint32
	mod := uint64(m)
	for i := 0; i < 3; i++ {
		var acc uint64
		for k := 0; k < 3; k++ {
			acc = (acc + uint64(a[i][k])*uint64(v[k])%mod) % mod
		}
		out[i] = uint32(acc)
	}
	return out
}

// matPow returns a^n mod m by square-and-multiply.
func matPow(a matrix, n uint64, m uint32) matrix {
	out := matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	base := a
	for n > 0 {
		if n&1 == 1 {
			out = matMul(base, out, m)
		}
		base = matMul(base, base, m)
		n >>= 1
	}
	return out
}
