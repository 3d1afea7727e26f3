package dist

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/saadrahim/rocRAND/internal/rng"
)

// ErrInvalidLambda reports a Poisson rate outside the supported range.
var ErrInvalidLambda = errors.New("poisson lambda must be in (0, 1e9]")

const (
	// tableLambdaMax bounds the inverse-CDF table mode; above it the
	// normal approximation takes over.
	tableLambdaMax = 4000.0
	lambdaMax      = 1e9
)

// Poisson maps one uniform draw to a Poisson-distributed count. For
// small and medium lambda it inverts a precomputed CDF table; for large
// lambda it uses the normal approximation round(lambda + sqrt(lambda)*z).
// Either way one draw yields one output, so the transform stays
// fixed-width and reproducible.
type Poisson struct {
	lambda     float64
	cdf        []float64
	sqrtLambda float64
}

// NewPoisson validates lambda and derives the transform parameters.
func NewPoisson(lambda float64) (*Poisson, error) {
	if lambda <= 0 || lambda > lambdaMax || math.IsNaN(lambda) {
		return nil, ErrInvalidLambda
	}
	p := &Poisson{lambda: lambda, sqrtLambda: math.Sqrt(lambda)}
	if lambda <= tableLambdaMax {
		p.cdf = poissonCDFTable(lambda)
	}
	return p, nil
}

// poissonCDFTable tabulates the CDF far enough into the upper tail that
// any uniform draw lands inside it.
func poissonCDFTable(lambda float64) []float64 {
	src := distuv.Poisson{Lambda: lambda}
	bound := int(lambda + 9*math.Sqrt(lambda) + 10)
	cdf := make([]float64, 0, bound+1)
	for k := 0; k <= bound; k++ {
		v := src.CDF(float64(k))
		cdf = append(cdf, v)
		if v >= 1 {
			break
		}
	}
	// The last entry absorbs draws beyond the tabulated mass.
	cdf[len(cdf)-1] = 1
	return cdf
}

func (p *Poisson) InputWidth() int  { return 1 }
func (p *Poisson) OutputWidth() int { return 1 }

func (p *Poisson) Transform(raw []uint32, out []uint32) {
	u := float64(raw[0]) * rng.NormDouble
	if p.cdf != nil {
		out[0] = uint32(sort.SearchFloat64s(p.cdf, u))
		return
	}
	// u == 1 would map to +Inf through the quantile; pin it just below.
	if u >= 1 {
		u = 1 - 1e-12
	}
	v := math.Round(p.lambda + p.sqrtLambda*distuv.UnitNormal.Quantile(u))
	if v < 0 {
		v = 0
	}
	out[0] = uint32(v)
}

// PoissonCache keeps the derived parameters for the last lambda so that
// repeated generations with an unchanged rate skip the table rebuild.
type PoissonCache struct {
	lambda float64
	dis    *Poisson
}

// SetLambda rebuilds the cached distribution only when lambda changes.
// Validation happens before anything is replaced, so an invalid lambda
// leaves the cache untouched.
func (c *PoissonCache) SetLambda(lambda float64) error {
	if c.dis != nil && c.lambda == lambda {
		return nil
	}
	dis, err := NewPoisson(lambda)
	if err != nil {
		return err
	}
	c.lambda = lambda
	c.dis = dis
	return nil
}

// Distribution returns the cached transform; nil before any SetLambda.
func (c *PoissonCache) Distribution() *Poisson {
	return c.dis
}
