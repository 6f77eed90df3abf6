package dbn

import "github.com/samkatt/fba-pomdp-go/randutil"

// SampleMethod selects how a Dirichlet row is turned into a sampled
// outcome index, mirroring model/flat.SampleMethod.
type SampleMethod int

const (
	Regular SampleMethod = iota
	Expected
)

// sampleRow applies a SampleMethod to a raw Dirichlet row.
func sampleRow(row []float64, method SampleMethod, rng *randutil.Rand) int {
	switch method {
	case Expected:
		return rng.SampleFromExpectedMult(row)
	default:
		return rng.SampleFromSampledMult(row)
	}
}

// SampleWithMethod draws an output index from the Dirichlet row at input
// using method; a thin convenience wrapper over Node.Sample that avoids
// every caller building its own closure.
func (n *Node) SampleWithMethod(input []int, method SampleMethod, rng *randutil.Rand) int {
	return sampleRow(n.row(input), method, rng)
}
