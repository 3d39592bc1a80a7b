package satelles

import (
	"sort"
	"strconv"
)

// Position is a geocentric sample in meters tagged with a time coordinate.
// At is whatever monotonic time scale the ephemeris uses, typically MJD or
// seconds of day; the interpolator only requires the samples to share it.
type Position struct {
	X  float64
	Y  float64
	Z  float64
	At float64
}

// BarycentricInterpolator interpolates 3D positions with the barycentric form
// of Lagrange interpolation. The weights depend only on the sample times, so
// they are computed once and reused for all three coordinates and all query
// times.
type BarycentricInterpolator struct {
	positions []Position
	weights   []float64
}

// NewBarycentricInterpolator builds an interpolator over the given samples.
// At least two samples with distinct times are required; the input slice is
// not modified.
func NewBarycentricInterpolator(positions []Position) (*BarycentricInterpolator, error) {
	if len(positions) < 2 {
		return nil, &ValidationError{
			Field:  "positions",
			Value:  strconv.Itoa(len(positions)),
			Reason: "need at least two samples to interpolate",
		}
	}

	sorted := make([]Position, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].At == sorted[i-1].At {
			return nil, &ValidationError{
				Field:  "positions",
				Value:  strconv.FormatFloat(sorted[i].At, 'g', -1, 64),
				Reason: "sample times must be distinct",
			}
		}
	}

	weights := make([]float64, len(sorted))
	for i := range sorted {
		product := 1.0
		for j := range sorted {
			if j == i {
				continue
			}
			product *= sorted[i].At - sorted[j].At
		}
		weights[i] = 1.0 / product
	}

	return &BarycentricInterpolator{positions: sorted, weights: weights}, nil
}

// PositionAt returns the interpolated position at the given time. A query
// exactly on a sample time returns that sample.
func (b *BarycentricInterpolator) PositionAt(at float64) Position {
	var x, y, z, denom float64
	for i, p := range b.positions {
		if at == p.At {
			return p
		}
		factor := b.weights[i] / (at - p.At)
		x += factor * p.X
		y += factor * p.Y
		z += factor * p.Z
		denom += factor
	}
	return Position{X: x / denom, Y: y / denom, Z: z / denom, At: at}
}

// Span returns the time range covered by the samples. Queries inside the span
// interpolate; queries outside it extrapolate and degrade quickly.
func (b *BarycentricInterpolator) Span() (from, to float64) {
	return b.positions[0].At, b.positions[len(b.positions)-1].At
}
