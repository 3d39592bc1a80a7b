package satelles

import (
	"math"
	"strconv"
)

// HohmannTransfer holds the computed parameters of a two-burn transfer
// between coplanar circular orbits. All lengths are meters, speeds m/s,
// times seconds and the phase angle degrees.
type HohmannTransfer struct {
	R1 float64 // initial orbit radius
	R2 float64 // final orbit radius

	SemiMajorAxis float64 // transfer ellipse semi-major axis
	Eccentricity  float64 // transfer ellipse eccentricity

	DeltaV1    float64 // departure burn, signed (negative when braking)
	DeltaV2    float64 // arrival/circularization burn, signed
	TotalDelta float64 // total delta-v budget, sum of burn magnitudes

	TransferTime float64 // half-period time of flight

	// PhaseAngle is the angular lead the target must have at departure for a
	// rendezvous: positive when raising the orbit (target ahead), negative
	// when lowering it.
	PhaseAngle float64
}

// PlanHohmannTransfer computes the transfer between two circular orbits of
// radii r1 and r2 in meters. The radii must be positive and distinct.
func PlanHohmannTransfer(r1, r2 float64) (HohmannTransfer, error) {
	if r1 <= 0 {
		return HohmannTransfer{}, &ValidationError{
			Field:  "r1",
			Value:  strconv.FormatFloat(r1, 'g', -1, 64),
			Reason: "orbit radius must be positive",
		}
	}
	if r2 <= 0 {
		return HohmannTransfer{}, &ValidationError{
			Field:  "r2",
			Value:  strconv.FormatFloat(r2, 'g', -1, 64),
			Reason: "orbit radius must be positive",
		}
	}
	if r1 == r2 {
		return HohmannTransfer{}, &ValidationError{
			Field:  "r2",
			Value:  strconv.FormatFloat(r2, 'g', -1, 64),
			Reason: "orbit radii must be distinct",
		}
	}

	mu := GravitationalConstant * EarthMass
	a := (r1 + r2) / 2.0
	ecc := math.Abs(r2-r1) / (r1 + r2)

	v1 := math.Sqrt(mu / r1)
	v2 := math.Sqrt(mu / r2)
	dv1 := v1 * (math.Sqrt(2.0*r2/(r1+r2)) - 1.0)
	dv2 := v2 * (1.0 - math.Sqrt(2.0*r1/(r1+r2)))

	transferTime := math.Pi * math.Sqrt(a*a*a/mu)

	// The rendezvous geometry is set by the slower (outer) orbit's angular
	// rate; the sign follows the direction of the transfer. Computing it this
	// way keeps ascent and descent angles exactly symmetric.
	outer := math.Max(r1, r2)
	nOuter := math.Sqrt(mu / (outer * outer * outer))
	phase := 180.0 - nOuter*transferTime*rad2deg
	if r2 < r1 {
		phase = -phase
	}

	return HohmannTransfer{
		R1:            r1,
		R2:            r2,
		SemiMajorAxis: a,
		Eccentricity:  ecc,
		DeltaV1:       dv1,
		DeltaV2:       dv2,
		TotalDelta:    math.Abs(dv1) + math.Abs(dv2),
		TransferTime:  transferTime,
		PhaseAngle:    phase,
	}, nil
}
