package satelles

import "math"

// Two-body helpers in SI units, independent of the analytic propagation
// model. These operate on the classical elements directly and are useful for
// quick mission-design arithmetic where the full perturbation model is
// overkill.

// SemiMajorAxis returns the semi-major axis in meters for a satellite with
// the given mean motion in revolutions per day. The satellite mass in
// kilograms refines the gravitational parameter; pass 0 for a point mass.
func SemiMajorAxis(meanMotion, satelliteMass float64) float64 {
	mu := GravitationalConstant * (EarthMass + satelliteMass)
	n := meanMotion * twoPi / 86400.0
	return math.Cbrt(mu / (n * n))
}

// EccentricAnomaly solves Kepler's equation E - e*sin(E) = M for the
// eccentric anomaly by Newton-Raphson. Both anomalies are in radians.
func EccentricAnomaly(meanAnomaly, eccentricity, tolerance float64) (float64, error) {
	const maxIterations = 50

	ecc := math.Abs(eccentricity)
	e0 := meanAnomaly
	for i := 0; i < maxIterations; i++ {
		f := e0 - ecc*math.Sin(e0) - meanAnomaly
		fdot := 1.0 - ecc*math.Cos(e0)
		if math.Abs(fdot) < 1e-12 {
			return 0, &KeplerConvergenceError{Iterations: i, Residual: math.Abs(f)}
		}
		delta := -f / fdot
		e0 += delta
		if math.Abs(delta) < tolerance {
			return e0, nil
		}
	}
	return 0, &KeplerConvergenceError{
		Iterations: maxIterations,
		Residual:   math.Abs(e0 - ecc*math.Sin(e0) - meanAnomaly),
	}
}

// TrueAnomaly converts an eccentric anomaly to the true anomaly, in radians.
func TrueAnomaly(eccentricAnomaly, eccentricity float64) float64 {
	return 2.0 * math.Atan2(
		math.Sqrt(1.0+eccentricity)*math.Sin(eccentricAnomaly/2.0),
		math.Sqrt(1.0-eccentricity)*math.Cos(eccentricAnomaly/2.0),
	)
}

// OrbitalRadius returns the orbital radius in the units of the semi-major
// axis for the given true anomaly.
func OrbitalRadius(semiMajorAxis, eccentricity, trueAnomaly float64) float64 {
	return semiMajorAxis * (1.0 - eccentricity*eccentricity) /
		(1.0 + eccentricity*math.Cos(trueAnomaly))
}
