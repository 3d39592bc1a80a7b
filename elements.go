package satelles

import (
	"math"
	"strconv"
	"time"
)

// Classification is the security classification carried by an element set.
type Classification rune

const (
	ClassificationUnclassified Classification = 'U'
	ClassificationClassified   Classification = 'C'
	ClassificationSecret       Classification = 'S'
)

// Valid reports whether the classification is one of the documented values.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationUnclassified, ClassificationClassified, ClassificationSecret:
		return true
	}
	return false
}

func (c Classification) String() string { return string(rune(c)) }

// ElementSet holds one set of mean orbital elements plus its bookkeeping
// fields. Both the TLE and OMM input paths converge on this shape. It is a
// value type: construct it once through a parser/decoder and never mutate it;
// derived propagation state lives in the Propagator, not here.
type ElementSet struct {
	// Identity
	Name           string
	CatalogNumber  int
	Classification Classification
	International  string // international designator, e.g. "98067A"

	// Epoch. EpochYear is the full four-digit year: the TLE two-digit year is
	// resolved with the documented pivot (YY < 57 means 20YY, otherwise 19YY).
	EpochYear int
	EpochDay  float64 // fractional day of year, 1.0 <= day < 367.0

	// Drag / ballistic terms
	MeanMotionDot  float64 // first derivative of mean motion / 2, rev/day^2
	MeanMotionDot2 float64 // second derivative of mean motion / 6, rev/day^3
	Bstar          float64 // B* drag term, 1/ER

	// Classical mean elements at epoch
	Inclination    float64 // degrees
	RightAscension float64 // right ascension of ascending node, degrees
	Eccentricity   float64
	ArgOfPerigee   float64 // degrees
	MeanAnomaly    float64 // degrees
	MeanMotion     float64 // rev/day

	// Bookkeeping
	EphemerisType    int
	ElementNumber    int
	RevolutionNumber int
	CheckSum1        int // TLE line 1 checksum digit; 0 for OMM-sourced records
	CheckSum2        int // TLE line 2 checksum digit; 0 for OMM-sourced records
}

// Epoch returns the element-set epoch as a UTC time.
func (e ElementSet) Epoch() time.Time {
	days := int(e.EpochDay)
	fractionalDay := e.EpochDay - float64(days)

	// Day 1 is January 1st, so add days-1 to the start of the year.
	base := time.Date(e.EpochYear, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days-1)

	// Rounding to the nearest nanosecond avoids off-by-one artifacts from the
	// floating-point day fraction.
	nanos := int64(math.Round(fractionalDay * 86400.0 * 1e9))
	return base.Add(time.Duration(nanos))
}

// JulianDate returns the Julian date of the element-set epoch.
func (e ElementSet) JulianDate() float64 {
	return JulianDate(e.Epoch())
}

// MeanMotionRad returns the epoch mean motion in radians per minute.
func (e ElementSet) MeanMotionRad() float64 {
	return e.MeanMotion * twoPi / minutesPerDay
}

// RecoveredSemiMajorAxis returns the semi-major axis in Earth radii recovered
// from the Kozai mean motion (iterative J2 correction).
func (e ElementSet) RecoveredSemiMajorAxis() float64 {
	_, aodp := recoverKozai(e.MeanMotionRad(), e.Inclination*deg2rad, e.Eccentricity)
	return aodp
}

// Period returns the orbital period implied by the recovered mean motion.
func (e ElementSet) Period() time.Duration {
	noUnkozai, _ := recoverKozai(e.MeanMotionRad(), e.Inclination*deg2rad, e.Eccentricity)
	return time.Duration(twoPi / noUnkozai * float64(time.Minute))
}

// IsGeostationary reports whether the mean elements suggest a geostationary
// orbit. This is a heuristic on mean elements and does not guarantee
// station-keeping.
func (e ElementSet) IsGeostationary() bool {
	const idealGeoMeanMotion = 1.0027379093509 // rev/day, sidereal
	const meanMotionTolerance = 0.05
	const maxInclinationDeg = 5.0
	const maxEccentricity = 0.05

	if e.MeanMotion < idealGeoMeanMotion-meanMotionTolerance ||
		e.MeanMotion > idealGeoMeanMotion+meanMotionTolerance {
		return false
	}
	if e.Inclination > maxInclinationDeg {
		return false
	}
	return e.Eccentricity <= maxEccentricity
}

// Validate checks the element-set invariants shared by both input paths.
func (e ElementSet) Validate() error {
	if !e.Classification.Valid() {
		return &ValidationError{
			Field:  "classification",
			Value:  e.Classification.String(),
			Reason: "must be one of U, C, S",
		}
	}
	if e.Eccentricity < 0 || e.Eccentricity >= 1 {
		return &ValidationError{
			Field:  "eccentricity",
			Value:  strconv.FormatFloat(e.Eccentricity, 'f', -1, 64),
			Reason: "must be in [0, 1)",
		}
	}
	if e.Inclination < 0 || e.Inclination > 180 {
		return &ValidationError{
			Field:  "inclination",
			Value:  strconv.FormatFloat(e.Inclination, 'f', -1, 64),
			Reason: "must be in [0, 180] degrees",
		}
	}
	if e.MeanMotion <= 0 {
		return &ValidationError{
			Field:  "mean motion",
			Value:  strconv.FormatFloat(e.MeanMotion, 'f', -1, 64),
			Reason: "must be positive",
		}
	}
	if e.EpochDay < 1.0 || e.EpochDay >= 367.0 {
		return &ValidationError{
			Field:  "epoch day",
			Value:  strconv.FormatFloat(e.EpochDay, 'f', -1, 64),
			Reason: "must be in [1, 367)",
		}
	}
	return nil
}

// recoverKozai recovers the un-Kozai'd mean motion (rad/min) and semi-major
// axis (ER) from the published mean motion, correcting for Earth oblateness.
func recoverKozai(nRadPerMin, inclRad, ecc float64) (noUnkozai, aodp float64) {
	a1 := math.Pow(xke/nRadPerMin, 2.0/3.0)
	cosio := math.Cos(inclRad)
	theta2 := cosio * cosio
	x3thm1 := 3.0*theta2 - 1.0

	eosq := ecc * ecc
	betao2 := 1.0 - eosq
	betao := math.Sqrt(betao2)

	temp := 1.5 * ck2 * x3thm1 / (betao * betao2)
	del1 := temp / (a1 * a1)
	a0 := a1 * (1.0 - del1*(1.0/3.0+del1*(1.0+del1*134.0/81.0)))
	del0 := temp / (a0 * a0)

	noUnkozai = nRadPerMin / (1.0 + del0)
	aodp = a0 / (1.0 - del0)
	return noUnkozai, aodp
}
