package satelles

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// mjdOffset is the offset between Julian date and Modified Julian Date; the
// MJD epoch is 1858 November 17 00:00 UTC.
const mjdOffset = 2400000.5

// JulianDate returns the Julian date for the given instant.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// TimeFromJulianDate returns the UTC instant for the given Julian date.
func TimeFromJulianDate(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// ModifiedJulianDate returns the MJD for the given instant.
func ModifiedJulianDate(t time.Time) float64 {
	return JulianDate(t) - mjdOffset
}

// TimeFromModifiedJulianDate returns the UTC instant for the given MJD.
func TimeFromModifiedJulianDate(mjd float64) time.Time {
	return TimeFromJulianDate(mjd + mjdOffset)
}

// GreenwichSiderealTime returns the Greenwich Mean Sidereal Time at the given
// instant, in radians in [0, 2π).
func GreenwichSiderealTime(t time.Time) float64 {
	return gstime(JulianDate(t))
}

// gstime computes GMST in radians from a Julian date (IAU-82 model).
func gstime(jd float64) float64 {
	tut1 := (jd - 2451545.0) / 36525.0

	gmstDeg := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*tut1*tut1 -
		tut1*tut1*tut1/38710000.0

	gmstDeg = math.Mod(gmstDeg, 360.0)
	if gmstDeg < 0 {
		gmstDeg += 360.0
	}
	return gmstDeg * deg2rad
}
