package satelles

import "math"

// Mathematical and physical constants. The propagation constants follow the
// Spacetrack Report #3 / WGS-72 set so results line up with the classical
// reference vectors.
const (
	twoPi         = 2 * math.Pi
	deg2rad       = math.Pi / 180.0
	rad2deg       = 180.0 / math.Pi
	xkmper        = 6378.135       // Earth's equatorial radius in km
	ae            = 1.0            // distance units per Earth radius
	xj2           = 0.001082616    // J2 zonal harmonic
	xj3           = -0.00000253881 // J3 zonal harmonic
	xj4           = -0.00000165597 // J4 zonal harmonic
	mu            = 398600.8       // gravitational parameter, km^3/s^2
	minutesPerDay = 1440.0
	a3ovk2        = -2.0 * xj3 / xj2 // -J3/CK2 with ae = 1
)

// Computed values (non-constants)
var (
	xke    = 60.0 / math.Sqrt(xkmper*xkmper*xkmper/mu) // sqrt(GM) in ER^1.5/min
	ck2    = 0.5 * xj2 * ae * ae
	ck4    = -0.375 * xj4 * ae * ae * ae * ae
	qoms2t = math.Pow((120-78)/xkmper, 4) // (q0 - s)^4 in ER^4
	kS     = ae * (1.0 + 78.0/xkmper)
)

// SI constants used by the Kepler and transfer helpers.
const (
	// GravitationalConstant is the Newtonian constant of gravitation (m^3 kg^-1 s^-2).
	GravitationalConstant = 6.67430e-11

	// EarthMass is the mass of the Earth in kilograms.
	EarthMass = 5.972e24

	// EarthEquatorialRadius is the equatorial radius of the Earth in meters.
	EarthEquatorialRadius = 6378137.0

	// EarthPolarRadius is the polar radius of the Earth in meters.
	EarthPolarRadius = 6356752.3

	// EarthMeanRadius is the volumetric mean radius of the Earth in meters.
	EarthMeanRadius = 6371000.0
)
