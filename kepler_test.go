package satelles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemiMajorAxis(t *testing.T) {
	// A ~92.95-minute orbit sits around 6790 km from the geocenter.
	a := SemiMajorAxis(15.49165514, 0)
	assert.InDelta(t, 6.796e6, a, 5e3)

	// Kepler's third law must hold for the returned axis.
	mu := GravitationalConstant * EarthMass
	n := 15.49165514 * twoPi / 86400.0
	assert.InDelta(t, mu/(n*n), a*a*a, mu/(n*n)*1e-12)

	// A heavier satellite raises the gravitational parameter slightly.
	assert.Greater(t, SemiMajorAxis(15.49165514, 1e20), a)
}

func TestEccentricAnomaly(t *testing.T) {
	cases := []struct {
		name string
		m    float64
		ecc  float64
	}{
		{"circular", 1.234, 0.0},
		{"low eccentricity", math.Pi / 4, 0.1},
		{"moderate", 2.5, 0.4},
		{"high eccentricity", 0.3, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := EccentricAnomaly(tc.m, tc.ecc, 1e-10)
			require.NoError(t, err)
			// The solution must satisfy Kepler's equation.
			assert.InDelta(t, tc.m, e-tc.ecc*math.Sin(e), 1e-9)
		})
	}

	// Zero eccentricity reduces to the identity.
	e, err := EccentricAnomaly(0.75, 0, 1e-10)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, e, 1e-12)
}

func TestTrueAnomaly(t *testing.T) {
	// Circular orbit: true anomaly equals eccentric anomaly.
	assert.InDelta(t, 1.1, TrueAnomaly(1.1, 0), 1e-12)

	// At perigee and apogee the anomalies coincide for any eccentricity.
	assert.InDelta(t, 0.0, TrueAnomaly(0, 0.5), 1e-12)
	assert.InDelta(t, math.Pi, TrueAnomaly(math.Pi, 0.5), 1e-9)

	// In between, the true anomaly leads the eccentric anomaly on the
	// outbound leg.
	assert.Greater(t, TrueAnomaly(1.0, 0.3), 1.0)
}

func TestOrbitalRadius(t *testing.T) {
	const a = 7.0e6
	const ecc = 0.2

	assert.InDelta(t, a*(1-ecc), OrbitalRadius(a, ecc, 0), 1e-6)
	assert.InDelta(t, a*(1+ecc), OrbitalRadius(a, ecc, math.Pi), 1e-6)
	assert.InDelta(t, a*(1-ecc*ecc), OrbitalRadius(a, ecc, math.Pi/2), 1e-6)
}
