package satelles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leoRadiusMeters = 3.0e6
	geoRadiusMeters = 3.5786e7
)

func TestPlanHohmannTransferLEOToGEO(t *testing.T) {
	transfer, err := PlanHohmannTransfer(leoRadiusMeters, geoRadiusMeters)
	require.NoError(t, err)

	assert.InDelta(t, (leoRadiusMeters+geoRadiusMeters)/2, transfer.SemiMajorAxis, 1e-6)
	assert.InDelta(t, (geoRadiusMeters-leoRadiusMeters)/(leoRadiusMeters+geoRadiusMeters),
		transfer.Eccentricity, 1e-12)

	// Raising the orbit: both burns prograde, target leads at departure.
	assert.Greater(t, transfer.DeltaV1, 0.0)
	assert.Greater(t, transfer.DeltaV2, 0.0)
	assert.InDelta(t, transfer.DeltaV1+transfer.DeltaV2, transfer.TotalDelta, 1e-9)
	assert.InDelta(t, 108.19, transfer.PhaseAngle, 1.0)

	// Time of flight is half the transfer-ellipse period.
	mu := GravitationalConstant * EarthMass
	a := transfer.SemiMajorAxis
	assert.InDelta(t, math.Pi*math.Sqrt(a*a*a/mu), transfer.TransferTime, 1e-6)
}

func TestPlanHohmannTransferDescent(t *testing.T) {
	transfer, err := PlanHohmannTransfer(geoRadiusMeters, leoRadiusMeters)
	require.NoError(t, err)

	// Lowering the orbit: both burns retrograde, target trails at departure.
	assert.Less(t, transfer.DeltaV1, 0.0)
	assert.Less(t, transfer.DeltaV2, 0.0)
	assert.InDelta(t, -108.19, transfer.PhaseAngle, 1.0)
}

func TestPlanHohmannTransferPhaseAngleSymmetry(t *testing.T) {
	up, err := PlanHohmannTransfer(7.0e6, 1.4e7)
	require.NoError(t, err)
	down, err := PlanHohmannTransfer(1.4e7, 7.0e6)
	require.NoError(t, err)

	assert.InDelta(t, up.PhaseAngle, -down.PhaseAngle, 1e-9)
	assert.InDelta(t, up.TotalDelta, down.TotalDelta, 1e-9)
	assert.InDelta(t, up.TransferTime, down.TransferTime, 1e-9)
}

func TestPlanHohmannTransferPhaseAngleRange(t *testing.T) {
	// Close orbits need only a small lead angle.
	small, err := PlanHohmannTransfer(7.0e6, 7.5e6)
	require.NoError(t, err)
	assert.Greater(t, small.PhaseAngle, 0.0)
	assert.Less(t, small.PhaseAngle, 30.0)

	// Distant transfers approach but never reach 180 degrees.
	large, err := PlanHohmannTransfer(7.0e6, 7.0e7)
	require.NoError(t, err)
	assert.Greater(t, large.PhaseAngle, 100.0)
	assert.Less(t, large.PhaseAngle, 180.0)
}

func TestPlanHohmannTransferInvalidRadii(t *testing.T) {
	var validationErr *ValidationError

	_, err := PlanHohmannTransfer(-7.0e6, 1.4e7)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "r1", validationErr.Field)

	_, err = PlanHohmannTransfer(7.0e6, 0)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "r2", validationErr.Field)

	_, err = PlanHohmannTransfer(7.0e6, 7.0e6)
	require.ErrorAs(t, err, &validationErr)
}
