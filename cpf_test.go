package satelles

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const galileoCPF = `H1 CPF  2 ESA 2025  6  5 10 156 01 galileo101
H2  1106001 7101    37846 2025  6  4 23 59 42 2025  6  9 23 59 42   900 1 1  0 0 0  1
10 0 60835  85482.000000  0      -9148211.401      25531842.225      11822917.110
10 0 60835  86382.000000  0      -9151185.629      25534182.361      11819411.299
20 0 -350.123456 720.654321 1800.987654
30 0 -500.123456 250.654321 -100.000000 1.5
99
`

func TestParseCPF(t *testing.T) {
	cpf, err := ParseCPF(strings.NewReader(galileoCPF))
	require.NoError(t, err)

	h := cpf.Header
	assert.Equal(t, 2, h.Version)
	assert.Equal(t, "ESA", h.EphemerisSource)
	assert.Equal(t, time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC), h.Produced)
	assert.Equal(t, 156, h.SequenceNumber)
	assert.Equal(t, 1, h.SubDailySequence)
	assert.Equal(t, "galileo101", h.TargetName)
	assert.Equal(t, "", h.Notes)

	tgt := cpf.Target
	assert.Equal(t, "1106001", tgt.CosparID)
	assert.Equal(t, "7101", tgt.SIC)
	assert.Equal(t, 37846, tgt.NoradID)
	assert.Equal(t, time.Date(2025, 6, 4, 23, 59, 42, 0, time.UTC), tgt.Start)
	assert.Equal(t, time.Date(2025, 6, 9, 23, 59, 42, 0, time.UTC), tgt.End)
	assert.Equal(t, 900*time.Second, tgt.Interval)
	assert.True(t, tgt.TIVCompatible)
	assert.Equal(t, 1, tgt.TargetClass)

	require.Len(t, cpf.Positions, 2)
	p := cpf.Positions[1]
	assert.Equal(t, 0, p.Direction)
	assert.Equal(t, 60835, p.MJD)
	assert.InDelta(t, 86382.0, p.SecondsOfDay, 1e-9)
	assert.InDelta(t, -9151185.629, p.Position.X, 1e-6)
	assert.InDelta(t, 25534182.361, p.Position.Y, 1e-6)
	assert.InDelta(t, 11819411.299, p.Position.Z, 1e-6)

	require.Len(t, cpf.Velocities, 1)
	assert.InDelta(t, -350.123456, cpf.Velocities[0].Velocity.X, 1e-9)

	require.Len(t, cpf.Corrections, 1)
	assert.InDelta(t, 1.5, cpf.Corrections[0].RangeCorrection, 1e-12)
	assert.InDelta(t, -500.123456, cpf.Corrections[0].Aberration.X, 1e-9)
}

func TestParseCPFHeaderWithNotes(t *testing.T) {
	content := strings.Replace(galileoCPF,
		"H1 CPF  2 ESA 2025  6  5 10 156 01 galileo101",
		"H1 CPF 2 OPA 2025 06 04 18 155 1 apollo15 OPA_ELP96", 1)
	cpf, err := ParseCPF(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "apollo15", cpf.Header.TargetName)
	assert.Equal(t, "OPA_ELP96", cpf.Header.Notes)
	assert.Equal(t, "OPA", cpf.Header.EphemerisSource)
}

func TestCPFPositionTime(t *testing.T) {
	cpf, err := ParseCPF(strings.NewReader(galileoCPF))
	require.NoError(t, err)

	// MJD 60835 is 2025 June 9; 86382 s of day is 23:59:42.
	at := cpf.Positions[1].Time()
	assert.WithinDuration(t, time.Date(2025, 6, 9, 23, 59, 42, 0, time.UTC), at, 50*time.Millisecond)
}

func TestCPFInterpolator(t *testing.T) {
	cpf, err := ParseCPF(strings.NewReader(galileoCPF))
	require.NoError(t, err)

	interp, err := cpf.Interpolator()
	require.NoError(t, err)

	// Exactly at a sample the interpolator reproduces it.
	at := float64(60835)*86400.0 + 86382.0
	p := interp.PositionAt(at)
	assert.InDelta(t, -9151185.629, p.X, 1e-6)

	// Between the two samples every coordinate is bracketed by them.
	mid := interp.PositionAt(at - 450.0)
	assert.Less(t, mid.X, -9148211.401)
	assert.Greater(t, mid.X, -9151185.629)
}

func TestParseCPFErrors(t *testing.T) {
	var formatErr *FormatError

	// Missing headers entirely.
	_, err := ParseCPF(strings.NewReader("10 0 60835 85482.0 0 1.0 2.0 3.0\n99\n"))
	require.ErrorAs(t, err, &formatErr)

	// Malformed H1.
	_, err = ParseCPF(strings.NewReader("H1 CPF X ESA 2025 6 5 10 156 01 target\n99\n"))
	require.ErrorAs(t, err, &formatErr)

	// Malformed position record.
	broken := strings.Replace(galileoCPF,
		"10 0 60835  85482.000000  0      -9148211.401      25531842.225      11822917.110",
		"10 0 60835  85482.000000  0      -9148211.401      25531842.225", 1)
	_, err = ParseCPF(strings.NewReader(broken))
	require.ErrorAs(t, err, &formatErr)

	// Bad numeric field.
	var fieldErr *FieldParseError
	badNum := strings.Replace(galileoCPF, "20 0 -350.123456", "20 0 -35x.123456", 1)
	_, err = ParseCPF(strings.NewReader(badNum))
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "velocity component", fieldErr.Field)
}

func TestParseCPFWithoutTerminator(t *testing.T) {
	content := strings.TrimSuffix(galileoCPF, "99\n")
	cpf, err := ParseCPF(strings.NewReader(content))
	require.NoError(t, err)
	assert.Len(t, cpf.Positions, 2)
}
