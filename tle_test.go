package satelles

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tle88888Line1 = "1 88888U          80275.98708465  .00073094  13844-3  66816-4 0    87"
	tle88888Line2 = "2 88888  72.8435 115.9689 0086731  52.6988 110.5714 16.05824518  1058"

	tleISSLine1 = "1 25544U 98067A   20062.59097222  .00016717  00000-0  10270-3 0   903"
	tleISSLine2 = "2 25544  51.6442 147.9817 0004893 184.5420 291.7682 15.49165514215867"
)

func TestParseTLELines(t *testing.T) {
	rec, err := ParseTLELines(tle88888Line1, tle88888Line2)
	require.NoError(t, err)

	assert.Equal(t, 88888, rec.CatalogNumber)
	assert.Equal(t, ClassificationUnclassified, rec.Classification)
	assert.Equal(t, "", rec.International)
	assert.Equal(t, 1980, rec.EpochYear)
	assert.InDelta(t, 275.98708465, rec.EpochDay, 1e-12)
	assert.InDelta(t, 0.00073094, rec.MeanMotionDot, 1e-12)
	assert.InDelta(t, 0.13844e-3, rec.MeanMotionDot2, 1e-12)
	assert.InDelta(t, 0.66816e-4, rec.Bstar, 1e-12)
	assert.Equal(t, 0, rec.EphemerisType)
	assert.Equal(t, 8, rec.ElementNumber)
	assert.Equal(t, 7, rec.CheckSum1)

	assert.InDelta(t, 72.8435, rec.Inclination, 1e-9)
	assert.InDelta(t, 115.9689, rec.RightAscension, 1e-9)
	assert.InDelta(t, 0.0086731, rec.Eccentricity, 1e-12)
	assert.InDelta(t, 52.6988, rec.ArgOfPerigee, 1e-9)
	assert.InDelta(t, 110.5714, rec.MeanAnomaly, 1e-9)
	assert.InDelta(t, 16.05824518, rec.MeanMotion, 1e-12)
	assert.Equal(t, 105, rec.RevolutionNumber)
	assert.Equal(t, 8, rec.CheckSum2)
}

func TestParseTLEInternationalDesignator(t *testing.T) {
	rec, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)
	assert.Equal(t, "98067A", rec.International)
	assert.Equal(t, 2020, rec.EpochYear)
	assert.Equal(t, 21586, rec.RevolutionNumber)
}

func TestParseTLENamedRecord(t *testing.T) {
	rec, err := ParseTLE("ISS (ZARYA)\n" + tleISSLine1 + "\n" + tleISSLine2)
	require.NoError(t, err)
	assert.Equal(t, "ISS (ZARYA)", rec.Name)
	assert.Equal(t, 25544, rec.CatalogNumber)

	_, err = ParseNamedTLE(strings.Repeat("X", 25), tleISSLine1, tleISSLine2)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseTLETwoLineInput(t *testing.T) {
	rec, err := ParseTLE(tle88888Line1 + "\n" + tle88888Line2 + "\n")
	require.NoError(t, err)
	assert.Equal(t, "", rec.Name)
	assert.Equal(t, 88888, rec.CatalogNumber)
}

func TestParseTLEFormatErrors(t *testing.T) {
	cases := []struct {
		name  string
		line1 string
		line2 string
	}{
		{"short line 1", tle88888Line1[:68], tle88888Line2},
		{"short line 2", tle88888Line1, tle88888Line2[:60]},
		{"wrong line number 1", "3" + tle88888Line1[1:], tle88888Line2},
		{"wrong line number 2", tle88888Line1, "1" + tle88888Line2[1:]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTLELines(tc.line1, tc.line2)
			var formatErr *FormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}

	_, err := ParseTLE("only one line")
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseTLECatalogMismatch(t *testing.T) {
	_, err := ParseTLELines(tle88888Line1, tleISSLine2)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 2, formatErr.Line)
}

func TestParseTLEChecksum(t *testing.T) {
	// Flip the checksum digit itself.
	bad := tle88888Line1[:68] + "3"
	_, err := ParseTLELines(bad, tle88888Line2)
	var checksumErr *ChecksumError
	require.ErrorAs(t, err, &checksumErr)
	assert.Equal(t, 1, checksumErr.Line)
	assert.Equal(t, 3, checksumErr.Want)
	assert.Equal(t, 7, checksumErr.Got)

	// A corrupted field is reported as a checksum failure for the whole line,
	// not as a parse failure of whichever field the corruption landed in.
	corrupted := tle88888Line2[:21] + "X" + tle88888Line2[22:]
	_, err = ParseTLELines(tle88888Line1, corrupted)
	assert.ErrorAs(t, err, &checksumErr)
	assert.Equal(t, 2, checksumErr.Line)
}

func TestParseTLEFieldError(t *testing.T) {
	// Corrupt the epoch day but keep the checksum consistent so the failure
	// surfaces as a field error. Swapping '5' for an 'X' at a non-digit-
	// contributing position is not possible, so rebuild the checksum.
	body := tle88888Line1[:20] + "27X.98708465" + tle88888Line1[32:68]
	sum := 0
	for i := 0; i < 68; i++ {
		c := body[i]
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	line := body + string(rune('0'+sum%10))

	_, err := ParseTLELines(line, tle88888Line2)
	var fieldErr *FieldParseError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 1, fieldErr.Line)
	assert.Equal(t, "epoch day", fieldErr.Field)
	assert.NotNil(t, errors.Unwrap(fieldErr))
}

func TestCalculateChecksum(t *testing.T) {
	assert.Equal(t, 7, calculateChecksum(tle88888Line1))
	assert.Equal(t, 8, calculateChecksum(tle88888Line2))
}

func TestElementSetEpoch(t *testing.T) {
	rec, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)

	epoch := rec.Epoch()
	assert.Equal(t, 2020, epoch.Year())
	assert.Equal(t, time.March, epoch.Month())
	assert.Equal(t, 2, epoch.Day())
	assert.Equal(t, 14, epoch.Hour())
	assert.Equal(t, 10, epoch.Minute())
	assert.Equal(t, 59, epoch.Second())
}

func TestElementSetPeriod(t *testing.T) {
	rec, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)
	assert.InDelta(t, 92.95, rec.Period().Minutes(), 0.2)
}

func TestElementSetValidate(t *testing.T) {
	base, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*ElementSet)
		field  string
	}{
		{"classification", func(e *ElementSet) { e.Classification = 'X' }, "classification"},
		{"eccentricity high", func(e *ElementSet) { e.Eccentricity = 1.0 }, "eccentricity"},
		{"eccentricity negative", func(e *ElementSet) { e.Eccentricity = -0.1 }, "eccentricity"},
		{"inclination", func(e *ElementSet) { e.Inclination = 190 }, "inclination"},
		{"mean motion", func(e *ElementSet) { e.MeanMotion = 0 }, "mean motion"},
		{"epoch day", func(e *ElementSet) { e.EpochDay = 370 }, "epoch day"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := base
			tc.mutate(&rec)
			err := rec.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestIsGeostationary(t *testing.T) {
	rec, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)
	assert.False(t, rec.IsGeostationary())

	geo := rec
	geo.MeanMotion = 1.0027
	geo.Inclination = 0.05
	geo.Eccentricity = 0.0002
	assert.True(t, geo.IsGeostationary())
}
