package satelles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issOMMFields() map[string]string {
	return map[string]string{
		"OBJECT_NAME":         "ISS (ZARYA)",
		"OBJECT_ID":           "1998-067A",
		"EPOCH":               "2020-03-02T14:10:59.999808",
		"MEAN_MOTION":         "15.49165514",
		"ECCENTRICITY":        "0.0004893",
		"INCLINATION":         "51.6442",
		"RA_OF_ASC_NODE":      "147.9817",
		"ARG_OF_PERICENTER":   "184.5420",
		"MEAN_ANOMALY":        "291.7682",
		"NORAD_CAT_ID":        "25544",
		"BSTAR":               "0.00010270",
		"MEAN_MOTION_DOT":     "0.00016717",
		"MEAN_MOTION_DDOT":    "0",
		"CLASSIFICATION_TYPE": "U",
		"ELEMENT_SET_NO":      "90",
		"REV_AT_EPOCH":        "21586",
		"EPHEMERIS_TYPE":      "0",
	}
}

func TestDecodeOMM(t *testing.T) {
	rec, err := DecodeOMM(issOMMFields())
	require.NoError(t, err)

	assert.Equal(t, "ISS (ZARYA)", rec.Name)
	assert.Equal(t, 25544, rec.CatalogNumber)
	assert.Equal(t, "98067A", rec.International)
	assert.Equal(t, ClassificationUnclassified, rec.Classification)
	assert.Equal(t, 2020, rec.EpochYear)
	assert.InDelta(t, 62.59097222, rec.EpochDay, 1e-8)
	assert.InDelta(t, 15.49165514, rec.MeanMotion, 1e-12)
	assert.InDelta(t, 0.0004893, rec.Eccentricity, 1e-12)
	assert.Equal(t, 90, rec.ElementNumber)
	assert.Equal(t, 21586, rec.RevolutionNumber)
}

// A TLE and an OMM describing the same element set must decode to the same
// normalized record.
func TestDecodeOMMConvergesWithTLE(t *testing.T) {
	fromTLE, err := ParseTLELines(tleISSLine1, tleISSLine2)
	require.NoError(t, err)
	fromOMM, err := DecodeOMM(issOMMFields())
	require.NoError(t, err)

	assert.Equal(t, fromTLE.CatalogNumber, fromOMM.CatalogNumber)
	assert.Equal(t, fromTLE.International, fromOMM.International)
	assert.Equal(t, fromTLE.Classification, fromOMM.Classification)
	assert.Equal(t, fromTLE.EpochYear, fromOMM.EpochYear)
	assert.InDelta(t, fromTLE.EpochDay, fromOMM.EpochDay, 1e-8)
	assert.InDelta(t, fromTLE.MeanMotion, fromOMM.MeanMotion, 1e-12)
	assert.InDelta(t, fromTLE.Eccentricity, fromOMM.Eccentricity, 1e-12)
	assert.InDelta(t, fromTLE.Inclination, fromOMM.Inclination, 1e-12)
	assert.InDelta(t, fromTLE.RightAscension, fromOMM.RightAscension, 1e-12)
	assert.InDelta(t, fromTLE.ArgOfPerigee, fromOMM.ArgOfPerigee, 1e-12)
	assert.InDelta(t, fromTLE.MeanAnomaly, fromOMM.MeanAnomaly, 1e-12)
	assert.InDelta(t, fromTLE.Bstar, fromOMM.Bstar, 1e-9)
}

func TestDecodeOMMMissingMandatoryFields(t *testing.T) {
	for _, name := range mandatoryOMMFields {
		t.Run(name, func(t *testing.T) {
			fields := issOMMFields()
			delete(fields, name)
			_, err := DecodeOMM(fields)
			var missingErr *MissingFieldError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, name, missingErr.Field)
		})
	}
}

func TestDecodeOMMUnitAnnotations(t *testing.T) {
	fields := issOMMFields()
	fields["INCLINATION"] = "51.6442 [deg]"
	fields["MEAN_MOTION"] = "15.49165514 [rev/day]"
	rec, err := DecodeOMM(fields)
	require.NoError(t, err)
	assert.InDelta(t, 51.6442, rec.Inclination, 1e-12)

	fields = issOMMFields()
	fields["INCLINATION"] = "0.9014 [rad]"
	_, err = DecodeOMM(fields)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "INCLINATION", validationErr.Field)
}

func TestDecodeOMMBadNumbers(t *testing.T) {
	fields := issOMMFields()
	fields["MEAN_MOTION"] = "fifteen"
	_, err := DecodeOMM(fields)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields = issOMMFields()
	fields["NORAD_CAT_ID"] = "25544.5"
	_, err = DecodeOMM(fields)
	require.ErrorAs(t, err, &validationErr)
}

func TestDecodeOMMMetadataChecks(t *testing.T) {
	fields := issOMMFields()
	fields["MEAN_ELEMENT_THEORY"] = "DSST"
	_, err := DecodeOMM(fields)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "MEAN_ELEMENT_THEORY", validationErr.Field)

	fields = issOMMFields()
	fields["REF_FRAME"] = "GCRF"
	_, err = DecodeOMM(fields)
	require.ErrorAs(t, err, &validationErr)

	fields = issOMMFields()
	fields["MEAN_ELEMENT_THEORY"] = "SGP4"
	fields["REF_FRAME"] = "TEME"
	fields["TIME_SYSTEM"] = "UTC"
	_, err = DecodeOMM(fields)
	assert.NoError(t, err)
}

func TestDecodeOMMObjectID(t *testing.T) {
	fields := issOMMFields()
	fields["OBJECT_ID"] = "not-an-id-at-all"
	_, err := DecodeOMM(fields)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "OBJECT_ID", validationErr.Field)
}

func TestDecodeOMMEpochFormats(t *testing.T) {
	for _, epoch := range []string{
		"2020-03-02T14:10:59.999808",
		"2020-03-02T14:10:59.999808Z",
		"2020-03-02T14:10:59Z",
	} {
		fields := issOMMFields()
		fields["EPOCH"] = epoch
		rec, err := DecodeOMM(fields)
		require.NoError(t, err, epoch)
		assert.Equal(t, 2020, rec.EpochYear)
		assert.InDelta(t, 62.59097222, rec.EpochDay, 1e-4)
	}

	fields := issOMMFields()
	fields["EPOCH"] = "yesterday"
	_, err := DecodeOMM(fields)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "EPOCH", validationErr.Field)
}

func TestParseOMMs(t *testing.T) {
	data := []byte(`[{
		"OBJECT_NAME": "ISS (ZARYA)",
		"OBJECT_ID": "1998-067A",
		"EPOCH": "2020-03-02T14:10:59.999808",
		"MEAN_MOTION": 15.49165514,
		"ECCENTRICITY": 0.0004893,
		"INCLINATION": 51.6442,
		"RA_OF_ASC_NODE": 147.9817,
		"ARG_OF_PERICENTER": 184.542,
		"MEAN_ANOMALY": 291.7682,
		"EPHEMERIS_TYPE": 0,
		"CLASSIFICATION_TYPE": "U",
		"NORAD_CAT_ID": 25544,
		"ELEMENT_SET_NO": 90,
		"REV_AT_EPOCH": 21586,
		"BSTAR": 0.0001027,
		"MEAN_MOTION_DOT": 0.00016717,
		"MEAN_MOTION_DDOT": 0
	}]`)

	omms, err := ParseOMMs(data)
	require.NoError(t, err)
	require.Len(t, omms, 1)

	rec, err := omms[0].ElementSet()
	require.NoError(t, err)
	assert.Equal(t, 25544, rec.CatalogNumber)
	assert.Equal(t, "98067A", rec.International)

	_, err = ParseOMMs([]byte("{not json"))
	assert.Error(t, err)
}
