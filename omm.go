package satelles

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OMM represents a single CCSDS Orbit Mean-elements Message. Field names and
// JSON tags follow the CCSDS standard and common JSON outputs (e.g. from
// space-track.org). Decoding from a concrete serialization other than JSON
// (XML, KVN) is the caller's job; DecodeOMM accepts the resulting key/value
// mapping.
type OMM struct {
	ObjectName         string  `json:"OBJECT_NAME"`
	ObjectID           string  `json:"OBJECT_ID"` // e.g. "1998-067A"
	Epoch              string  `json:"EPOCH"`     // ISO 8601
	MeanMotion         float64 `json:"MEAN_MOTION"`
	Eccentricity       float64 `json:"ECCENTRICITY"`
	Inclination        float64 `json:"INCLINATION"`
	RAOfAscNode        float64 `json:"RA_OF_ASC_NODE"`
	ArgOfPericenter    float64 `json:"ARG_OF_PERICENTER"`
	MeanAnomaly        float64 `json:"MEAN_ANOMALY"`
	EphemerisType      int     `json:"EPHEMERIS_TYPE"`
	ClassificationType string  `json:"CLASSIFICATION_TYPE"`
	NoradCatID         int     `json:"NORAD_CAT_ID"`
	ElementSetNo       int     `json:"ELEMENT_SET_NO"`
	RevAtEpoch         int     `json:"REV_AT_EPOCH"`
	BStar              float64 `json:"BSTAR"`
	MeanMotionDot      float64 `json:"MEAN_MOTION_DOT"`
	MeanMotionDDot     float64 `json:"MEAN_MOTION_DDOT"`

	// Optional metadata fields from complete CCSDS OMM documents.
	CenterName        string `json:"CENTER_NAME,omitempty"`
	RefFrame          string `json:"REF_FRAME,omitempty"`
	TimeSystem        string `json:"TIME_SYSTEM,omitempty"`
	MeanElementTheory string `json:"MEAN_ELEMENT_THEORY,omitempty"`
}

// ParseOMMs parses a JSON document containing an array of OMM objects.
func ParseOMMs(jsonData []byte) ([]OMM, error) {
	var omms []OMM
	if err := json.Unmarshal(jsonData, &omms); err != nil {
		return nil, fmt.Errorf("unmarshalling OMM JSON: %w", err)
	}
	return omms, nil
}

// mandatoryOMMFields are the CCSDS fields DecodeOMM requires. The drag model
// identification (BSTAR) is mandatory because the records feed an SGP4
// propagator.
var mandatoryOMMFields = []string{
	"OBJECT_NAME",
	"OBJECT_ID",
	"EPOCH",
	"MEAN_MOTION",
	"ECCENTRICITY",
	"INCLINATION",
	"RA_OF_ASC_NODE",
	"ARG_OF_PERICENTER",
	"MEAN_ANOMALY",
	"NORAD_CAT_ID",
	"BSTAR",
}

// ommFieldUnits maps fields that may carry a CCSDS unit annotation to the
// unit the internal representation expects.
var ommFieldUnits = map[string]string{
	"MEAN_MOTION":       "rev/day",
	"INCLINATION":       "deg",
	"RA_OF_ASC_NODE":    "deg",
	"ARG_OF_PERICENTER": "deg",
	"MEAN_ANOMALY":      "deg",
	"BSTAR":             "1/ER",
	"MEAN_MOTION_DOT":   "rev/day**2",
	"MEAN_MOTION_DDOT":  "rev/day**3",
}

// DecodeOMM decodes a mapping of CCSDS OMM field names to raw string values
// into an ElementSet. Values may carry a bracketed unit annotation as in KVN
// output ("51.6416 [deg]"); an annotation that disagrees with the expected
// unit is rejected with ValidationError. A missing mandatory field is
// reported with MissingFieldError.
func DecodeOMM(fields map[string]string) (ElementSet, error) {
	for _, name := range mandatoryOMMFields {
		if _, ok := fields[name]; !ok {
			return ElementSet{}, &MissingFieldError{Field: name}
		}
	}

	var o OMM
	var err error
	get := func(name string) (string, error) {
		raw, ok := fields[name]
		if !ok {
			return "", nil
		}
		return stripUnit(name, raw)
	}
	getFloat := func(name string, dst *float64) {
		if err != nil {
			return
		}
		var v string
		if v, err = get(name); err != nil || v == "" {
			return
		}
		var f float64
		if f, err = strconv.ParseFloat(v, 64); err != nil {
			err = &ValidationError{Field: name, Value: v, Reason: "not a number"}
			return
		}
		*dst = f
	}
	getInt := func(name string, dst *int) {
		if err != nil {
			return
		}
		var v string
		if v, err = get(name); err != nil || v == "" {
			return
		}
		var n int
		if n, err = strconv.Atoi(v); err != nil {
			err = &ValidationError{Field: name, Value: v, Reason: "not an integer"}
			return
		}
		*dst = n
	}

	o.ObjectName = strings.TrimSpace(fields["OBJECT_NAME"])
	o.ObjectID = strings.TrimSpace(fields["OBJECT_ID"])
	o.Epoch = strings.TrimSpace(fields["EPOCH"])
	o.ClassificationType = strings.TrimSpace(fields["CLASSIFICATION_TYPE"])
	o.CenterName = strings.TrimSpace(fields["CENTER_NAME"])
	o.RefFrame = strings.TrimSpace(fields["REF_FRAME"])
	o.TimeSystem = strings.TrimSpace(fields["TIME_SYSTEM"])
	o.MeanElementTheory = strings.TrimSpace(fields["MEAN_ELEMENT_THEORY"])

	getFloat("MEAN_MOTION", &o.MeanMotion)
	getFloat("ECCENTRICITY", &o.Eccentricity)
	getFloat("INCLINATION", &o.Inclination)
	getFloat("RA_OF_ASC_NODE", &o.RAOfAscNode)
	getFloat("ARG_OF_PERICENTER", &o.ArgOfPericenter)
	getFloat("MEAN_ANOMALY", &o.MeanAnomaly)
	getFloat("BSTAR", &o.BStar)
	getFloat("MEAN_MOTION_DOT", &o.MeanMotionDot)
	getFloat("MEAN_MOTION_DDOT", &o.MeanMotionDDot)
	getInt("NORAD_CAT_ID", &o.NoradCatID)
	getInt("ELEMENT_SET_NO", &o.ElementSetNo)
	getInt("REV_AT_EPOCH", &o.RevAtEpoch)
	getInt("EPHEMERIS_TYPE", &o.EphemerisType)
	if err != nil {
		return ElementSet{}, err
	}

	return o.ElementSet()
}

// stripUnit removes an optional trailing "[unit]" annotation, rejecting
// annotations that disagree with the expected unit for the field.
func stripUnit(name, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	open := strings.Index(v, "[")
	if open < 0 {
		return v, nil
	}
	if !strings.HasSuffix(v, "]") {
		return "", &ValidationError{Field: name, Value: raw, Reason: "unterminated unit annotation"}
	}
	unit := strings.TrimSpace(v[open+1 : len(v)-1])
	want, ok := ommFieldUnits[name]
	if !ok {
		return "", &ValidationError{Field: name, Value: raw, Reason: "field does not take a unit annotation"}
	}
	if !strings.EqualFold(unit, want) {
		return "", &ValidationError{Field: name, Value: raw, Reason: "expected unit " + want}
	}
	return strings.TrimSpace(v[:open]), nil
}

// ElementSet converts the OMM to the internal element-set shape, guaranteeing
// that the OMM path converges on the same normalized fields as the TLE path.
func (o *OMM) ElementSet() (ElementSet, error) {
	if o.MeanElementTheory != "" && o.MeanElementTheory != "SGP4" {
		return ElementSet{}, &ValidationError{Field: "MEAN_ELEMENT_THEORY", Value: o.MeanElementTheory, Reason: "only SGP4 mean elements are supported"}
	}
	if o.RefFrame != "" && o.RefFrame != "TEME" {
		return ElementSet{}, &ValidationError{Field: "REF_FRAME", Value: o.RefFrame, Reason: "only the TEME frame is supported"}
	}
	if o.TimeSystem != "" && o.TimeSystem != "UTC" {
		return ElementSet{}, &ValidationError{Field: "TIME_SYSTEM", Value: o.TimeSystem, Reason: "only UTC epochs are supported"}
	}

	rec := ElementSet{
		Name:             o.ObjectName,
		CatalogNumber:    o.NoradCatID,
		MeanMotionDot:    o.MeanMotionDot,
		MeanMotionDot2:   o.MeanMotionDDot,
		Bstar:            o.BStar,
		Inclination:      o.Inclination,
		RightAscension:   o.RAOfAscNode,
		Eccentricity:     o.Eccentricity,
		ArgOfPerigee:     o.ArgOfPericenter,
		MeanAnomaly:      o.MeanAnomaly,
		MeanMotion:       o.MeanMotion,
		EphemerisType:    o.EphemerisType,
		ElementNumber:    o.ElementSetNo,
		RevolutionNumber: o.RevAtEpoch,
	}

	if o.ClassificationType != "" {
		rec.Classification = Classification(o.ClassificationType[0])
	} else {
		rec.Classification = ClassificationUnclassified
	}

	international, err := objectIDToInternational(o.ObjectID)
	if err != nil {
		return ElementSet{}, err
	}
	rec.International = international

	year, day, err := epochToYearDay(o.Epoch)
	if err != nil {
		return ElementSet{}, err
	}
	rec.EpochYear = year
	rec.EpochDay = day

	if err := rec.Validate(); err != nil {
		return ElementSet{}, err
	}
	return rec, nil
}

// objectIDToInternational converts a CCSDS OBJECT_ID ("1998-067A") to the
// TLE-style international designator ("98067A").
func objectIDToInternational(objectID string) (string, error) {
	parts := strings.Split(objectID, "-")
	if len(parts) != 2 {
		return "", &ValidationError{Field: "OBJECT_ID", Value: objectID, Reason: "expected YYYY-NNNP format"}
	}
	yearStr, launchPiece := parts[0], parts[1]
	if len(yearStr) < 2 || len(launchPiece) < 4 {
		return "", &ValidationError{Field: "OBJECT_ID", Value: objectID, Reason: "expected YYYY-NNNP format"}
	}
	return yearStr[len(yearStr)-2:] + launchPiece, nil
}

// epochToYearDay converts an OMM ISO 8601 epoch to the full year and
// fractional day-of-year used internally.
func epochToYearDay(epoch string) (int, float64, error) {
	t, err := parseEpochTime(epoch)
	if err != nil {
		return 0, 0, &ValidationError{Field: "EPOCH", Value: epoch, Reason: "not an ISO 8601 timestamp"}
	}
	t = t.UTC()

	startOfDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	fraction := float64(t.Sub(startOfDay).Nanoseconds()) / (86400.0 * 1e9)
	return t.Year(), float64(t.YearDay()) + fraction, nil
}

// parseEpochTime parses the epoch layouts seen in OMM documents: RFC 3339
// with or without fractional seconds, and the CCSDS form without a zone
// designator, which is interpreted as UTC.
func parseEpochTime(epoch string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, epoch); err == nil {
			return t, nil
		}
	}
	plain := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	var firstErr error
	for _, layout := range plain {
		t, err := time.ParseInLocation(layout, epoch, time.UTC)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
