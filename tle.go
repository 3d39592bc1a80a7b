package satelles

import (
	"math"
	"strconv"
	"strings"
)

// tleLineLength is the fixed width of both TLE lines, checksum included.
const tleLineLength = 69

// maxNameLength is the maximum length of the optional record-name line.
const maxNameLength = 24

// ParseTLE parses a two-line element set and returns an ElementSet. The input
// may carry an optional preceding name line (up to 24 characters), making it
// a three-line record.
//
// Parsing is a pure function of the input text: the overall shape is checked
// first (FormatError), then each line's trailing modulo-10 checksum
// (ChecksumError), then the individual fields (FieldParseError), and finally
// the element-set invariants (ValidationError).
func ParseTLE(input string) (ElementSet, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \r")
	}

	switch len(lines) {
	case 2:
		return ParseTLELines(lines[0], lines[1])
	case 3:
		return ParseNamedTLE(lines[0], lines[1], lines[2])
	default:
		return ElementSet{}, &FormatError{Reason: "record must contain 2 or 3 lines"}
	}
}

// ParseNamedTLE parses a TLE record with a separate name line.
func ParseNamedTLE(name, line1, line2 string) (ElementSet, error) {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		return ElementSet{}, &FormatError{Reason: "name line exceeds 24 characters"}
	}
	rec, err := ParseTLELines(line1, line2)
	if err != nil {
		return ElementSet{}, err
	}
	rec.Name = name
	return rec, nil
}

// ParseTLELines parses the two 69-character element lines of a TLE record.
func ParseTLELines(line1, line2 string) (ElementSet, error) {
	if len(line1) != tleLineLength {
		return ElementSet{}, &FormatError{Line: 1, Reason: "must be 69 characters, got " + strconv.Itoa(len(line1))}
	}
	if len(line2) != tleLineLength {
		return ElementSet{}, &FormatError{Line: 2, Reason: "must be 69 characters, got " + strconv.Itoa(len(line2))}
	}
	if line1[0] != '1' {
		return ElementSet{}, &FormatError{Line: 1, Reason: "must begin with '1'"}
	}
	if line2[0] != '2' {
		return ElementSet{}, &FormatError{Line: 2, Reason: "must begin with '2'"}
	}

	// Checksums are verified before field decoding: a corrupted line is
	// rejected as a whole rather than blamed on whichever field happens to
	// fail first.
	if err := verifyChecksum(line1, 1); err != nil {
		return ElementSet{}, err
	}
	if err := verifyChecksum(line2, 2); err != nil {
		return ElementSet{}, err
	}

	var rec ElementSet
	if err := rec.parseLine1(line1); err != nil {
		return ElementSet{}, err
	}
	if err := rec.parseLine2(line2); err != nil {
		return ElementSet{}, err
	}
	if err := rec.Validate(); err != nil {
		return ElementSet{}, err
	}
	return rec, nil
}

func (rec *ElementSet) parseLine1(line string) error {
	var err error

	rec.CatalogNumber, err = strconv.Atoi(strings.TrimSpace(line[2:7]))
	if err != nil {
		return &FieldParseError{Line: 1, Field: "catalog number", Raw: line[2:7], Err: err}
	}

	rec.Classification = Classification(line[7])
	rec.International = strings.TrimSpace(line[9:17])

	yearVal, err := strconv.Atoi(strings.TrimSpace(line[18:20]))
	if err != nil {
		return &FieldParseError{Line: 1, Field: "epoch year", Raw: line[18:20], Err: err}
	}
	// Documented pivot: two-digit years below 57 are in the 2000s, the rest
	// in the 1900s.
	if yearVal < 57 {
		rec.EpochYear = 2000 + yearVal
	} else {
		rec.EpochYear = 1900 + yearVal
	}

	rec.EpochDay, err = strconv.ParseFloat(strings.TrimSpace(line[20:32]), 64)
	if err != nil {
		return &FieldParseError{Line: 1, Field: "epoch day", Raw: line[20:32], Err: err}
	}

	rec.MeanMotionDot, err = parseSignOptionalDecimal(line[33:43])
	if err != nil {
		return &FieldParseError{Line: 1, Field: "first derivative of mean motion", Raw: line[33:43], Err: err}
	}

	rec.MeanMotionDot2, err = parseImpliedExponential(line[44:52])
	if err != nil {
		return &FieldParseError{Line: 1, Field: "second derivative of mean motion", Raw: line[44:52], Err: err}
	}

	rec.Bstar, err = parseImpliedExponential(line[53:61])
	if err != nil {
		return &FieldParseError{Line: 1, Field: "B* drag term", Raw: line[53:61], Err: err}
	}

	rec.EphemerisType, err = strconv.Atoi(strings.TrimSpace(line[62:63]))
	if err != nil {
		return &FieldParseError{Line: 1, Field: "ephemeris type", Raw: line[62:63], Err: err}
	}

	rec.ElementNumber, err = strconv.Atoi(strings.TrimSpace(line[64:68]))
	if err != nil {
		return &FieldParseError{Line: 1, Field: "element set number", Raw: line[64:68], Err: err}
	}

	rec.CheckSum1 = int(line[68] - '0')
	return nil
}

func (rec *ElementSet) parseLine2(line string) error {
	satNum, err := strconv.Atoi(strings.TrimSpace(line[2:7]))
	if err != nil {
		return &FieldParseError{Line: 2, Field: "catalog number", Raw: line[2:7], Err: err}
	}
	if satNum != rec.CatalogNumber {
		return &FormatError{Line: 2, Reason: "catalog numbers do not match between lines"}
	}

	rec.Inclination, err = strconv.ParseFloat(strings.TrimSpace(line[8:16]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "inclination", Raw: line[8:16], Err: err}
	}

	rec.RightAscension, err = strconv.ParseFloat(strings.TrimSpace(line[17:25]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "right ascension of ascending node", Raw: line[17:25], Err: err}
	}

	// Eccentricity has an implied leading "0." in columns 27-33.
	rec.Eccentricity, err = strconv.ParseFloat("0."+strings.TrimSpace(line[26:33]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "eccentricity", Raw: line[26:33], Err: err}
	}

	rec.ArgOfPerigee, err = strconv.ParseFloat(strings.TrimSpace(line[34:42]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "argument of perigee", Raw: line[34:42], Err: err}
	}

	rec.MeanAnomaly, err = strconv.ParseFloat(strings.TrimSpace(line[43:51]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "mean anomaly", Raw: line[43:51], Err: err}
	}

	rec.MeanMotion, err = strconv.ParseFloat(strings.TrimSpace(line[52:63]), 64)
	if err != nil {
		return &FieldParseError{Line: 2, Field: "mean motion", Raw: line[52:63], Err: err}
	}

	rec.RevolutionNumber, err = strconv.Atoi(strings.TrimSpace(line[63:68]))
	if err != nil {
		return &FieldParseError{Line: 2, Field: "revolution number", Raw: line[63:68], Err: err}
	}

	rec.CheckSum2 = int(line[68] - '0')
	return nil
}

// parseSignOptionalDecimal parses the first-derivative field, which carries
// an optional sign and an implied leading zero before the decimal point,
// e.g. " .00007749" or "-.00001234".
func parseSignOptionalDecimal(s string) (float64, error) {
	v := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(v, "."):
		v = "0" + v
	case strings.HasPrefix(v, "-."):
		v = "-0" + v[1:]
	case strings.HasPrefix(v, "+."):
		v = "0" + v[1:]
	}
	return strconv.ParseFloat(v, 64)
}

// parseImpliedExponential parses the implied-decimal-point exponential fields
// (second derivative and B*): a sign-optional five-digit mantissa scaled by
// 1e-5 followed by a signed one-digit exponent, e.g. " 14567-3" meaning
// 0.14567e-3.
func parseImpliedExponential(s string) (float64, error) {
	mantissa, err := strconv.ParseFloat(strings.TrimSpace(s[:6]), 64)
	if err != nil {
		return 0, err
	}
	exponent, err := strconv.ParseInt(strings.TrimSpace(strings.Replace(s[6:8], "+", "", 1)), 10, 64)
	if err != nil {
		return 0, err
	}
	return mantissa * 1e-5 * math.Pow(10, float64(exponent)), nil
}

// verifyChecksum checks a line's trailing modulo-10 checksum digit.
func verifyChecksum(line string, lineNo int) error {
	want := line[68]
	if want < '0' || want > '9' {
		return &FieldParseError{Line: lineNo, Field: "checksum", Raw: line[68:69], Err: strconv.ErrSyntax}
	}
	got := calculateChecksum(line)
	if got != int(want-'0') {
		return &ChecksumError{Line: lineNo, Want: int(want - '0'), Got: got}
	}
	return nil
}

// calculateChecksum computes the modulo-10 checksum over the first 68
// characters of a TLE line: digits count their value, '-' counts as 1, and
// every other character counts as 0.
func calculateChecksum(line string) int {
	sum := 0
	for i := 0; i < 68; i++ {
		c := line[i]
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
