package satelles

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Consolidated Prediction Format (CPF) ephemerides, the laser-ranging
// prediction format distributed by the ILRS. Only the records needed to
// recover target identity and the position/velocity table are parsed; comment
// ("00") and unknown records are skipped.

// cpfH1Regex matches the basic header line, e.g.
//
//	H1 CPF  2 ESA 2025  6  5 10 156 01 galileo101
var cpfH1Regex = regexp.MustCompile(
	`^H1\s+CPF\s+(?P<version>\d)\s+(?P<source>[A-Za-z0-9]{3})\s+` +
		`(?P<year>\d{4})\s+(?P<month>\d{1,2})\s+(?P<day>\d{1,2})\s+(?P<hour>\d{1,2})\s+` +
		`(?P<seq>\d{1,3})\s+(?P<subseq>\d{1,2})\s+(?P<target>\S{1,10})` +
		`(?:\s+(?P<notes>\S{1,10}))?$`,
)

// CPFHeader is the H1 basic header record.
type CPFHeader struct {
	Version          int
	EphemerisSource  string
	Produced         time.Time // year/month/day/hour of production
	SequenceNumber   int
	SubDailySequence int
	TargetName       string
	Notes            string
}

// CPFTarget is the H2 target identity and coverage record.
type CPFTarget struct {
	CosparID       string
	SIC            string
	NoradID        int
	Start          time.Time
	End            time.Time
	Interval       time.Duration // spacing between ephemeris entries
	TIVCompatible  bool
	TargetClass    int
	ReferenceFrame int
	RotationType   int
	CenterOfMass   bool
	TargetDynamics int
}

// CPFPosition is a type 10 ephemeris position record, in meters.
type CPFPosition struct {
	Direction    int // 0 common epoch, 1 transmit, 2 receive
	MJD          int
	SecondsOfDay float64
	LeapSecond   int
	Position     r3.Vec
}

// Time returns the UTC epoch of the position record.
func (p CPFPosition) Time() time.Time {
	return TimeFromModifiedJulianDate(float64(p.MJD) + p.SecondsOfDay/86400.0)
}

// CPFVelocity is a type 20 velocity record, in m/s.
type CPFVelocity struct {
	Direction int
	Velocity  r3.Vec
}

// CPFCorrection is a type 30 corrections record: stellar aberration offsets
// in meters and the relativistic range correction in nanoseconds.
type CPFCorrection struct {
	Direction       int
	Aberration      r3.Vec
	RangeCorrection float64
}

// CPF is a parsed prediction file.
type CPF struct {
	Header      CPFHeader
	Target      CPFTarget
	Positions   []CPFPosition
	Velocities  []CPFVelocity
	Corrections []CPFCorrection
}

// Interpolator returns a barycentric interpolator over the position table,
// with the time coordinate in seconds (MJD day number times 86400 plus
// seconds of day).
func (c *CPF) Interpolator() (*BarycentricInterpolator, error) {
	samples := make([]Position, len(c.Positions))
	for i, p := range c.Positions {
		samples[i] = Position{
			X:  p.Position.X,
			Y:  p.Position.Y,
			Z:  p.Position.Z,
			At: float64(p.MJD)*86400.0 + p.SecondsOfDay,
		}
	}
	return NewBarycentricInterpolator(samples)
}

// ParseCPF reads a CPF prediction file. A "99" record ends the file; records
// of unknown type are ignored.
func ParseCPF(r io.Reader) (*CPF, error) {
	var (
		cpf       CPF
		sawH1     bool
		sawH2     bool
		lineNo    int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "H1"):
			h, err := parseCPFH1(line, lineNo)
			if err != nil {
				return nil, err
			}
			cpf.Header = h
			sawH1 = true
		case strings.HasPrefix(line, "H2"):
			t, err := parseCPFH2(line, lineNo)
			if err != nil {
				return nil, err
			}
			cpf.Target = t
			sawH2 = true
		case strings.HasPrefix(line, "10 "):
			p, err := parseCPFPosition(line, lineNo)
			if err != nil {
				return nil, err
			}
			cpf.Positions = append(cpf.Positions, p)
		case strings.HasPrefix(line, "20 "):
			v, err := parseCPFVelocity(line, lineNo)
			if err != nil {
				return nil, err
			}
			cpf.Velocities = append(cpf.Velocities, v)
		case strings.HasPrefix(line, "30 "):
			c, err := parseCPFCorrection(line, lineNo)
			if err != nil {
				return nil, err
			}
			cpf.Corrections = append(cpf.Corrections, c)
		case strings.HasPrefix(line, "99"):
			if !sawH1 || !sawH2 {
				return nil, &FormatError{Line: lineNo, Reason: "end of file before H1/H2 headers"}
			}
			return &cpf, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawH1 || !sawH2 {
		return nil, &FormatError{Reason: "missing H1/H2 header records"}
	}
	return &cpf, nil
}

func parseCPFH1(line string, lineNo int) (CPFHeader, error) {
	m := cpfH1Regex.FindStringSubmatch(line)
	if m == nil {
		return CPFHeader{}, &FormatError{Line: lineNo, Reason: "malformed H1 record"}
	}
	field := func(name string) string { return m[cpfH1Regex.SubexpIndex(name)] }

	var h CPFHeader
	var err error
	h.Version, err = strconv.Atoi(field("version"))
	if err != nil {
		return CPFHeader{}, &FieldParseError{Line: lineNo, Field: "version", Raw: field("version"), Err: err}
	}
	h.EphemerisSource = field("source")

	year, _ := strconv.Atoi(field("year"))
	month, _ := strconv.Atoi(field("month"))
	day, _ := strconv.Atoi(field("day"))
	hour, _ := strconv.Atoi(field("hour"))
	h.Produced = time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)

	h.SequenceNumber, err = strconv.Atoi(field("seq"))
	if err != nil {
		return CPFHeader{}, &FieldParseError{Line: lineNo, Field: "ephemeris sequence number", Raw: field("seq"), Err: err}
	}
	h.SubDailySequence, err = strconv.Atoi(field("subseq"))
	if err != nil {
		return CPFHeader{}, &FieldParseError{Line: lineNo, Field: "sub-daily sequence number", Raw: field("subseq"), Err: err}
	}
	h.TargetName = field("target")
	h.Notes = field("notes")
	return h, nil
}

func parseCPFH2(line string, lineNo int) (CPFTarget, error) {
	fields := strings.Fields(line)
	if len(fields) != 23 || fields[0] != "H2" {
		return CPFTarget{}, &FormatError{Line: lineNo, Reason: "malformed H2 record"}
	}

	ints := make([]int, 0, 20)
	for _, raw := range fields[3:] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return CPFTarget{}, &FieldParseError{Line: lineNo, Field: "H2 numeric field", Raw: raw, Err: err}
		}
		ints = append(ints, n)
	}

	noradID, err := strconv.Atoi(fields[3])
	if err != nil {
		return CPFTarget{}, &FieldParseError{Line: lineNo, Field: "NORAD ID", Raw: fields[3], Err: err}
	}

	t := CPFTarget{
		CosparID: fields[1],
		SIC:      fields[2],
		NoradID:  noradID,
		Start: time.Date(ints[1], time.Month(ints[2]), ints[3],
			ints[4], ints[5], ints[6], 0, time.UTC),
		End: time.Date(ints[7], time.Month(ints[8]), ints[9],
			ints[10], ints[11], ints[12], 0, time.UTC),
		Interval:       time.Duration(ints[13]) * time.Second,
		TIVCompatible:  ints[14] != 0,
		TargetClass:    ints[15],
		ReferenceFrame: ints[16],
		RotationType:   ints[17],
		CenterOfMass:   ints[18] != 0,
	}
	if len(ints) > 19 {
		t.TargetDynamics = ints[19]
	}
	return t, nil
}

func parseCPFPosition(line string, lineNo int) (CPFPosition, error) {
	fields := strings.Fields(line)
	if len(fields) != 8 {
		return CPFPosition{}, &FormatError{Line: lineNo, Reason: "position record must have 8 fields"}
	}
	var p CPFPosition
	var err error
	if p.Direction, err = strconv.Atoi(fields[1]); err != nil {
		return CPFPosition{}, &FieldParseError{Line: lineNo, Field: "direction flag", Raw: fields[1], Err: err}
	}
	if p.MJD, err = strconv.Atoi(fields[2]); err != nil {
		return CPFPosition{}, &FieldParseError{Line: lineNo, Field: "MJD", Raw: fields[2], Err: err}
	}
	if p.SecondsOfDay, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return CPFPosition{}, &FieldParseError{Line: lineNo, Field: "seconds of day", Raw: fields[3], Err: err}
	}
	if p.LeapSecond, err = strconv.Atoi(fields[4]); err != nil {
		return CPFPosition{}, &FieldParseError{Line: lineNo, Field: "leap second flag", Raw: fields[4], Err: err}
	}
	vec, err := parseCPFVec(fields[5:8], lineNo, "position component")
	if err != nil {
		return CPFPosition{}, err
	}
	p.Position = vec
	return p, nil
}

func parseCPFVelocity(line string, lineNo int) (CPFVelocity, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return CPFVelocity{}, &FormatError{Line: lineNo, Reason: "velocity record must have 5 fields"}
	}
	var v CPFVelocity
	var err error
	if v.Direction, err = strconv.Atoi(fields[1]); err != nil {
		return CPFVelocity{}, &FieldParseError{Line: lineNo, Field: "direction flag", Raw: fields[1], Err: err}
	}
	vec, err := parseCPFVec(fields[2:5], lineNo, "velocity component")
	if err != nil {
		return CPFVelocity{}, err
	}
	v.Velocity = vec
	return v, nil
}

func parseCPFCorrection(line string, lineNo int) (CPFCorrection, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return CPFCorrection{}, &FormatError{Line: lineNo, Reason: "corrections record must have 6 fields"}
	}
	var c CPFCorrection
	var err error
	if c.Direction, err = strconv.Atoi(fields[1]); err != nil {
		return CPFCorrection{}, &FieldParseError{Line: lineNo, Field: "direction flag", Raw: fields[1], Err: err}
	}
	vec, err := parseCPFVec(fields[2:5], lineNo, "aberration component")
	if err != nil {
		return CPFCorrection{}, err
	}
	c.Aberration = vec
	if c.RangeCorrection, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return CPFCorrection{}, &FieldParseError{Line: lineNo, Field: "range correction", Raw: fields[5], Err: err}
	}
	return c, nil
}

func parseCPFVec(fields []string, lineNo int, name string) (r3.Vec, error) {
	var out [3]float64
	for i, raw := range fields {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return r3.Vec{}, &FieldParseError{Line: lineNo, Field: name, Raw: raw, Err: err}
		}
		out[i] = v
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}, nil
}
