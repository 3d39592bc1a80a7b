package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/michealroberts/satelles"
)

// satprop propagates TLE or OMM element sets and prints state vectors in the
// TEME frame. Input records that fail to parse or propagate are logged and
// skipped so one bad element set does not abort a batch run.

type config struct {
	TLEPath  string
	OMMPath  string
	Start    string
	Duration time.Duration
	Step     time.Duration
	LogJSON  bool
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to a satprop config file")
		tlePath  = flag.String("tle", "", "path to a file of TLE records")
		ommPath  = flag.String("omm", "", "path to a JSON file of OMM records")
		start    = flag.String("start", "", "propagation start time, RFC 3339 (default: element epoch)")
		duration = flag.Duration("duration", 0, "propagation window (default: single state at start)")
		step     = flag.Duration("step", time.Minute, "output step within the window")
		logJSON  = flag.Bool("log-json", false, "emit logs as JSON")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "satprop:", err)
		os.Exit(1)
	}
	// Flags take precedence over config file and environment values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tle":
			cfg.TLEPath = *tlePath
		case "omm":
			cfg.OMMPath = *ommPath
		case "start":
			cfg.Start = *start
		case "duration":
			cfg.Duration = *duration
		case "step":
			cfg.Step = *step
		case "log-json":
			cfg.LogJSON = *logJSON
		}
	})

	logger := newLogger(cfg.LogJSON)

	if (cfg.TLEPath == "") == (cfg.OMMPath == "") {
		logger.Error("exactly one of -tle or -omm is required")
		os.Exit(2)
	}

	sets, err := loadElementSets(cfg)
	if err != nil {
		logger.Error("loading element sets", "error", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	failed := 0
	for _, e := range sets {
		if err := propagateOne(out, logger, cfg, e); err != nil {
			failed++
		}
	}
	if failed == len(sets) && len(sets) > 0 {
		os.Exit(1)
	}
}

func newLogger(json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig(path string) (config, error) {
	v := viper.New()
	v.SetDefault("step", time.Minute)
	v.SetEnvPrefix("SATPROP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return config{
		TLEPath:  v.GetString("tle"),
		OMMPath:  v.GetString("omm"),
		Start:    v.GetString("start"),
		Duration: v.GetDuration("duration"),
		Step:     v.GetDuration("step"),
		LogJSON:  v.GetBool("log_json"),
	}, nil
}

func loadElementSets(cfg config) ([]satelles.ElementSet, error) {
	if cfg.OMMPath != "" {
		data, err := os.ReadFile(cfg.OMMPath)
		if err != nil {
			return nil, err
		}
		omms, err := satelles.ParseOMMs(data)
		if err != nil {
			return nil, err
		}
		sets := make([]satelles.ElementSet, 0, len(omms))
		for i := range omms {
			e, err := omms[i].ElementSet()
			if err != nil {
				return nil, fmt.Errorf("OMM %d: %w", i, err)
			}
			sets = append(sets, e)
		}
		return sets, nil
	}

	data, err := os.ReadFile(cfg.TLEPath)
	if err != nil {
		return nil, err
	}
	return parseTLEFile(string(data))
}

// parseTLEFile splits a file into consecutive 2- or 3-line TLE records.
func parseTLEFile(content string) ([]satelles.ElementSet, error) {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var sets []satelles.ElementSet
	for i := 0; i < len(lines); {
		if strings.HasPrefix(lines[i], "1 ") {
			if i+1 >= len(lines) {
				return nil, fmt.Errorf("truncated TLE record at line %d", i+1)
			}
			e, err := satelles.ParseTLELines(lines[i], lines[i+1])
			if err != nil {
				return nil, err
			}
			sets = append(sets, e)
			i += 2
			continue
		}
		if i+2 >= len(lines) {
			return nil, fmt.Errorf("truncated TLE record at line %d", i+1)
		}
		e, err := satelles.ParseNamedTLE(lines[i], lines[i+1], lines[i+2])
		if err != nil {
			return nil, err
		}
		sets = append(sets, e)
		i += 3
	}
	return sets, nil
}

func propagateOne(out *bufio.Writer, logger *slog.Logger, cfg config, e satelles.ElementSet) error {
	log := logger.With("catalog", e.CatalogNumber, "name", e.Name)

	prop, err := satelles.NewPropagator(e)
	if err != nil {
		log.Error("initializing propagator", "error", err)
		return err
	}
	log.Info("propagating",
		"model", prop.Model().String(),
		"epoch", e.Epoch().Format(time.RFC3339),
	)

	start := e.Epoch()
	if cfg.Start != "" {
		start, err = time.Parse(time.RFC3339, cfg.Start)
		if err != nil {
			log.Error("parsing start time", "error", err)
			return err
		}
	}

	step := cfg.Step
	if step <= 0 {
		step = time.Minute
	}
	end := start.Add(cfg.Duration)
	for t := start; !t.After(end); t = t.Add(step) {
		state, err := prop.PropagateAt(t)
		if err != nil {
			log.Error("propagation failed", "time", t.Format(time.RFC3339), "error", err)
			return err
		}
		fmt.Fprintf(out, "%d %s % .6f % .6f % .6f % .9f % .9f % .9f\n",
			e.CatalogNumber, t.UTC().Format(time.RFC3339),
			state.Position.X, state.Position.Y, state.Position.Z,
			state.Velocity.X, state.Velocity.Y, state.Velocity.Z)
	}
	return nil
}
