package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrMissingEnv is returned when a required environment variable is unset.
var ErrMissingEnv = errors.New("missing required environment variable")

// Config 应用配置
type Config struct {
	SourceFolder      string
	DestinationFolder string
	ChallengeFile     string
	SubmissionFile    string
	OutputFile        string

	// TrajectoryExtension selects which files in SourceFolder are trajectories.
	TrajectoryExtension string

	// DBPath enables the sqlite feature store when non-empty.
	DBPath string

	Features FeatureParams `toml:"features"`
	Log      LogConfig     `toml:"log"`
}

// FeatureParams holds the thresholds used by the feature extraction stages.
type FeatureParams struct {
	PlateauGraceMinutes      float64 `toml:"plateau_grace_minutes"`
	PlateauAltitudeTolerance float64 `toml:"plateau_altitude_tolerance_ft"`
	ClimbAltitudeRatio       float64 `toml:"climb_altitude_ratio"`
	ClimbVerticalRateLimit   float64 `toml:"climb_vertical_rate_limit"`
	ConsistentAirspeedAngle  bool    `toml:"consistent_airspeed_angle"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PlateauGrace returns the grace period after take-off during which no
// plateau is searched for.
func (p FeatureParams) PlateauGrace() time.Duration {
	return time.Duration(p.PlateauGraceMinutes * float64(time.Minute))
}

// DefaultFeatureParams returns the thresholds of the reference job.
func DefaultFeatureParams() FeatureParams {
	return FeatureParams{
		PlateauGraceMinutes:      10,
		PlateauAltitudeTolerance: 200,
		ClimbAltitudeRatio:       0.7,
		ClimbVerticalRateLimit:   1000,
	}
}

// ChallengePath is the absolute location of the challenge metadata table.
func (c *Config) ChallengePath() string {
	return filepath.Join(c.SourceFolder, c.ChallengeFile)
}

// SubmissionPath is the absolute location of the submission metadata table.
func (c *Config) SubmissionPath() string {
	return filepath.Join(c.SourceFolder, c.SubmissionFile)
}

// OutputPath is where the combined feature table is written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.DestinationFolder, c.OutputFile)
}

// Load 加载配置
//
// Defaults are overlaid by the optional TOML file named in PREPROCESS_CONFIG,
// which is in turn overlaid by environment variables.
func Load() (*Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{
		TrajectoryExtension: ".parquet",
		Features:            DefaultFeatureParams(),
		Log:                 LogConfig{Level: "info", Format: "console"},
	}

	if path, ok := lookup("PREPROCESS_CONFIG"); ok && path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	required := []struct {
		name string
		dst  *string
	}{
		{"SOURCE_FOLDER", &cfg.SourceFolder},
		{"DESTINATION_FOLDER", &cfg.DestinationFolder},
		{"CHALLENGE_FILE", &cfg.ChallengeFile},
		{"SUBMISSION_FILE", &cfg.SubmissionFile},
		{"TRAJECTORY_PREPROCESSING_00_FILE", &cfg.OutputFile},
	}
	for _, r := range required {
		v, ok := lookup(r.name)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingEnv, r.name)
		}
		*r.dst = v
	}

	if v, ok := lookup("TRAJECTORY_EXTENSION"); ok && v != "" {
		cfg.TrajectoryExtension = v
	}
	if v, ok := lookup("FEATURES_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		cfg.Log.Format = v
	}
	if v, ok := lookup("CONSISTENT_AIRSPEED_ANGLE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CONSISTENT_AIRSPEED_ANGLE %q: %w", v, err)
		}
		cfg.Features.ConsistentAirspeedAngle = b
	}

	return cfg, nil
}
