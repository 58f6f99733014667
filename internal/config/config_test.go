package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"SOURCE_FOLDER":                    "/data/in",
		"DESTINATION_FOLDER":               "/data/out",
		"CHALLENGE_FILE":                   "challenge_set.csv",
		"SUBMISSION_FILE":                  "submission_set.csv",
		"TRAJECTORY_PREPROCESSING_00_FILE": "trajectory_features.csv",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envLookup(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "/data/in/challenge_set.csv", cfg.ChallengePath())
	assert.Equal(t, "/data/in/submission_set.csv", cfg.SubmissionPath())
	assert.Equal(t, "/data/out/trajectory_features.csv", cfg.OutputPath())
	assert.Equal(t, ".parquet", cfg.TrajectoryExtension)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, DefaultFeatureParams(), cfg.Features)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "10m0s", cfg.Features.PlateauGrace().String())
}

func TestLoadMissingVariable(t *testing.T) {
	for _, name := range []string{
		"SOURCE_FOLDER", "DESTINATION_FOLDER", "CHALLENGE_FILE",
		"SUBMISSION_FILE", "TRAJECTORY_PREPROCESSING_00_FILE",
	} {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			delete(env, name)
			_, err := load(envLookup(env))
			require.ErrorIs(t, err, ErrMissingEnv)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preprocess.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[features]
plateau_grace_minutes = 5
plateau_altitude_tolerance_ft = 100
climb_altitude_ratio = 0.8
climb_vertical_rate_limit = 1500

[log]
level = "debug"
format = "json"
`), 0o644))

	env := baseEnv()
	env["PREPROCESS_CONFIG"] = path
	env["LOG_FORMAT"] = "console"
	env["CONSISTENT_AIRSPEED_ANGLE"] = "true"
	env["FEATURES_DB_PATH"] = "/tmp/features.db"

	cfg, err := load(envLookup(env))
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Features.PlateauGraceMinutes)
	assert.Equal(t, 100.0, cfg.Features.PlateauAltitudeTolerance)
	assert.Equal(t, 0.8, cfg.Features.ClimbAltitudeRatio)
	assert.Equal(t, 1500.0, cfg.Features.ClimbVerticalRateLimit)
	assert.True(t, cfg.Features.ConsistentAirspeedAngle)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/tmp/features.db", cfg.DBPath)
}

func TestLoadBadInputs(t *testing.T) {
	env := baseEnv()
	env["PREPROCESS_CONFIG"] = filepath.Join(t.TempDir(), "missing.toml")
	_, err := load(envLookup(env))
	assert.Error(t, err)

	env = baseEnv()
	env["CONSISTENT_AIRSPEED_ANGLE"] = "maybe"
	_, err = load(envLookup(env))
	assert.Error(t, err)
}
