package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calunit/internal/calsys"
)

func TestLoad_CreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_NormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
calendar:
  timezone: America/New_York
  week_start: Sunday
cache:
  retention_factor: 3
ics:
  - id: work
    path: work.ics
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "sunday", cfg.Calendar.WeekStart)
	assert.Equal(t, calsys.KindGregorian, cfg.Calendar.Kind)
	assert.Equal(t, 0.5, cfg.Cache.RetentionFactor)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "work.ics"), ResolvePath(path, cfg.ICS[0].Path))

	cal, err := cfg.BuildCalendar()
	require.NoError(t, err)
	assert.Equal(t, int(time.Sunday)+1, cal.Key().FirstWeekday)
	assert.Equal(t, "America/New_York", cal.Key().Zone)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"bad timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, false},
		{"bad cron", func(c *Config) { c.Cache.PurgeCron = "every hour" }, false},
		{"no purge", func(c *Config) { c.Cache.PurgeCron = "" }, true},
		{"unknown kind", func(c *Config) { c.Calendar.Kind = "lunar" }, false},
		{"uniform without shape", func(c *Config) { c.Calendar.Kind = calsys.KindUniform }, false},
		{"uniform", func(c *Config) {
			c.Calendar.Kind = calsys.KindUniform
			c.Calendar.Uniform = &UniformConfig{MonthsPerYear: 13, DaysPerMonth: 28, DaysPerWeek: 10, EpochYear: 1}
		}, true},
		{"duplicate ics", func(c *Config) {
			c.ICS = []ICSConfig{{ID: "a", Path: "a.ics"}, {ID: "a", Path: "b.ics"}}
		}, false},
		{"ics without path", func(c *Config) { c.ICS = []ICSConfig{{ID: "a"}} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBuildCalendar_Uniform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calendar.Kind = calsys.KindUniform
	cfg.Calendar.Timezone = "UTC"
	cfg.Calendar.Uniform = &UniformConfig{MonthsPerYear: 13, DaysPerMonth: 28, DaysPerWeek: 10, EpochYear: 1}

	cal, err := cfg.BuildCalendar()
	require.NoError(t, err)
	rules := cal.Key()
	assert.Equal(t, calsys.KindUniform, rules.Kind)
	assert.Equal(t, 13, rules.MonthsPerYear)
	assert.Equal(t, 1, rules.FirstWeekday)
}

func TestSave_RoundTripsUnitCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Cache.Threshold = 128
	cfg.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, loaded.UnitCache().Threshold)
	assert.Equal(t, 0.5, loaded.UnitCache().RetentionFactor)
	require.NotNil(t, loaded.BasicAuth)
	assert.Equal(t, "u", loaded.BasicAuth.Username)
}
