package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"calunit/internal/calsys"
	"calunit/internal/unitcache"
)

// ICSConfig describes a local ICS file shown in agendas.
type ICSConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Path is the ICS file location, relative to the config file when not
	// absolute.
	Path string `yaml:"path" json:"path"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// UniformConfig is the shape of a "uniform" calendar.
type UniformConfig struct {
	MonthsPerYear int `yaml:"months_per_year" json:"months_per_year"`
	DaysPerMonth  int `yaml:"days_per_month" json:"days_per_month"`
	DaysPerWeek   int `yaml:"days_per_week" json:"days_per_week"`
	EpochYear     int `yaml:"epoch_year" json:"epoch_year"`
	// FirstWeekday is 1-based; 0 means 1.
	FirstWeekday int `yaml:"first_weekday" json:"first_weekday"`
}

// CalendarConfig selects the calendar system.
type CalendarConfig struct {
	// Kind is "gregorian" (default) or "uniform".
	Kind string `yaml:"kind" json:"kind"`

	// Timezone is the IANA timezone days are computed in (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls which weekday is treated as the first day of the
	// week. Supported values:
	//   - "monday" (default)
	//   - "sunday"
	//   - "saturday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// MinDaysInFirstWeek is how many days of a month the first week needs
	// to be numbered 1 rather than 0.
	MinDaysInFirstWeek int `yaml:"min_days_in_first_week" json:"min_days_in_first_week"`

	// Locale picks the month and weekday names ("en", "ko", "de").
	Locale string `yaml:"locale" json:"locale"`

	Uniform *UniformConfig `yaml:"uniform,omitempty" json:"uniform,omitempty"`
}

// CacheConfig tunes the shared unit cache.
type CacheConfig struct {
	Threshold       int     `yaml:"threshold" json:"threshold"`
	RetentionFactor float64 `yaml:"retention_factor" json:"retention_factor"`
	// PurgeCron is a cron-style schedule (e.g. "0 * * * *") for periodic
	// purges in serve mode. Empty disables it.
	PurgeCron string `yaml:"purge_cron" json:"purge_cron"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Calendar CalendarConfig `yaml:"calendar" json:"calendar"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`

	// ICS is the list of local ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

var weekStarts = map[string]time.Weekday{
	"sunday":   time.Sunday,
	"monday":   time.Monday,
	"saturday": time.Saturday,
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:8080",
		LogLevel: "info",
		Calendar: CalendarConfig{
			Kind:               calsys.KindGregorian,
			Timezone:           "Asia/Seoul",
			WeekStart:          "monday",
			MinDaysInFirstWeek: 1,
			Locale:             "en",
		},
		Cache: CacheConfig{
			Threshold:       unitcache.DefaultThreshold,
			RetentionFactor: unitcache.DefaultRetentionFactor,
			PurgeCron:       "0 * * * *",
		},
		ICS: []ICSConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Calendar.Kind == "" {
		c.Calendar.Kind = def.Calendar.Kind
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = def.Calendar.Timezone
	}
	c.Calendar.WeekStart = strings.ToLower(c.Calendar.WeekStart)
	if _, ok := weekStarts[c.Calendar.WeekStart]; !ok {
		// Unknown value; fall back to monday to avoid surprising layouts.
		c.Calendar.WeekStart = def.Calendar.WeekStart
	}
	if c.Calendar.MinDaysInFirstWeek <= 0 {
		c.Calendar.MinDaysInFirstWeek = def.Calendar.MinDaysInFirstWeek
	}
	if c.Calendar.Locale == "" {
		c.Calendar.Locale = def.Calendar.Locale
	}
	if c.Cache.Threshold <= 0 {
		c.Cache.Threshold = def.Cache.Threshold
	}
	if !(c.Cache.RetentionFactor > 0 && c.Cache.RetentionFactor <= 1) {
		c.Cache.RetentionFactor = def.Cache.RetentionFactor
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Validate reports settings that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	switch c.Calendar.Kind {
	case calsys.KindGregorian:
	case calsys.KindUniform:
		if c.Calendar.Uniform == nil {
			return errors.New("calendar.uniform: required for uniform calendars")
		}
		if err := c.shape().Validate(); err != nil {
			return fmt.Errorf("calendar.uniform: %w", err)
		}
	default:
		return fmt.Errorf("calendar.kind: %w: %q", calsys.ErrUnknownKind, c.Calendar.Kind)
	}
	if c.Cache.PurgeCron != "" {
		if _, err := cron.ParseStandard(c.Cache.PurgeCron); err != nil {
			return fmt.Errorf("cache.purge_cron: %w", err)
		}
	}
	seen := make(map[string]bool, len(c.ICS))
	for i, src := range c.ICS {
		if src.ID == "" || src.Path == "" {
			return fmt.Errorf("ics[%d]: id and path are required", i)
		}
		if seen[src.ID] {
			return fmt.Errorf("ics[%d]: duplicate id %q", i, src.ID)
		}
		seen[src.ID] = true
	}
	return nil
}

func (c *Config) shape() calsys.Shape {
	u := c.Calendar.Uniform
	if u == nil {
		return calsys.Shape{}
	}
	first := u.FirstWeekday
	if first == 0 {
		first = 1
	}
	return calsys.Shape{
		MonthsPerYear:      u.MonthsPerYear,
		DaysPerMonth:       u.DaysPerMonth,
		DaysPerWeek:        u.DaysPerWeek,
		EpochYear:          u.EpochYear,
		FirstWeekday:       first,
		MinDaysInFirstWeek: c.Calendar.MinDaysInFirstWeek,
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// BuildCalendar builds the configured calendar system.
func (c *Config) BuildCalendar() (*calsys.Handle, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	h, err := calsys.New(calsys.Config{
		Kind:               c.Calendar.Kind,
		Location:           loc,
		Locale:             c.Calendar.Locale,
		FirstWeekday:       weekStarts[c.Calendar.WeekStart],
		MinDaysInFirstWeek: c.Calendar.MinDaysInFirstWeek,
		Shape:              c.shape(),
	})
	if err != nil {
		return nil, fmt.Errorf("build calendar: %w", err)
	}
	return h, nil
}

// UnitCache returns the unit cache tunables.
func (c *Config) UnitCache() unitcache.Config {
	return unitcache.Config{Threshold: c.Cache.Threshold, RetentionFactor: c.Cache.RetentionFactor}
}

// ResolvePath returns an ICS path relative to the config file directory.
func ResolvePath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - If the file exists, it is unmarshalled, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically via
// a temp file + rename, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calunit-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
