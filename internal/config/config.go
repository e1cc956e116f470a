package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"caiso-reports/internal/oasis"
	"caiso-reports/internal/tz"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Timezone string `yaml:"timezone"`
	// Delay is the pause between consecutive requests.
	Delay time.Duration `yaml:"delay"`
	// HTTPTimeout bounds each request. Zero waits indefinitely.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	FailFast    bool          `yaml:"fail_fast"`
	// OutputDir prefixes relative output paths.
	OutputDir string `yaml:"output_dir"`

	Renewables RenewablesConfig `yaml:"renewables"`
	OASIS      OASISConfig      `yaml:"oasis"`
}

type RenewablesConfig struct {
	BaseURL      string `yaml:"base_url"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`
	BreakdownOut string `yaml:"breakdown_out"`
	ResourceOut  string `yaml:"resource_out"`
}

type OASISConfig struct {
	BaseURL   string `yaml:"base_url"`
	Query     string `yaml:"query"`
	Node      string `yaml:"node"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	// Out defaults to {node}_{market}_{query}.csv.
	Out string `yaml:"out"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Timezone: tz.DefaultZone,
		Delay:    5 * time.Second,
		Renewables: RenewablesConfig{
			BreakdownOut: "Renewable_Breakdown.csv",
			ResourceOut:  "GenByResource.csv",
		},
		OASIS: OASISConfig{
			Query: oasis.PRCLMP,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads path over the defaults but does not validate.
// Keys missing from the file keep their default values.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.Timezone == "" {
		c.Timezone = tz.DefaultZone
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := tz.New(c.Timezone); err != nil {
		return err
	}
	if c.Delay < 0 {
		return errors.New("delay must be >= 0")
	}
	if c.HTTPTimeout < 0 {
		return errors.New("http_timeout must be >= 0")
	}
	if err := checkRange("renewables", c.Renewables.StartDate, c.Renewables.EndDate); err != nil {
		return err
	}
	if err := checkRange("oasis", c.OASIS.StartDate, c.OASIS.EndDate); err != nil {
		return err
	}
	if c.OASIS.Query != "" {
		if _, err := oasis.Lookup(c.OASIS.Query); err != nil {
			return fmt.Errorf("oasis.query: %w", err)
		}
	}
	return nil
}

// checkRange validates the dates that are present. Missing dates are
// reported when a pull is started, not at load time.
func checkRange(section, start, end string) error {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = tz.ParseDate(start); err != nil {
			return fmt.Errorf("%s.start_date: %w", section, err)
		}
	}
	if end != "" {
		if e, err = tz.ParseDate(end); err != nil {
			return fmt.Errorf("%s.end_date: %w", section, err)
		}
	}
	if start != "" && end != "" && e.Before(s) {
		return fmt.Errorf("%s.end_date %s is before start_date %s", section, end, start)
	}
	return nil
}

// Normalizer returns the configured timezone normalizer.
func (c *Config) Normalizer() (*tz.Normalizer, error) {
	return tz.New(c.Timezone)
}

// RenewablesRange parses the renewables date range. Both dates are required.
func (c *Config) RenewablesRange() (time.Time, time.Time, error) {
	return dateRange("renewables", c.Renewables.StartDate, c.Renewables.EndDate)
}

// OASISRange parses the OASIS date range. Both dates are required.
func (c *Config) OASISRange() (time.Time, time.Time, error) {
	return dateRange("oasis", c.OASIS.StartDate, c.OASIS.EndDate)
}

func dateRange(section, start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%s.start_date and %s.end_date are required", section, section)
	}
	if err := checkRange(section, start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	s, _ := tz.ParseDate(start)
	e, _ := tz.ParseDate(end)
	return s, e, nil
}

// OutputPath resolves a relative output name against OutputDir.
func (c *Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) || c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

// OASISOutPath returns the OASIS output file, deriving the name from the
// query and node when oasis.out is empty.
func (c *Config) OASISOutPath(q oasis.Query) string {
	name := c.OASIS.Out
	if name == "" {
		name = oasis.OutputName(q, c.OASIS.Node)
	}
	return c.OutputPath(name)
}

// MergeOverrides overlays non-zero fields from override onto base.
// This is used to apply CLI flags and API request fields to a loaded file.
// FailFast can only be switched on.
func MergeOverrides(base, override Config) Config {
	out := base
	if override.Timezone != "" {
		out.Timezone = override.Timezone
	}
	if override.Delay != 0 {
		out.Delay = override.Delay
	}
	if override.HTTPTimeout != 0 {
		out.HTTPTimeout = override.HTTPTimeout
	}
	if override.FailFast {
		out.FailFast = true
	}
	if override.OutputDir != "" {
		out.OutputDir = override.OutputDir
	}

	r, o := override.Renewables, override.OASIS
	if r.BaseURL != "" {
		out.Renewables.BaseURL = r.BaseURL
	}
	if r.StartDate != "" {
		out.Renewables.StartDate = r.StartDate
	}
	if r.EndDate != "" {
		out.Renewables.EndDate = r.EndDate
	}
	if r.BreakdownOut != "" {
		out.Renewables.BreakdownOut = r.BreakdownOut
	}
	if r.ResourceOut != "" {
		out.Renewables.ResourceOut = r.ResourceOut
	}
	if o.BaseURL != "" {
		out.OASIS.BaseURL = o.BaseURL
	}
	if o.Query != "" {
		out.OASIS.Query = o.Query
	}
	if o.Node != "" {
		out.OASIS.Node = o.Node
	}
	if o.StartDate != "" {
		out.OASIS.StartDate = o.StartDate
	}
	if o.EndDate != "" {
		out.OASIS.EndDate = o.EndDate
	}
	if o.Out != "" {
		out.OASIS.Out = o.Out
	}
	return out
}
