// Package config provides Viper-based configuration loading for the
// character sheet tool.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/charsheet/internal/game/calendar"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RulesConfig selects the rule system and its content.
type RulesConfig struct {
	// System is the registry key of the rule system, e.g. "dsa".
	System string `mapstructure:"system"`
	// ContentDir overrides the embedded rules content when non-empty.
	ContentDir string `mapstructure:"content_dir"`
}

// ScriptingConfig holds house-rule script settings.
type ScriptingConfig struct {
	// HouseRulesDir is a directory of *.lua files; empty disables house rules.
	HouseRulesDir string `mapstructure:"house_rules_dir"`
	// InstructionLimit bounds each script call; 0 selects the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// CalendarConfig is the in-game start date.
type CalendarConfig struct {
	Day    int `mapstructure:"day"`
	Month  int `mapstructure:"month"`
	Year   int `mapstructure:"year"`
	Hour   int `mapstructure:"hour"`
	Minute int `mapstructure:"minute"`
}

// Calendar returns a calendar set to the configured date.
//
// Postcondition: Returns a non-nil Calendar.
func (c CalendarConfig) Calendar() *calendar.Calendar {
	return calendar.New(c.Day, c.Month, c.Year, c.Hour, c.Minute)
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCalendar(c.Calendar); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	if r.System == "" {
		return errors.New("rules.system must not be empty")
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateCalendar(c CalendarConfig) error {
	var errs []string
	if c.Day < 1 || c.Day > calendar.DaysPerMonth {
		errs = append(errs, fmt.Sprintf("calendar.day must be 1-%d, got %d", calendar.DaysPerMonth, c.Day))
	}
	if c.Month < 1 || c.Month > calendar.MonthsPerYear {
		errs = append(errs, fmt.Sprintf("calendar.month must be 1-%d, got %d", calendar.MonthsPerYear, c.Month))
	}
	if c.Hour < 0 || c.Hour >= calendar.HoursPerDay {
		errs = append(errs, fmt.Sprintf("calendar.hour must be 0-%d, got %d", calendar.HoursPerDay-1, c.Hour))
	}
	if c.Minute < 0 || c.Minute >= calendar.MinutesPerHour {
		errs = append(errs, fmt.Sprintf("calendar.minute must be 0-%d, got %d", calendar.MinutesPerHour-1, c.Minute))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with CHARSHEET_ prefix
	v.SetEnvPrefix("CHARSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("rules.system", "dsa")
	v.SetDefault("rules.content_dir", "")

	v.SetDefault("scripting.house_rules_dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("calendar.day", 1)
	v.SetDefault("calendar.month", 1)
	v.SetDefault("calendar.year", 1000)
	v.SetDefault("calendar.hour", 8)
	v.SetDefault("calendar.minute", 0)
}
