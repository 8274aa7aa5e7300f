// Package config loads the watcher configuration from YAML, with
// environment fallbacks for the email credentials so deployments can
// keep secrets out of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"grands-buffets-watch/internal/models"
	"grands-buffets-watch/internal/probe"
)

// Config is the application configuration.
type Config struct {
	Reservation ReservationConfig `yaml:"reservation"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Email       EmailConfig       `yaml:"email"`
	State       StateConfig       `yaml:"state"`
}

// ReservationConfig describes what to hunt for.
type ReservationConfig struct {
	URL         string               `yaml:"url"`
	Guests      string               `yaml:"guests"`
	Service     models.ServiceWindow `yaml:"service"`      // dinner, lunch or any
	MonthsAhead int                  `yaml:"months_ahead"` // search horizon
	DayKeywords []string             `yaml:"day_keywords"`
	// IndeterminatePolicy decides whether probes that reach neither a
	// booking form nor a fully-booked message count as finds.
	IndeterminatePolicy probe.IndeterminatePolicy `yaml:"indeterminate_policy"`
	ScreenshotDir       string                    `yaml:"screenshot_dir"`
}

// MonitorConfig controls the long-running monitor loop.
type MonitorConfig struct {
	Interval int  `yaml:"interval"` // seconds between checks
	Headless bool `yaml:"headless"`
}

// EmailConfig holds notification settings. Missing credentials disable
// sending but never probing.
type EmailConfig struct {
	SMTP         SMTPConfig `yaml:"smtp"`
	From         string     `yaml:"from"`
	To           string     `yaml:"to"`            // availability alerts
	MonitoringTo string     `yaml:"monitoring_to"` // status reports + alert copy
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// StateConfig points at the run-state file.
type StateConfig struct {
	File string `yaml:"file"` // empty: XDG state dir
}

// Configured reports whether email can actually be sent.
func (e EmailConfig) Configured() bool {
	return e.From != "" && e.SMTP.Password != ""
}

// GetConfigPath finds the configuration file: next to the executable,
// then in the working directory, then in the home dot-directory.
func GetConfigPath() string {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	configPath := filepath.Join(execDir, "configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	configPath = filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".grands-buffets-watch", "config.yaml")
}

// Load reads and parses the configuration file, then applies defaults
// and environment overrides. A missing file is not an error: the
// defaults describe a full working setup minus credentials.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// run on defaults
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to file, creating directories as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = GetConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Reservation.URL == "" {
		c.Reservation.URL = "https://reservation.lesgrandsbuffets.com/contact"
	}
	if c.Reservation.Guests == "" {
		c.Reservation.Guests = "7"
	}
	if c.Reservation.Service == "" {
		c.Reservation.Service = models.ServiceDinner
	}
	if c.Reservation.MonthsAhead == 0 {
		c.Reservation.MonthsAhead = 4
	}
	if len(c.Reservation.DayKeywords) == 0 {
		c.Reservation.DayKeywords = probe.DefaultDayKeywords
	}
	if c.Reservation.IndeterminatePolicy == "" {
		c.Reservation.IndeterminatePolicy = probe.PolicyOptimistic
	}
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = 300
	}
	if c.Email.SMTP.Host == "" {
		c.Email.SMTP.Host = "smtp.gmail.com"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
}

// applyEnv layers credential overrides on top of the file, using the
// variable names the deployment has always used.
func (c *Config) applyEnv() {
	if v := os.Getenv("EMAIL"); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.SMTP.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		c.Email.To = v
	}
	if v := os.Getenv("MONITORING_EMAIL"); v != "" {
		c.Email.MonitoringTo = v
	}
	if c.Email.To == "" {
		c.Email.To = c.Email.From
	}
	if c.Email.SMTP.Username == "" {
		c.Email.SMTP.Username = c.Email.From
	}
}

func (c *Config) validate() error {
	switch c.Reservation.Service {
	case models.ServiceDinner, models.ServiceLunch, models.ServiceAny:
	default:
		return fmt.Errorf("invalid service %q: want dinner, lunch or any", c.Reservation.Service)
	}
	switch c.Reservation.IndeterminatePolicy {
	case probe.PolicyOptimistic, probe.PolicyStrict:
	default:
		return fmt.Errorf("invalid indeterminate_policy %q: want optimistic or strict", c.Reservation.IndeterminatePolicy)
	}
	if c.Reservation.MonthsAhead < 0 {
		return fmt.Errorf("months_ahead must not be negative")
	}
	return nil
}
