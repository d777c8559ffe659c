// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"author-scan/internal/paths"

	"gopkg.in/yaml.v3"
)

// Bounds of the minimum-mentions threshold
const (
	MinMentionsLower   = 1
	MinMentionsUpper   = 20
	DefaultMinMentions = 3
	DefaultTopN        = 10
	DefaultPort        = 8080
	DefaultMaxUploadMB = 50
)

// DefaultParseTimeout bounds each document parse
const DefaultParseTimeout = 60 * time.Second

// ValidFormats lists the output formats a config may name
var ValidFormats = []string{"text", "csv", "json", "yaml"}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format      string `yaml:"format"`
		MinMentions int    `yaml:"min_mentions"`
		TopN        int    `yaml:"top_n"`
		Verbose     bool   `yaml:"verbose"`
		Debug       bool   `yaml:"debug"`
		NoColor     bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Text acquisition settings
	Acquisition struct {
		ParseTimeout time.Duration `yaml:"parse_timeout"`
		TempDir      string        `yaml:"temp_dir"`
		MaxPDFPages  int           `yaml:"max_pdf_pages"`
		PageWorkers  int           `yaml:"page_workers"`
	} `yaml:"acquisition"`

	// Named-entity recognizer settings
	Recognizer struct {
		Enabled  bool   `yaml:"enabled"`
		ModelDir string `yaml:"model_dir"`
	} `yaml:"recognizer"`

	// Upload server settings
	Web struct {
		Port        int `yaml:"port"`
		MaxUploadMB int `yaml:"max_upload_mb"`
	} `yaml:"web"`

	// Profiles for different extraction scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides the defaults for one kind of document
type Profile struct {
	Format      string `yaml:"format"`
	MinMentions int    `yaml:"min_mentions"`
	TopN        int    `yaml:"top_n"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Description string `yaml:"description"`
}

// defaultProfiles ship with every configuration
func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		"survey": {
			Format:      "text",
			MinMentions: 1,
			TopN:        25,
			Description: "Every candidate mentioned at least once, for short texts",
		},
		"strict": {
			Format:      "text",
			MinMentions: 5,
			TopN:        10,
			Description: "Only frequently cited authors, for long books",
		},
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: defaultProfiles(),
	}

	config.Defaults.Format = "text"
	config.Defaults.MinMentions = DefaultMinMentions
	config.Defaults.TopN = DefaultTopN

	config.Acquisition.ParseTimeout = DefaultParseTimeout
	config.Acquisition.TempDir = paths.GetTempDir()

	config.Recognizer.Enabled = true

	config.Web.Port = DefaultPort
	config.Web.MaxUploadMB = DefaultMaxUploadMB

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	defaultRecognizerEnabled := config.Recognizer.Enabled

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// yaml leaves absent booleans false; restore the true defaults
	if !containsField(data, "recognizer", "enabled") {
		config.Recognizer.Enabled = defaultRecognizerEnabled
	}
	if config.Profiles == nil {
		config.Profiles = defaultProfiles()
	}

	config.Acquisition.TempDir = paths.NormalizePath(config.Acquisition.TempDir)
	config.Recognizer.ModelDir = paths.NormalizePath(config.Recognizer.ModelDir)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"config.yaml", "author-scan.yaml", "author-scan.yml", ".author-scan.yaml", ".author-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if standardConfig := paths.GetConfigFile(); standardConfig != "" && fileExists(standardConfig) {
		return standardConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, ".author-scan.yaml")
		if fileExists(homeConfig) {
			return homeConfig
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays the non-zero settings of a profile on the defaults
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found (available: %v)", name, c.ListProfiles())
	}

	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.MinMentions != 0 {
		c.Defaults.MinMentions = profile.MinMentions
	}
	if profile.TopN != 0 {
		c.Defaults.TopN = profile.TopN
	}
	c.Defaults.Verbose = c.Defaults.Verbose || profile.Verbose
	c.Defaults.Debug = c.Defaults.Debug || profile.Debug
	c.Defaults.NoColor = c.Defaults.NoColor || profile.NoColor

	return ValidateConfig(c)
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateMinMentions enforces the accepted threshold range
func ValidateMinMentions(n int) error {
	if n < MinMentionsLower || n > MinMentionsUpper {
		return fmt.Errorf("min_mentions must be between %d and %d, got %d", MinMentionsLower, MinMentionsUpper, n)
	}
	return nil
}

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected one of %v)", format, ValidFormats)
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := ValidateFormat(config.Defaults.Format); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := ValidateMinMentions(config.Defaults.MinMentions); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if config.Defaults.TopN < 1 {
		return fmt.Errorf("defaults: top_n must be positive, got %d", config.Defaults.TopN)
	}

	if config.Acquisition.ParseTimeout < 0 {
		return fmt.Errorf("acquisition: parse_timeout cannot be negative")
	}
	if config.Acquisition.MaxPDFPages < 0 || config.Acquisition.PageWorkers < 0 {
		return fmt.Errorf("acquisition: max_pdf_pages and page_workers cannot be negative")
	}
	if err := paths.ValidatePath(config.Acquisition.TempDir); err != nil {
		return fmt.Errorf("acquisition: invalid temp_dir: %w", err)
	}
	if err := paths.ValidatePath(config.Recognizer.ModelDir); err != nil {
		return fmt.Errorf("recognizer: invalid model_dir: %w", err)
	}

	if config.Web.Port < 0 || config.Web.Port > 65535 {
		return fmt.Errorf("web: port out of range: %d", config.Web.Port)
	}
	if config.Web.MaxUploadMB < 1 {
		return fmt.Errorf("web: max_upload_mb must be positive, got %d", config.Web.MaxUploadMB)
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" {
			if err := ValidateFormat(profile.Format); err != nil {
				return fmt.Errorf("profile '%s': %w", name, err)
			}
		}
		if profile.MinMentions != 0 {
			if err := ValidateMinMentions(profile.MinMentions); err != nil {
				return fmt.Errorf("profile '%s': %w", name, err)
			}
		}
		if profile.TopN < 0 {
			return fmt.Errorf("profile '%s': top_n cannot be negative", name)
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
// This is the shared helper used by both the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
