// Package config builds the paralang run configuration.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. an optional YAML file, paralang.yaml in the working directory or the
//     file named by PARALANG_CONFIG
//  3. environment variables
//
// The API token is read from the environment only and is never loaded from
// the YAML file. A missing token or project ID is a fatal *Error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "paralang.yaml"

// FileEnv names the environment variable that overrides FileName.
const FileEnv = "PARALANG_CONFIG"

// Config holds every setting shared by the upload and download commands.
type Config struct {
	// Token is the Paratranz API token sent as the Authorization header.
	Token string `yaml:"-" envconfig:"PARATRANZ_API_TOKEN"`
	// ProjectID is the Paratranz project ID.
	ProjectID string `yaml:"project_id,omitempty" envconfig:"PROJECT_ID"`
	// APIURL is the Paratranz API root.
	APIURL string `yaml:"api_url,omitempty" envconfig:"PARALANG_API_URL"`

	// SourceDir is the root of the base locale tree.
	SourceDir string `yaml:"source_dir,omitempty" envconfig:"PARALANG_SOURCE_DIR"`
	// OutputDir is the root the download command writes into.
	OutputDir string `yaml:"output_dir,omitempty" envconfig:"PARALANG_OUTPUT_DIR"`
	// BaseLocale is the base locale file stem (en_us → en_us.lang).
	BaseLocale string `yaml:"base_locale,omitempty" envconfig:"PARALANG_BASE_LOCALE"`
	// TargetLocale is the generated file stem (zh_cn → zh_cn.lang).
	TargetLocale string `yaml:"target_locale,omitempty" envconfig:"PARALANG_TARGET_LOCALE"`

	// FallbackStages lists the Paratranz stages written with their original text.
	FallbackStages []int `yaml:"fallback_stages,omitempty" envconfig:"PARALANG_FALLBACK_STAGES"`

	// Retries is the number of extra attempts after a network failure.
	Retries int `yaml:"retries,omitempty" envconfig:"PARALANG_RETRIES"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout,omitempty" envconfig:"PARALANG_TIMEOUT"`

	// Lang selects the language of console messages ("" = auto-detect).
	Lang string `yaml:"lang,omitempty" envconfig:"PARALANG_LANG"`

	// File is the YAML file that was loaded, if any.
	File string `yaml:"-" ignored:"true"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		APIURL:         "https://paratranz.cn/api",
		SourceDir:      "Source",
		OutputDir:      "CNPack",
		BaseLocale:     "en_us",
		TargetLocale:   "zh_cn",
		FallbackStages: []int{0, -1, 2},
		Retries:        2,
		Timeout:        60 * time.Second,
	}
}

// Error reports missing or invalid configuration.
type Error struct {
	Missing []string // environment variables that must be set
	Invalid []string // human-readable problems with set values
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Invalid...)
	return "configuration: " + strings.Join(parts, "; ")
}

// Load builds the configuration from defaults, the YAML file in the working
// directory and the environment, then validates it.
func Load() (Config, error) {
	return LoadDir(".")
}

// LoadDir is Load with the default YAML file looked up in dir.
func LoadDir(dir string) (Config, error) {
	cfg := Default()

	path, explicit := os.Getenv(FileEnv), true
	if path == "" {
		path, explicit = filepath.Join(dir, FileName), false
	}
	if err := loadFile(&cfg, path, explicit); err != nil {
		return cfg, err
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, &Error{Invalid: []string{err.Error()}}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. A missing file is fine
// unless it was named explicitly.
func loadFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.File = path
	return nil
}

// Validate checks required fields and value ranges.
func (c Config) Validate() error {
	e := &Error{}
	if strings.TrimSpace(c.Token) == "" {
		e.Missing = append(e.Missing, "PARATRANZ_API_TOKEN")
	}
	if strings.TrimSpace(c.ProjectID) == "" {
		e.Missing = append(e.Missing, "PROJECT_ID")
	}
	if c.SourceDir == "" {
		e.Invalid = append(e.Invalid, "source directory is empty")
	}
	if c.BaseLocale == "" || strings.ContainsAny(c.BaseLocale, `/\`) {
		e.Invalid = append(e.Invalid, fmt.Sprintf("invalid base locale %q", c.BaseLocale))
	}
	if c.TargetLocale == "" || strings.ContainsAny(c.TargetLocale, `/\`) {
		e.Invalid = append(e.Invalid, fmt.Sprintf("invalid target locale %q", c.TargetLocale))
	}
	if c.Retries < 0 {
		e.Invalid = append(e.Invalid, fmt.Sprintf("retries must not be negative, got %d", c.Retries))
	}
	if len(e.Missing) > 0 || len(e.Invalid) > 0 {
		return e
	}
	return nil
}

// IsError reports whether err is a configuration *Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
