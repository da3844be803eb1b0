package config

import (
	"fmt"
	"os"
	"reflect"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

// VERSION is filled at compile time with the git version of netvisor
var VERSION = "undefined"

type (
	// Config holds the configuration for the running system
	Config struct {
		Server  ServerCfg  `yaml:"server"`
		Log     LogCfg     `yaml:"log"`
		Capture CaptureCfg `yaml:"capture"`
	}

	// ServerCfg controls the upload API
	ServerCfg struct {
		Addr        string   `yaml:"addr" default:":8000"`
		TempDir     string   `yaml:"temp_dir" default:""`
		MaxUploadMB int64    `yaml:"max_upload_mb" default:"512"`
		Workers     int      `yaml:"workers" default:"4"`
		CORSOrigins []string `yaml:"cors_origins" default:"[\"*\"]"`
	}

	// LogCfg contains the configuration for logging
	LogCfg struct {
		Level      string `yaml:"level" default:"info"`
		File       string `yaml:"file" default:""`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"50"`
		MaxBackups int    `yaml:"max_backups" default:"3"`
	}

	// CaptureCfg controls how packet captures are summarized
	CaptureCfg struct {
		Timezone string `yaml:"timezone" default:"UTC"`
	}
)

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	cfg := new(Config)
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the YAML file at cfgPath on top of the defaults. An empty path
// yields the defaults.
func Load(cfgPath string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Parse(contents, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, expands environment variables in string
// settings, and validates the result.
func Parse(contents []byte, cfg *Config) error {
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// expand env variables, cfg is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(cfg).Elem())

	return cfg.validate()
}

// Location resolves the configured capture timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Capture.Timezone)
}

func (c *Config) validate() error {
	if c.Server.Workers < 1 {
		return fmt.Errorf("server.workers must be at least 1, got %d", c.Server.Workers)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1, got %d", c.Server.MaxUploadMB)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid capture.timezone: %w", err)
	}
	return nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
