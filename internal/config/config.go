// Package config loads the component's runtime settings in layers: defaults,
// then the platform-provided JSON configuration, then command-line flags.
// Later sources take precedence over earlier ones.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
)

// Config holds runtime settings for one component run.
//
// DataDir is the platform data directory containing config.json and the
// in/tables, in/files input folders. AppendDateFormat is a Go time layout
// (e.g. "20060102150405"); when empty the writer's default layout is used.
type Config struct {
	DataDir string

	User       string
	Password   string
	Hostname   string
	Port       int
	RemotePath string

	AppendDate       bool
	AppendDateFormat string

	PrivateKey string

	Debug bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "./data"
	c.Port = 22
}

// LoadConfig constructs a Config from defaults, the KBC_DATADIR environment
// variable, <datadir>/config.json and command-line flags, then validates it.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.Getenv)
}

func load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v := getenv("KBC_DATADIR"); v != "" {
		cfg.DataDir = v
	}

	fl := parseFlags(args)
	if fl.dataDir != "" {
		cfg.DataDir = fl.dataDir
	}

	if err := parseJSON(cfg); err != nil {
		return nil, err
	}

	// The -debug flag forces debug logging regardless of the config file.
	if fl.debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the mandatory parameters. Exactly one authentication group
// member (#pass or #private_key) is required; both may be present, in which
// case the password is also used as the key passphrase.
func (c *Config) Validate() error {
	var missing []string
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Hostname == "" {
		missing = append(missing, "hostname")
	}
	if c.Port <= 0 {
		missing = append(missing, "port")
	}
	if c.RemotePath == "" {
		missing = append(missing, "path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required parameter(s): %s",
			common.ErrInvalidConfig, strings.Join(missing, ", "))
	}

	if c.Password == "" && c.PrivateKey == "" {
		return fmt.Errorf("%w: either #pass or #private_key must be configured",
			common.ErrInvalidConfig)
	}

	return nil
}
