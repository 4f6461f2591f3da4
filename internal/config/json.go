package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sftpwriter/internal/common"
)

// portValue accepts a port given either as a JSON number or as a string;
// platform configurations carry both forms.
type portValue int

func (p *portValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port %q is not a number", s)
	}
	*p = portValue(n)
	return nil
}

// envelopeJSON mirrors the platform configuration file. Keys prefixed with
// '#' are encrypted parameters, decrypted by the platform before the
// component runs.
type envelopeJSON struct {
	Parameters      paramsJSON      `json:"parameters"`
	ImageParameters imageParamsJSON `json:"image_parameters"`
}

type paramsJSON struct {
	User             string    `json:"user"`
	Password         string    `json:"#pass"`
	Hostname         string    `json:"hostname"`
	Port             portValue `json:"port"`
	RemotePath       string    `json:"path"`
	AppendDate       bool      `json:"append_date"`
	AppendDateFormat string    `json:"append_date_format"`
	PrivateKey       string    `json:"#private_key"`
	Debug            bool      `json:"debug"`
}

// imageParamsJSON carries platform-supplied connection overrides, applied on
// top of the user parameters.
type imageParamsJSON struct {
	Hostname string    `json:"hostname"`
	Port     portValue `json:"port"`
}

// parseJSON overlays cfg with values from <datadir>/config.json.
func parseJSON(cfg *Config) error {
	path := filepath.Join(cfg.DataDir, "config.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", common.ErrInvalidConfig, path, err)
	}

	var env envelopeJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", common.ErrInvalidConfig, path, err)
	}

	p := env.Parameters
	cfg.User = p.User
	cfg.Password = p.Password
	cfg.Hostname = p.Hostname
	if p.Port != 0 {
		cfg.Port = int(p.Port)
	}
	cfg.RemotePath = p.RemotePath
	cfg.AppendDate = p.AppendDate
	cfg.AppendDateFormat = p.AppendDateFormat
	cfg.PrivateKey = p.PrivateKey
	cfg.Debug = p.Debug

	ip := env.ImageParameters
	if ip.Hostname != "" {
		cfg.Hostname = ip.Hostname
	}
	if ip.Port != 0 {
		cfg.Port = int(ip.Port)
	}

	return nil
}
