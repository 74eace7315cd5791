package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/geofield/pkg/util"
)

const (
	DefaultSchema   = "postgis"
	DefaultIDColumn = "ID"
	DefaultBaseURL  = "https://maps.googleapis.com"
	DefaultTimeout  = 10 * time.Second
)

type Database struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	IDColumn string `yaml:"idColumn"`
}

type PostGIS struct {
	Schema string `yaml:"schema"`
}

type Geocoder struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the geoctl configuration file.
type Config struct {
	Database Database `yaml:"database"`
	PostGIS  PostGIS  `yaml:"postgis"`
	Geocoder Geocoder `yaml:"geocoder"`
	SRID     int      `yaml:"srid"`
}

func Default() *Config {
	return &Config{
		Database: Database{IDColumn: DefaultIDColumn},
		PostGIS:  PostGIS{Schema: DefaultSchema},
		Geocoder: Geocoder{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
	}
}

// Path returns the default config file location, ~/.geoctl/config.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".geoctl", "config.yaml"), nil
}

// Load reads the config at path, or at Path() when path is empty. A missing
// file yields the defaults. Unset values are filled from the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Database.IDColumn == "" {
		c.Database.IDColumn = d.Database.IDColumn
	}
	if c.PostGIS.Schema == "" {
		c.PostGIS.Schema = d.PostGIS.Schema
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = d.Geocoder.BaseURL
	}
	if c.Geocoder.Timeout == 0 {
		c.Geocoder.Timeout = d.Geocoder.Timeout
	}
}

// ApplyEnv overrides file values with GEOFIELD_DSN, GEOFIELD_TABLE,
// GOOGLEMAPS_API_KEY and GEOFIELD_SRID when they are set.
func (c *Config) ApplyEnv() error {
	c.Database.DSN = util.GetEnv("GEOFIELD_DSN", c.Database.DSN)
	c.Database.Table = util.GetEnv("GEOFIELD_TABLE", c.Database.Table)
	c.Geocoder.APIKey = util.GetEnv("GOOGLEMAPS_API_KEY", c.Geocoder.APIKey)
	if v := util.GetEnv("GEOFIELD_SRID", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GEOFIELD_SRID: %w", err)
		}
		c.SRID = n
	}
	return nil
}

// Save writes cfg to path with owner-only permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
