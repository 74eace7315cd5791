package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Resolve loads the file named by the root --config flag, applies the
// environment and then any root persistent flags that were set, so flags
// win over env, which wins over the file.
func Resolve(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if v, _ := flags.GetString("dsn"); strings.TrimSpace(v) != "" {
		cfg.Database.DSN = v
	}
	if v, _ := flags.GetString("table"); strings.TrimSpace(v) != "" {
		cfg.Database.Table = v
	}
	if v, _ := flags.GetString("schema"); strings.TrimSpace(v) != "" {
		cfg.PostGIS.Schema = v
	}
	if v, _ := flags.GetString("api-key"); strings.TrimSpace(v) != "" {
		cfg.Geocoder.APIKey = v
	}
	if f := flags.Lookup("srid"); f != nil && f.Changed {
		n, err := flags.GetInt("srid")
		if err != nil {
			return nil, err
		}
		cfg.SRID = n
	}
	return cfg, nil
}

// RequireDSN reports an error naming every source when no DSN is set.
func (c *Config) RequireDSN() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database DSN not set (flag/env/config)")
	}
	return nil
}

// RequireTable reports an error when no table is set.
func (c *Config) RequireTable() error {
	if strings.TrimSpace(c.Database.Table) == "" {
		return fmt.Errorf("table not set (flag/env/config)")
	}
	return nil
}
