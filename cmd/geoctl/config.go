package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/geofield/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage geoctl configuration"}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Root().PersistentFlags().GetString("config"); p != "" {
		return p, nil
	}
	return config.Path()
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the resolved settings to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd)
			if err != nil {
				return err
			}
			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd)
			if err != nil {
				return err
			}
			if cfg.Geocoder.APIKey != "" {
				cfg.Geocoder.APIKey = "redacted"
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
