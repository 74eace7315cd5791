package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/geofield/internal/logger"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geoctl",
		Short: "Inspect WKT values and manage geometry columns",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			l, err := logger.New(verbose)
			if err != nil {
				return err
			}
			logger.Set(l)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", "", "Config file (default ~/.geoctl/config.yaml)")
	cmd.PersistentFlags().String("dsn", "", "Database DSN (mysql://... or postgres://...)")
	cmd.PersistentFlags().String("table", "", "Table holding the geometry column")
	cmd.PersistentFlags().String("schema", "", "Schema for the postgis extension")
	cmd.PersistentFlags().String("api-key", "", "Google Maps API key")
	cmd.PersistentFlags().Int("srid", 0, "Spatial reference id")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")

	cmd.AddCommand(newWKTCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newGeocodeCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
