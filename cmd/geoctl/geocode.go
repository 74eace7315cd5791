package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/geofield/internal/logger"
	"github.com/faciam-dev/geofield/pkg/config"
	"github.com/faciam-dev/geofield/pkg/geocoder"
	"github.com/faciam-dev/geofield/pkg/wkt"
)

func newGeocodeCmd() *cobra.Command {
	var address string
	var streetNumber, street, suburb, city, country string
	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Resolve an address to a POINT",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd)
			if err != nil {
				return err
			}
			svc := geocoder.NewGoogle(cfg.Geocoder.APIKey,
				geocoder.WithBaseURL(cfg.Geocoder.BaseURL),
				geocoder.WithTimeout(cfg.Geocoder.Timeout))
			g := geocoder.New(svc, geocoder.WithLogger(logger.L))

			var p wkt.Point
			if address != "" {
				p, err = g.Locate(cmd.Context(), address)
			} else {
				p, err = g.LocateParts(cmd.Context(), streetNumber, street, suburb, city, country)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), wkt.Encode(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Full address")
	cmd.Flags().StringVar(&streetNumber, "street-number", "", "Street number")
	cmd.Flags().StringVar(&street, "street", "", "Street")
	cmd.Flags().StringVar(&suburb, "suburb", "", "Suburb")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	return cmd
}
