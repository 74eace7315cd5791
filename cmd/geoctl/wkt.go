package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/faciam-dev/geofield/pkg/wkt"
	"github.com/faciam-dev/geofield/pkg/wktdiff"
)

var errInvalidWKT = errors.New("invalid WKT")

func newWKTCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "wkt", Short: "Well-Known Text tools"}
	cmd.AddCommand(newWKTValidateCmd())
	cmd.AddCommand(newWKTNormalizeCmd())
	cmd.AddCommand(newWKTRingsCmd())
	cmd.AddCommand(newWKTGeoJSONCmd())
	cmd.AddCommand(newWKTDiffCmd())
	cmd.AddCommand(newWKTWKBCmd())
	return cmd
}

func newWKTValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <wkt>",
		Short: "Check the shape of a WKT value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := wkt.Validate(args[0])
			if ok && strict {
				if _, err := wkt.Decode(args[0]); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "invalid")
					return err
				}
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errInvalidWKT
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Also decode the body")
	return cmd
}

func newWKTNormalizeCmd() *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "normalize <wkt>",
		Short: "Print the canonical form of a WKT value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := wkt.Normalize(args[0])
			if err != nil {
				return err
			}
			if showDiff {
				fmt.Fprint(cmd.OutOrStdout(), wktdiff.Text("input", "canonical", args[0]+"\n", out+"\n"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a unified diff of input and canonical form")
	return cmd
}

func newWKTRingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rings <wkt>",
		Short: "List the vertices of each ring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := wkt.Decode(args[0])
			if err != nil {
				return err
			}
			var polys [][][]wkt.Coord
			switch v := g.(type) {
			case wkt.Polygon:
				polys = append(polys, v.Rings)
			case wkt.MultiPolygon:
				for _, p := range v.Polygons {
					polys = append(polys, p.Rings)
				}
			case wkt.LineString:
				polys = append(polys, [][]wkt.Coord{v.Coords})
			case wkt.LinearRing:
				polys = append(polys, [][]wkt.Coord{v.Coords})
			default:
				return fmt.Errorf("%s has no rings", g.Kind())
			}
			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"Polygon", "Ring", "Vertex", "X", "Y"})
			for pi, rings := range polys {
				for ri, ring := range rings {
					for vi, c := range ring {
						tw.Append([]string{
							strconv.Itoa(pi),
							strconv.Itoa(ri),
							strconv.Itoa(vi),
							strconv.FormatFloat(c.X, 'f', -1, 64),
							strconv.FormatFloat(c.Y, 'f', -1, 64),
						})
					}
				}
			}
			tw.Render()
			return nil
		},
	}
}

func newWKTGeoJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geojson <wkt>",
		Short: "Convert a WKT value to GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := wkt.Decode(args[0])
			if err != nil {
				return err
			}
			b, err := wkt.MarshalGeoJSON(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newWKTDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Show vertex changes between two WKT values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, added, removed, err := wktdiff.Unified(args[0], args[1])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no changes")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			fmt.Fprintf(cmd.OutOrStdout(), "%d vertices added, %d removed\n", added, removed)
			return nil
		},
	}
}

func newWKTWKBCmd() *cobra.Command {
	var decode bool
	cmd := &cobra.Command{
		Use:   "wkb <wkt|hex>",
		Short: "Convert a WKT value to hex Well-Known Binary, or back with --decode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decode {
				b, err := hex.DecodeString(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("decode hex: %w", err)
				}
				g, err := wkt.UnmarshalWKB(b)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), wkt.Encode(g))
				return nil
			}
			g, err := wkt.Decode(args[0])
			if err != nil {
				return err
			}
			b, err := wkt.MarshalWKB(g)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "Read hex WKB and print WKT")
	return cmd
}
