package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/geofield/internal/logger"
	"github.com/faciam-dev/geofield/pkg/config"
	"github.com/faciam-dev/geofield/pkg/geofield"
	"github.com/faciam-dev/geofield/pkg/gisadapter"
	"github.com/faciam-dev/geofield/pkg/store"
	"github.com/faciam-dev/geofield/pkg/util"
	"github.com/faciam-dev/geofield/pkg/wkt"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "db", Short: "Geometry column management"}
	cmd.AddCommand(newDBProvisionCmd())
	cmd.AddCommand(newDBIndexCmd())
	return cmd
}

func openStore(cfg *config.Config) (*store.Store, func(), error) {
	db, driver, err := util.OpenDB(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	a, err := gisadapter.ForDB(db, gisadapter.WithLogger(logger.L), gisadapter.WithSchema(cfg.PostGIS.Schema))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.L.Debugw("opened database", "driver", driver, "adapter", a.Kind())
	s := store.New(db, a, cfg.Database.Table,
		store.WithIDColumn(cfg.Database.IDColumn),
		store.WithLogger(logger.L))
	return s, func() { db.Close() }, nil
}

func newDBProvisionCmd() *cobra.Command {
	var column, typ string
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Install the spatial extension and add a geometry column",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireDSN(); err != nil {
				return err
			}
			if err := cfg.RequireTable(); err != nil {
				return err
			}
			kind, ok := wkt.ParseKind(typ)
			if !ok {
				return fmt.Errorf("unknown geometry type: %s", typ)
			}
			s, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			f := geofield.New(column, kind, geofield.WithSRID(cfg.SRID), geofield.WithLogger(logger.L))
			s.Bind(f)
			added, err := s.EnsureColumn(cmd.Context(), f)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s.%s\n", cfg.Database.Table, column)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s.%s already exists\n", cfg.Database.Table, column)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "location", "Geometry column name")
	cmd.Flags().StringVar(&typ, "type", string(wkt.KindPoint), "Geometry type (POINT, POLYGON, ...)")
	return cmd
}

func newDBIndexCmd() *cobra.Command {
	var (
		driver string
		name   string
		apply  bool
		spec   gisadapter.IndexSpec
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Print or create index DDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireTable(); err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if apply {
				if err := cfg.RequireDSN(); err != nil {
					return err
				}
				s, closeDB, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer closeDB()
				if err := s.EnsureIndex(cmd.Context(), name, spec); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", gisadapter.IndexName(cfg.Database.Table, name))
				return nil
			}

			server := driver
			if server == "" && cfg.Database.DSN != "" {
				if server, err = util.DetectDriver(cfg.Database.DSN); err != nil {
					return err
				}
			}
			if server == "" {
				return fmt.Errorf("--driver or a DSN is required")
			}
			a, err := gisadapter.Resolve(server, nil, gisadapter.WithSchema(cfg.PostGIS.Schema))
			if err != nil {
				return err
			}
			q, err := store.New(nil, a, cfg.Database.Table).IndexSQL(name, spec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "Backend to render for (mysql, postgres)")
	cmd.Flags().StringVar(&name, "name", "", "Index name")
	cmd.Flags().StringVar(&spec.Type, "type", "", "Index type (unique, gist, spatial, fulltext)")
	cmd.Flags().StringVar(&spec.Value, "value", "", "Indexed column list or expression")
	cmd.Flags().StringVar(&spec.FillFactor, "fillfactor", "", "Fill factor")
	cmd.Flags().StringVar(&spec.Where, "where", "", "Partial index predicate")
	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the DDL against --dsn")
	return cmd
}
