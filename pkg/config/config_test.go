package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("cfg diff (-want +got)\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := `database:
  dsn: postgres://u:p@localhost/app?sslmode=disable
  table: places
geocoder:
  apiKey: k
  timeout: 3s
srid: 4326
`
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		Database: Database{DSN: "postgres://u:p@localhost/app?sslmode=disable", Table: "places", IDColumn: DefaultIDColumn},
		PostGIS:  PostGIS{Schema: DefaultSchema},
		Geocoder: Geocoder{APIKey: "k", BaseURL: DefaultBaseURL, Timeout: 3 * time.Second},
		SRID:     4326,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("cfg diff (-want +got)\n%s", diff)
	}
}

func TestSaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Database.Table = "regions"
	cfg.PostGIS.Schema = "gis"
	if err := Save(p, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v", info.Mode().Perm())
	}
	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("cfg diff (-want +got)\n%s", diff)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEOFIELD_DSN", "mysql://u:p@tcp(db:3306)/app")
	t.Setenv("GEOFIELD_TABLE", "sites")
	t.Setenv("GOOGLEMAPS_API_KEY", "envkey")
	t.Setenv("GEOFIELD_SRID", "3857")
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Database.DSN != "mysql://u:p@tcp(db:3306)/app" || cfg.Database.Table != "sites" || cfg.Geocoder.APIKey != "envkey" || cfg.SRID != 3857 {
		t.Fatalf("unexpected %+v", cfg)
	}

	t.Setenv("GEOFIELD_SRID", "wgs84")
	if err := Default().ApplyEnv(); err == nil {
		t.Fatalf("expected error for non-numeric srid")
	}
}
