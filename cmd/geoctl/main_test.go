package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"GEOFIELD_DSN", "GEOFIELD_TABLE", "GEOFIELD_SRID", "GOOGLEMAPS_API_KEY"} {
		t.Setenv(k, "")
	}
	buf := new(bytes.Buffer)
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	if !containsFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func TestWKTValidateCmd(t *testing.T) {
	out, err := run(t, "wkt", "validate", "POINT(1 2)")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "valid\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, "wkt", "validate", "CIRCLE(1 2)")
	if err == nil {
		t.Fatalf("expected error")
	}
	if out != "invalid\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWKTNormalizeCmd(t *testing.T) {
	out, err := run(t, "wkt", "normalize", "point ( 1.50 2 )")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "POINT(1.5 2)\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, "wkt", "normalize", "--diff", "point ( 1.50 2 )")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "-point ( 1.50 2 )") || !strings.Contains(out, "+POINT(1.5 2)") {
		t.Fatalf("unexpected diff: %s", out)
	}
}

func TestWKTRingsCmd(t *testing.T) {
	out, err := run(t, "wkt", "rings", "POLYGON((0 0,1 4,4 2,0 0),(1 1,2 3,3 2,1 1))")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "VERTEX") {
		t.Fatalf("missing header: %s", out)
	}
	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "|") {
			rows++
		}
	}
	if rows != 9 {
		t.Fatalf("expected header and 8 vertices, got %d lines:\n%s", rows, out)
	}

	if _, err := run(t, "wkt", "rings", "POINT(1 2)"); err == nil {
		t.Fatalf("expected error for point")
	}
}

func TestWKTGeoJSONCmd(t *testing.T) {
	out, err := run(t, "wkt", "geojson", "POINT(1 2)")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "{\"type\":\"Point\",\"coordinates\":[1,2]}\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWKTDiffCmd(t *testing.T) {
	out, err := run(t, "wkt", "diff", "LINESTRING(0 0,1 1)", "LINESTRING(0 0,1 2)")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasSuffix(out, "1 vertices added, 1 removed\n") {
		t.Fatalf("unexpected output: %s", out)
	}

	out, err = run(t, "wkt", "diff", "POINT(1 2)", "point (1 2)")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "no changes\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWKTWKBCmd(t *testing.T) {
	const pointWKB = "0101000000000000000000f03f0000000000000040"
	out, err := run(t, "wkt", "wkb", "POINT(1 2)")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != pointWKB+"\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, "wkt", "wkb", "--decode", pointWKB)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "POINT(1 2)\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := run(t, "wkt", "wkb", "--decode", "zz"); err == nil {
		t.Fatalf("expected error for bad hex")
	}
}

func TestDBIndexCmd(t *testing.T) {
	out, err := run(t, "db", "index", "--driver", "postgres", "--table", "places",
		"--name", "loc", "--type", "gist", "--value", "location")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "create index \"ix_places_loc\" ON \"places\" USING gist (location);\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, "db", "index", "--dsn", "mysql://u:p@tcp(db:3306)/app", "--table", "places",
		"--name", "loc", "--type", "spatial", "--value", "`location`")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "CREATE SPATIAL INDEX `ix_places_loc` ON `places` (`location`)\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := run(t, "db", "index", "--table", "places", "--name", "loc", "--value", "location"); err == nil {
		t.Fatalf("expected error without driver")
	}
}

func TestDBProvisionRequiresDSN(t *testing.T) {
	_, err := run(t, "db", "provision", "--table", "places")
	if err == nil || !strings.Contains(err.Error(), "DSN") {
		t.Fatalf("expected DSN error, got %v", err)
	}
}

func TestGeocodeCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("address") != "1, Collins St, , Melbourne, Australia" {
			t.Errorf("address = %q", r.URL.Query().Get("address"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":-37.8,"lng":144.9}}}]}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("geocoder:\n  baseURL: "+srv.URL+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := run(t, "geocode", "--config", path, "--street-number", "1", "--street", "Collins St",
		"--city", "Melbourne", "--country", "Australia")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "POINT(144.9 -37.8)\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoctl", "config.yaml")
	out, err := run(t, "config", "init", "--config", path, "--table", "places", "--api-key", "secret")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "wrote "+path+"\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"table: places", "schema: postgis", "apiKey: redacted"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
