package gisadapter

import (
	"errors"
	"strings"
	"testing"
)

func TestGistIndexSQL(t *testing.T) {
	a := mustResolve(t, "postgres", nil)
	gen := a.Indexes(StandardIndexes{Dialect: a, Server: a.Server()})

	cases := []struct {
		name string
		spec IndexSpec
		want string
	}{
		{
			name: "plain",
			spec: IndexSpec{Type: "gist", Value: "location"},
			want: `create index "ix_places_loc" ON "places" USING gist (location);`,
		},
		{
			name: "fillfactor and where",
			spec: IndexSpec{Type: "GiST", Value: "location", FillFactor: "70", Where: "location IS NOT NULL"},
			want: `create index "ix_places_loc" ON "places" USING gist (location) WITH (FILLFACTOR = 70) WHERE location IS NOT NULL;`,
		},
		{
			name: "where only",
			spec: IndexSpec{Type: "gist", Value: "location", Where: "active"},
			want: `create index "ix_places_loc" ON "places" USING gist (location) WHERE active;`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := gen.IndexSQL("places", "loc", c.spec)
			if err != nil {
				t.Fatalf("IndexSQL: %v", err)
			}
			if got != c.want {
				t.Fatalf("got  %s\nwant %s", got, c.want)
			}
		})
	}
}

func TestGistDelegatesOtherTypes(t *testing.T) {
	a := mustResolve(t, "postgres", nil)
	base := StandardIndexes{Dialect: a, Server: a.Server()}
	gen := a.Indexes(base)

	spec := IndexSpec{Type: "unique", Value: `"code"`, Where: "deleted_at IS NULL"}
	want, err := base.IndexSQL("places", "code", spec)
	if err != nil {
		t.Fatalf("base IndexSQL: %v", err)
	}
	got, err := gen.IndexSQL("places", "code", spec)
	if err != nil {
		t.Fatalf("IndexSQL: %v", err)
	}
	if got != want {
		t.Fatalf("delegated sql = %q, want %q", got, want)
	}
	if want != `CREATE UNIQUE INDEX "ix_places_code" ON "places" ("code") WHERE deleted_at IS NULL` {
		t.Fatalf("unexpected base sql %q", want)
	}
}

func TestStandardIndexesMySQL(t *testing.T) {
	a := mustResolve(t, "mysql", nil)
	gen := a.Indexes(StandardIndexes{Dialect: a, Server: a.Server()})

	got, err := gen.IndexSQL("places", "loc", IndexSpec{Type: "spatial", Value: "`location`"})
	if err != nil {
		t.Fatalf("IndexSQL: %v", err)
	}
	if got != "CREATE SPATIAL INDEX `ix_places_loc` ON `places` (`location`)" {
		t.Fatalf("sql = %q", got)
	}
	if _, err := gen.IndexSQL("places", "loc", IndexSpec{Type: "gist", Value: "location"}); !errors.Is(err, ErrUnsupportedIndex) {
		t.Fatalf("gist on mysql: expected ErrUnsupportedIndex, got %v", err)
	}
	if _, err := gen.IndexSQL("places", "loc", IndexSpec{Value: "location", Where: "x"}); !errors.Is(err, ErrUnsupportedIndex) {
		t.Fatalf("partial index on mysql: expected ErrUnsupportedIndex, got %v", err)
	}
}

func TestStandardIndexesRejectsMySQLTypesOnPostgres(t *testing.T) {
	a := mustResolve(t, "postgres", nil)
	gen := StandardIndexes{Dialect: a, Server: a.Server()}
	if _, err := gen.IndexSQL("places", "body", IndexSpec{Type: "fulltext", Value: "body"}); !errors.Is(err, ErrUnsupportedIndex) {
		t.Fatalf("expected ErrUnsupportedIndex, got %v", err)
	}
	if _, err := gen.IndexSQL("places", "body", IndexSpec{Value: " "}); err == nil {
		t.Fatalf("expected error for empty value")
	}
}

func TestIndexNameLimit(t *testing.T) {
	table := strings.Repeat("t", 40)
	name := strings.Repeat("n", 40)
	got := IndexName(table, name)
	if len(got) != 63 {
		t.Fatalf("len = %d", len(got))
	}
	if got != IndexName(table, name) {
		t.Fatalf("index name is not stable")
	}
	if other := IndexName(table, name+"x"); other == got {
		t.Fatalf("distinct long names collided: %s", got)
	}
	if IndexName("t", "i") != "ix_t_i" {
		t.Fatalf("short name = %q", IndexName("t", "i"))
	}
}
