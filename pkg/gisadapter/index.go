package gisadapter

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/lib/pq"
)

const maxIdentLen = 63

// IndexSpec describes one index. Value is the raw column list or expression.
// FillFactor and Where are optional.
type IndexSpec struct {
	Type       string
	Value      string
	FillFactor string
	Where      string
}

// IndexGenerator renders the DDL for an index on table.
type IndexGenerator interface {
	IndexSQL(table, name string, spec IndexSpec) (string, error)
}

// IndexName returns ix_<table>_<name>, shortened with a hash suffix when it
// would exceed the 63 byte identifier limit.
func IndexName(table, name string) string {
	n := "ix_" + table + "_" + name
	if len(n) <= maxIdentLen {
		return n
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(n))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	return n[:maxIdentLen-len(suffix)] + suffix
}

func isMySQL(server string) bool {
	switch strings.ToLower(strings.TrimSpace(server)) {
	case "mysql", "mariadb":
		return true
	}
	return false
}

// StandardIndexes builds plain and unique indexes for any backend, plus
// FULLTEXT and SPATIAL indexes on MySQL.
type StandardIndexes struct {
	Dialect Dialect
	Server  string
}

func (s StandardIndexes) IndexSQL(table, name string, spec IndexSpec) (string, error) {
	if strings.TrimSpace(spec.Value) == "" {
		return "", fmt.Errorf("index %s: empty value", name)
	}
	mysql := isMySQL(s.Server)
	var kw string
	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case "", "index":
		kw = "INDEX"
	case "unique":
		kw = "UNIQUE INDEX"
	case "fulltext", "spatial":
		if !mysql {
			return "", fmt.Errorf("%w: %s on %s", ErrUnsupportedIndex, spec.Type, s.Server)
		}
		kw = strings.ToUpper(strings.TrimSpace(spec.Type)) + " INDEX"
	default:
		return "", fmt.Errorf("%w: %s on %s", ErrUnsupportedIndex, spec.Type, s.Server)
	}
	if mysql && (spec.FillFactor != "" || spec.Where != "") {
		return "", fmt.Errorf("%w: fillfactor and where clauses on %s", ErrUnsupportedIndex, s.Server)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE %s %s ON %s (%s)", kw, s.Dialect.QuoteIdent(IndexName(table, name)), s.Dialect.QuoteIdent(table), spec.Value)
	if spec.FillFactor != "" {
		fmt.Fprintf(&b, " WITH (FILLFACTOR = %s)", spec.FillFactor)
	}
	if spec.Where != "" {
		fmt.Fprintf(&b, " WHERE %s", spec.Where)
	}
	return b.String(), nil
}

// GistIndexes adds GiST index support in front of another generator. Types
// other than gist are passed to Base unchanged.
type GistIndexes struct {
	Base IndexGenerator
}

func (g GistIndexes) IndexSQL(table, name string, spec IndexSpec) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(spec.Type), "gist") {
		if g.Base == nil {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedIndex, spec.Type)
		}
		return g.Base.IndexSQL(table, name, spec)
	}
	if strings.TrimSpace(spec.Value) == "" {
		return "", fmt.Errorf("index %s: empty value", name)
	}
	parts := []string{
		"create index", pq.QuoteIdentifier(IndexName(table, name)),
		"ON", pq.QuoteIdentifier(table),
		"USING gist (" + strings.TrimSpace(spec.Value) + ")",
	}
	if ff := strings.TrimSpace(spec.FillFactor); ff != "" {
		parts = append(parts, "WITH (FILLFACTOR = "+ff+")")
	}
	if where := strings.TrimSpace(spec.Where); where != "" {
		parts = append(parts, "WHERE "+where)
	}
	return strings.Join(parts, " ") + ";", nil
}
