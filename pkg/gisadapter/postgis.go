package gisadapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/faciam-dev/geofield/pkg/metrics"
)

var errNoDB = errors.New("no database handle")

const genericWriteCall = "GeomFromText("

// PostGIS is the adapter for PostgreSQL with the postgis extension installed
// into its own schema. Every spatial function and type is schema qualified,
// so the connection search_path is left alone.
type PostGIS struct {
	db     *sql.DB
	server string
	schema string
	logger *zap.SugaredLogger
}

func (p *PostGIS) Kind() Kind     { return KindPostGIS }
func (p *PostGIS) Server() string { return p.server }

// Schema is the schema the extension lives in.
func (p *PostGIS) Schema() string { return p.schema }

func (p *PostGIS) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (p *PostGIS) QuoteIdent(ident string) string { return pq.QuoteIdentifier(ident) }

// ColumnType returns the schema-qualified geometry type, e.g.
// postgis.geometry(Polygon, 4326).
func (p *PostGIS) ColumnType(baseType string, srid int) string {
	return fmt.Sprintf("%s.geometry(%s, %d)", p.qualifier(), baseType, srid)
}

// qualifier renders the schema for use in front of a function or type name.
// Lower-case identifiers stay bare; anything PostgreSQL would fold or reject
// is quoted the same way provisioning quotes it.
func (p *PostGIS) qualifier() string {
	if isPlainIdent(p.schema) {
		return p.schema
	}
	return pq.QuoteIdentifier(p.schema)
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '$'):
		default:
			return false
		}
	}
	return true
}

// EnsureProvisioned installs the postgis extension into the adapter's schema
// unless the catalog already lists it. Concurrent callers may both attempt
// the install; IF NOT EXISTS keeps that harmless.
func (p *PostGIS) EnsureProvisioned(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("provision postgis: %w", errNoDB)
	}
	var n int
	if err := p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pg_extension WHERE extname = 'postgis'").Scan(&n); err != nil {
		metrics.Provisions.WithLabelValues(string(KindPostGIS), "error").Inc()
		return fmt.Errorf("provision postgis: check extension: %w", err)
	}
	if n > 0 {
		metrics.Provisions.WithLabelValues(string(KindPostGIS), "present").Inc()
		return nil
	}
	schema := pq.QuoteIdentifier(p.schema)
	stmts := []string{
		"CREATE SCHEMA IF NOT EXISTS " + schema,
		"CREATE EXTENSION IF NOT EXISTS postgis WITH SCHEMA " + schema,
	}
	for _, stmt := range stmts {
		p.logger.Infow("provisioning postgis", "stmt", stmt)
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			metrics.Provisions.WithLabelValues(string(KindPostGIS), "error").Inc()
			return fmt.Errorf("provision postgis: %w", err)
		}
	}
	metrics.Provisions.WithLabelValues(string(KindPostGIS), "installed").Inc()
	return nil
}

func (p *PostGIS) AugmentRead(field string, q FieldSelector) {
	q.AddExpr(p.TextExpr(field), TextAlias(field))
}

func (p *PostGIS) TextExpr(field string) string {
	return p.qualifier() + ".ST_AsText(" + p.QuoteIdent(field) + ")"
}

// TransformWrite re-keys the generic GeomFromText call to the extension's
// ST_GeomFromText. Params are copied in order; w is not modified.
func (p *PostGIS) TransformWrite(w WriteExpr) WriteExpr {
	out := w.clone()
	if strings.HasPrefix(out.Template, genericWriteCall) {
		out.Template = p.qualifier() + ".ST_" + out.Template
	}
	return out
}

func (p *PostGIS) Indexes(base IndexGenerator) IndexGenerator {
	return GistIndexes{Base: base}
}
