// Package gisadapter hides the differences between SQL backends that store
// geometry columns. An Adapter rewrites read expressions, write templates,
// column types and index DDL for one backend family.
package gisadapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Kind identifies an adapter family.
type Kind string

const (
	KindSimple  Kind = "simple"
	KindPostGIS Kind = "postgis"
)

// DefaultSchema is the schema the PostGIS extension is installed into.
const DefaultSchema = "postgis"

// Dialect covers the SQL syntax that differs between backends.
type Dialect interface {
	Placeholder(n int) string
	QuoteIdent(ident string) string
}

// FieldSelector is the query under construction that a read is added to.
type FieldSelector interface {
	AddExpr(expr, alias string)
}

// Adapter is the backend-specific side of a geometry column.
type Adapter interface {
	Dialect
	Kind() Kind
	// Server is the server identity the adapter was resolved for.
	Server() string
	ColumnType(baseType string, srid int) string
	EnsureProvisioned(ctx context.Context) error
	AugmentRead(field string, q FieldSelector)
	TextExpr(field string) string
	TransformWrite(w WriteExpr) WriteExpr
	Indexes(base IndexGenerator) IndexGenerator
}

// WriteExpr is a column write: a SQL template with "?" markers and the
// parameters bound to them in order.
type WriteExpr struct {
	Template string
	Params   []any
}

const nullTemplate = "NULL"

// GeomFromText builds the generic write of a WKT literal. The SRID is passed
// as a second argument only when it is non-zero.
func GeomFromText(wkt string, srid int) WriteExpr {
	if srid != 0 {
		return WriteExpr{Template: "GeomFromText(?, ?)", Params: []any{wkt, srid}}
	}
	return WriteExpr{Template: "GeomFromText(?)", Params: []any{wkt}}
}

// Null builds a write of SQL NULL.
func Null() WriteExpr { return WriteExpr{Template: nullTemplate} }

// IsNull reports whether w writes SQL NULL.
func (w WriteExpr) IsNull() bool { return w.Template == nullTemplate }

func (w WriteExpr) clone() WriteExpr {
	out := WriteExpr{Template: w.Template}
	if w.Params != nil {
		out.Params = append([]any(nil), w.Params...)
	}
	return out
}

// TextAlias is the result column a geometry field is read back under.
func TextAlias(field string) string { return field + "_AsText" }

type options struct {
	logger *zap.SugaredLogger
	schema string
}

// Option configures an adapter built by Resolve.
type Option func(*options)

// WithLogger sets the logger used for provisioning output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSchema overrides the PostGIS extension schema.
func WithSchema(schema string) Option {
	return func(o *options) {
		if s := strings.TrimSpace(schema); s != "" {
			o.schema = s
		}
	}
}

// Resolve maps a server type to its adapter. db may be nil for adapters that
// are only used to build SQL.
func Resolve(server string, db *sql.DB, opts ...Option) (Adapter, error) {
	o := options{logger: zap.NewNop().Sugar(), schema: DefaultSchema}
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(strings.TrimSpace(server)) {
	case "mysql", "mariadb":
		return &Simple{server: server, logger: o.logger}, nil
	case "postgres", "postgresql", "postgis":
		return &PostGIS{db: db, server: server, schema: o.schema, logger: o.logger}, nil
	default:
		return nil, &NoAdapterError{Server: server}
	}
}

// ServerType reports the server identity of a live handle from its driver.
// Unknown drivers are reported by their Go type name.
func ServerType(db *sql.DB) string {
	if db == nil {
		return ""
	}
	switch d := db.Driver().(type) {
	case *mysql.MySQLDriver:
		return "mysql"
	case *pq.Driver:
		return "postgresql"
	default:
		return fmt.Sprintf("%T", d)
	}
}

// ForDB resolves the adapter for the handle's driver.
func ForDB(db *sql.DB, opts ...Option) (Adapter, error) {
	return Resolve(ServerType(db), db, opts...)
}
