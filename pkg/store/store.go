// Package store persists geometry fields in a single table keyed by an id
// column. It is the minimal host that drives the field and adapter read and
// write paths against a real database/sql handle.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/faciam-dev/geofield/pkg/geofield"
	"github.com/faciam-dev/geofield/pkg/gisadapter"
	"github.com/faciam-dev/geofield/pkg/metrics"
	"github.com/faciam-dev/geofield/pkg/wkt"
)

// DefaultIDColumn is the key column used unless WithIDColumn is given.
const DefaultIDColumn = "ID"

var ErrNotFound = errors.New("record not found")

type Store struct {
	db       *sql.DB
	adapter  gisadapter.Adapter
	table    string
	idColumn string
	logger   *zap.SugaredLogger
}

type Option func(*Store)

func WithIDColumn(col string) Option {
	return func(s *Store) {
		if col != "" {
			s.idColumn = col
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(db *sql.DB, adapter gisadapter.Adapter, table string, opts ...Option) *Store {
	s := &Store{db: db, adapter: adapter, table: table, idColumn: DefaultIDColumn, logger: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Adapter() gisadapter.Adapter { return s.adapter }

// Bind attaches the store's adapter to every field that has neither an
// adapter nor a resolver. A field's own resolver is left to report its errors.
func (s *Store) Bind(fields ...*geofield.Field) {
	for _, f := range fields {
		if !f.Bound() {
			f.Bind(s.adapter)
		}
	}
}

// binder numbers "?" markers with the dialect's placeholders and collects
// the bound arguments in the same order.
type binder struct {
	d    gisadapter.Dialect
	n    int
	args []any
}

func (b *binder) expand(tmpl string, params []any) (string, error) {
	if got := strings.Count(tmpl, "?"); got != len(params) {
		return "", fmt.Errorf("template %q has %d markers for %d params", tmpl, got, len(params))
	}
	var sb strings.Builder
	for _, r := range tmpl {
		if r == '?' {
			b.n++
			sb.WriteString(b.d.Placeholder(b.n))
			continue
		}
		sb.WriteRune(r)
	}
	b.args = append(b.args, params...)
	return sb.String(), nil
}

type write struct {
	field *geofield.Field
	expr  gisadapter.WriteExpr
}

func (s *Store) dirtyWrites(fields []*geofield.Field) ([]write, error) {
	var out []write
	for _, f := range fields {
		expr, include, err := f.WriteExpr()
		if err != nil {
			return nil, err
		}
		if include {
			out = append(out, write{field: f, expr: expr})
		}
	}
	return out, nil
}

func (s *Store) exec(ctx context.Context, q string, args []any) error {
	s.logger.Debugw("exec", "sql", q, "args", len(args))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *Store) written(ws []write) {
	for _, w := range ws {
		w.field.MarkClean()
		value := "geometry"
		if w.expr.IsNull() {
			value = "null"
		}
		metrics.Writes.WithLabelValues(string(s.adapter.Kind()), value).Inc()
	}
}

// Insert writes a new row with id and every changed field.
func (s *Store) Insert(ctx context.Context, id any, fields ...*geofield.Field) error {
	ws, err := s.dirtyWrites(fields)
	if err != nil {
		return err
	}
	b := &binder{d: s.adapter}
	cols := []string{s.adapter.QuoteIdent(s.idColumn)}
	idPh, _ := b.expand("?", []any{id})
	vals := []string{idPh}
	for _, w := range ws {
		v, err := b.expand(w.expr.Template, w.expr.Params)
		if err != nil {
			return fmt.Errorf("insert %s: %w", w.field.Name(), err)
		}
		cols = append(cols, s.adapter.QuoteIdent(w.field.Name()))
		vals = append(vals, v)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.adapter.QuoteIdent(s.table), strings.Join(cols, ", "), strings.Join(vals, ", "))
	if err := s.exec(ctx, q, b.args); err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	s.written(ws)
	return nil
}

// Update writes the changed fields of row id. Unchanged fields are left out
// of the statement, and nothing is executed when no field changed; the
// returned bool reports whether a statement ran.
func (s *Store) Update(ctx context.Context, id any, fields ...*geofield.Field) (bool, error) {
	ws, err := s.dirtyWrites(fields)
	if err != nil {
		return false, err
	}
	if len(ws) == 0 {
		return false, nil
	}
	b := &binder{d: s.adapter}
	sets := make([]string, 0, len(ws))
	for _, w := range ws {
		v, err := b.expand(w.expr.Template, w.expr.Params)
		if err != nil {
			return false, fmt.Errorf("update %s: %w", w.field.Name(), err)
		}
		sets = append(sets, s.adapter.QuoteIdent(w.field.Name())+" = "+v)
	}
	idPh, _ := b.expand("?", []any{id})
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s", s.adapter.QuoteIdent(s.table), strings.Join(sets, ", "), s.adapter.QuoteIdent(s.idColumn), idPh)
	if err := s.exec(ctx, q, b.args); err != nil {
		return false, fmt.Errorf("update %s: %w", s.table, err)
	}
	s.written(ws)
	return true, nil
}

// Load reads row id into fields through their text aliases. Fields are only
// updated when every column decodes; on error they keep their prior state.
// Loaded fields are clean.
func (s *Store) Load(ctx context.Context, id any, fields ...*geofield.Field) error {
	sel := NewSelect(s.table)
	for _, f := range fields {
		if err := f.AddToQuery(sel); err != nil {
			return err
		}
	}
	q := sel.SQL(s.adapter) + " WHERE " + s.adapter.QuoteIdent(s.idColumn) + " = " + s.adapter.Placeholder(1)
	s.logger.Debugw("query", "sql", q)

	vals := make([]sql.NullString, len(fields))
	dest := make([]any, len(fields))
	for i := range vals {
		dest[i] = &vals[i]
	}
	err := s.db.QueryRowContext(ctx, q, id).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", s.table, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", s.table, err)
	}
	for i, v := range vals {
		if !v.Valid || v.String == "" {
			continue
		}
		if _, err := wkt.Decode(v.String); err != nil {
			return fmt.Errorf("load %s: field %s: %w", s.table, fields[i].Name(), err)
		}
	}
	for i, v := range vals {
		var src any
		if v.Valid {
			src = v.String
		}
		if err := fields[i].Scan(src); err != nil {
			return fmt.Errorf("load %s: %w", s.table, err)
		}
	}
	return nil
}

func (s *Store) columnExists(ctx context.Context, column string) (bool, error) {
	var q string
	switch s.adapter.Kind() {
	case gisadapter.KindPostGIS:
		q = `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
	default:
		q = `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
	}
	var count int
	if err := s.db.QueryRowContext(ctx, q, s.table, column).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureColumn provisions the backend and adds the field's column when the
// table lacks it. It reports whether the column was added.
func (s *Store) EnsureColumn(ctx context.Context, f *geofield.Field) (bool, error) {
	if err := s.adapter.EnsureProvisioned(ctx); err != nil {
		return false, err
	}
	exists, err := s.columnExists(ctx, f.Name())
	if err != nil {
		return false, fmt.Errorf("check column %s.%s: %w", s.table, f.Name(), err)
	}
	if exists {
		return false, nil
	}
	typ, err := f.ColumnType()
	if err != nil {
		return false, err
	}
	q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", s.adapter.QuoteIdent(s.table), s.adapter.QuoteIdent(f.Name()), typ)
	if err := s.exec(ctx, q, nil); err != nil {
		return false, fmt.Errorf("add column: %w", err)
	}
	s.logger.Infow("added geometry column", "table", s.table, "column", f.Name(), "type", typ)
	return true, nil
}

// IndexSQL renders the DDL for an index on the store's table.
func (s *Store) IndexSQL(name string, spec gisadapter.IndexSpec) (string, error) {
	gen := s.adapter.Indexes(gisadapter.StandardIndexes{Dialect: s.adapter, Server: s.adapter.Server()})
	return gen.IndexSQL(s.table, name, spec)
}

// EnsureIndex creates the index described by spec.
func (s *Store) EnsureIndex(ctx context.Context, name string, spec gisadapter.IndexSpec) error {
	q, err := s.IndexSQL(name, spec)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, q, nil); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}
