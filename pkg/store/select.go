package store

import (
	"strings"

	"github.com/faciam-dev/geofield/pkg/gisadapter"
)

type selectExpr struct {
	expr  string
	alias string
}

// Select is a single-table select list. Geometry fields add their text read
// through AddExpr.
type Select struct {
	table   string
	columns []string
	exprs   []selectExpr
}

func NewSelect(table string) *Select { return &Select{table: table} }

// Column adds a plain column.
func (s *Select) Column(name string) *Select {
	s.columns = append(s.columns, name)
	return s
}

// AddExpr implements gisadapter.FieldSelector.
func (s *Select) AddExpr(expr, alias string) {
	s.exprs = append(s.exprs, selectExpr{expr: expr, alias: alias})
}

// SQL renders the statement without a WHERE clause.
func (s *Select) SQL(d gisadapter.Dialect) string {
	items := make([]string, 0, len(s.columns)+len(s.exprs))
	for _, c := range s.columns {
		items = append(items, d.QuoteIdent(c))
	}
	for _, e := range s.exprs {
		items = append(items, e.expr+" AS "+d.QuoteIdent(e.alias))
	}
	if len(items) == 0 {
		items = append(items, "*")
	}
	return "SELECT " + strings.Join(items, ", ") + " FROM " + d.QuoteIdent(s.table)
}
