package gisadapter

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/faciam-dev/geofield/pkg/metrics"
)

// Simple is the adapter for backends with built-in spatial support and the
// plain AsText/GeomFromText function names (MySQL 5.x, MariaDB).
type Simple struct {
	server string
	logger *zap.SugaredLogger
}

func (s *Simple) Kind() Kind     { return KindSimple }
func (s *Simple) Server() string { return s.server }

func (s *Simple) Placeholder(int) string { return "?" }

func (s *Simple) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

// ColumnType returns baseType unchanged; the SRID is not part of the type.
func (s *Simple) ColumnType(baseType string, _ int) string { return baseType }

// EnsureProvisioned is a no-op: spatial types are always available.
func (s *Simple) EnsureProvisioned(context.Context) error {
	s.logger.Debugw("spatial types are built in", "server", s.server)
	metrics.Provisions.WithLabelValues(string(KindSimple), "builtin").Inc()
	return nil
}

func (s *Simple) AugmentRead(field string, q FieldSelector) {
	q.AddExpr(s.TextExpr(field), TextAlias(field))
}

func (s *Simple) TextExpr(field string) string {
	return "AsText(" + s.QuoteIdent(field) + ")"
}

func (s *Simple) TransformWrite(w WriteExpr) WriteExpr { return w }

func (s *Simple) Indexes(base IndexGenerator) IndexGenerator { return base }
