// Package geofield provides a geometry-valued model field that tracks
// changes and delegates backend specifics to a gisadapter.Adapter.
package geofield

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/faciam-dev/geofield/pkg/gisadapter"
	"github.com/faciam-dev/geofield/pkg/metrics"
	"github.com/faciam-dev/geofield/pkg/wkt"
)

// Resolver lazily supplies the adapter on first use.
type Resolver func() (gisadapter.Adapter, error)

// Field holds one geometry column value as canonical WKT. The zero value is
// not usable; build fields with New. A Field is not safe for concurrent use.
type Field struct {
	name    string
	kind    wkt.Kind
	srid    int
	adapter gisadapter.Adapter
	resolve Resolver
	logger  *zap.SugaredLogger

	text  string
	dirty bool
}

// Option configures a Field.
type Option func(*Field)

func WithSRID(srid int) Option { return func(f *Field) { f.srid = srid } }

func WithAdapter(a gisadapter.Adapter) Option { return func(f *Field) { f.adapter = a } }

// WithResolver defers adapter lookup until the field first needs it.
func WithResolver(r Resolver) Option { return func(f *Field) { f.resolve = r } }

func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Field) {
		if l != nil {
			f.logger = l
		}
	}
}

// New returns an unset field for column name. kind restricts the accepted
// geometries; an empty kind accepts any.
func New(name string, kind wkt.Kind, opts ...Option) *Field {
	f := &Field{name: name, kind: kind, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Bind sets the adapter, replacing any resolver.
func (f *Field) Bind(a gisadapter.Adapter) {
	f.adapter = a
	f.resolve = nil
}

// Bound reports whether the field has an adapter or a resolver for one.
func (f *Field) Bound() bool { return f.adapter != nil || f.resolve != nil }

func (f *Field) Name() string      { return f.name }
func (f *Field) Kind() wkt.Kind    { return f.kind }
func (f *Field) SRID() int         { return f.srid }
func (f *Field) IsSet() bool       { return f.text != "" }
func (f *Field) IsDirty() bool     { return f.dirty }
func (f *Field) MarkClean()        { f.dirty = false }
func (f *Field) String() string    { return f.text }
func (f *Field) WKT() string       { return f.text }
func (f *Field) TextAlias() string { return gisadapter.TextAlias(f.name) }

// SetSRID changes the SRID used for writes. A change marks the field dirty.
func (f *Field) SetSRID(srid int) {
	if srid != f.srid {
		f.srid = srid
		f.dirty = true
	}
}

// Adapter returns the bound adapter, resolving it on first use.
func (f *Field) Adapter() (gisadapter.Adapter, error) {
	if f.adapter != nil {
		return f.adapter, nil
	}
	if f.resolve == nil {
		return nil, fmt.Errorf("field %s: %w", f.name, ErrNoAdapter)
	}
	a, err := f.resolve()
	if err != nil {
		return nil, fmt.Errorf("field %s: resolve adapter: %w", f.name, err)
	}
	f.logger.Debugw("resolved gis adapter", "field", f.name, "adapter", a.Kind(), "server", a.Server())
	f.adapter = a
	return a, nil
}

// Set assigns in. Any successful assignment marks the field dirty, including
// one that leaves the value unchanged.
func (f *Field) Set(in Input) error {
	switch in.kind {
	case inputNull:
		f.text = ""
	case inputText:
		if !wkt.Validate(in.text) {
			metrics.DecodeErrors.WithLabelValues("invalid").Inc()
			return &InvalidGeometryInputError{Value: in.text}
		}
		g, err := wkt.Decode(in.text)
		if err != nil {
			var de *wkt.DecodeError
			if errors.As(err, &de) {
				metrics.DecodeErrors.WithLabelValues(de.Kind.String()).Inc()
			}
			return fmt.Errorf("field %s: %w", f.name, err)
		}
		if err := f.assign(g); err != nil {
			return err
		}
	case inputField:
		if in.field == nil || !in.field.IsSet() {
			f.text = ""
			break
		}
		g, err := in.field.Geometry()
		if err != nil {
			return fmt.Errorf("field %s: copy from %s: %w", f.name, in.field.name, err)
		}
		if err := f.assign(g); err != nil {
			return err
		}
	case inputStructured:
		if in.geom == nil {
			return &InvalidGeometryInputError{Value: nil, Reason: "nil geometry"}
		}
		if err := wkt.Check(in.geom); err != nil {
			return &InvalidGeometryInputError{Value: in.geom, Reason: err.Error()}
		}
		if err := f.assign(in.geom); err != nil {
			return err
		}
	case inputPair, inputCoords, inputRings:
		g, ok := in.shape(f.kind)
		if !ok {
			return &InvalidGeometryInputError{Value: in.raw(), Reason: fmt.Sprintf("cannot build %s from coordinates", f.kindName())}
		}
		if err := wkt.Check(g); err != nil {
			return &InvalidGeometryInputError{Value: in.raw(), Reason: err.Error()}
		}
		if err := f.assign(g); err != nil {
			return err
		}
	default:
		return &InvalidGeometryInputError{Value: nil, Reason: "empty input"}
	}
	f.dirty = true
	return nil
}

// SetValue is InputOf followed by Set.
func (f *Field) SetValue(raw any) error {
	in, err := InputOf(raw)
	if err != nil {
		return err
	}
	return f.Set(in)
}

func (f *Field) assign(g wkt.Geometry) error {
	if f.kind != "" && g.Kind() != f.kind {
		return &InvalidGeometryInputError{
			Value:  wkt.Encode(g),
			Reason: fmt.Sprintf("field %s expects %s, got %s", f.name, f.kind, g.Kind()),
		}
	}
	f.text = wkt.Encode(g)
	return nil
}

func (f *Field) kindName() string {
	if f.kind == "" {
		return "geometry"
	}
	return string(f.kind)
}

// Geometry decodes the stored WKT. It returns nil for an unset field.
func (f *Field) Geometry() (wkt.Geometry, error) {
	if !f.IsSet() {
		return nil, nil
	}
	return wkt.Decode(f.text)
}

// Rings returns the polygon rings, exterior first.
func (f *Field) Rings() ([][]wkt.Coord, error) {
	g, err := f.Geometry()
	if err != nil {
		return nil, err
	}
	p, ok := g.(wkt.Polygon)
	if !ok {
		return nil, fmt.Errorf("field %s: rings of %v: %w", f.name, kindOf(g), ErrWrongKind)
	}
	return p.Rings, nil
}

func (f *Field) Point() (wkt.Point, error) {
	g, err := f.Geometry()
	if err != nil {
		return wkt.Point{}, err
	}
	p, ok := g.(wkt.Point)
	if !ok {
		return wkt.Point{}, fmt.Errorf("field %s: point of %v: %w", f.name, kindOf(g), ErrWrongKind)
	}
	return p, nil
}

// GeoJSON encodes the value as a GeoJSON geometry, or null when unset.
func (f *Field) GeoJSON() ([]byte, error) {
	g, err := f.Geometry()
	if err != nil {
		return nil, err
	}
	if g == nil {
		return []byte("null"), nil
	}
	return wkt.MarshalGeoJSON(g)
}

func kindOf(g wkt.Geometry) any {
	if g == nil {
		return "unset value"
	}
	return g.Kind()
}

// AddToQuery asks the adapter to add the text read of this field to q.
func (f *Field) AddToQuery(q gisadapter.FieldSelector) error {
	a, err := f.Adapter()
	if err != nil {
		return err
	}
	a.AugmentRead(f.name, q)
	return nil
}

// Load populates the field from a fetched record. The text alias column is
// preferred over the raw column. A loaded field is clean. Records without
// either column leave the field untouched.
func (f *Field) Load(record map[string]any) error {
	v, ok := record[f.TextAlias()]
	if !ok {
		v, ok = record[f.name]
	}
	if !ok {
		return nil
	}
	return f.Scan(v)
}

// Scan implements sql.Scanner for the text alias column.
func (f *Field) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("field %s: cannot scan %T", f.name, src)
	}
	if s == "" {
		f.text = ""
		f.dirty = false
		return nil
	}
	g, err := wkt.Decode(s)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	f.text = wkt.Encode(g)
	f.dirty = false
	return nil
}

// WriteExpr returns the column write for a dirty field. include is false
// when the field has not changed since it was loaded or last written.
func (f *Field) WriteExpr() (expr gisadapter.WriteExpr, include bool, err error) {
	if !f.dirty {
		return gisadapter.WriteExpr{}, false, nil
	}
	a, err := f.Adapter()
	if err != nil {
		return gisadapter.WriteExpr{}, false, err
	}
	if !f.IsSet() {
		return a.TransformWrite(gisadapter.Null()), true, nil
	}
	return a.TransformWrite(gisadapter.GeomFromText(f.text, f.srid)), true, nil
}

// ColumnType returns the backend column type for the field's kind and SRID.
func (f *Field) ColumnType() (string, error) {
	a, err := f.Adapter()
	if err != nil {
		return "", err
	}
	return a.ColumnType(f.kind.TypeName(), f.srid), nil
}
