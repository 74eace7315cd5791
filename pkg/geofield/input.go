package geofield

import (
	"github.com/faciam-dev/geofield/pkg/wkt"
)

type inputKind int

const (
	inputText inputKind = iota + 1
	inputField
	inputStructured
	inputNull
	inputPair
	inputCoords
	inputRings
)

// Input is a value that can be assigned to a Field. Build one with Text,
// FromField, Structured or Null, or from an arbitrary value with InputOf.
type Input struct {
	kind   inputKind
	text   string
	field  *Field
	geom   wkt.Geometry
	coords []wkt.Coord
	rings  [][]wkt.Coord
}

// Text is a WKT literal, optionally wrapped in GeomFromText('...').
func Text(s string) Input { return Input{kind: inputText, text: s} }

// FromField copies the value of another field.
func FromField(f *Field) Input { return Input{kind: inputField, field: f} }

// Structured is an in-memory geometry value.
func Structured(g wkt.Geometry) Input { return Input{kind: inputStructured, geom: g} }

// Null clears the field.
func Null() Input { return Input{kind: inputNull} }

// InputOf classifies raw once, at the call site. Besides strings, fields,
// geometries and nil it accepts coordinate arrays, which the receiving field
// interprets according to its kind:
//
//	[]float64{x, y}  POINT, or a single-member MULTIPOINT
//	[]wkt.Coord      LINESTRING, LINEARRING, MULTIPOINT, or a one-ring POLYGON
//	[][]wkt.Coord    POLYGON rings or MULTILINESTRING members
func InputOf(raw any) (Input, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Input:
		return v, nil
	case string:
		return Text(v), nil
	case *Field:
		if v == nil {
			return Null(), nil
		}
		return FromField(v), nil
	case wkt.Geometry:
		return Structured(v), nil
	case []float64:
		if len(v) != 2 {
			return Input{}, &InvalidGeometryInputError{Value: raw, Reason: "coordinate pair needs two values"}
		}
		return Input{kind: inputPair, coords: []wkt.Coord{{X: v[0], Y: v[1]}}}, nil
	case []wkt.Coord:
		return Input{kind: inputCoords, coords: v}, nil
	case [][]wkt.Coord:
		return Input{kind: inputRings, rings: v}, nil
	default:
		return Input{}, &InvalidGeometryInputError{Value: raw}
	}
}

// shape builds the geometry for an array input given the field's kind. An
// empty kind accepts the most natural reading of each array form.
func (in Input) shape(kind wkt.Kind) (wkt.Geometry, bool) {
	switch in.kind {
	case inputPair:
		c := in.coords[0]
		switch kind {
		case "", wkt.KindPoint:
			return wkt.Point{X: c.X, Y: c.Y}, true
		case wkt.KindMultiPoint:
			return wkt.MultiPoint{Points: []wkt.Point{{X: c.X, Y: c.Y}}}, true
		}
	case inputCoords:
		switch kind {
		case "", wkt.KindLineString:
			return wkt.LineString{Coords: in.coords}, true
		case wkt.KindLinearRing:
			return wkt.LinearRing{Coords: in.coords}, true
		case wkt.KindPolygon:
			return wkt.Polygon{Rings: [][]wkt.Coord{in.coords}}, true
		case wkt.KindMultiPoint:
			mp := wkt.MultiPoint{Points: make([]wkt.Point, 0, len(in.coords))}
			for _, c := range in.coords {
				mp.Points = append(mp.Points, wkt.Point{X: c.X, Y: c.Y})
			}
			return mp, true
		}
	case inputRings:
		switch kind {
		case "", wkt.KindPolygon:
			return wkt.Polygon{Rings: in.rings}, true
		case wkt.KindMultiLineString:
			ml := wkt.MultiLineString{LineStrings: make([]wkt.LineString, 0, len(in.rings))}
			for _, r := range in.rings {
				ml.LineStrings = append(ml.LineStrings, wkt.LineString{Coords: r})
			}
			return ml, true
		}
	}
	return nil, false
}

// raw returns the original value for error reporting.
func (in Input) raw() any {
	switch in.kind {
	case inputText:
		return in.text
	case inputStructured:
		return in.geom
	case inputPair, inputCoords:
		return in.coords
	case inputRings:
		return in.rings
	default:
		return nil
	}
}
