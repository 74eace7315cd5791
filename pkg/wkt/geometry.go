// Package wkt models geometry values and their Well-Known Text encoding.
//
// The package is self-contained: decoding and encoding never touch a
// database. SRIDs are not part of WKT and are carried by callers.
package wkt

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the upper-case WKT tag of a geometry variant.
type Kind string

const (
	KindPoint              Kind = "POINT"
	KindLineString         Kind = "LINESTRING"
	KindLinearRing         Kind = "LINEARRING"
	KindPolygon            Kind = "POLYGON"
	KindMultiPoint         Kind = "MULTIPOINT"
	KindMultiLineString    Kind = "MULTILINESTRING"
	KindMultiPolygon       Kind = "MULTIPOLYGON"
	KindGeometryCollection Kind = "GEOMETRYCOLLECTION"
)

var kinds = []Kind{
	KindPoint,
	KindLineString,
	KindLinearRing,
	KindPolygon,
	KindMultiPoint,
	KindMultiLineString,
	KindMultiPolygon,
	KindGeometryCollection,
}

// Kinds returns every supported tag.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind maps a tag to its Kind, ignoring case and surrounding space.
func ParseKind(tag string) (Kind, bool) {
	t := Kind(strings.ToUpper(strings.TrimSpace(tag)))
	for _, k := range kinds {
		if k == t {
			return k, true
		}
	}
	return "", false
}

// TypeName returns the mixed-case type name used in column DDL, e.g. "MultiPolygon".
func (k Kind) TypeName() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindLinearRing:
		return "LinearRing"
	case KindPolygon:
		return "Polygon"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLineString:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	case KindGeometryCollection:
		return "GeometryCollection"
	default:
		return "Geometry"
	}
}

// Geometry is implemented by every geometry variant in this package.
type Geometry interface {
	Kind() Kind
	geometry()
}

// Coord is a single x/y coordinate pair.
type Coord struct {
	X float64
	Y float64
}

// Point is a single position.
type Point struct {
	X float64
	Y float64
}

// PointXY returns a Point at x, y.
func PointXY(x, y float64) Point { return Point{X: x, Y: y} }

// Coord returns the point's coordinate pair.
func (p Point) Coord() Coord { return Coord{X: p.X, Y: p.Y} }

// LineString is an ordered sequence of at least two coordinates.
type LineString struct {
	Coords []Coord
}

// LinearRing is a line string that is expected, but not required, to be closed.
type LinearRing struct {
	Coords []Coord
}

// Closed reports whether the first and last coordinates are equal.
func (r LinearRing) Closed() bool {
	if len(r.Coords) < 2 {
		return false
	}
	return r.Coords[0] == r.Coords[len(r.Coords)-1]
}

// Polygon is an ordered list of rings. Ring 0 is the exterior boundary,
// the remaining rings are holes.
type Polygon struct {
	Rings [][]Coord
}

// Exterior returns ring 0, or nil for a polygon without rings.
func (p Polygon) Exterior() []Coord {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// Holes returns rings 1..n.
func (p Polygon) Holes() [][]Coord {
	if len(p.Rings) < 2 {
		return nil
	}
	return p.Rings[1:]
}

// MultiPoint is an ordered list of points.
type MultiPoint struct {
	Points []Point
}

// MultiLineString is an ordered list of line strings.
type MultiLineString struct {
	LineStrings []LineString
}

// MultiPolygon is an ordered list of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

// GeometryCollection is an ordered list of arbitrary geometries.
type GeometryCollection struct {
	Geometries []Geometry
}

func (Point) Kind() Kind              { return KindPoint }
func (LineString) Kind() Kind         { return KindLineString }
func (LinearRing) Kind() Kind         { return KindLinearRing }
func (Polygon) Kind() Kind            { return KindPolygon }
func (MultiPoint) Kind() Kind         { return KindMultiPoint }
func (MultiLineString) Kind() Kind    { return KindMultiLineString }
func (MultiPolygon) Kind() Kind       { return KindMultiPolygon }
func (GeometryCollection) Kind() Kind { return KindGeometryCollection }

func (Point) geometry()              {}
func (LineString) geometry()         {}
func (LinearRing) geometry()         {}
func (Polygon) geometry()            {}
func (MultiPoint) geometry()         {}
func (MultiLineString) geometry()    {}
func (MultiPolygon) geometry()       {}
func (GeometryCollection) geometry() {}

// PolygonFromRings builds a polygon from raw [x, y] pairs, one slice per ring.
func PolygonFromRings(rings [][][2]float64) Polygon {
	p := Polygon{Rings: make([][]Coord, 0, len(rings))}
	for _, r := range rings {
		p.Rings = append(p.Rings, coordsFromPairs(r))
	}
	return p
}

// LineStringFromPairs builds a line string from raw [x, y] pairs.
func LineStringFromPairs(pairs [][2]float64) LineString {
	return LineString{Coords: coordsFromPairs(pairs)}
}

func coordsFromPairs(pairs [][2]float64) []Coord {
	out := make([]Coord, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Coord{X: p[0], Y: p[1]})
	}
	return out
}

// Check verifies the arity rules that Decode enforces, so that values built
// in code are held to the same shape as parsed ones. Non-finite coordinates
// are rejected.
func Check(g Geometry) error {
	switch v := g.(type) {
	case nil:
		return fmt.Errorf("%w: nil geometry", ErrMalformed)
	case Point:
		return checkFinite(KindPoint, v.Coord())
	case LineString:
		if err := checkMin(KindLineString, len(v.Coords), 2); err != nil {
			return err
		}
		return checkFinite(KindLineString, v.Coords...)
	case LinearRing:
		if err := checkMin(KindLinearRing, len(v.Coords), 2); err != nil {
			return err
		}
		return checkFinite(KindLinearRing, v.Coords...)
	case Polygon:
		if err := checkMin(KindPolygon, len(v.Rings), 1); err != nil {
			return err
		}
		for _, r := range v.Rings {
			if err := checkMin(KindPolygon, len(r), 1); err != nil {
				return err
			}
			if err := checkFinite(KindPolygon, r...); err != nil {
				return err
			}
		}
		return nil
	case MultiPoint:
		for _, p := range v.Points {
			if err := checkFinite(KindMultiPoint, p.Coord()); err != nil {
				return err
			}
		}
		return nil
	case MultiLineString:
		for _, ls := range v.LineStrings {
			if err := Check(ls); err != nil {
				return err
			}
		}
		return nil
	case MultiPolygon:
		for _, p := range v.Polygons {
			if err := Check(p); err != nil {
				return err
			}
		}
		return nil
	case GeometryCollection:
		for _, m := range v.Geometries {
			if err := Check(m); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported geometry %T", ErrMalformed, g)
	}
}

func checkFinite(k Kind, coords ...Coord) error {
	for _, c := range coords {
		if math.IsNaN(c.X) || math.IsInf(c.X, 0) || math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			return fmt.Errorf("%w: %s has non-finite coordinate (%v %v)", ErrMalformed, k, c.X, c.Y)
		}
	}
	return nil
}

func checkMin(k Kind, n, min int) error {
	if n < min {
		return fmt.Errorf("%w: %s needs at least %d elements, got %d", ErrMalformed, k, min, n)
	}
	return nil
}
