package wkt

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ToGeom converts g into its go-geom equivalent with the XY layout.
func ToGeom(g Geometry, srid int) (geom.T, error) {
	switch v := g.(type) {
	case Point:
		return geom.NewPoint(geom.XY).MustSetCoords(toCoord(v.Coord())).SetSRID(srid), nil
	case LineString:
		return geom.NewLineString(geom.XY).MustSetCoords(toCoords(v.Coords)).SetSRID(srid), nil
	case LinearRing:
		return geom.NewLinearRing(geom.XY).MustSetCoords(toCoords(v.Coords)).SetSRID(srid), nil
	case Polygon:
		return geom.NewPolygon(geom.XY).MustSetCoords(toRings(v.Rings)).SetSRID(srid), nil
	case MultiPoint:
		coords := make([]geom.Coord, 0, len(v.Points))
		for _, p := range v.Points {
			coords = append(coords, toCoord(p.Coord()))
		}
		return geom.NewMultiPoint(geom.XY).MustSetCoords(coords).SetSRID(srid), nil
	case MultiLineString:
		lines := make([][]geom.Coord, 0, len(v.LineStrings))
		for _, ls := range v.LineStrings {
			lines = append(lines, toCoords(ls.Coords))
		}
		return geom.NewMultiLineString(geom.XY).MustSetCoords(lines).SetSRID(srid), nil
	case MultiPolygon:
		polys := make([][][]geom.Coord, 0, len(v.Polygons))
		for _, p := range v.Polygons {
			polys = append(polys, toRings(p.Rings))
		}
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(polys).SetSRID(srid), nil
	case GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, m := range v.Geometries {
			t, err := ToGeom(m, srid)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(t); err != nil {
				return nil, fmt.Errorf("push %s: %w", m.Kind(), err)
			}
		}
		return gc.SetSRID(srid), nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", g)
	}
}

// FromGeom converts a go-geom value back into this package's model. Only the
// first two ordinates of each coordinate are kept.
func FromGeom(t geom.T) (Geometry, error) {
	switch v := t.(type) {
	case *geom.Point:
		if v.Empty() {
			return nil, fmt.Errorf("%w: empty point", ErrMalformed)
		}
		return Point{X: v.X(), Y: v.Y()}, nil
	case *geom.LineString:
		return LineString{Coords: fromCoords(v.Coords())}, nil
	case *geom.LinearRing:
		return LinearRing{Coords: fromCoords(v.Coords())}, nil
	case *geom.Polygon:
		return Polygon{Rings: fromRings(v.Coords())}, nil
	case *geom.MultiPoint:
		var out MultiPoint
		for _, c := range v.Coords() {
			out.Points = append(out.Points, Point{X: c[0], Y: c[1]})
		}
		return out, nil
	case *geom.MultiLineString:
		var out MultiLineString
		for _, ls := range v.Coords() {
			out.LineStrings = append(out.LineStrings, LineString{Coords: fromCoords(ls)})
		}
		return out, nil
	case *geom.MultiPolygon:
		var out MultiPolygon
		for _, p := range v.Coords() {
			out.Polygons = append(out.Polygons, Polygon{Rings: fromRings(p)})
		}
		return out, nil
	case *geom.GeometryCollection:
		var out GeometryCollection
		for _, m := range v.Geoms() {
			g, err := FromGeom(m)
			if err != nil {
				return nil, err
			}
			out.Geometries = append(out.Geometries, g)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported go-geom type %T", t)
	}
}

// MarshalGeoJSON encodes g as a GeoJSON geometry object. Linear rings have
// no GeoJSON type and are written as line strings.
func MarshalGeoJSON(g Geometry) ([]byte, error) {
	t, err := ToGeom(exportable(g), 0)
	if err != nil {
		return nil, err
	}
	return geojson.Marshal(t)
}

// MarshalWKB encodes g as little-endian Well-Known Binary.
func MarshalWKB(g Geometry) ([]byte, error) {
	t, err := ToGeom(exportable(g), 0)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(t, binary.LittleEndian)
}

// UnmarshalWKB decodes Well-Known Binary in either byte order.
func UnmarshalWKB(b []byte) (Geometry, error) {
	t, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromGeom(t)
}

func exportable(g Geometry) Geometry {
	switch v := g.(type) {
	case LinearRing:
		return LineString(v)
	case GeometryCollection:
		out := GeometryCollection{Geometries: make([]Geometry, 0, len(v.Geometries))}
		for _, m := range v.Geometries {
			out.Geometries = append(out.Geometries, exportable(m))
		}
		return out
	default:
		return g
	}
}

func toCoord(c Coord) geom.Coord { return geom.Coord{c.X, c.Y} }

func toCoords(cs []Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCoord(c))
	}
	return out
}

func toRings(rings [][]Coord) [][]geom.Coord {
	out := make([][]geom.Coord, 0, len(rings))
	for _, r := range rings {
		out = append(out, toCoords(r))
	}
	return out
}

func fromCoords(cs []geom.Coord) []Coord {
	out := make([]Coord, 0, len(cs))
	for _, c := range cs {
		out = append(out, Coord{X: c[0], Y: c[1]})
	}
	return out
}

func fromRings(rings [][]geom.Coord) [][]Coord {
	out := make([][]Coord, 0, len(rings))
	for _, r := range rings {
		out = append(out, fromCoords(r))
	}
	return out
}
