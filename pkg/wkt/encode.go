package wkt

import (
	"strconv"
	"strings"
)

// Encode returns the canonical WKT of g: upper-case tag, no space before
// "(", one space inside a pair and a bare comma between pairs, e.g.
// POLYGON((0 0,1 4,4 2,0 0),(1 1,2 3,3 2,1 1)). Empty multi-part values
// encode as TAG(). A nil geometry encodes as "" and nil collection
// members are skipped.
func Encode(g Geometry) string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	writeGeometry(&b, g)
	return b.String()
}

func writeGeometry(b *strings.Builder, g Geometry) {
	b.WriteString(string(g.Kind()))
	switch v := g.(type) {
	case Point:
		b.WriteByte('(')
		writeCoord(b, v.Coord())
		b.WriteByte(')')
	case LineString:
		writeCoords(b, v.Coords)
	case LinearRing:
		writeCoords(b, v.Coords)
	case Polygon:
		writeRings(b, v.Rings)
	case MultiPoint:
		b.WriteByte('(')
		for i, pt := range v.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCoord(b, pt.Coord())
		}
		b.WriteByte(')')
	case MultiLineString:
		b.WriteByte('(')
		for i, ls := range v.LineStrings {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCoords(b, ls.Coords)
		}
		b.WriteByte(')')
	case MultiPolygon:
		b.WriteByte('(')
		for i, poly := range v.Polygons {
			if i > 0 {
				b.WriteByte(',')
			}
			writeRings(b, poly.Rings)
		}
		b.WriteByte(')')
	case GeometryCollection:
		b.WriteByte('(')
		n := 0
		for _, m := range v.Geometries {
			if m == nil {
				continue
			}
			if n > 0 {
				b.WriteByte(',')
			}
			writeGeometry(b, m)
			n++
		}
		b.WriteByte(')')
	}
}

func writeRings(b *strings.Builder, rings [][]Coord) {
	b.WriteByte('(')
	for i, r := range rings {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCoords(b, r)
	}
	b.WriteByte(')')
}

func writeCoords(b *strings.Builder, coords []Coord) {
	b.WriteByte('(')
	for i, c := range coords {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCoord(b, c)
	}
	b.WriteByte(')')
}

func writeCoord(b *strings.Builder, c Coord) {
	b.WriteString(formatNumber(c.X))
	b.WriteByte(' ')
	b.WriteString(formatNumber(c.Y))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
