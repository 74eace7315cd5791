package wkt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decode parses a WKT string. A GeomFromText('...') call wrapper around the
// literal is stripped before parsing.
func Decode(text string) (Geometry, error) {
	src := StripCallWrapper(text)
	p := &parser{src: src}
	p.skipSpace()
	g, err := p.geometry()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.malformed("unexpected trailing text %q", p.src[p.pos:])
	}
	return g, nil
}

// Normalize decodes text and re-encodes it in canonical form.
func Normalize(text string) (string, error) {
	g, err := Decode(text)
	if err != nil {
		return "", err
	}
	return Encode(g), nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) geometry() (Geometry, error) {
	start := p.pos
	tag := p.word()
	if tag == "" {
		return nil, p.malformed("expected geometry tag")
	}
	kind, ok := ParseKind(tag)
	if !ok {
		p.pos = start
		return nil, p.malformed("unknown geometry tag %q", tag)
	}
	p.skipSpace()
	if p.peekWord("EMPTY") {
		return p.empty(kind)
	}

	switch kind {
	case KindPoint:
		coords, err := p.coordSeq()
		if err != nil {
			return nil, err
		}
		if len(coords) != 1 {
			return nil, p.arity(start, kind, "exactly one coordinate", len(coords))
		}
		return Point{X: coords[0].X, Y: coords[0].Y}, nil
	case KindLineString, KindLinearRing:
		coords, err := p.coordSeq()
		if err != nil {
			return nil, err
		}
		if len(coords) < 2 {
			return nil, p.arity(start, kind, "at least two coordinates", len(coords))
		}
		if kind == KindLinearRing {
			return LinearRing{Coords: coords}, nil
		}
		return LineString{Coords: coords}, nil
	case KindPolygon:
		poly, err := p.polygonBody(start)
		if err != nil {
			return nil, err
		}
		return poly, nil
	case KindMultiPoint:
		return p.multiPoint()
	case KindMultiLineString:
		var out MultiLineString
		_, err := p.list(func() error {
			at := p.pos
			coords, err := p.coordSeq()
			if err != nil {
				return err
			}
			if len(coords) < 2 {
				return p.arity(at, KindLineString, "at least two coordinates", len(coords))
			}
			out.LineStrings = append(out.LineStrings, LineString{Coords: coords})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case KindMultiPolygon:
		var out MultiPolygon
		_, err := p.list(func() error {
			poly, err := p.polygonBody(p.pos)
			if err != nil {
				return err
			}
			out.Polygons = append(out.Polygons, poly)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		var out GeometryCollection
		_, err := p.list(func() error {
			g, err := p.geometry()
			if err != nil {
				return err
			}
			out.Geometries = append(out.Geometries, g)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// empty handles "TAG EMPTY", which is only meaningful for multi-part values.
func (p *parser) empty(kind Kind) (Geometry, error) {
	at := p.pos
	p.pos += len("EMPTY")
	switch kind {
	case KindMultiPoint:
		return MultiPoint{}, nil
	case KindMultiLineString:
		return MultiLineString{}, nil
	case KindMultiPolygon:
		return MultiPolygon{}, nil
	case KindGeometryCollection:
		return GeometryCollection{}, nil
	default:
		p.pos = at
		return nil, p.malformed("%s cannot be empty", kind)
	}
}

func (p *parser) polygonBody(start int) (Polygon, error) {
	var poly Polygon
	n, err := p.list(func() error {
		at := p.pos
		ring, err := p.coordSeq()
		if err != nil {
			return err
		}
		if len(ring) == 0 {
			return p.arity(at, KindPolygon, "non-empty rings", 0)
		}
		poly.Rings = append(poly.Rings, ring)
		return nil
	})
	if err != nil {
		return Polygon{}, err
	}
	if n == 0 {
		return Polygon{}, p.arity(start, KindPolygon, "at least one ring", 0)
	}
	return poly, nil
}

// multiPoint accepts both the flat form MULTIPOINT(1 2,3 4) and the
// member form MULTIPOINT((1 2),(3 4)).
func (p *parser) multiPoint() (Geometry, error) {
	var out MultiPoint
	_, err := p.list(func() error {
		if p.peek() == '(' {
			at := p.pos
			coords, err := p.coordSeq()
			if err != nil {
				return err
			}
			if len(coords) != 1 {
				return p.arity(at, KindPoint, "exactly one coordinate", len(coords))
			}
			out.Points = append(out.Points, Point{X: coords[0].X, Y: coords[0].Y})
			return nil
		}
		c, err := p.coord()
		if err != nil {
			return err
		}
		out.Points = append(out.Points, Point{X: c.X, Y: c.Y})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) coordSeq() ([]Coord, error) {
	var coords []Coord
	_, err := p.list(func() error {
		c, err := p.coord()
		if err != nil {
			return err
		}
		coords = append(coords, c)
		return nil
	})
	return coords, err
}

// list parses "(" [elem {"," elem}] ")" and returns the element count.
func (p *parser) list(elem func() error) (int, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return 0, p.malformed("expected '('")
	}
	p.pos++
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return 0, nil
	}
	n := 0
	for {
		if err := elem(); err != nil {
			return n, err
		}
		n++
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ')':
			p.pos++
			return n, nil
		case 0:
			return n, p.malformed("unexpected end of input")
		default:
			return n, p.malformed("expected ',' or ')'")
		}
	}
}

func (p *parser) coord() (Coord, error) {
	x, err := p.number()
	if err != nil {
		return Coord{}, err
	}
	if p.pos < len(p.src) && !isSpace(p.src[p.pos]) {
		return Coord{}, p.malformed("expected space between coordinates")
	}
	y, err := p.number()
	if err != nil {
		return Coord{}, err
	}
	return Coord{X: x, Y: y}, nil
}

func (p *parser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !isDelim(p.src[p.pos]) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if tok == "" {
		return 0, &DecodeError{Kind: Malformed, Input: p.src, Pos: start, Msg: "expected number"}
	}
	bad := &DecodeError{Kind: BadNumber, Input: p.src, Pos: start, Msg: fmt.Sprintf("invalid number %q", tok)}
	if strings.IndexFunc(tok, func(r rune) bool { return !strings.ContainsRune("0123456789+-.eE", r) }) >= 0 {
		return 0, bad
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, bad
	}
	return v, nil
}

func (p *parser) word() string {
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) peekWord(w string) bool {
	end := p.pos + len(w)
	if end > len(p.src) || !strings.EqualFold(p.src[p.pos:end], w) {
		return false
	}
	return end == len(p.src) || !isLetter(p.src[end])
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) malformed(format string, args ...any) *DecodeError {
	return &DecodeError{Kind: Malformed, Input: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) arity(at int, kind Kind, want string, got int) *DecodeError {
	return &DecodeError{Kind: Malformed, Input: p.src, Pos: at, Msg: fmt.Sprintf("%s needs %s, got %d", kind, want, got)}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDelim(c byte) bool { return isSpace(c) || c == ',' || c == '(' || c == ')' }
