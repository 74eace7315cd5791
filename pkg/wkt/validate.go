package wkt

import (
	"regexp"
	"strings"
)

var (
	shapeRe = regexp.MustCompile(`(?is)^(POINT|LINESTRING|LINEARRING|POLYGON|MULTIPOINT|MULTILINESTRING|MULTIPOLYGON|GEOMETRYCOLLECTION)\s*\(.*\)$`)

	// GeomFromText('...'), optionally ST_ prefixed, schema qualified or with an SRID argument.
	wrapperRe = regexp.MustCompile(`(?is)(?:[a-z_][a-z0-9_]*\.)?(?:ST_)?GeomFromText\(\s*'(.*)'\s*(?:,\s*-?\d+\s*)?\)`)
)

// Validate reports whether text, after call-wrapper stripping, has the
// top-level TAG(...) shape of a supported geometry. The body is not parsed,
// so Decode can still fail on text that validates.
func Validate(text string) bool {
	return shapeRe.MatchString(StripCallWrapper(text))
}

// StripCallWrapper returns the WKT literal inside a GeomFromText('...')
// write wrapper, dropping any text around the call. Text without a wrapper
// is returned with surrounding space trimmed.
func StripCallWrapper(text string) string {
	if m := wrapperRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
