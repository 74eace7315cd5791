// Package wktdiff renders line-oriented diffs of WKT values.
package wktdiff

import (
	"bufio"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/faciam-dev/geofield/pkg/wkt"
)

const indent = "  "

// Pretty formats g with one coordinate pair per line, nesting each
// parenthesised list one level deeper. Empty lists stay on one line.
func Pretty(g wkt.Geometry) string {
	src := wkt.Encode(g)
	var b strings.Builder
	depth := 0
	newline := func() {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(indent, depth))
	}
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '(':
			if i+1 < len(src) && src[i+1] == ')' {
				b.WriteString("()")
				i++
				continue
			}
			b.WriteByte(c)
			depth++
			newline()
		case ',':
			b.WriteByte(c)
			newline()
		case ')':
			depth--
			newline()
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unified decodes before and after and returns a unified diff of their
// pretty forms, with the number of added and removed coordinate lines.
func Unified(before, after string) (unified string, added, removed int, err error) {
	a, err := wkt.Decode(before)
	if err != nil {
		return "", 0, 0, err
	}
	b, err := wkt.Decode(after)
	if err != nil {
		return "", 0, 0, err
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Pretty(a) + "\n"),
		B:        difflib.SplitLines(Pretty(b) + "\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	s, _ := difflib.GetUnifiedDiffString(diff)
	added, removed = countChanges(s)
	return s, added, removed, nil
}

// Text diffs two strings line by line without decoding them.
func Text(from, to, a, b string) string {
	s, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	})
	return s
}

// countChanges counts only coordinate lines in a unified diff.
func countChanges(unified string) (add, del int) {
	sc := bufio.NewScanner(strings.NewReader(unified))
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if strings.HasPrefix(line, "+") {
			if isCoordLine(line[1:]) {
				add++
			}
		} else if strings.HasPrefix(line, "-") {
			if isCoordLine(line[1:]) {
				del++
			}
		}
	}
	return
}

func isCoordLine(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	c := s[0]
	return c == '-' || c == '.' || (c >= '0' && c <= '9')
}
