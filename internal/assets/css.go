package assets

import (
	"regexp"
	"strings"
)

var classSelector = regexp.MustCompile(`\.(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)

// ScopeCSS rewrites every class selector in src to its scoped ident and
// returns the rewritten stylesheet with the local to ident mapping.
// Declaration blocks and at-rule preludes are left untouched, so values such
// as url(logo.png) or 0.5em are never mistaken for classes.
func ScopeCSS(src, buildID, file string) (string, map[string]string) {
	classes := make(map[string]string)
	var out, seg strings.Builder

	flushPrelude := func() {
		s := seg.String()
		seg.Reset()
		if strings.HasPrefix(strings.TrimSpace(s), "@") {
			out.WriteString(s)
			return
		}
		out.WriteString(classSelector.ReplaceAllStringFunc(s, func(m string) string {
			local := m[1:]
			id, ok := classes[local]
			if !ok {
				id = ClassIdent(buildID, file, local)
				classes[local] = id
			}
			return "." + id
		}))
	}
	flushPlain := func() {
		out.WriteString(seg.String())
		seg.Reset()
	}

	inComment := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inComment {
			seg.WriteByte(c)
			if c == '/' && i > 0 && src[i-1] == '*' {
				inComment = false
			}
			continue
		}
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			inComment = true
			seg.WriteByte(c)
			seg.WriteByte('*')
			i++
		case c == '{':
			flushPrelude()
			out.WriteByte(c)
		case c == '}' || c == ';':
			flushPlain()
			out.WriteByte(c)
		default:
			seg.WriteByte(c)
		}
	}
	flushPlain()
	return out.String(), classes
}
