package ident

import (
	"strings"
)

// Split splits a possibly schema-qualified identifier into its parts,
// honoring double-quoted segments and doubled quotes inside them.
func Split(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var (
		parts    []string
		buf      strings.Builder
		inQuotes bool
	)
	runes := []rune(name)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '"' && inQuotes && i+1 < len(runes) && runes[i+1] == '"':
			buf.WriteRune('"')
			i++
		case r == '"':
			inQuotes = !inQuotes
		case r == '.' && !inQuotes:
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	return append(parts, strings.TrimSpace(buf.String()))
}

// Qualified renders name as a quoted, possibly schema-qualified identifier.
// It returns "" for a blank name.
func Qualified(name string) string {
	parts := Split(name)
	if len(parts) == 0 {
		return ""
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = Quote(p)
	}
	return strings.Join(quoted, ".")
}

// Quote quotes a single identifier part.
func Quote(part string) string {
	return `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
}
