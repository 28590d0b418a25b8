package duckcli

import "strings"

// resultSetKeywords are the leading keywords of statements that
// conventionally produce rows. Everything else is treated as
// side-effect-only and gets an informational success message when it
// returns no rows.
var resultSetKeywords = map[string]struct{}{
	"select":    {},
	"with":      {},
	"pragma":    {},
	"show":      {},
	"describe":  {},
	"call":      {},
	"explain":   {},
	"summarize": {},
}

// returnsResultSet reports whether the statement's leading keyword is
// result-set-shaped. Classification is purely textual; the engine decides
// what actually comes back.
func returnsResultSet(stmt string) bool {
	_, ok := resultSetKeywords[leadingKeyword(stmt)]
	return ok
}

// leadingKeyword extracts the first identifier-shaped token of a trimmed
// statement, lowercased.
func leadingKeyword(stmt string) string {
	s := strings.TrimSpace(stmt)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
			end++
			continue
		}
		break
	}
	return strings.ToLower(s[:end])
}
