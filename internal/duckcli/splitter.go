package duckcli

import "strings"

// splitter scan modes. Exactly one is active at any point of the scan.
type scanMode int

const (
	modeNormal scanMode = iota
	modeSingleQuote
	modeDoubleQuote
	modeLineComment
	modeBlockComment
)

// SplitStatements partitions a raw SQL script into individually executable
// statements. Semicolons inside single-quoted literals, double-quoted
// identifiers, line comments and block comments never split. Quote and
// comment text is preserved verbatim in the emitted statements; only the
// terminating semicolons are consumed. A final statement without a trailing
// semicolon is still emitted. Blank segments are dropped.
//
// The scan is a single left-to-right pass with O(1) state beyond the
// current statement accumulator.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		mode       = modeNormal
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		c := script[i]

		switch mode {
		case modeNormal:
			switch {
			case c == '-' && i+1 < len(script) && script[i+1] == '-':
				mode = modeLineComment
				current.WriteByte(c)
			case c == '/' && i+1 < len(script) && script[i+1] == '*':
				mode = modeBlockComment
				current.WriteString("/*")
				i++
			case c == '\'':
				mode = modeSingleQuote
				current.WriteByte(c)
			case c == '"':
				mode = modeDoubleQuote
				current.WriteByte(c)
			case c == ';':
				flush()
			default:
				current.WriteByte(c)
			}

		case modeSingleQuote:
			current.WriteByte(c)
			if c == '\'' {
				// '' is an escaped quote, not a terminator.
				if i+1 < len(script) && script[i+1] == '\'' {
					current.WriteByte('\'')
					i++
				} else {
					mode = modeNormal
				}
			}

		case modeDoubleQuote:
			current.WriteByte(c)
			if c == '"' {
				if i+1 < len(script) && script[i+1] == '"' {
					current.WriteByte('"')
					i++
				} else {
					mode = modeNormal
				}
			}

		case modeLineComment:
			current.WriteByte(c)
			if c == '\n' {
				mode = modeNormal
			}

		case modeBlockComment:
			current.WriteByte(c)
			if c == '*' && i+1 < len(script) && script[i+1] == '/' {
				current.WriteByte('/')
				i++
				mode = modeNormal
			}
			// An unterminated block comment extends to end of input.
		}
	}

	flush()
	return statements
}
