package agent

import (
	"regexp"
	"strings"
)

var actionLinePattern = regexp.MustCompile(`\n?ACTION:\s*\{[^}]+\}[ \t]*`)

// StripProtocolMarkup removes ACTION directives and folded action
// result blocks from a reply, leaving only the prose meant for the
// user.
func StripProtocolMarkup(reply string) string {
	cleaned := actionLinePattern.ReplaceAllString(reply, "")
	cleaned = stripActionResults(cleaned)
	return strings.TrimSpace(cleaned)
}

// stripActionResults removes [Action Results: {...}] blocks. The JSON
// payload nests arrays and objects, so the closing bracket is found by
// depth counting; a regular expression anchored on the first `]` or
// `}]` would cut search-result arrays short and leave debris.
func stripActionResults(s string) string {
	const marker = "[Action Results:"

	var sb strings.Builder
	for {
		start := strings.Index(s, marker)
		if start < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:start])

		rest := s[start:]
		end := blockEnd(rest)
		if end < 0 {
			// unterminated block: protocol debris to the end
			return sb.String()
		}
		s = strings.TrimLeft(rest[end:], " \t\r\n")
	}
}

// blockEnd returns the index just past the bracket closing the block
// that opens at s[0], tracking JSON nesting and string literals, or -1
// when the block never closes.
func blockEnd(s string) int {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
