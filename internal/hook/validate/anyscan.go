package validate

import "strings"

// AnyOccurrence is one real `any` usage found in a TypeScript source.
type AnyOccurrence struct {
	Line int
	Text string
}

// ScanAnyUsages tokenizes src looking for the `any` keyword outside of
// string, template, and comment lexical spans, excluding `.any(...)`
// call expressions (e.g. `expect.any(...)`, `jasmine.any(...)`) which
// are a runtime matcher, not a type annotation. `as any as X` double
// assertions are deliberately counted as real occurrences (see
// DESIGN.md: under-reporting is worse than narrowly over-reporting a
// pattern whose only purpose is bypassing the type checker).
func ScanAnyUsages(src string) []AnyOccurrence {
	var out []AnyOccurrence
	line := 1

	const (
		stNormal = iota
		stLineComment
		stBlockComment
		stSingleQuote
		stDoubleQuote
		stTemplate
	)
	state := stNormal

	runes := []rune(src)
	n := len(runes)

	isIdentChar := func(r rune) bool {
		return r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}

	for i := 0; i < n; i++ {
		r := runes[i]

		switch state {
		case stLineComment:
			if r == '\n' {
				line++
				state = stNormal
			}
			continue
		case stBlockComment:
			if r == '\n' {
				line++
			} else if r == '*' && i+1 < n && runes[i+1] == '/' {
				state = stNormal
				i++
			}
			continue
		case stSingleQuote:
			if r == '\\' {
				i++
			} else if r == '\n' {
				line++
			} else if r == '\'' {
				state = stNormal
			}
			continue
		case stDoubleQuote:
			if r == '\\' {
				i++
			} else if r == '\n' {
				line++
			} else if r == '"' {
				state = stNormal
			}
			continue
		case stTemplate:
			if r == '\\' {
				i++
			} else if r == '\n' {
				line++
			} else if r == '`' {
				state = stNormal
			}
			continue
		}

		switch r {
		case '\n':
			line++
			continue
		case '/':
			if i+1 < n && runes[i+1] == '/' {
				state = stLineComment
				i++
				continue
			}
			if i+1 < n && runes[i+1] == '*' {
				state = stBlockComment
				i++
				continue
			}
		case '\'':
			state = stSingleQuote
			continue
		case '"':
			state = stDoubleQuote
			continue
		case '`':
			state = stTemplate
			continue
		}

		if !isIdentChar(r) {
			continue
		}
		if i > 0 && isIdentChar(runes[i-1]) {
			continue
		}
		if r != 'a' || i+2 >= n || runes[i+1] != 'n' || runes[i+2] != 'y' {
			continue
		}
		if i+3 < n && isIdentChar(runes[i+3]) {
			continue // identifier like "anything", not the keyword
		}

		// Exclude `.any(` call expressions (expect.any(...), jasmine.any(...)).
		prev := i - 1
		for prev >= 0 && (runes[prev] == ' ' || runes[prev] == '\t') {
			prev--
		}
		followedByCall := i+3 < n
		if followedByCall {
			j := i + 3
			for j < n && (runes[j] == ' ' || runes[j] == '\t') {
				j++
			}
			followedByCall = j < n && runes[j] == '('
		}
		if prev >= 0 && runes[prev] == '.' && followedByCall {
			continue
		}

		out = append(out, AnyOccurrence{Line: line, Text: lineAt(src, line)})
	}

	return out
}

func lineAt(src string, n int) string {
	lines := strings.Split(src, "\n")
	if n-1 < 0 || n-1 >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[n-1])
}
