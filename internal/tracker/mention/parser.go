// Package mention extracts candidate mention tokens from free text.
//
// This stage is purely lexical: tokens are not validated or resolved to
// users here, so the scanner can be tested without any store.
package mention

import "strings"

// Character classes for the token grammar. A token opens with '@' followed
// by a word character and extends through:
//
//   - word characters (ASCII letters, digits, underscore)
//   - dots and hyphens, so "@j.doe" and "@mary-jane" hold together
//   - embedded '@', so a full email address works as a mention
//   - a single space, but only when the next character is an uppercase
//     letter: that is the "@First Last" display-name form. A lowercase
//     word after a space is ordinary prose, not part of the mention.
//
// The token ends at the first position where none of these continue.

func isWordChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSeparator(c byte) bool {
	return c == '.' || c == '-' || c == '@'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// Parse scans body and returns the mention tokens in order of first
// occurrence, each still carrying its leading '@'. Repeated tokens
// collapse to one entry: dedup is case-insensitive and the first
// occurrence's casing wins. A lone '@' with nothing mentionable after it
// yields no token.
func Parse(body string) []string {
	var (
		tokens []string
		seen   = make(map[string]struct{})
	)

	for i := 0; i < len(body); i++ {
		if body[i] != '@' {
			continue
		}
		// A token must open with a word character right after the '@'.
		if i+1 >= len(body) || !isWordChar(body[i+1]) {
			continue
		}

		end := i + 1
		for end < len(body) {
			c := body[end]
			switch {
			case isWordChar(c) || isSeparator(c):
				end++
				continue
			case c == ' ' && end+1 < len(body) && isUpper(body[end+1]) && body[end-1] != ' ':
				// Single-space continuation for "@First Last".
				end++
				continue
			}
			break
		}

		token := body[i:end]
		key := strings.ToLower(token)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			tokens = append(tokens, token)
		}
		i = end - 1
	}

	return tokens
}

// Term strips the leading '@' and surrounding whitespace from a token,
// leaving the text the resolver searches with. Empty means the token had
// no usable content.
func Term(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "@"))
}

// EmailShaped reports whether a search term looks like an email address:
// it contains both an '@' and a '.'. The grammar admits embedded '@' and
// dots precisely so that full addresses survive into the term.
func EmailShaped(term string) bool {
	return strings.Contains(term, "@") && strings.Contains(term, ".")
}
