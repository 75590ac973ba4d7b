package metadata

import (
	"strings"
)

// SnakeCase converts a Go identifier to snake_case.
//
// Words are split on ASCII letter-case boundaries. A run of capitals is kept
// as one word (HTTPRequest -> http_request) and digits stay attached to the
// word before them (OAuth2Token -> o_auth2_token).
func SnakeCase(s string) string {
	var result strings.Builder
	result.Grow(len(s) + 4)

	for i := 0; i < len(s); i++ {
		c := s[i]
		upper := isUpper(c)

		if i > 0 && upper {
			prev := s[i-1]
			switch {
			case isLower(prev) || isDigit(prev):
				result.WriteByte('_')
			case isUpper(prev) && i+1 < len(s) && isLower(s[i+1]):
				result.WriteByte('_')
			}
		}

		if upper {
			result.WriteByte(c - 'A' + 'a')
		} else {
			result.WriteByte(c)
		}
	}

	return result.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// primaryKeyCandidates lists the column names that make a column the primary
// key by convention when no column is marked.
func primaryKeyCandidates(table string) []string {
	return []string{
		"id",
		"uuid",
		table + "_id",
		table + "_uuid",
	}
}
