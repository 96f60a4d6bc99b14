package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CollapseWhitespace trims the string and squashes internal runs of
// whitespace (including newlines) down to single spaces.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// NonEmptyLines splits a block of text into trimmed lines, dropping
// the empty ones. Carriage returns are treated as newlines.
func NonEmptyLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "\n")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
