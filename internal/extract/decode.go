package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Decode turns a captured JSON string body (without quotes) into literal text.
// Malformed escapes fall back to the raw capture.
func Decode(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var out string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &out); err != nil {
		return raw
	}
	return out
}

// first returns the first capture group of re in page, or "".
func first(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// all returns capture group 1 of every non-overlapping match of re.
func all(re *regexp.Regexp, page string) []string {
	matches := re.FindAllStringSubmatch(page, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// at returns s[i] or "" when i is out of range.
func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
