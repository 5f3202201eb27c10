// Package utils holds small helpers shared by the config, goalfile and hooks
// packages.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s by sep and trims each part. Empty parts are dropped.
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JSONPointerToPath renders an RFC 6901 pointer such as
// "#/plan/steps/0/title" as "plan.steps[0].title".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	unescape := strings.NewReplacer("~1", "/", "~0", "~")
	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		token = unescape.Replace(token)
		if token == "" {
			continue
		}
		if idx, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + strconv.Itoa(idx) + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}
