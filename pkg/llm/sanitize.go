package llm

import (
	"regexp"
	"strings"
)

var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+-]*[ \t]*(\r?\n|$)")

// StripCodeFences removes ``` fence marker lines the model sometimes wraps
// around HTML replies. The fenced content itself is kept.
func StripCodeFences(reply string) string {
	return strings.TrimSpace(fenceLine.ReplaceAllString(reply, ""))
}
