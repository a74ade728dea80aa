package annotate

import (
	"regexp"
)

var leadingCharRegexp = regexp.MustCompile(`(?m)^[ -]+`)

// TrimStartRewriter strips leading runs of spaces and hyphens from each
// line, normalizing "- status" style answers.
type TrimStartRewriter struct{}

func (t *TrimStartRewriter) Rewrite(text string) string {
	return leadingCharRegexp.ReplaceAllString(text, "")
}
