package annotate

import (
	"regexp"
	"strings"
)

var (
	// Project key of at least two letters, a dash, and a positive number.
	ticketRegexp = regexp.MustCompile(`(?i)[A-Z][A-Z]+-[1-9][0-9]*`)
	// Numeric reference into an external tracker, e.g. #482.
	trackerRefRegexp = regexp.MustCompile(`#[1-9][0-9]*`)
)

// TicketRewriter links issue-ticket references against the configured
// tracker base URL, labeled with the original text.
type TicketRewriter struct {
	BaseURL string
}

func (t *TicketRewriter) Rewrite(text string) string {
	matches := ticketRegexp.FindAllString(text, -1)
	matches = append(matches, trackerRefRegexp.FindAllString(text, -1)...)

	return substitute(text, matches, func(match string) string {
		return "<" + t.BaseURL + strings.TrimPrefix(match, "#") + "|" + match + ">"
	})
}
