package annotate

import (
	"regexp"
)

var (
	prURLRegexp   = regexp.MustCompile(`(?i)https://(www\.)?github[.a-z0-9-]*\.com/[a-z0-9-_.]+/[a-z0-9-_.]+/pull/[0-9]+`)
	prPartsRegexp = regexp.MustCompile(`(?i)^https://(?:www\.)?github[.a-z0-9-]*\.com/([a-z0-9-_.]+/[a-z0-9-_.]+)/pull/([0-9]+)$`)
)

// PullRequestRewriter turns GitHub pull-request URLs into links labeled
// "PR #<number> for <org>/<repo>".
type PullRequestRewriter struct{}

func (p *PullRequestRewriter) Rewrite(text string) string {
	matches := prURLRegexp.FindAllString(text, -1)

	return substitute(text, matches, func(match string) string {
		parts := prPartsRegexp.FindStringSubmatch(match)
		if parts == nil {
			// Partial match, leave it as typed.
			return match
		}
		return "<" + match + "|:arrow_heading_up: PR #" + parts[2] + " for " + parts[1] + ">"
	})
}
