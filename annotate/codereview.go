package annotate

import (
	"regexp"
)

var (
	crURLRegexp   = regexp.MustCompile(`(?i)https://(www\.)?github[.a-z0-9-]*\.com/[a-z0-9-]+/[a-z0-9-]+/compare/[a-z0-9.:?=&#-]+`)
	crPartsRegexp = regexp.MustCompile(`(?i)^https://(?:www\.)?github[.a-z0-9-]*\.com/([a-z0-9-]+/[a-z0-9-]+)/compare/([a-z0-9.:-]+)`)
)

// CodeReviewRewriter turns GitHub compare URLs into links labeled
// "CR <org>/<repo>:<range>".
type CodeReviewRewriter struct{}

func (c *CodeReviewRewriter) Rewrite(text string) string {
	matches := crURLRegexp.FindAllString(text, -1)

	return substitute(text, matches, func(match string) string {
		parts := crPartsRegexp.FindStringSubmatch(match)
		if parts == nil {
			return match
		}
		return "<" + match + "|:mag_right: CR " + parts[1] + ":" + parts[2] + ">"
	})
}
