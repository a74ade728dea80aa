// Package annotate rewrites free-text answers, replacing domain
// references (issue tickets, pull-request URLs, compare URLs) with richer
// Slack markup.
package annotate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// An already-rendered Slack link, <url|label>. Masked during a pass so a
// rendered reference is never re-matched by a later annotate call.
var renderedLinkRegexp = regexp.MustCompile(`<[^<>|]+\|[^<>]*>`)

// Rewriter transforms the accumulated text of one annotation pass.
type Rewriter interface {
	Rewrite(text string) string
}

// Annotator applies its rewriters in a fixed order: ticket references,
// code-review links, pull-request links, then leading-character trim.
// The trim runs last so reference detection sees the original text.
type Annotator struct {
	rewriters []Rewriter
}

func New(issueBaseURL string) *Annotator {
	return &Annotator{
		rewriters: []Rewriter{
			&TicketRewriter{BaseURL: issueBaseURL},
			&CodeReviewRewriter{},
			&PullRequestRewriter{},
			&TrimStartRewriter{},
		},
	}
}

func (a *Annotator) Annotate(text string) string {
	links := dedupe(renderedLinkRegexp.FindAllString(text, -1))

	lDelim := delimiter()
	rDelim := delimiter()

	output := text
	for i, link := range links {
		output = strings.ReplaceAll(output, link, lDelim+strconv.Itoa(i)+rDelim)
	}

	for _, rw := range a.rewriters {
		output = rw.Rewrite(output)
	}

	for i, link := range links {
		output = strings.ReplaceAll(output, lDelim+strconv.Itoa(i)+rDelim, link)
	}

	return output
}

// substitute replaces every occurrence of each match with render(match),
// in two passes. Pass one protects each occurrence behind an opaque
// placeholder token; pass two swaps the placeholders for the rendered
// markup. Routing through placeholders keeps one match's rendered output
// from being re-matched while a later match is substituted.
//
// Matches are deduplicated by exact substring and substituted longest
// first, so a replacement for a short match can never corrupt a longer
// match that contains it.
func substitute(text string, matches []string, render func(match string) string) string {
	unique := dedupe(matches)
	if len(unique) == 0 {
		return text
	}

	sort.SliceStable(unique, func(i, j int) bool { return len(unique[i]) > len(unique[j]) })

	// Fresh delimiters per call, collision-free with real content.
	lDelim := delimiter()
	rDelim := delimiter()

	for i, match := range unique {
		text = strings.ReplaceAll(text, match, lDelim+strconv.Itoa(i)+rDelim)
	}

	for i, match := range unique {
		text = strings.ReplaceAll(text, lDelim+strconv.Itoa(i)+rDelim, render(match))
	}

	return text
}

// delimiter returns a fresh opaque token. Dashes are stripped so no
// rewriter pattern can match inside a placeholder.
func delimiter() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func dedupe(matches []string) []string {
	unique := []string{}
	seen := map[string]bool{}
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		unique = append(unique, m)
	}
	return unique
}
