package checkin

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/asalkeld/standupbot/annotate"
)

// Response is one answered question in a completed interview. Color is a
// derived field stamped while building the summary, never configuration.
type Response struct {
	Question Question
	Answer   string
	Color    string
}

// StatusSummary is the outcome of one completed interview, ready to be
// rendered and delivered.
type StatusSummary struct {
	Username  string
	Member    *Member
	GroupID   string
	Responses []Response
}

// fillerWords are single-token answers that carry no update. Multi-word
// answers are never classified as filler.
var fillerWords = map[string]bool{
	"no": true, "nope": true, "none": true, "nothing": true,
	"nada": true, "na": true, "nah": true,
	".": true, "..": true, "...": true, "-": true, "--": true,
}

// IsEmptyResponse reports whether an answer is substantively empty: blank
// after trimming, or a single token from the filler stoplist.
func IsEmptyResponse(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	if len(strings.Fields(trimmed)) > 1 {
		return false
	}
	return fillerWords[strings.ToLower(trimmed)]
}

// BuildAttachments renders a completed summary as Slack attachments. Each
// response is stamped with a color from the ramp seeded by the member's
// base color and the total response count. Substantive answers render
// individually through the annotator; filler answers collapse into one
// trailing notice.
func BuildAttachments(summary *StatusSummary, annotator *annotate.Annotator, fallbackColor string) []slack.Attachment {
	memberColor := ""
	if summary.Member != nil {
		memberColor = summary.Member.Color
	}
	scheme := ColorScheme(FallbackColor(memberColor, fallbackColor), len(summary.Responses))

	attachments := []slack.Attachment{}
	nonResponses := 0

	for i, response := range summary.Responses {
		summary.Responses[i].Color = scheme[i]

		if IsEmptyResponse(response.Answer) {
			nonResponses++
			continue
		}

		attachments = append(attachments, slack.Attachment{
			Fallback:   "",
			Color:      scheme[i],
			Pretext:    response.Question.Text,
			MarkdownIn: []string{"pretext", "text"},
			Text:       annotator.Annotate(response.Answer),
		})
	}

	if nonResponses > 0 {
		attachments = append(attachments, slack.Attachment{
			Fallback:   "",
			Color:      "#FFFFFF",
			MarkdownIn: []string{"text"},
			Text:       fmt.Sprintf("_...with no update provided for %d other question(s)_", nonResponses),
		})
	}

	return attachments
}
