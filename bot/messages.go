package bot

import (
	"fmt"
	"strings"
)

const (
	stoppedMessage      = "Your status update was stopped."
	restartedMessage    = "Your status update has been restarted."
	noAccessMessage     = "You do not have access to view configurations."
	settingsIntro       = "Here are your settings"
	unrecognizedMessage = "I don't understand what you're trying to tell me, try `%s`"
)

func startIntroMessage(username, groupID, startCmd string) string {
	return fmt.Sprintf("Hey there %s, I need your status for *%s*. Type `%s` to get started.",
		username, groupID, startCmd)
}

func timeoutMessage(startCmd string) string {
	return fmt.Sprintf("I feel neglected, plus you took too long. Type `%s` to start over.", startCmd)
}

func confirmationMessage(channels []string) string {
	return fmt.Sprintf("Thanks, we're all set :thumbsup:. I've posted your summary in the %s.",
		channelsPhrase(channels))
}

func signUpMessage(botName string) string {
	return fmt.Sprintf("Your team is not currently configured with *%s*. Send a request to your team lead to get setup.", botName)
}

func statusTitleMessage(groupID, realName, username string) string {
	return fmt.Sprintf("*%s status summary for %s* @%s", groupID, realName, username)
}

func noQuestionsMessage(groupID string) string {
	return fmt.Sprintf("There are no questions configured for *%s*, so there is nothing to ask right now.", groupID)
}

func whichTeamMessage(count int) string {
	return fmt.Sprintf("Which team? Please enter a number [1-%d]", count)
}

// channelsPhrase renders a channel list the way a person would say it:
// "#a channel", "#a and #b channels", "#a, #b, and #c channels".
func channelsPhrase(channels []string) string {
	switch len(channels) {
	case 0:
		return "channel"
	case 1:
		return fmt.Sprintf("#%s channel", channels[0])
	case 2:
		return fmt.Sprintf("#%s and #%s channels", channels[0], channels[1])
	default:
		var sb strings.Builder
		for i, channel := range channels {
			if i == len(channels)-1 {
				sb.WriteString(fmt.Sprintf("and #%s channels", channel))
			} else {
				sb.WriteString(fmt.Sprintf("#%s, ", channel))
			}
		}
		return sb.String()
	}
}

func helpMessage(cmds CommandSet) string {
	msgs := []string{"Available commands:"}
	for _, cmd := range cmds.All() {
		msgs = append(msgs, fmt.Sprintf("> `%s` %s", cmd.Text, cmd.Info))
	}
	return strings.Join(msgs, "\n")
}

func usageMessage() string {
	msgs := []string{
		"*Usage Examples*",
		"Ticket links",
		"> When you enter something like:",
		">    Finished work on BUG-123",
		"> I will automatically linkify the ticket number for you:",
		">    Finished work on <https://tracker.example.com/browse/BUG-123|BUG-123>",
		"Pull Request links",
		"> When you enter a PR url like:",
		">    Waiting for https://github.com/doc/flux-capacitor/pull/4 to get merged",
		"> I will automatically linkify and replace the url with a cleaner message:",
		">    Waiting for <https://github.com/doc/flux-capacitor/pull/4|:arrow_heading_up: PR #4 for doc/flux-capacitor>",
		"Code Review links",
		"> When you enter a CR url like:",
		">    Waiting for https://github.com/doc/flux-capacitor/compare/master...marty:hoverboard to get merged",
		"> I will automatically linkify and replace the url with a cleaner message:",
		">    Waiting for <https://github.com/doc/flux-capacitor/compare/master...marty:hoverboard|:mag_right: CR doc/flux-capacitor:master...marty:hoverboard> to get merged",
	}
	return strings.Join(msgs, "\n")
}
