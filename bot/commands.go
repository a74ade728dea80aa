package bot

import (
	"strings"
)

const defaultCommandPrefix = ":-"

type Command struct {
	Text string
	Info string
}

// Matches reports whether a trimmed response is exactly this command,
// case-insensitively.
func (c Command) Matches(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), c.Text)
}

// CommandSet is the fixed table of recognized control tokens, each
// carrying the configured prefix.
type CommandSet struct {
	Start     Command
	Back      Command
	Stop      Command
	Questions Command
	Me        Command
	Usage     Command
	Config    Command
	Help      Command
}

func NewCommandSet(prefix string) CommandSet {
	if prefix == "" {
		prefix = defaultCommandPrefix
	}

	return CommandSet{
		Start:     Command{prefix + "start", "Starts or restarts a status update."},
		Back:      Command{prefix + "back", "Go back and resubmit a new response for the previous question."},
		Stop:      Command{prefix + "stop", "Stops a current status update."},
		Questions: Command{prefix + "questions", "Lists out the set of questions that will be asked."},
		Me:        Command{prefix + "me", "Shows your user settings."},
		Usage:     Command{prefix + "usage", "Provides a few usage examples."},
		Config:    Command{prefix + "config", "Echos back the current configuration."},
		Help:      Command{prefix + "help", "Presents this help text."},
	}
}

// All returns the commands in help-listing order.
func (cs CommandSet) All() []Command {
	return []Command{cs.Start, cs.Back, cs.Stop, cs.Questions, cs.Me, cs.Usage, cs.Config, cs.Help}
}
