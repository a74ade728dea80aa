package bot

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/asalkeld/standupbot/annotate"
	"github.com/asalkeld/standupbot/checkin"
)

const defaultSessionTimeout = 15 * time.Minute

// Options carries the environment-driven knobs for the bot.
type Options struct {
	Name           string
	CommandPrefix  string
	IssueBaseURL   string
	FallbackColor  string
	SessionTimeout time.Duration
}

type Bot struct {
	slackBotAPI *slack.Client
	source      checkin.ConfigSource
	logger      *log.Logger

	cmds      CommandSet
	annotator *annotate.Annotator

	name           string
	fallbackColor  string
	sessionTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	// pendingSlots remembers, per username and group, the schedule entry
	// whose check-in fired most recently, so the interview the user then
	// starts resolves that slot's question overrides.
	pendingSlots map[string]map[string]*checkin.Schedule
}

// session pairs a state-machine state with the transport-owned
// inactivity timer that signals timeouts. gen counts transitions; a
// timer fire armed for an older generation is stale and ignored.
type session struct {
	state State
	timer *time.Timer
	gen   int
}

func New(slackAPIClient *slack.Client, logger *log.Logger, source checkin.ConfigSource, opts Options) *Bot {
	if opts.SessionTimeout == 0 {
		opts.SessionTimeout = defaultSessionTimeout
	}
	if opts.Name == "" {
		opts.Name = "standupbot"
	}

	return &Bot{
		slackBotAPI:    slackAPIClient,
		logger:         logger,
		source:         source,
		cmds:           NewCommandSet(opts.CommandPrefix),
		annotator:      annotate.New(opts.IssueBaseURL),
		name:           opts.Name,
		fallbackColor:  opts.FallbackColor,
		sessionTimeout: opts.SessionTimeout,
		sessions:       map[string]*session{},
		pendingSlots:   map[string]map[string]*checkin.Schedule{},
	}
}

// StartCheckin is the scheduler's fire callback: DM the member an intro
// so they can kick off the interview with the start command. The slot
// that fired is remembered so the interview asks its questions.
func (b *Bot) StartCheckin(member checkin.Member, gc *checkin.GroupConfig, slot *checkin.Schedule) {
	b.mu.Lock()
	if b.pendingSlots[member.Username] == nil {
		b.pendingSlots[member.Username] = map[string]*checkin.Schedule{}
	}
	b.pendingSlots[member.Username][gc.ID] = slot
	b.mu.Unlock()

	msg := startIntroMessage(member.Username, gc.ID, b.cmds.Start.Text)
	b.postMessage("@"+member.Username, msg)

	b.logger.WithFields(log.Fields{
		"user":  member.Username,
		"group": gc.ID,
	}).Info("Sent check-in intro message.")
}

func (b *Bot) handleMessage(event *slack.MessageEvent, isIM bool) {
	if event.BotID != "" {
		// Ignore messages coming from bots, ourselves included.
		return
	}

	// Interviews and commands live in direct messages only.
	if !isIM {
		return
	}

	username := b.resolveUsername(event)
	if username == "" {
		return
	}

	if b.feedSession(username, event) {
		return
	}

	text := strings.TrimSpace(event.Text)

	switch {
	case b.cmds.Start.Matches(text):
		b.startInterview(username, event.Channel)
	case b.cmds.Help.Matches(text):
		b.postMessage(event.Channel, helpMessage(b.cmds))
	case b.cmds.Usage.Matches(text):
		b.postMessage(event.Channel, usageMessage())
	case b.cmds.Questions.Matches(text):
		b.sendQuestions(username, event.Channel, "")
	case b.cmds.Me.Matches(text):
		b.sendUserSettings(username, event.Channel)
	case b.cmds.Config.Matches(text):
		b.sendConfigs(username, event.Channel)
	default:
		b.postMessage(event.Channel, fmt.Sprintf(unrecognizedMessage, b.cmds.Help.Text))
	}
}

// feedSession routes the message into an open interview session, if any.
// Returns false when the user has no session and the message should be
// treated as a top-level command. The transition runs under the session
// lock so a concurrent timeout fire cannot interleave with it.
func (b *Bot) feedSession(username string, event *slack.MessageEvent) bool {
	b.mu.Lock()
	sess, ok := b.sessions[username]
	if !ok {
		b.mu.Unlock()
		return false
	}

	sess.gen++
	sess.timer.Stop()
	b.armTimer(sess, username, event.Channel)

	next, effects := Transition(sess.state, Event{Kind: EventMessage, Text: event.Text}, b.cmds)
	sess.state = next
	b.mu.Unlock()

	b.applyEffects(next, event.Channel, effects)
	return true
}

// armTimer schedules a timeout fire bound to the session's current
// generation. A fire whose generation no longer matches lost a race with
// an incoming message and is discarded.
func (b *Bot) armTimer(sess *session, username, channel string) {
	gen := sess.gen
	sess.timer = time.AfterFunc(b.sessionTimeout, func() { b.timeoutSession(username, channel, gen) })
}

func (b *Bot) startInterview(username, channel string) {
	groups, err := checkin.GroupsFor(b.source, username, "")
	if err != nil {
		b.logger.WithFields(log.Fields{"user": username, "error": err}).Error("Cannot resolve groups")
		return
	}
	if len(groups) == 0 {
		b.postMessage(channel, signUpMessage(b.name))
		return
	}

	b.mu.Lock()
	slots := b.pendingSlots[username]
	delete(b.pendingSlots, username)

	state, effects := NewInterview(username, groups, slots)

	sess := &session{state: state}
	b.armTimer(sess, username, channel)

	if old, ok := b.sessions[username]; ok {
		old.timer.Stop()
	}
	b.sessions[username] = sess
	b.mu.Unlock()

	b.applyEffects(state, channel, effects)
}

func (b *Bot) timeoutSession(username, channel string, gen int) {
	b.mu.Lock()
	sess, ok := b.sessions[username]
	if !ok || sess.gen != gen {
		// The session ended or advanced after this fire was armed.
		b.mu.Unlock()
		return
	}

	next, effects := Transition(sess.state, Event{Kind: EventTimeout}, b.cmds)
	sess.state = next
	b.mu.Unlock()

	b.applyEffects(next, channel, effects)
}

// applyEffects performs the transition's effects against a snapshot of
// the post-transition state, outside the session lock.
func (b *Bot) applyEffects(state State, channel string, effects []Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case AskQuestion:
			question := state.Questions[e.Index]
			b.postMessage(channel, "_"+question.Text+"_")

		case PromptGroupSelection:
			b.postMessage(channel, groupSelectionPrompt(state.Candidates))

		case Say:
			b.postMessage(channel, e.Text)

		case ShowHelp:
			b.postMessage(channel, helpMessage(b.cmds))

		case ShowQuestions:
			b.postMessage(channel, questionsMessage(e.Group))

		case ShowUsage:
			b.postMessage(channel, usageMessage())

		case Finalize:
			b.deliverSummary(state, channel, e.Summary)

		case NotifyStopped:
			b.postMessage(channel, stoppedMessage)
			b.endSession(state.Username)

		case NotifyRestarted:
			b.postMessage(channel, restartedMessage)

		case NotifyTimedOut:
			b.postMessage(channel, timeoutMessage(b.cmds.Start.Text))
			b.endSession(state.Username)

		case NothingToAsk:
			b.postMessage(channel, noQuestionsMessage(e.Group.ID))
			b.endSession(state.Username)
		}
	}
}

func (b *Bot) deliverSummary(state State, channel string, summary *checkin.StatusSummary) {
	gc := state.Group
	attachments := checkin.BuildAttachments(summary, b.annotator, b.fallbackColor)
	title := statusTitleMessage(gc.ID, b.realName(summary.Username), summary.Username)

	for _, ch := range gc.Channels {
		b.postMessage("#"+ch, title, slack.MsgOptionAttachments(attachments...))
	}

	b.postMessage(channel, confirmationMessage(gc.Channels))
	b.endSession(summary.Username)

	b.logger.WithFields(log.Fields{
		"user":  summary.Username,
		"group": gc.ID,
	}).Info("Posted status summary.")
}

func (b *Bot) endSession(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sess, ok := b.sessions[username]; ok {
		sess.timer.Stop()
		delete(b.sessions, username)
	}
}

func (b *Bot) sendQuestions(username, channel, groupID string) {
	groups, err := checkin.GroupsFor(b.source, username, groupID)
	if err != nil {
		b.logger.WithFields(log.Fields{"user": username, "error": err}).Error("Cannot resolve groups")
		return
	}
	if len(groups) == 0 {
		b.postMessage(channel, signUpMessage(b.name))
		return
	}

	for _, gc := range groups {
		b.postMessage(channel, questionsMessage(gc))
	}
}

func (b *Bot) sendUserSettings(username, channel string) {
	groups, err := checkin.GroupsFor(b.source, username, "")
	if err != nil {
		b.logger.WithFields(log.Fields{"user": username, "error": err}).Error("Cannot resolve groups")
		return
	}
	if len(groups) == 0 {
		b.postMessage(channel, signUpMessage(b.name))
		return
	}

	attachments := make([]slack.Attachment, 0, len(groups))
	for _, gc := range groups {
		attachments = append(attachments, b.userSettingsAttachment(gc, gc.Member(username)))
	}

	b.postMessage(channel, settingsIntro, slack.MsgOptionAttachments(attachments...))
}

func (b *Bot) userSettingsAttachment(gc *checkin.GroupConfig, member *checkin.Member) slack.Attachment {
	color := b.fallbackColor
	lines := []string{}

	if member != nil {
		if member.Color != "" {
			color = member.Color
			lines = append(lines, "color: "+member.Color)
		}
		if member.DisableReminderMessage {
			lines = append(lines, "disableReminderMessage: true")
		}
		if gc.IsAdmin(member.Username) {
			lines = append([]string{"isAdmin: true"}, lines...)
		}
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		text = fmt.Sprintf("color: %s (default)", b.fallbackColor)
	}

	return slack.Attachment{
		Fallback:   "",
		Color:      color,
		Pretext:    "*" + gc.ID + "*",
		MarkdownIn: []string{"pretext", "text"},
		Text:       text,
	}
}

func (b *Bot) sendConfigs(username, channel string) {
	accessible, err := checkin.AdminGroupsFor(b.source, username)
	if err != nil {
		b.logger.WithFields(log.Fields{"user": username, "error": err}).Error("Cannot resolve groups")
		return
	}
	if len(accessible) == 0 {
		b.postMessage(channel, noAccessMessage)
		return
	}

	for _, gc := range accessible {
		title := kebabCase(gc.ID) + ".json"
		content, err := json.MarshalIndent(redactConfig(gc), "", "  ")
		if err != nil {
			b.logger.WithFields(log.Fields{"group": gc.ID, "error": err}).Error("Cannot marshal config")
			continue
		}

		_, err = b.slackBotAPI.UploadFile(slack.FileUploadParameters{
			Title:    title,
			Filename: title,
			Filetype: "javascript",
			Content:  string(content),
			Channels: []string{channel},
		})
		if err != nil {
			b.logger.WithFields(log.Fields{"group": gc.ID, "error": err}).Error("Cannot upload config snippet")
		}
	}
}

// redactConfig strips members' personal settings before a config snippet
// leaves the bot.
func redactConfig(gc *checkin.GroupConfig) *checkin.GroupConfig {
	redacted := *gc
	redacted.Members = make([]checkin.Member, len(gc.Members))
	for i, m := range gc.Members {
		redacted.Members[i] = checkin.Member{Username: m.Username}
	}
	return &redacted
}

func (b *Bot) resolveUsername(event *slack.MessageEvent) string {
	if event.Username != "" {
		return event.Username
	}

	user, err := b.slackBotAPI.GetUserInfo(event.User)
	if err != nil {
		b.logSlackRelatedError(event, err, "Fail to get user information.")
		return ""
	}
	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}
	return user.Name
}

func (b *Bot) realName(username string) string {
	user, err := b.slackBotAPI.GetUserInfo(username)
	if err != nil || user.RealName == "" {
		return username
	}
	return user.RealName
}

func (b *Bot) postMessage(destination, message string, params ...slack.MsgOption) {
	opts := append(params,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	_, _, err := b.slackBotAPI.PostMessage(destination, opts...)
	if err != nil {
		b.logger.WithFields(log.Fields{
			"destination": destination,
			"error":       err,
		}).Warn("Error while posting message to slack")
	}
}

func groupSelectionPrompt(candidates []*checkin.GroupConfig) string {
	lines := make([]string, 0, len(candidates))
	for i, gc := range candidates {
		lines = append(lines, fmt.Sprintf("%d) %s", i+1, gc.ID))
	}
	return whichTeamMessage(len(candidates)) + "\n>" + strings.Join(lines, "\n>")
}

func questionsMessage(gc *checkin.GroupConfig) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Here are the questions you will be asked for *%s*:", gc.ID))
	for i, q := range gc.Questions {
		sb.WriteString(fmt.Sprintf("\n>%d) _%s_", i+1, q.Text))
	}
	return sb.String()
}

func kebabCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
}

func (b *Bot) logSlackRelatedError(event *slack.MessageEvent, err error, logMessage string) {
	b.logger.WithFields(log.Fields{
		"text":     event.Text,
		"user":     event.User,
		"username": event.Username,
		"error":    err,
	}).Error(logMessage)
}
