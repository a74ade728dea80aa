package bot

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"

	"github.com/asalkeld/standupbot/checkin"
)

type fixedSource struct {
	groups []*checkin.GroupConfig
}

func (f *fixedSource) ReadGroups() ([]*checkin.GroupConfig, error) {
	return f.groups, nil
}

func (f *fixedSource) ReadGlobalSuppressionDates() ([]checkin.DNDDate, error) {
	return nil, nil
}

func newTestBot(groups ...*checkin.GroupConfig) *Bot {
	return New(slack.New("x"), log.New(), &fixedSource{groups: groups}, Options{
		CommandPrefix:  ":-",
		SessionTimeout: time.Hour,
	})
}

func TestStaleTimeoutFireIsIgnored(t *testing.T) {
	b := newTestBot()

	state, _ := NewInterview("marty", []*checkin.GroupConfig{testGroup()}, nil)
	sess := &session{state: state, timer: time.NewTimer(time.Hour), gen: 2}
	b.sessions["marty"] = sess

	// A fire armed before the session's last transition must not touch it.
	b.timeoutSession("marty", "D1", 1)

	assert.Equal(t, StatusInProgress, sess.state.Status)
	assert.Contains(t, b.sessions, "marty")
}

func TestTimeoutFireForEndedSessionIsIgnored(t *testing.T) {
	b := newTestBot()

	b.timeoutSession("marty", "D1", 0)

	assert.Empty(t, b.sessions)
}

func TestMessagesAdvanceTheSessionGeneration(t *testing.T) {
	b := newTestBot(testGroup())

	state, _ := NewInterview("marty", []*checkin.GroupConfig{testGroup()}, nil)
	sess := &session{state: state, timer: time.NewTimer(time.Hour)}
	b.sessions["marty"] = sess

	handled := b.feedSession("marty", &slack.MessageEvent{Msg: slack.Msg{Text: "did things", Channel: "D1"}})

	assert.True(t, handled)
	assert.Equal(t, 1, sess.gen)
	assert.Equal(t, 1, sess.state.QuestionIndex)
}

func TestPendingSlotIsConsumedByTheNextInterview(t *testing.T) {
	gc := testGroup()
	b := newTestBot(gc)

	slot := &checkin.Schedule{Day: 5, Questions: []checkin.Question{
		{Key: "week", Text: "How did the week go?"},
	}}
	b.StartCheckin(gc.Members[0], gc, slot)

	b.startInterview("marty", "D1")

	sess := b.sessions["marty"]
	assert.NotNil(t, sess)
	assert.Len(t, sess.state.Questions, 1)
	assert.Equal(t, "week", sess.state.Questions[0].Key)
	assert.Empty(t, b.pendingSlots)

	// A second interview, with no check-in fired in between, is back on
	// the group's own questions.
	b.endSession("marty")
	b.startInterview("marty", "D1")
	assert.Len(t, b.sessions["marty"].state.Questions, 3)
}
