package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asalkeld/standupbot/checkin"
)

type SessionStatus int

const (
	StatusInProgress SessionStatus = iota
	StatusCompleted
	StatusStopped
	StatusTimedOut
)

// State is one user's interview session. It is owned by the engine for
// its lifetime and never persisted; a process restart loses it.
type State struct {
	Username string

	// Candidates is non-empty only while the user still has to pick one
	// of several groups; Group is nil until then.
	Candidates []*checkin.GroupConfig
	Group      *checkin.GroupConfig

	// Slots carries per-group schedule entries from the check-in that
	// prompted this session, keyed by group id. A slot's question list,
	// when present, overrides the group's.
	Slots map[string]*checkin.Schedule

	Questions     []checkin.Question
	QuestionIndex int
	Responses     []checkin.Response
	Status        SessionStatus
	Restarted     bool
}

func (s *State) awaitingGroupSelection() bool {
	return s.Group == nil
}

type EventKind int

const (
	EventMessage EventKind = iota
	// EventTimeout is signaled by the transport when the user went
	// silent; the engine never reads clocks itself.
	EventTimeout
)

type Event struct {
	Kind EventKind
	Text string
}

// Effects are returned as data by Transition and performed by the
// transport glue, keeping the transition function testable without a
// live connection.
type Effect interface{ isEffect() }

type AskQuestion struct{ Index int }

// PromptGroupSelection re-presents the numbered candidate list.
type PromptGroupSelection struct{}

type Say struct{ Text string }

type ShowHelp struct{}

type ShowQuestions struct{ Group *checkin.GroupConfig }

type ShowUsage struct{}

// Finalize carries the completed summary to delivery.
type Finalize struct{ Summary *checkin.StatusSummary }

type NotifyStopped struct{}

type NotifyRestarted struct{}

type NotifyTimedOut struct{}

// NothingToAsk ends a session for a group configured without questions.
type NothingToAsk struct{ Group *checkin.GroupConfig }

func (AskQuestion) isEffect()          {}
func (PromptGroupSelection) isEffect() {}
func (Say) isEffect()                  {}
func (ShowHelp) isEffect()             {}
func (ShowQuestions) isEffect()        {}
func (ShowUsage) isEffect()            {}
func (Finalize) isEffect()             {}
func (NotifyStopped) isEffect()        {}
func (NotifyRestarted) isEffect()      {}
func (NotifyTimedOut) isEffect()       {}
func (NothingToAsk) isEffect()         {}

// NewInterview builds the initial session state for a user and their
// candidate groups. With exactly one candidate the interview starts at
// question zero; with several, the user must disambiguate first. Zero
// candidates is the caller's problem (sign-up notice, no session).
// slots, when non-nil, maps group ids to the schedule entries whose
// check-in prompted the session.
func NewInterview(username string, candidates []*checkin.GroupConfig, slots map[string]*checkin.Schedule) (State, []Effect) {
	if len(candidates) == 1 {
		return startForGroup(username, candidates[0], slots, false)
	}

	state := State{
		Username:   username,
		Candidates: candidates,
		Slots:      slots,
	}
	return state, []Effect{PromptGroupSelection{}}
}

func startForGroup(username string, gc *checkin.GroupConfig, slots map[string]*checkin.Schedule, restarted bool) (State, []Effect) {
	state := State{
		Username:  username,
		Group:     gc,
		Slots:     slots,
		Questions: gc.QuestionsFor(slots[gc.ID]),
		Restarted: restarted,
	}

	// A group without questions has nothing to interview about.
	if len(state.Questions) == 0 {
		state.Status = StatusStopped
		return state, []Effect{NothingToAsk{Group: gc}}
	}

	effects := []Effect{}
	if restarted {
		effects = append(effects, NotifyRestarted{})
	}
	effects = append(effects, AskQuestion{Index: 0})

	return state, effects
}

// Transition advances a session by one event. It is a pure function of
// its inputs; all observable behavior comes back as effects.
func Transition(state State, ev Event, cmds CommandSet) (State, []Effect) {
	if ev.Kind == EventTimeout {
		state.Status = StatusTimedOut
		return state, []Effect{NotifyTimedOut{}}
	}

	if state.awaitingGroupSelection() {
		return selectGroup(state, ev)
	}

	text := strings.TrimSpace(ev.Text)

	switch {
	case cmds.Start.Matches(text):
		// The running session ends (internally stopped, reported as a
		// restart) and a fresh one begins for the same group.
		return startForGroup(state.Username, state.Group, state.Slots, true)

	case cmds.Back.Matches(text):
		if state.QuestionIndex > 0 {
			state.QuestionIndex--
		}
		return state, []Effect{AskQuestion{Index: state.QuestionIndex}}

	case cmds.Stop.Matches(text):
		state.Status = StatusStopped
		return state, []Effect{NotifyStopped{}}

	case cmds.Help.Matches(text):
		return state, []Effect{ShowHelp{}, AskQuestion{Index: state.QuestionIndex}}

	case cmds.Questions.Matches(text):
		return state, []Effect{ShowQuestions{Group: state.Group}, AskQuestion{Index: state.QuestionIndex}}

	case cmds.Usage.Matches(text):
		return state, []Effect{ShowUsage{}, AskQuestion{Index: state.QuestionIndex}}
	}

	return storeAnswer(state, ev.Text)
}

func selectGroup(state State, ev Event) (State, []Effect) {
	choice, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || choice < 1 || choice > len(state.Candidates) {
		// Anything but a valid numeric choice re-prompts.
		return state, []Effect{PromptGroupSelection{}}
	}

	gc := state.Candidates[choice-1]
	next, effects := startForGroup(state.Username, gc, state.Slots, state.Restarted)

	started := Say{Text: fmt.Sprintf("*%s* status update started.", gc.ID)}
	return next, append([]Effect{started}, effects...)
}

func storeAnswer(state State, answer string) (State, []Effect) {
	response := checkin.Response{
		Question: state.Questions[state.QuestionIndex],
		Answer:   answer,
	}

	// A back-navigated question already has a slot; overwrite it.
	if state.QuestionIndex < len(state.Responses) {
		state.Responses[state.QuestionIndex] = response
	} else {
		state.Responses = append(state.Responses, response)
	}

	if state.QuestionIndex == len(state.Questions)-1 {
		state.Status = StatusCompleted
		return state, []Effect{Finalize{Summary: &checkin.StatusSummary{
			Username:  state.Username,
			Member:    state.Group.Member(state.Username),
			GroupID:   state.Group.ID,
			Responses: state.Responses,
		}}}
	}

	state.QuestionIndex++
	return state, []Effect{AskQuestion{Index: state.QuestionIndex}}
}
