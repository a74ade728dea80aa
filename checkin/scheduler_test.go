package checkin

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	groups      []*GroupConfig
	globalDates []DNDDate
}

func (s *stubSource) ReadGroups() ([]*GroupConfig, error) { return s.groups, nil }

func (s *stubSource) ReadGlobalSuppressionDates() ([]DNDDate, error) { return s.globalDates, nil }

type firedStart struct {
	username string
	groupID  string
}

func testScheduler(source ConfigSource, at time.Time) (*Scheduler, *[]firedStart) {
	fired := []firedStart{}
	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	s := NewScheduler(source, logger, func(member Member, gc *GroupConfig, _ *Schedule) {
		fired = append(fired, firedStart{username: member.Username, groupID: gc.ID})
	})
	s.now = func() time.Time { return at }

	return s, &fired
}

func newYork(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)
	return loc
}

func wednesdayGroup() *GroupConfig {
	return &GroupConfig{
		ID:       "flux",
		Timezone: "America/New_York",
		// 2026-09-02 is a Wednesday.
		Schedules: []Schedule{{Day: 3, Hour: 9, Minute: 0}},
		Members:   []Member{{Username: "marty"}, {Username: "doc"}},
		Channels:  []string{"standups"},
	}
}

func TestSchedulerFiresAtTheScheduledMinute(t *testing.T) {
	now := time.Date(2026, 9, 2, 9, 0, 30, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{wednesdayGroup()}}, now)

	s.Tick()

	assert.Equal(t, []firedStart{
		{username: "marty", groupID: "flux"},
		{username: "doc", groupID: "flux"},
	}, *fired)
}

func TestSchedulerDoesNotFireOffTheMinute(t *testing.T) {
	for _, at := range []time.Time{
		time.Date(2026, 9, 2, 8, 59, 0, 0, newYork(t)),
		time.Date(2026, 9, 2, 9, 1, 0, 0, newYork(t)),
		time.Date(2026, 9, 2, 10, 0, 0, 0, newYork(t)),
	} {
		s, fired := testScheduler(&stubSource{groups: []*GroupConfig{wednesdayGroup()}}, at)
		s.Tick()
		assert.Empty(t, *fired, "fired at %s", at)
	}
}

func TestSchedulerSkipsDaysWithoutASchedule(t *testing.T) {
	// Thursday: the group only runs Wednesdays.
	now := time.Date(2026, 9, 3, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{wednesdayGroup()}}, now)

	s.Tick()

	assert.Empty(t, *fired)
}

func TestSchedulerLastScheduleWinsOnDuplicateWeekday(t *testing.T) {
	gc := wednesdayGroup()
	gc.Schedules = []Schedule{
		{Day: 3, Hour: 9, Minute: 0},
		{Day: 3, Hour: 14, Minute: 30},
	}

	morning := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, morning)
	s.Tick()
	assert.Empty(t, *fired, "superseded morning entry fired")

	afternoon := time.Date(2026, 9, 2, 14, 30, 0, 0, newYork(t))
	s, fired = testScheduler(&stubSource{groups: []*GroupConfig{gc}}, afternoon)
	s.Tick()
	assert.Len(t, *fired, 2)
}

func TestSchedulerSkipsSuppressedDays(t *testing.T) {
	gc := wednesdayGroup()
	gc.DoNotDisturbDates = []DNDDate{{Date: "2026-09-02", Name: "Company holiday"}}

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, now)

	s.Tick()

	assert.Empty(t, *fired)
}

func TestSchedulerOverrideCancelsSuppression(t *testing.T) {
	gc := wednesdayGroup()
	gc.DoNotDisturbDates = []DNDDate{{Date: "2026-09-02", Name: "Company holiday"}}
	gc.DoNotDisturbOverrideDates = []DNDDate{{Date: "2026-09-02"}}

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, now)

	s.Tick()

	assert.Len(t, *fired, 2)
}

func TestSchedulerSkipsGlobalSuppressionDays(t *testing.T) {
	source := &stubSource{
		groups:      []*GroupConfig{wednesdayGroup()},
		globalDates: []DNDDate{{Date: "2026-09-02", Name: "Labor-ish day"}},
	}

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(source, now)

	s.Tick()

	assert.Empty(t, *fired)
}

func TestSchedulerHonorsDisableReminderMessage(t *testing.T) {
	gc := wednesdayGroup()
	gc.Members[1].DisableReminderMessage = true

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, now)

	s.Tick()

	assert.Equal(t, []firedStart{{username: "marty", groupID: "flux"}}, *fired)
}

func TestSchedulerDoesNotDeduplicateMembersAcrossGroups(t *testing.T) {
	a := wednesdayGroup()
	a.ID = "alpha"
	a.Members = []Member{{Username: "marty"}}
	b := wednesdayGroup()
	b.ID = "beta"
	b.Members = []Member{{Username: "marty"}}

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{a, b}}, now)

	s.Tick()

	assert.Equal(t, []firedStart{
		{username: "marty", groupID: "alpha"},
		{username: "marty", groupID: "beta"},
	}, *fired)
}

func TestSchedulerComparesWallClockFields(t *testing.T) {
	gc := wednesdayGroup()
	gc.Timezone = "America/Chicago"

	// The fire check compares the reference-zone wall clock against the
	// intended instant's own wall clock, so a 9:00 Chicago schedule
	// matches when New York reads 9:00.
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t)))
	s.Tick()
	assert.Len(t, *fired, 2)

	s, fired = testScheduler(&stubSource{groups: []*GroupConfig{gc}}, time.Date(2026, 9, 2, 10, 0, 0, 0, newYork(t)))
	s.Tick()
	assert.Empty(t, *fired)
}

func TestSchedulerCronScheduleFiresOnMatchingMinute(t *testing.T) {
	gc := wednesdayGroup()
	gc.Schedules = nil
	gc.ScheduleCron = "0 9 * * 3"

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, now)
	s.Tick()
	assert.Len(t, *fired, 2)

	later := time.Date(2026, 9, 2, 9, 5, 0, 0, newYork(t))
	s, fired = testScheduler(&stubSource{groups: []*GroupConfig{gc}}, later)
	s.Tick()
	assert.Empty(t, *fired)
}

func TestSchedulerInvalidCronIsSkippedNotFatal(t *testing.T) {
	gc := wednesdayGroup()
	gc.Schedules = nil
	gc.ScheduleCron = "not a cron"

	now := time.Date(2026, 9, 2, 9, 0, 0, 0, newYork(t))
	s, fired := testScheduler(&stubSource{groups: []*GroupConfig{gc}}, now)

	s.Tick()

	assert.Empty(t, *fired)
}
