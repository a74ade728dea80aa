package checkin

import (
	"context"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"

	"github.com/asalkeld/standupbot/common"
)

const tickInterval = time.Minute

// StartFunc is invoked once per due member when a group's check-in fires.
type StartFunc func(member Member, gc *GroupConfig, slot *Schedule)

// Scheduler decides, once per minute, which groups are due for a check-in
// right now. It keeps no state between ticks; configuration is re-read on
// every tick.
type Scheduler struct {
	source ConfigSource
	logger *log.Logger
	start  StartFunc

	// ForceStart skips the top-of-minute phase alignment of the first
	// tick. Used for testing and ops.
	ForceStart bool

	now func() time.Time
}

func NewScheduler(source ConfigSource, logger *log.Logger, start StartFunc) *Scheduler {
	return &Scheduler{
		source: source,
		logger: logger,
		start:  start,
		now:    time.Now,
	}
}

// Run ticks until ctx is cancelled. The first tick is delayed to land one
// second into the top of a minute; subsequent ticks run at fixed
// one-minute intervals. There is no catch-up: a stall across the matching
// minute misses that day's check-in.
func (s *Scheduler) Run(ctx context.Context) {
	delay := time.Duration(0)
	if !s.ForceStart {
		startInSeconds := 60 - s.now().Second() + 1
		delay = time.Duration(startInSeconds) * time.Second
		s.logger.WithField("delay", delay).Info("Schedule processing will start at the top of the minute")
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	s.Tick()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick processes "now" for every configured group. One group's problem
// never blocks the others.
func (s *Scheduler) Tick() {
	now, err := common.WithLocation(s.now(), common.DefaultTimezone)
	if err != nil {
		s.logger.WithError(err).Error("Cannot load reference timezone")
		return
	}

	groups, err := s.source.ReadGroups()
	if err != nil {
		s.logger.WithError(err).Error("Cannot read group configuration")
		return
	}

	globalDates, err := s.source.ReadGlobalSuppressionDates()
	if err != nil {
		s.logger.WithError(err).Warn("Cannot read global suppression dates")
	}

	for _, gc := range groups {
		s.processGroup(now, globalDates, gc)
	}
}

func (s *Scheduler) processGroup(now time.Time, globalDates []DNDDate, gc *GroupConfig) {
	slot, checkinTime, ok := s.checkinTimeToday(now, gc)
	if !ok {
		return
	}

	cal := EffectiveSuppressedDays(globalDates, gc.DoNotDisturbDates, gc.DoNotDisturbOverrideDates)
	if rec := cal.SuppressedOn(now); rec != nil {
		s.logger.WithFields(log.Fields{
			"group": gc.ID,
			"date":  common.ToDay(now),
			"day":   rec.Name,
		}).Info("Today is a do-not-disturb day, no status messages")
		return
	}

	// Coarse one-minute-resolution match, no sub-minute precision and no
	// backfill for a missed minute.
	if now.Minute() != checkinTime.Minute() || now.Hour() != checkinTime.Hour() {
		return
	}

	s.logger.WithFields(log.Fields{
		"group":   gc.ID,
		"checkin": checkinTime.Format(time.RFC3339),
	}).Info("Check-in time")

	for _, member := range gc.Members {
		if member.DisableReminderMessage {
			continue
		}
		s.start(member, gc, slot)
	}
}

// checkinTimeToday computes the group's intended check-in instant today
// in the group's own zone. Returns ok=false when the group isn't
// scheduled to run today.
func (s *Scheduler) checkinTimeToday(now time.Time, gc *GroupConfig) (*Schedule, time.Time, bool) {
	tz := gc.Timezone
	if tz == "" {
		tz = common.DefaultTimezone
	}
	local, err := common.WithLocation(s.now(), tz)
	if err != nil {
		s.logger.WithFields(log.Fields{
			"group": gc.ID,
			"tz":    gc.Timezone,
		}).Warn("Unknown timezone, using default")
		local, _ = common.WithLocation(s.now(), common.DefaultTimezone)
	}

	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())

	if gc.ScheduleCron != "" {
		spec, err := cron.ParseStandard(gc.ScheduleCron)
		if err != nil {
			s.logger.WithFields(log.Fields{
				"group": gc.ID,
				"cron":  gc.ScheduleCron,
				"error": err,
			}).Warn("Invalid cron schedule")
			return nil, time.Time{}, false
		}

		next := spec.Next(startOfDay)
		if !common.NormalizeDay(next).Equal(common.NormalizeDay(startOfDay)) {
			return nil, time.Time{}, false
		}
		return nil, next, true
	}

	slot := gc.ScheduleForDay(int(now.Weekday()))
	if slot == nil {
		return nil, time.Time{}, false
	}

	checkinTime := startOfDay.
		Add(time.Duration(slot.Hour) * time.Hour).
		Add(time.Duration(slot.Minute) * time.Minute)

	return slot, checkinTime, true
}
