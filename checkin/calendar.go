package checkin

import (
	"time"

	"github.com/asalkeld/standupbot/common"
)

// DNDRecord is a normalized suppression day: UTC midnight plus the
// configured display name.
type DNDRecord struct {
	Day  time.Time
	Name string
}

// Calendar is a group's effective do-not-disturb set, keyed by
// UTC-midnight day.
type Calendar map[time.Time]DNDRecord

// EffectiveSuppressedDays merges the global suppression list with a
// group's own list and subtracts the group's override list. On a same-day
// collision the group record wins (it is inserted after the global one).
// A day present in overrideDates is removed, never added.
func EffectiveSuppressedDays(globalDates, groupDates, overrideDates []DNDDate) Calendar {
	cal := Calendar{}

	for _, d := range globalDates {
		day := common.ParseDay(d.Date)
		cal[day] = DNDRecord{Day: day, Name: d.Name}
	}
	for _, d := range groupDates {
		day := common.ParseDay(d.Date)
		cal[day] = DNDRecord{Day: day, Name: d.Name}
	}
	for _, d := range overrideDates {
		delete(cal, common.ParseDay(d.Date))
	}

	return cal
}

// SuppressedOn returns the matching record for now's calendar day, or nil.
func (cal Calendar) SuppressedOn(now time.Time) *DNDRecord {
	if rec, ok := cal[common.NormalizeDay(now)]; ok {
		return &rec
	}
	return nil
}
