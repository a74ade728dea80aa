package checkin

// Question is one prompt in a group's interview. Raw config may give a
// question as a plain string or as {key, text}; both are normalized to
// this shape on read.
type Question struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type Member struct {
	Username               string `json:"username"`
	Color                  string `json:"color,omitempty"`
	DisableReminderMessage bool   `json:"disableReminderMessage,omitempty"`
}

type Admin struct {
	Username string `json:"username"`
}

// DNDDate is a single do-not-disturb calendar entry.
type DNDDate struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

// Schedule is one weekly recurring check-in slot. Day uses time.Weekday
// numbering (Sunday = 0). Questions, when set, override the group list
// for interviews started from this slot.
type Schedule struct {
	Day       int        `json:"day"`
	Hour      int        `json:"hour"`
	Minute    int        `json:"minute"`
	Questions []Question `json:"questions,omitempty"`
}

type GroupConfig struct {
	ID                        string     `json:"id"`
	Timezone                  string     `json:"tz,omitempty"`
	Schedules                 []Schedule `json:"schedules"`
	ScheduleCron              string     `json:"scheduleCron,omitempty"`
	Questions                 []Question `json:"questions"`
	Members                   []Member   `json:"members"`
	Admins                    []Admin    `json:"admins,omitempty"`
	Channels                  []string   `json:"channels"`
	DoNotDisturbDates         []DNDDate  `json:"doNotDisturbDates,omitempty"`
	DoNotDisturbOverrideDates []DNDDate  `json:"doNotDisturbOverrideDates,omitempty"`
}

// Member returns the member record for username, or nil.
func (gc *GroupConfig) Member(username string) *Member {
	for i := range gc.Members {
		if gc.Members[i].Username == username {
			return &gc.Members[i]
		}
	}
	return nil
}

// IsAdmin reports whether username is listed in the group's admins.
func (gc *GroupConfig) IsAdmin(username string) bool {
	for _, a := range gc.Admins {
		if a.Username == username {
			return true
		}
	}
	return false
}

// ScheduleForDay returns the schedule entry matching weekday, resolving
// duplicates last-match-wins, or nil when the group doesn't run that day.
func (gc *GroupConfig) ScheduleForDay(weekday int) *Schedule {
	var found *Schedule
	for i := range gc.Schedules {
		if gc.Schedules[i].Day == weekday {
			found = &gc.Schedules[i]
		}
	}
	return found
}

// QuestionsFor returns the effective question list for a schedule slot,
// applying the slot's override when present.
func (gc *GroupConfig) QuestionsFor(s *Schedule) []Question {
	if s != nil && len(s.Questions) > 0 {
		return s.Questions
	}
	return gc.Questions
}
