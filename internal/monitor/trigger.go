package monitor

import "time"

const dateLayout = "2006-01-02"

// DailyTrigger fires at most once per calendar day, during a configured hour
// in a configured time zone.
type DailyTrigger struct {
	Hour     int
	Location *time.Location

	lastFired string
}

// NewDailyTrigger returns a trigger for hour in loc. A nil loc means local time.
func NewDailyTrigger(hour int, loc *time.Location) *DailyTrigger {
	if loc == nil {
		loc = time.Local
	}
	return &DailyTrigger{Hour: hour, Location: loc}
}

// Due reports whether now falls in the trigger hour of a day that has not
// fired yet.
func (t *DailyTrigger) Due(now time.Time) bool {
	local := now.In(t.Location)
	return local.Hour() == t.Hour && local.Format(dateLayout) != t.lastFired
}

// Fired records that the trigger ran on now's calendar day.
func (t *DailyTrigger) Fired(now time.Time) {
	t.lastFired = now.In(t.Location).Format(dateLayout)
}
