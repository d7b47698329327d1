package domain

import "time"

// AlertState is the announcement history of one category. The zero value
// means nothing has been announced.
type AlertState struct {
	LastSeverity   Severity  `json:"last_severity"`
	LastNotifiedAt time.Time `json:"last_notified_at"`
}

// Observe feeds a newly classified severity into the state. It reports
// whether the change must be announced and returns the state to keep.
// A notification is due iff sev differs from the last announced severity;
// repeats are suppressed and a drop back to none is announced once.
func (s AlertState) Observe(sev Severity, now time.Time) (AlertState, bool) {
	if sev == s.LastSeverity {
		return s, false
	}
	return AlertState{LastSeverity: sev, LastNotifiedAt: now}, true
}

// Active reports whether the category is currently in an announced alert.
func (s AlertState) Active() bool {
	return s.LastSeverity != SeverityNone
}
