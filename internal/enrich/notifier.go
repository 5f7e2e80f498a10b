package enrich

import (
	"fmt"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
)

// Level classifies a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a one-shot user-facing message.
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Watcher turns polled status transitions into one-shot notifications. It is
// a plain state machine over the previously observed status, independent of
// any rendering mechanism; the view calls Observe on each new poll result.
//
// A watcher is seeded with the status visible when the view mounts, so a job
// that is already terminal at mount produces no notification; only a change
// observed during the watcher's lifetime does.
type Watcher struct {
	prev entity.EnrichmentStatus
}

// NewWatcher seeds the watcher with the status currently visible, which may
// be undefined.
func NewWatcher(initial entity.EnrichmentStatus) *Watcher {
	return &Watcher{prev: initial}
}

// Observe evaluates one poll result and returns a notification exactly when
// the status transitioned into a terminal state: both previous and current
// must be defined and differ. The previous status is updated unconditionally
// afterwards, including to undefined; that is what prevents duplicate
// notifications across repeated identical polls.
func (w *Watcher) Observe(snap *entity.EnrichmentStatusSnapshot) *Notification {
	var current entity.EnrichmentStatus
	if snap != nil {
		current = snap.Status
	}
	prev := w.prev
	w.prev = current

	if !prev.Defined() || !current.Defined() || prev == current {
		return nil
	}

	switch current {
	case entity.EnrichmentCompleted:
		return &Notification{
			Level:   LevelSuccess,
			Title:   "Contact enrichment finished",
			Message: fmt.Sprintf("%d contacts found", snap.ContactsFound),
		}
	case entity.EnrichmentFailed:
		msg := "the enrichment job reported a failure"
		if snap.ErrorDetails != nil && snap.ErrorDetails.Error != "" {
			msg = snap.ErrorDetails.Error
			if snap.ErrorDetails.Details != "" {
				msg = fmt.Sprintf("%s: %s", msg, snap.ErrorDetails.Details)
			}
		}
		return &Notification{
			Level:   LevelError,
			Title:   "Contact enrichment failed",
			Message: msg,
		}
	}
	return nil
}
