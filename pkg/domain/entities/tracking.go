package entities

import "time"

// Tracking carries bookkeeping shared by every persisted record: timestamps,
// the editors who touched it, soft deletion and the comment attached to the
// last save.
type Tracking struct {
	Created     time.Time
	Modified    time.Time
	CreatedBy   string
	ModifiedBy  string
	Deleted     bool
	SaveComment string
}

// Touch stamps a save by user at now
func (t *Tracking) Touch(user string, now time.Time) {
	if t.Created.IsZero() {
		t.Created = now
		t.CreatedBy = user
	}
	t.Modified = now
	t.ModifiedBy = user
}

// SoftDelete marks the record deleted without removing it
func (t *Tracking) SoftDelete(user string, now time.Time) {
	t.Deleted = true
	t.Touch(user, now)
}
