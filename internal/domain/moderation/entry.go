package moderation

import (
	"time"

	"github.com/kailas-cloud/satvach/internal/domain/location"
)

// Action is the kind of moderation event.
type Action string

// Action values.
const (
	Submitted Action = "submitted"
	Approved  Action = "approved"
	Rejected  Action = "rejected"
	Edited    Action = "edited"
	Deleted   Action = "deleted"
)

// ActionForStatus maps a status transition target to its audit action.
func ActionForStatus(s location.Status) Action {
	switch s {
	case location.Approved:
		return Approved
	case location.Rejected:
		return Rejected
	default:
		return Edited
	}
}

// Actor identifies who performed an action.
type Actor struct {
	ID string
	IP string
}

// Entry is one append-only audit record.
type Entry struct {
	ID          string
	LocationID  int64
	Action      Action
	Reason      string
	ModeratorID string
	ModeratorIP string
	CreatedAt   time.Time
}

// NewEntry creates an entry stamped at now.
func NewEntry(locationID int64, action Action, reason string, actor Actor, now time.Time) Entry {
	return Entry{
		LocationID:  locationID,
		Action:      action,
		Reason:      reason,
		ModeratorID: actor.ID,
		ModeratorIP: actor.IP,
		CreatedAt:   now,
	}
}
