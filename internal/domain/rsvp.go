package domain

import (
	"context"
	"time"
)

// RSVP records a user's intent to attend an event. Existence of the row is
// the only state; cancelling an RSVP deletes the row. The (event, user) pair
// is unique, enforced by the store.
// swagger:model RSVP
type RSVP struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRSVP returns a new RSVP. ID is set by the repository on create.
func NewRSVP(eventID, userID string, createdAt time.Time) *RSVP {
	return &RSVP{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// Attendee is one entry of an event's attendee list, shown to the creator.
type Attendee struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	RsvpedAt time.Time `json:"rsvped_at"`
}

// RSVPRepository defines storage operations for RSVPs. The store is the sole
// arbiter of the (event, user) uniqueness invariant under concurrent writers.
type RSVPRepository interface {
	// Create inserts the row with insert-or-ignore semantics. created is
	// false when the pair already existed.
	Create(ctx context.Context, rsvp *RSVP) (created bool, err error)
	// Delete removes the pair; deleting an absent pair is not an error.
	Delete(ctx context.Context, eventID, userID string) error
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	ListAttendeesByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
}

// RSVPService defines attendance operations.
type RSVPService interface {
	// Rsvp registers userID for the event. created is false when the user
	// had already RSVPed. Fails with ErrEventCancelled for cancelled events.
	Rsvp(ctx context.Context, eventID, userID string) (rsvp *RSVP, created bool, err error)
	// CancelRsvp removes the RSVP; a no-op when none exists.
	CancelRsvp(ctx context.Context, eventID, userID string) error
}
