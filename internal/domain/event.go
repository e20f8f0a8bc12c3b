package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event lifecycle states. Only active -> cancelled is reachable today;
// draft is defined for a future save-without-publishing flow.
const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusDraft     = "draft"
)

// Event represents a user-created event. Price is a display-only decimal;
// 0.00 means the event is free. Only the creator may edit or cancel it.
// swagger:model Event
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DateTime    time.Time       `json:"date_time"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	CreatorID   string          `json:"creator_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewEvent returns a new active Event. ID is set by the repository on create.
func NewEvent(title, description string, dateTime time.Time, location string, price decimal.Decimal, categoryID, creatorID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		DateTime:    dateTime,
		Location:    location,
		Price:       price,
		CategoryID:  categoryID,
		CreatorID:   creatorID,
		Status:      EventStatusActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventListItem is one row of the event list: the event plus its category name
// and a live attendee count (count of RSVP rows, recomputed per request).
type EventListItem struct {
	*Event
	CategoryName  string `json:"category_name"`
	AttendeeCount int    `json:"attendee_count"`
}

// Recognized sort keys for EventFilter.Sort.
const (
	SortByDate      = "date"
	SortByPrice     = "price"
	SortByLocation  = "location"
	SortByAttendees = "attendees"
)

// EventFilter accumulates optional list constraints. Zero values mean "filter
// not applied"; all supplied filters AND together. CreatorID and RSVPUserID
// are only set for authenticated requests. An unrecognized Sort falls back to
// the default ordering (date_time ascending).
type EventFilter struct {
	CategoryID string
	DateFrom   *time.Time
	DateTo     *time.Time
	PriceMax   *decimal.Decimal
	FreeOnly   bool
	CreatorID  string
	RSVPUserID string
	Sort       string
	Dir        string
	Pagination PaginationParams
}

// EventUpdate carries a partial update; nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	DateTime    *time.Time
	Location    *string
	Price       *decimal.Decimal
	CategoryID  *string
}

// EventDetail is the detail view of an event. Attendees is populated only
// when the viewer is the creator; HasRsvped only for authenticated viewers.
type EventDetail struct {
	*Event
	CategoryName  string      `json:"category_name"`
	AttendeeCount int         `json:"attendee_count"`
	HasRsvped     bool        `json:"has_rsvped"`
	IsCreator     bool        `json:"is_creator"`
	Attendees     []*Attendee `json:"attendees,omitempty"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns one page of filtered, ordered events with attendee counts,
	// plus the total number of matching rows.
	List(ctx context.Context, filter EventFilter) ([]*EventListItem, int, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	SetStatus(ctx context.Context, eventID, status string) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event CRUD and lifecycle.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, filter EventFilter) ([]*EventListItem, int, error)
	// GetDetail returns the detail view as seen by viewerID (empty for anonymous).
	GetDetail(ctx context.Context, eventID, viewerID string) (*EventDetail, error)
	Update(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	// Cancel transitions active -> cancelled. Re-cancelling an already
	// cancelled event succeeds without changes.
	Cancel(ctx context.Context, eventID, callerID string) (*Event, error)
	Delete(ctx context.Context, eventID, callerID string) error
}
