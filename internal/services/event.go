package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	rsvpRepo       domain.RSVPRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	rsvpRepo domain.RSVPRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.CreatorID == "" {
		return fmt.Errorf("event creator is required")
	}
	if event.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", domain.ErrInvalidInput)
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown category: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("get category: %w", err)
	}

	event.Status = domain.EventStatusActive
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter) ([]*domain.EventListItem, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.List(ctx, filter)
}

func (s *eventService) GetDetail(ctx context.Context, eventID, viewerID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	category, err := s.categoryRepo.GetByID(ctx, event.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	count, err := s.rsvpRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}

	detail := &domain.EventDetail{
		Event:         event,
		CategoryName:  category.Name,
		AttendeeCount: count,
		IsCreator:     viewerID != "" && viewerID == event.CreatorID,
	}

	if viewerID != "" {
		hasRsvped, err := s.rsvpRepo.Exists(ctx, eventID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("check rsvp: %w", err)
		}
		detail.HasRsvped = hasRsvped
	}

	// The attendee list is visible to the creator only.
	if detail.IsCreator {
		attendees, err := s.rsvpRepo.ListAttendeesByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list attendees: %w", err)
		}
		if attendees == nil {
			attendees = []*domain.Attendee{}
		}
		detail.Attendees = attendees
	}
	return detail, nil
}

func (s *eventService) Update(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrForbidden
	}
	// Cancelled events are immutable.
	if event.Status == domain.EventStatusCancelled {
		return nil, domain.ErrForbidden
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", domain.ErrInvalidInput)
	}
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *upd.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("unknown category: %w", domain.ErrInvalidInput)
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Cancel(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrForbidden
	}
	// Cancelling twice succeeds without changes.
	if event.Status == domain.EventStatusCancelled {
		return event, nil
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, domain.EventStatusCancelled); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	event.Status = domain.EventStatusCancelled

	s.notifyAttendeesCancelled(ctx, event)
	return event, nil
}

// notifyAttendeesCancelled emails every current attendee. Failures are logged,
// never surfaced: the cancellation itself has already been committed.
func (s *eventService) notifyAttendeesCancelled(ctx context.Context, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	attendees, err := s.rsvpRepo.ListAttendeesByEventID(ctx, event.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "list attendees for cancellation notice failed", "event_id", event.ID, "err", err)
		return
	}
	creatorName := ""
	if creator, err := s.userRepo.GetByID(ctx, event.CreatorID); err == nil {
		creatorName = creator.Name
	}
	for _, a := range attendees {
		data := &domain.EventCancelledEmailData{
			Email:       a.Email,
			EventTitle:  event.Title,
			EventDate:   event.DateTime.Format("Mon, 02 Jan 2006 15:04"),
			CreatorName: creatorName,
		}
		if err := s.emailService.SendEventCancelledNotice(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "cancellation notice failed", "event_id", event.ID, "email", a.Email, "err", err)
		}
	}
}

func (s *eventService) Delete(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
