package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

type rsvpService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
}

// NewRSVPService creates an RSVPService with the given repositories.
func NewRSVPService(eventRepo domain.EventRepository, rsvpRepo domain.RSVPRepository) domain.RSVPService {
	return &rsvpService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
	}
}

func (s *rsvpService) Rsvp(ctx context.Context, eventID, userID string) (*domain.RSVP, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventStatusCancelled {
		return nil, false, domain.ErrEventCancelled
	}

	// The unique (event_id, user_id) constraint arbitrates concurrent
	// writers; a lost race surfaces as created == false.
	rsvp := domain.NewRSVP(eventID, userID, time.Now())
	created, err := s.rsvpRepo.Create(ctx, rsvp)
	if err != nil {
		return nil, false, fmt.Errorf("create rsvp: %w", err)
	}
	if !created {
		// The row that won belongs to an earlier call; this rsvp's ID and
		// timestamp never reached the store, so don't report them.
		return nil, false, nil
	}
	return rsvp, true, nil
}

func (s *rsvpService) CancelRsvp(ctx context.Context, eventID, userID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	// Removing an absent RSVP is a no-op, not an error.
	if err := s.rsvpRepo.Delete(ctx, eventID, userID); err != nil {
		return fmt.Errorf("delete rsvp: %w", err)
	}
	return nil
}
