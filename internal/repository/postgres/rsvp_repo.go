package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gatherly/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

// Create relies on the unique (event_id, user_id) constraint to serialize
// concurrent writers. ON CONFLICT DO NOTHING makes repeated RSVPs no-ops.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	query := `
		INSERT INTO rsvps (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rsvp.EventID, rsvp.UserID, rsvp.CreatedAt).Scan(&rsvp.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: the pair already existed, nothing inserted.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *rsvpRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM rsvps WHERE event_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID)
	return err
}

func (r *rsvpRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM rsvps WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *rsvpRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rsvpRepository) ListAttendeesByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT u.id, u.name, u.email, r.created_at
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.UserID, &a.Name, &a.Email, &a.RsvpedAt); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
