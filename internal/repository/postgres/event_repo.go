package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gatherly/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = "e.id, e.title, e.description, e.date_time, e.location, e.price, e.category_id, e.creator_id, e.status, e.created_at, e.updated_at"

func scanEvent(row interface{ Scan(...any) error }, e *domain.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.DateTime, &e.Location, &e.Price,
		&e.CategoryID, &e.CreatorID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date_time, location, price, category_id, creator_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.DateTime, e.Location, e.Price,
		e.CategoryID, e.CreatorID, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events e WHERE e.id = $1`, eventColumns)
	e := &domain.Event{}
	if err := scanEvent(r.DB.QueryRowContext(ctx, query, id), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// sortColumns whitelists the sortable columns. Anything else falls back to
// the default ordering (date_time ascending).
var sortColumns = map[string]string{
	domain.SortByDate:      "e.date_time",
	domain.SortByPrice:     "e.price",
	domain.SortByLocation:  "e.location",
	domain.SortByAttendees: "attendee_count",
}

func orderClause(sort, dir string) string {
	col, ok := sortColumns[sort]
	if !ok {
		return "ORDER BY e.date_time ASC"
	}
	direction := "ASC"
	if strings.EqualFold(dir, "desc") {
		direction = "DESC"
	}
	if col == "e.date_time" {
		return fmt.Sprintf("ORDER BY e.date_time %s", direction)
	}
	// Ties break on the default ordering.
	return fmt.Sprintf("ORDER BY %s %s, e.date_time ASC", col, direction)
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.EventListItem, int, error) {
	var where []string
	var args []interface{}
	n := 1
	add := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, n))
		args = append(args, value)
		n++
	}

	if f.CategoryID != "" {
		add("e.category_id = $%d", f.CategoryID)
	}
	if f.DateFrom != nil {
		add("e.date_time::date >= $%d::date", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("e.date_time::date <= $%d::date", *f.DateTo)
	}
	if f.PriceMax != nil {
		add("e.price <= $%d", *f.PriceMax)
	}
	if f.FreeOnly {
		where = append(where, "e.price = 0")
	}
	if f.CreatorID != "" {
		add("e.creator_id = $%d", f.CreatorID)
	}
	if f.RSVPUserID != "" {
		add("EXISTS (SELECT 1 FROM rsvps mr WHERE mr.event_id = e.id AND mr.user_id = $%d)", f.RSVPUserID)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM events e %s`, whereSQL)
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, c.name AS category_name,
			(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id) AS attendee_count
		FROM events e
		JOIN categories c ON c.id = e.category_id
		%s
		%s
	`, eventColumns, whereSQL, orderClause(f.Sort, f.Dir))
	if limit := f.Pagination.Limit(); limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1)
		args = append(args, limit, f.Pagination.Offset())
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*domain.EventListItem, 0)
	for rows.Next() {
		item := &domain.EventListItem{Event: &domain.Event{}}
		if err := rows.Scan(
			&item.Event.ID, &item.Event.Title, &item.Event.Description, &item.Event.DateTime,
			&item.Event.Location, &item.Event.Price, &item.Event.CategoryID, &item.Event.CreatorID,
			&item.Event.Status, &item.Event.CreatedAt, &item.Event.UpdatedAt,
			&item.CategoryName, &item.AttendeeCount,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.DateTime != nil {
		set("date_time", *upd.DateTime)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.CategoryID != nil {
		set("category_id", *upd.CategoryID)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING id, title, description, date_time, location, price, category_id, creator_id, status, created_at, updated_at
	`, strings.Join(setClauses, ", "), n)
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.Title, &e.Description, &e.DateTime, &e.Location, &e.Price,
		&e.CategoryID, &e.CreatorID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, eventID, status string) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, status, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
