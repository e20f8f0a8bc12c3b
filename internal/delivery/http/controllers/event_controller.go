package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
)

const (
	maxTitleLen    = 200
	maxLocationLen = 300
)

// CreateEventRequest is the request body for POST /events. The creator is
// taken from the auth token, never from the body.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DateTime    time.Time       `json:"date_time"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	} else if len(c.Title) > maxTitleLen {
		errs = append(errs, "title is too long")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if c.DateTime.IsZero() {
		errs = append(errs, "date_time is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	} else if len(c.Location) > maxLocationLen {
		errs = append(errs, "location is too long")
	}
	if c.Price.IsNegative() {
		errs = append(errs, "price must not be negative")
	}
	if c.CategoryID == "" {
		errs = append(errs, "category_id is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	DateTime    *time.Time       `json:"date_time"`
	Location    *string          `json:"location"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			errs = append(errs, "title must not be empty")
		} else if len(*u.Title) > maxTitleLen {
			errs = append(errs, "title is too long")
		}
	}
	if u.Location != nil && len(*u.Location) > maxLocationLen {
		errs = append(errs, "location is too long")
	}
	if u.Price != nil && u.Price.IsNegative() {
		errs = append(errs, "price must not be negative")
	}
	if u.CategoryID != nil && *u.CategoryID == "" {
		errs = append(errs, "category_id must not be empty")
	}
	return errs
}

// ListEventsResponse is the data payload for GET /events.
type ListEventsResponse struct {
	Events     []*domain.EventListItem `json:"events"`
	Pagination h.PaginationMeta        `json:"pagination"`
}

type EventController struct {
	Logger      *slog.Logger
	Service     domain.EventService
	RSVPService domain.RSVPService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, rsvpSvc domain.RSVPService) *EventController {
	return &EventController{
		Logger:      logger,
		Service:     svc,
		RSVPService: rsvpSvc,
	}
}

// writeEventError maps domain errors onto the standard envelope.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrEventCancelled):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "event cancelled")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns events with live attendee counts. Optional filters (category, date_from, date_to, price_max, free_only, my_events, my_rsvps) AND together; malformed values are ignored. sort: date|price|location|attendees, dir: asc|desc. my_events and my_rsvps require authentication and are otherwise no-ops.
// @Tags events
// @Produce json
// @Param category query string false "Category ID"
// @Param date_from query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param date_to query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param price_max query number false "Inclusive price ceiling"
// @Param free_only query string false "Restrict to price 0.00"
// @Param my_events query string false "Only events I created"
// @Param my_rsvps query string false "Only events I RSVPed to"
// @Param sort query string false "date | price | location | attendees"
// @Param dir query string false "asc (default) | desc"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	filter := h.ParseEventFilter(r, viewerID)

	events, total, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	meta := h.NewPaginationMeta(filter.Pagination.Page, filter.Pagination.PageSize, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Events: events, Pagination: meta})
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event. The authenticated user becomes the creator; the event starts active.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Title, req.Description, req.DateTime, req.Location, req.Price, req.CategoryID, userID, now, now)
	if err := c.Service.Create(r.Context(), event); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event detail with attendee count. Authenticated viewers also get has_rsvped; the creator gets the attendee list.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event detail"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())
	detail, err := c.Service.GetDetail(r.Context(), eventID, viewerID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, detail)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates an event. Only the creator may update; cancelled events are immutable.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not creator, or cancelled)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}
	event, err := c.Service.Update(r.Context(), eventID, callerID, upd)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Transitions the event to cancelled. Creator only; one-way. Cancelling an already cancelled event succeeds without changes. Attendees are notified by email.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the cancelled event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not creator)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.Cancel(r.Context(), eventID, callerID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its RSVPs. Creator only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a status message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not creator)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID, callerID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
