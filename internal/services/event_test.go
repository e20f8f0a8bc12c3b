package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(eventRepo *fakeEventRepo, categoryRepo *fakeCategoryRepo, rsvpRepo *fakeRSVPRepo, userRepo *fakeUserRepo, emailSvc *fakeEmailService) domain.EventService {
	var email domain.EmailService
	if emailSvc != nil {
		email = emailSvc
	}
	return NewEventService(eventRepo, categoryRepo, rsvpRepo, userRepo, email, slog.Default(), 2*time.Second)
}

func activeEvent(id, creatorID string) *domain.Event {
	return &domain.Event{
		ID:         id,
		Title:      "Picnic",
		DateTime:   time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Location:   "Park",
		Price:      decimal.Zero,
		CategoryID: "cat-1",
		CreatorID:  creatorID,
		Status:     domain.EventStatusActive,
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success forces active status", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		categoryRepo := newFakeCategoryRepo()
		categoryRepo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Social"}

		svc := newTestEventService(eventRepo, categoryRepo, newFakeRSVPRepo(), newFakeUserRepo(), nil)
		e := domain.NewEvent("Picnic", "", time.Now().Add(24*time.Hour), "Park", decimal.Zero, "cat-1", "user-1", time.Time{}, time.Time{})
		e.Status = "whatever"
		require.NoError(t, svc.Create(ctx, e))
		assert.Equal(t, "ev-1", e.ID)
		assert.Equal(t, domain.EventStatusActive, e.Status)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)
		e := domain.NewEvent("Picnic", "", time.Now(), "Park", decimal.Zero, "cat-missing", "user-1", time.Time{}, time.Time{})
		err := svc.Create(ctx, e)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("negative price", func(t *testing.T) {
		categoryRepo := newFakeCategoryRepo()
		categoryRepo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Social"}
		svc := newTestEventService(newFakeEventRepo(), categoryRepo, newFakeRSVPRepo(), newFakeUserRepo(), nil)
		e := domain.NewEvent("Picnic", "", time.Now(), "Park", decimal.RequireFromString("-1"), "cat-1", "user-1", time.Time{}, time.Time{})
		err := svc.Create(ctx, e)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing creator", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)
		e := domain.NewEvent("Picnic", "", time.Now(), "Park", decimal.Zero, "cat-1", "", time.Time{}, time.Time{})
		require.Error(t, svc.Create(ctx, e))
	})
}

func TestEventService_GetDetail(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeEventRepo, *fakeCategoryRepo, *fakeRSVPRepo) {
		eventRepo := newFakeEventRepo()
		eventRepo.byID["ev-1"] = activeEvent("ev-1", "creator-1")
		categoryRepo := newFakeCategoryRepo()
		categoryRepo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Social"}
		rsvpRepo := newFakeRSVPRepo()
		rsvpRepo.pairs[rsvpKey("ev-1", "viewer-1")] = true
		rsvpRepo.attendees["ev-1"] = []*domain.Attendee{
			{UserID: "viewer-1", Name: "Viewer", Email: "viewer@example.com"},
		}
		return eventRepo, categoryRepo, rsvpRepo
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		eventRepo, categoryRepo, rsvpRepo := setup()
		svc := newTestEventService(eventRepo, categoryRepo, rsvpRepo, newFakeUserRepo(), nil)

		detail, err := svc.GetDetail(ctx, "ev-1", "")
		require.NoError(t, err)
		assert.Equal(t, "Social", detail.CategoryName)
		assert.Equal(t, 1, detail.AttendeeCount)
		assert.False(t, detail.HasRsvped)
		assert.False(t, detail.IsCreator)
		assert.Nil(t, detail.Attendees)
	})

	t.Run("attendee viewer sees has_rsvped", func(t *testing.T) {
		eventRepo, categoryRepo, rsvpRepo := setup()
		svc := newTestEventService(eventRepo, categoryRepo, rsvpRepo, newFakeUserRepo(), nil)

		detail, err := svc.GetDetail(ctx, "ev-1", "viewer-1")
		require.NoError(t, err)
		assert.True(t, detail.HasRsvped)
		assert.False(t, detail.IsCreator)
		assert.Nil(t, detail.Attendees)
	})

	t.Run("creator sees attendee list", func(t *testing.T) {
		eventRepo, categoryRepo, rsvpRepo := setup()
		svc := newTestEventService(eventRepo, categoryRepo, rsvpRepo, newFakeUserRepo(), nil)

		detail, err := svc.GetDetail(ctx, "ev-1", "creator-1")
		require.NoError(t, err)
		assert.True(t, detail.IsCreator)
		require.Len(t, detail.Attendees, 1)
		assert.Equal(t, "viewer@example.com", detail.Attendees[0].Email)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)
		_, err := svc.GetDetail(ctx, "ev-missing", "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func() (domain.EventService, *fakeEventRepo) {
		eventRepo := newFakeEventRepo()
		eventRepo.byID["ev-1"] = activeEvent("ev-1", "creator-1")
		categoryRepo := newFakeCategoryRepo()
		categoryRepo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Social"}
		categoryRepo.byID["cat-2"] = &domain.Category{ID: "cat-2", Name: "Sports"}
		return newTestEventService(eventRepo, categoryRepo, newFakeRSVPRepo(), newFakeUserRepo(), nil), eventRepo
	}

	t.Run("creator updates fields", func(t *testing.T) {
		svc, eventRepo := setup()
		title := "Bigger Picnic"
		category := "cat-2"
		got, err := svc.Update(ctx, "ev-1", "creator-1", domain.EventUpdate{Title: &title, CategoryID: &category})
		require.NoError(t, err)
		assert.Equal(t, "Bigger Picnic", got.Title)
		assert.Equal(t, "cat-2", eventRepo.byID["ev-1"].CategoryID)
	})

	t.Run("non-creator is rejected", func(t *testing.T) {
		svc, _ := setup()
		title := "Hijacked"
		_, err := svc.Update(ctx, "ev-1", "someone-else", domain.EventUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cancelled event is immutable", func(t *testing.T) {
		svc, eventRepo := setup()
		eventRepo.byID["ev-1"].Status = domain.EventStatusCancelled
		title := "Too Late"
		_, err := svc.Update(ctx, "ev-1", "creator-1", domain.EventUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		svc, _ := setup()
		category := "cat-missing"
		_, err := svc.Update(ctx, "ev-1", "creator-1", domain.EventUpdate{CategoryID: &category})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		svc, _ := setup()
		price := decimal.RequireFromString("-0.01")
		_, err := svc.Update(ctx, "ev-1", "creator-1", domain.EventUpdate{Price: &price})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_Cancel(t *testing.T) {
	ctx := context.Background()

	setup := func(emailSvc *fakeEmailService) (domain.EventService, *fakeEventRepo, *fakeRSVPRepo) {
		eventRepo := newFakeEventRepo()
		eventRepo.byID["ev-1"] = activeEvent("ev-1", "creator-1")
		rsvpRepo := newFakeRSVPRepo()
		userRepo := newFakeUserRepo()
		userRepo.byID["creator-1"] = &domain.User{ID: "creator-1", Name: "Casey"}
		return newTestEventService(eventRepo, newFakeCategoryRepo(), rsvpRepo, userRepo, emailSvc), eventRepo, rsvpRepo
	}

	t.Run("creator cancels", func(t *testing.T) {
		svc, eventRepo, _ := setup(nil)
		got, err := svc.Cancel(ctx, "ev-1", "creator-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusCancelled, got.Status)
		assert.Equal(t, domain.EventStatusCancelled, eventRepo.byID["ev-1"].Status)
	})

	t.Run("non-creator is rejected", func(t *testing.T) {
		svc, _, _ := setup(nil)
		_, err := svc.Cancel(ctx, "ev-1", "someone-else")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("re-cancel succeeds without changes", func(t *testing.T) {
		svc, eventRepo, _ := setup(nil)
		eventRepo.byID["ev-1"].Status = domain.EventStatusCancelled
		got, err := svc.Cancel(ctx, "ev-1", "creator-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusCancelled, got.Status)
	})

	t.Run("attendees are notified", func(t *testing.T) {
		emailSvc := &fakeEmailService{}
		svc, _, rsvpRepo := setup(emailSvc)
		rsvpRepo.attendees["ev-1"] = []*domain.Attendee{
			{UserID: "u-1", Name: "Alice", Email: "alice@example.com"},
			{UserID: "u-2", Name: "Bob", Email: "bob@example.com"},
		}

		_, err := svc.Cancel(ctx, "ev-1", "creator-1")
		require.NoError(t, err)
		require.Len(t, emailSvc.cancelled, 2)
		assert.Equal(t, "alice@example.com", emailSvc.cancelled[0].Email)
		assert.Equal(t, "Picnic", emailSvc.cancelled[0].EventTitle)
		assert.Equal(t, "Casey", emailSvc.cancelled[0].CreatorName)
	})

	t.Run("notification failure does not surface", func(t *testing.T) {
		emailSvc := &fakeEmailService{err: context.DeadlineExceeded}
		svc, _, rsvpRepo := setup(emailSvc)
		rsvpRepo.attendees["ev-1"] = []*domain.Attendee{{UserID: "u-1", Email: "alice@example.com"}}

		got, err := svc.Cancel(ctx, "ev-1", "creator-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusCancelled, got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := setup(nil)
		_, err := svc.Cancel(ctx, "ev-missing", "creator-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("creator deletes", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		eventRepo.byID["ev-1"] = activeEvent("ev-1", "creator-1")
		svc := newTestEventService(eventRepo, newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)

		require.NoError(t, svc.Delete(ctx, "ev-1", "creator-1"))
		assert.Empty(t, eventRepo.byID)
	})

	t.Run("non-creator is rejected", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		eventRepo.byID["ev-1"] = activeEvent("ev-1", "creator-1")
		svc := newTestEventService(eventRepo, newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)

		err := svc.Delete(ctx, "ev-1", "someone-else")
		require.ErrorIs(t, err, domain.ErrForbidden)
		assert.Len(t, eventRepo.byID, 1)
	})
}

func TestEventService_List(t *testing.T) {
	ctx := context.Background()

	eventRepo := newFakeEventRepo()
	eventRepo.listItems = []*domain.EventListItem{
		{Event: activeEvent("ev-1", "creator-1"), CategoryName: "Social", AttendeeCount: 2},
	}
	eventRepo.listTotal = 1
	svc := newTestEventService(eventRepo, newFakeCategoryRepo(), newFakeRSVPRepo(), newFakeUserRepo(), nil)

	filter := domain.EventFilter{CategoryID: "cat-1", Sort: domain.SortByPrice, Dir: "desc"}
	items, total, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, filter.CategoryID, eventRepo.lastList.CategoryID)
	assert.Equal(t, filter.Sort, eventRepo.lastList.Sort)
}
