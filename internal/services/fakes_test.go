package services

import (
	"context"
	"fmt"
	"time"

	"gatherly/internal/domain"
)

// In-memory fakes shared by the service tests.

type fakeEventRepo struct {
	byID      map[string]*domain.Event
	listItems []*domain.EventListItem
	listTotal int
	lastList  domain.EventFilter
	nextID    int
	err       error // if set, every call returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.EventListItem, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastList = filter
	return f.listItems, f.listTotal, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.DateTime != nil {
		e.DateTime = *upd.DateTime
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Price != nil {
		e.Price = *upd.Price
	}
	if upd.CategoryID != nil {
		e.CategoryID = *upd.CategoryID
	}
	e.UpdatedAt = time.Now()
	return e, nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, eventID, status string) error {
	if f.err != nil {
		return f.err
	}
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCategoryRepo struct {
	byID map[string]*domain.Category
	err  error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("cat-%d", len(f.byID)+1)
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range f.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Category
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRSVPRepo struct {
	pairs     map[string]bool // "eventID/userID"
	attendees map[string][]*domain.Attendee
	nextID    int
	err       error
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{pairs: make(map[string]bool), attendees: make(map[string][]*domain.Attendee), nextID: 1}
}

func rsvpKey(eventID, userID string) string { return eventID + "/" + userID }

func (f *fakeRSVPRepo) Create(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := rsvpKey(rsvp.EventID, rsvp.UserID)
	if f.pairs[key] {
		return false, nil
	}
	f.pairs[key] = true
	rsvp.ID = fmt.Sprintf("rsvp-%d", f.nextID)
	f.nextID++
	return true, nil
}

func (f *fakeRSVPRepo) Delete(ctx context.Context, eventID, userID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.pairs, rsvpKey(eventID, userID))
	return nil
}

func (f *fakeRSVPRepo) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.pairs[rsvpKey(eventID, userID)], nil
}

func (f *fakeRSVPRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for key := range f.pairs {
		if len(key) > len(eventID) && key[:len(eventID)+1] == eventID+"/" {
			count++
		}
	}
	return count, nil
}

func (f *fakeRSVPRepo) ListAttendeesByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.attendees[eventID], nil
}

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), byEmail: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

type fakeHasher struct {
	saltErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	return "hashed:" + salt + ":" + password, nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash == "hashed:"+salt+":"+password {
		return nil
	}
	return fmt.Errorf("mismatch")
}

type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

type fakeEmailService struct {
	welcomes  []*domain.WelcomeMessageEmailData
	cancelled []*domain.EventCancelledEmailData
	err       error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendEventCancelledNotice(ctx context.Context, data *domain.EventCancelledEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, data)
	return nil
}
