package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/reservafacil/backend/internal/model"
)

// In-memory stores backing the service tests.

type fakeReservationStore struct {
	reservations map[uuid.UUID]*model.Reservation
	lockCalls    int
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: make(map[uuid.UUID]*model.Reservation)}
}

func (f *fakeReservationStore) add(res *model.Reservation) *model.Reservation {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	f.reservations[res.ID] = res
	return res
}

func (f *fakeReservationStore) Create(ctx context.Context, res *model.Reservation) error {
	f.add(res)
	return nil
}

func (f *fakeReservationStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return f.reservations[id], nil
}

func (f *fakeReservationStore) ListByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID && r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	r, ok := f.reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.Status = status
	return nil
}

func (f *fakeReservationStore) AssignTable(ctx context.Context, id uuid.UUID, tableID *uuid.UUID) error {
	r, ok := f.reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.TableID = tableID
	return nil
}

func (f *fakeReservationStore) ClearAssignmentsForDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) error {
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID && r.Date.Equal(date) {
			r.TableID = nil
		}
	}
	return nil
}

func (f *fakeReservationStore) DistinctCustomerEmails(ctx context.Context, restaurantID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID && r.Active() && r.CustomerEmail != "" && !seen[r.CustomerEmail] {
			seen[r.CustomerEmail] = true
			out = append(out, r.CustomerEmail)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) WithDayLock(ctx context.Context, restaurantID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	f.lockCalls++
	return fn(ctx)
}

type fakeTableStore struct {
	tables map[uuid.UUID]*model.Table
}

func newFakeTableStore() *fakeTableStore {
	return &fakeTableStore{tables: make(map[uuid.UUID]*model.Table)}
}

func (f *fakeTableStore) add(t *model.Table) *model.Table {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.tables[t.ID] = t
	return t
}

func (f *fakeTableStore) Create(ctx context.Context, t *model.Table) error {
	f.add(t)
	return nil
}

func (f *fakeTableStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	return f.tables[id], nil
}

func (f *fakeTableStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Table, error) {
	var out []*model.Table
	for _, t := range f.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTableStore) Update(ctx context.Context, t *model.Table) error {
	if _, ok := f.tables[t.ID]; !ok {
		return errors.New("table not found")
	}
	f.tables[t.ID] = t
	return nil
}

func (f *fakeTableStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.tables[id]; !ok {
		return errors.New("table not found")
	}
	delete(f.tables, id)
	return nil
}

type fakeZoneStore struct {
	zones []*model.Zone
}

func (f *fakeZoneStore) Create(ctx context.Context, z *model.Zone) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	f.zones = append(f.zones, z)
	return nil
}

func (f *fakeZoneStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Zone, error) {
	var out []*model.Zone
	for _, z := range f.zones {
		if z.RestaurantID == restaurantID {
			out = append(out, z)
		}
	}
	return out, nil
}

type fakeRestaurantStore struct {
	restaurants map[uuid.UUID]*model.Restaurant
}

func newFakeRestaurantStore() *fakeRestaurantStore {
	return &fakeRestaurantStore{restaurants: make(map[uuid.UUID]*model.Restaurant)}
}

func (f *fakeRestaurantStore) add(r *model.Restaurant) *model.Restaurant {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.restaurants[r.ID] = r
	return r
}

func (f *fakeRestaurantStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return f.restaurants[id], nil
}

func (f *fakeRestaurantStore) UpdateSettings(ctx context.Context, rest *model.Restaurant) error {
	if _, ok := f.restaurants[rest.ID]; !ok {
		return errors.New("restaurant not found")
	}
	f.restaurants[rest.ID] = rest
	return nil
}

type fakeCampaignStore struct {
	campaigns map[uuid.UUID]*model.Campaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: make(map[uuid.UUID]*model.Campaign)}
}

func (f *fakeCampaignStore) Create(ctx context.Context, c *model.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.campaigns[c.ID] = c
	return nil
}

func (f *fakeCampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	return f.campaigns[id], nil
}

func (f *fakeCampaignStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Campaign, error) {
	var out []*model.Campaign
	for _, c := range f.campaigns {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignStore) MarkSent(ctx context.Context, id uuid.UUID, sentCount int, sentAt time.Time) error {
	c, ok := f.campaigns[id]
	if !ok {
		return errors.New("campaign not found")
	}
	c.Status = model.CampaignSent
	c.SentCount = sentCount
	c.SentAt = &sentAt
	return nil
}

// recordingProvider captures dispatched messages.
type recordingProvider struct {
	sent []sentMessage
	fail map[string]bool
}

type sentMessage struct {
	recipient string
	subject   string
	body      string
}

func (p *recordingProvider) Send(ctx context.Context, recipient, subject, body string) error {
	if p.fail[recipient] {
		return errors.New("delivery failed")
	}
	p.sent = append(p.sent, sentMessage{recipient: recipient, subject: subject, body: body})
	return nil
}
