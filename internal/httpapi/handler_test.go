package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/service"
)

var testRestaurantID = uuid.MustParse("7f9c24e5-1fb3-4f85-9e24-c98f2f8e4a11")

type memStores struct {
	restaurants  map[uuid.UUID]*model.Restaurant
	reservations map[uuid.UUID]*model.Reservation
	tables       map[uuid.UUID]*model.Table
	zones        []*model.Zone
	campaigns    map[uuid.UUID]*model.Campaign
}

func newMemStores() *memStores {
	return &memStores{
		restaurants:  make(map[uuid.UUID]*model.Restaurant),
		reservations: make(map[uuid.UUID]*model.Reservation),
		tables:       make(map[uuid.UUID]*model.Table),
		campaigns:    make(map[uuid.UUID]*model.Campaign),
	}
}

// ReservationStore

func (m *memStores) Create(ctx context.Context, res *model.Reservation) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	m.reservations[res.ID] = res
	return nil
}

func (m *memStores) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return m.reservations[id], nil
}

func (m *memStores) ListByDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, res := range m.reservations {
		if res.RestaurantID == restaurantID && res.Date.Equal(date) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *memStores) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus) error {
	m.reservations[id].Status = status
	return nil
}

func (m *memStores) AssignTable(ctx context.Context, id uuid.UUID, tableID *uuid.UUID) error {
	m.reservations[id].TableID = tableID
	return nil
}

func (m *memStores) ClearAssignmentsForDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) error {
	for _, res := range m.reservations {
		if res.RestaurantID == restaurantID && res.Date.Equal(date) {
			res.TableID = nil
		}
	}
	return nil
}

func (m *memStores) DistinctCustomerEmails(ctx context.Context, restaurantID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, res := range m.reservations {
		if res.RestaurantID != restaurantID || res.Status == model.ReservationCancelled || res.CustomerEmail == "" {
			continue
		}
		if !seen[res.CustomerEmail] {
			seen[res.CustomerEmail] = true
			out = append(out, res.CustomerEmail)
		}
	}
	return out, nil
}

func (m *memStores) WithDayLock(ctx context.Context, restaurantID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// TableStore (Create via CreateTable to avoid clashing with the reservation Create)

type memTableStore struct{ m *memStores }

func (s memTableStore) Create(ctx context.Context, t *model.Table) error {
	s.m.tables[t.ID] = t
	return nil
}

func (s memTableStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	return s.m.tables[id], nil
}

func (s memTableStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Table, error) {
	var out []*model.Table
	for _, t := range s.m.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memTableStore) Update(ctx context.Context, t *model.Table) error {
	s.m.tables[t.ID] = t
	return nil
}

func (s memTableStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.m.tables, id)
	return nil
}

type memZoneStore struct{ m *memStores }

func (s memZoneStore) Create(ctx context.Context, z *model.Zone) error {
	s.m.zones = append(s.m.zones, z)
	return nil
}

func (s memZoneStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Zone, error) {
	return s.m.zones, nil
}

type memRestaurantStore struct{ m *memStores }

func (s memRestaurantStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	return s.m.restaurants[id], nil
}

func (s memRestaurantStore) UpdateSettings(ctx context.Context, rest *model.Restaurant) error {
	s.m.restaurants[rest.ID] = rest
	return nil
}

type memCampaignStore struct{ m *memStores }

func (s memCampaignStore) Create(ctx context.Context, c *model.Campaign) error {
	s.m.campaigns[c.ID] = c
	return nil
}

func (s memCampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	return s.m.campaigns[id], nil
}

func (s memCampaignStore) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*model.Campaign, error) {
	var out []*model.Campaign
	for _, c := range s.m.campaigns {
		if c.RestaurantID == restaurantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s memCampaignStore) MarkSent(ctx context.Context, id uuid.UUID, sentCount int, sentAt time.Time) error {
	c := s.m.campaigns[id]
	c.Status = model.CampaignSent
	c.SentCount = sentCount
	c.SentAt = &sentAt
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memStores) {
	t.Helper()
	stores := newMemStores()
	stores.restaurants[testRestaurantID] = &model.Restaurant{
		ID:                     testRestaurantID,
		Name:                   "La Terraza",
		OpeningTime:            "12:00",
		ClosingTime:            "23:00",
		SlotMinutes:            30,
		SlotCapacity:           40,
		DefaultDurationMinutes: 120,
		MaxPartySize:           12,
		AdvanceBookingDays:     30,
	}

	logger := zap.NewNop()
	notifier := service.NewNotificationService(service.NewProvider("noop", logger), logger)
	tables := memTableStore{stores}
	zones := memZoneStore{stores}
	restaurants := memRestaurantStore{stores}
	campaigns := memCampaignStore{stores}

	h := NewHandler(
		service.NewAvailabilityService(restaurants, stores, logger),
		service.NewReservationService(restaurants, stores, notifier, logger),
		service.NewAssignmentService(stores, tables, logger),
		service.NewFloorService(tables, zones, restaurants, logger),
		service.NewCampaignService(campaigns, stores, service.NewProvider("noop", logger), logger),
		logger,
	)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, stores
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestCreateReservationEndpoint(t *testing.T) {
	srv, stores := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/reservations", map[string]interface{}{
		"restaurant_id":  testRestaurantID.String(),
		"customer_name":  "Lucía Pérez",
		"customer_email": "lucia@example.com",
		"date":           futureDate(),
		"time":           "20:00",
		"guests":         4,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created model.Reservation
	decodeBody(t, resp, &created)
	if created.Status != model.ReservationPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if len(stores.reservations) != 1 {
		t.Errorf("stored reservations = %d, want 1", len(stores.reservations))
	}
}

func TestCreateReservationValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/reservations", map[string]interface{}{
		"restaurant_id": testRestaurantID.String(),
		"customer_name": "",
		"date":          futureDate(),
		"time":          "20:17", // off the 30-minute grid
		"guests":        0,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if len(body.Violations) < 2 {
		t.Errorf("violations = %v, want at least name and guests", body.Violations)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/restaurants/" + testRestaurantID.String() + "/availability?date=" + futureDate())
	if err != nil {
		t.Fatalf("GET availability: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Slots []struct {
			Time      string `json:"time"`
			Available bool   `json:"available"`
		} `json:"slots"`
	}
	decodeBody(t, resp, &body)
	// 12:00 through 22:30 inclusive at 30-minute steps.
	if len(body.Slots) != 22 {
		t.Fatalf("slots = %d, want 22", len(body.Slots))
	}
	if body.Slots[0].Time != "12:00" || !body.Slots[0].Available {
		t.Errorf("first slot = %+v, want available 12:00", body.Slots[0])
	}
}

func TestAssignAndUnassignEndpoints(t *testing.T) {
	srv, stores := newTestServer(t)

	table := &model.Table{
		ID:           uuid.New(),
		RestaurantID: testRestaurantID,
		Number:       1,
		Capacity:     4,
		Zone:         model.ZoneInterior,
	}
	stores.tables[table.ID] = table

	date, _ := time.Parse("2006-01-02", futureDate())
	res := &model.Reservation{
		ID:           uuid.New(),
		RestaurantID: testRestaurantID,
		CustomerName: "Marta Gil",
		Date:         date,
		Time:         "20:00",
		Guests:       4,
		Status:       model.ReservationConfirmed,
	}
	stores.reservations[res.ID] = res

	resp := postJSON(t, srv.URL+"/api/reservations/"+res.ID.String()+"/assign",
		map[string]string{"table_id": table.ID.String()})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
	if res.TableID == nil || *res.TableID != table.ID {
		t.Fatal("reservation not assigned to the table")
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/reservations/"+res.ID.String()+"/unassign", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unassign status = %d, want 204", resp.StatusCode)
	}
	if res.TableID != nil {
		t.Error("table assignment should be cleared")
	}
}

func TestAssignConflictReturns409(t *testing.T) {
	srv, stores := newTestServer(t)

	table := &model.Table{ID: uuid.New(), RestaurantID: testRestaurantID, Number: 1, Capacity: 6}
	stores.tables[table.ID] = table

	date, _ := time.Parse("2006-01-02", futureDate())
	blocker := &model.Reservation{
		ID: uuid.New(), RestaurantID: testRestaurantID, Date: date,
		Time: "20:00", Guests: 2, Status: model.ReservationConfirmed, TableID: &table.ID,
	}
	stores.reservations[blocker.ID] = blocker

	overlapping := &model.Reservation{
		ID: uuid.New(), RestaurantID: testRestaurantID, Date: date,
		Time: "21:00", Guests: 2, Status: model.ReservationConfirmed,
	}
	stores.reservations[overlapping.ID] = overlapping

	resp := postJSON(t, srv.URL+"/api/reservations/"+overlapping.ID.String()+"/assign",
		map[string]string{"table_id": table.ID.String()})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestUnknownReservationReturns404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/reservations/" + uuid.New().String())
	if err != nil {
		t.Fatalf("GET reservation: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTableLifecycleEndpoints(t *testing.T) {
	srv, stores := newTestServer(t)
	base := srv.URL + "/api/restaurants/" + testRestaurantID.String()

	resp := postJSON(t, base+"/tables", map[string]interface{}{
		"number":   1,
		"capacity": 4,
		"zone":     "interior",
		"shape":    "square",
		"geometry": map[string]float64{"x": 10, "y": 10, "width": 60, "height": 60},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created model.Table
	decodeBody(t, resp, &created)

	resp = postJSON(t, srv.URL+"/api/tables/"+created.ID.String()+"/duplicate", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("duplicate status = %d, want 201", resp.StatusCode)
	}
	var copied model.Table
	decodeBody(t, resp, &copied)
	if copied.Number != 2 {
		t.Errorf("copy number = %d, want 2", copied.Number)
	}
	if len(stores.tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(stores.tables))
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/tables/"+copied.ID.String(), nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", delResp.StatusCode)
	}
	if len(stores.tables) != 1 {
		t.Errorf("tables after delete = %d, want 1", len(stores.tables))
	}
}

func TestCampaignEndpoints(t *testing.T) {
	srv, stores := newTestServer(t)
	base := srv.URL + "/api/restaurants/" + testRestaurantID.String()

	date, _ := time.Parse("2006-01-02", futureDate())
	for i, email := range []string{"a@example.com", "b@example.com"} {
		res := &model.Reservation{
			ID: uuid.New(), RestaurantID: testRestaurantID,
			CustomerName: fmt.Sprintf("Cliente %d", i), CustomerEmail: email,
			Date: date, Time: "20:00", Guests: 2, Status: model.ReservationConfirmed,
		}
		stores.reservations[res.ID] = res
	}

	resp := postJSON(t, base+"/campaigns", map[string]string{
		"subject": "Menú de otoño",
		"body":    "Nueva carta disponible a partir del viernes.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created model.Campaign
	decodeBody(t, resp, &created)

	resp = postJSON(t, srv.URL+"/api/campaigns/"+created.ID.String()+"/send", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send status = %d, want 200", resp.StatusCode)
	}
	var sent model.Campaign
	decodeBody(t, resp, &sent)
	if sent.Status != model.CampaignSent || sent.SentCount != 2 {
		t.Errorf("sent = %+v, want status sent with 2 recipients", sent)
	}
}

func TestFloorPlanEndpointReturnsPNG(t *testing.T) {
	srv, stores := newTestServer(t)

	table := &model.Table{
		ID: uuid.New(), RestaurantID: testRestaurantID, Number: 1, Capacity: 4,
		Zone: model.ZoneInterior, Shape: model.ShapeSquare,
		Geometry: model.Geometry{X: 20, Y: 20, Width: 60, Height: 60},
	}
	stores.tables[table.ID] = table

	url := srv.URL + "/api/restaurants/" + testRestaurantID.String() +
		"/floorplan.png?date=" + futureDate() + "&time=20:00"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET floor plan: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
}

func TestBatchAssignEndpoint(t *testing.T) {
	srv, stores := newTestServer(t)

	for n := 1; n <= 2; n++ {
		table := &model.Table{
			ID: uuid.New(), RestaurantID: testRestaurantID,
			Number: n, Capacity: 4, Zone: model.ZoneInterior,
		}
		stores.tables[table.ID] = table
	}

	day := futureDate()
	date, _ := time.Parse("2006-01-02", day)
	for i := 0; i < 2; i++ {
		res := &model.Reservation{
			ID: uuid.New(), RestaurantID: testRestaurantID,
			CustomerName: fmt.Sprintf("Grupo %d", i), Date: date,
			Time: "20:00", Guests: 4, Status: model.ReservationConfirmed,
		}
		stores.reservations[res.ID] = res
	}

	resp := postJSON(t, srv.URL+"/api/restaurants/"+testRestaurantID.String()+"/assignments/auto",
		map[string]string{"date": day})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var result service.BatchResult
	decodeBody(t, resp, &result)
	if len(result.Assignments) != 2 || len(result.Unassigned) != 0 {
		t.Fatalf("assignments = %d unassigned = %d, want 2/0",
			len(result.Assignments), len(result.Unassigned))
	}
}
