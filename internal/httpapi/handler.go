package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservafacil/backend/internal/model"
	"github.com/reservafacil/backend/internal/render"
	"github.com/reservafacil/backend/internal/scheduling"
	"github.com/reservafacil/backend/internal/service"
)

type Handler struct {
	availability *service.AvailabilityService
	reservations *service.ReservationService
	assignments  *service.AssignmentService
	floor        *service.FloorService
	campaigns    *service.CampaignService
	logger       *zap.Logger
}

func NewHandler(
	availability *service.AvailabilityService,
	reservations *service.ReservationService,
	assignments *service.AssignmentService,
	floor *service.FloorService,
	campaigns *service.CampaignService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		availability: availability,
		reservations: reservations,
		assignments:  assignments,
		floor:        floor,
		campaigns:    campaigns,
		logger:       logger,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET /api/restaurants/{id}/availability", h.handleAvailability)
	mux.HandleFunc("GET /api/restaurants/{id}/availability/check", h.handleAvailabilityCheck)

	mux.HandleFunc("POST /api/reservations", h.handleCreateReservation)
	mux.HandleFunc("GET /api/reservations/{id}", h.handleGetReservation)
	mux.HandleFunc("POST /api/reservations/{id}/status", h.handleChangeStatus)
	mux.HandleFunc("POST /api/reservations/{id}/cancel", h.handleCancelReservation)
	mux.HandleFunc("POST /api/reservations/{id}/assign", h.handleAssignSingle)
	mux.HandleFunc("POST /api/reservations/{id}/unassign", h.handleUnassign)
	mux.HandleFunc("GET /api/restaurants/{id}/reservations", h.handleListDay)

	mux.HandleFunc("POST /api/restaurants/{id}/assignments/auto", h.handleAutoAssign)
	mux.HandleFunc("POST /api/restaurants/{id}/assignments/reoptimize", h.handleReoptimize)

	mux.HandleFunc("GET /api/restaurants/{id}/tables", h.handleListTables)
	mux.HandleFunc("POST /api/restaurants/{id}/tables", h.handleCreateTable)
	mux.HandleFunc("PUT /api/tables/{id}", h.handleUpdateTable)
	mux.HandleFunc("DELETE /api/tables/{id}", h.handleDeleteTable)
	mux.HandleFunc("POST /api/tables/{id}/duplicate", h.handleDuplicateTable)
	mux.HandleFunc("GET /api/restaurants/{id}/zones", h.handleListZones)
	mux.HandleFunc("PUT /api/restaurants/{id}/settings", h.handleUpdateSettings)
	mux.HandleFunc("GET /api/restaurants/{id}/floorplan.png", h.handleFloorPlan)

	mux.HandleFunc("POST /api/restaurants/{id}/campaigns", h.handleCreateCampaign)
	mux.HandleFunc("GET /api/restaurants/{id}/campaigns", h.handleListCampaigns)
	mux.HandleFunc("POST /api/campaigns/{id}/send", h.handleSendCampaign)

	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	slots, err := h.availability.GetAvailableTimeSlots(r.Context(), restaurantID, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"date": date.Format("2006-01-02"), "slots": slots})
}

func (h *Handler) handleAvailabilityCheck(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}
	slot := r.URL.Query().Get("time")
	guests, err := strconv.Atoi(r.URL.Query().Get("guests"))
	if err != nil || guests < 1 {
		writeError(w, http.StatusBadRequest, "guests must be a positive integer")
		return
	}

	available, err := h.availability.CheckAvailability(r.Context(), restaurantID, date, slot, guests)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

type createReservationRequest struct {
	RestaurantID    string `json:"restaurant_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Guests          int    `json:"guests"`
	TablePreference string `json:"table_preference"`
	DurationMinutes int    `json:"duration_minutes"`
	SpecialRequests string `json:"special_requests"`
	CreatedBy       string `json:"created_by"`
}

func (h *Handler) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "restaurant_id must be a UUID")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = model.CreatedByCustomer
	}

	res, err := h.reservations.CreateReservation(r.Context(), service.CreateReservationInput{
		RestaurantID:    restaurantID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Date:            date,
		Time:            req.Time,
		Guests:          req.Guests,
		TablePreference: model.TablePreference(req.TablePreference),
		DurationMinutes: req.DurationMinutes,
		SpecialRequests: req.SpecialRequests,
		CreatedBy:       createdBy,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.reservations.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.reservations.ChangeStatus(r.Context(), id, model.ReservationStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.reservations.Cancel(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListDay(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}
	reservations, err := h.reservations.ListDay(r.Context(), restaurantID, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reservations": reservations})
}

func (h *Handler) handleAssignSingle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		TableID string `json:"table_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "table_id must be a UUID")
		return
	}
	result, err := h.assignments.AssignSingle(r.Context(), id, tableID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.assignments.Unassign(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, h.assignments.AutoAssignDay)
}

func (h *Handler) handleReoptimize(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, h.assignments.ReoptimizeFullDay)
}

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*service.BatchResult, error)) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	result, err := run(r.Context(), restaurantID, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type tableRequest struct {
	Number   int            `json:"number"`
	Capacity int            `json:"capacity"`
	Zone     string         `json:"zone"`
	Shape    string         `json:"shape"`
	Kind     string         `json:"kind"`
	Geometry model.Geometry `json:"geometry"`
	Features []string       `json:"features"`
}

func (req tableRequest) toModel(id, restaurantID uuid.UUID) *model.Table {
	return &model.Table{
		ID:           id,
		RestaurantID: restaurantID,
		Number:       req.Number,
		Capacity:     req.Capacity,
		Zone:         model.ZoneKind(req.Zone),
		Shape:        model.TableShape(req.Shape),
		Kind:         model.TableKind(req.Kind),
		Geometry:     req.Geometry,
		Features:     req.Features,
	}
}

func (h *Handler) handleListTables(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tables, err := h.floor.ListTables(r.Context(), restaurantID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

func (h *Handler) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req tableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	table := req.toModel(uuid.New(), restaurantID)
	if err := h.floor.CreateTable(r.Context(), table); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handler) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	existing, err := h.floor.GetTable(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	var req tableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	table := req.toModel(id, existing.RestaurantID)
	if err := h.floor.UpdateTable(r.Context(), table); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.floor.DeleteTable(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDuplicateTable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	table, err := h.floor.DuplicateTable(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handler) handleListZones(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	zones, err := h.floor.ListZones(r.Context(), restaurantID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"zones": zones})
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var rest model.Restaurant
	if !decodeJSON(w, r, &rest) {
		return
	}
	rest.ID = restaurantID
	if err := h.floor.UpdateRestaurantSettings(r.Context(), &rest); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

// handleFloorPlan renders the layout as PNG, tinting the tables that
// are occupied at the requested moment.
func (h *Handler) handleFloorPlan(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}
	at := r.URL.Query().Get("time")
	atMinutes, err := scheduling.MinutesOfDay(at)
	if err != nil {
		writeError(w, http.StatusBadRequest, "time must be HH:MM")
		return
	}

	tables, err := h.floor.ListTables(r.Context(), restaurantID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	reservations, err := h.reservations.ListDay(r.Context(), restaurantID, date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	occupied := occupiedTables(reservations, atMinutes)

	w.Header().Set("Content-Type", "image/png")
	title := fmt.Sprintf("Plano del salón — %s %s", date.Format("02/01/2006"), at)
	if err := render.FloorPlan(w, title, tables, occupied); err != nil {
		h.logger.Error("Failed to render floor plan", zap.Error(err))
	}
}

func occupiedTables(reservations []*model.Reservation, atMinutes int) map[uuid.UUID]bool {
	occupied := make(map[uuid.UUID]bool)
	for _, res := range reservations {
		if !res.Active() || !res.Assigned() {
			continue
		}
		start, err := scheduling.MinutesOfDay(res.Time)
		if err != nil {
			continue
		}
		duration := res.DurationMinutes
		if duration <= 0 {
			duration = scheduling.DefaultDurationMinutes
		}
		if atMinutes >= start && atMinutes < start+duration {
			occupied[*res.TableID] = true
		}
	}
	return occupied
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.campaigns.CreateCampaign(r.Context(), restaurantID, req.Subject, req.Body)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	campaigns, err := h.campaigns.ListCampaigns(r.Context(), restaurantID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"campaigns": campaigns})
}

func (h *Handler) handleSendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.campaigns.SendCampaign(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// helpers

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func queryDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationErrors
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Violations: verr.Violations})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrSlotFull), errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
