package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// AppointmentHandler 预约
type AppointmentHandler struct {
	storage  repository.Storage
	sessions *SessionStore
	logger   *zap.Logger
}

func NewAppointmentHandler(storage repository.Storage, sessions *SessionStore, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{storage: storage, sessions: sessions, logger: logger}
}

// List GET /api/appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	appointments, err := h.storage.ListAppointments(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list appointments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// Get GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request, id int) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	appt, err := h.storage.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("Failed to fetch appointment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if appt.UserID != userID {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

type createAppointmentRequest struct {
	Type       string    `json:"type"`
	DoctorName string    `json:"doctorName"`
	Location   string    `json:"location"`
	Date       time.Time `json:"date"`
	Duration   int       `json:"duration"`
	Status     string    `json:"status"`
}

// Create POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createAppointmentRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid appointment data")
		return
	}
	if req.Type == "" || req.DoctorName == "" || req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "Invalid appointment data")
		return
	}
	if req.Status == "" {
		req.Status = domain.AppointmentScheduled
	}

	appt, err := h.storage.CreateAppointment(r.Context(), &domain.Appointment{
		UserID:     userID,
		Type:       req.Type,
		DoctorName: req.DoctorName,
		Location:   req.Location,
		Date:       req.Date,
		Duration:   req.Duration,
		Status:     req.Status,
	})
	if err != nil {
		h.logger.Error("Failed to create appointment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}
