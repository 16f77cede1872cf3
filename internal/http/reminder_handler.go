package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// ReminderHandler 提醒的增删查与完成/延后
type ReminderHandler struct {
	storage  repository.Storage
	sessions *SessionStore
	logger   *zap.Logger
}

func NewReminderHandler(storage repository.Storage, sessions *SessionStore, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{storage: storage, sessions: sessions, logger: logger}
}

// List GET /api/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	reminders, err := h.storage.ListReminders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

type createReminderRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Time             time.Time `json:"time"`
	Type             string    `json:"type"`
	Icon             string    `json:"icon"`
	Recurring        bool      `json:"recurring"`
	RecurringPattern string    `json:"recurringPattern"`
}

// Create POST /api/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createReminderRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reminder data")
		return
	}
	if req.Title == "" || req.Type == "" || req.Time.IsZero() {
		writeError(w, http.StatusBadRequest, "Invalid reminder data")
		return
	}

	reminder, err := h.storage.CreateReminder(r.Context(), &domain.Reminder{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Time:             req.Time,
		Type:             req.Type,
		Icon:             req.Icon,
		Recurring:        req.Recurring,
		RecurringPattern: req.RecurringPattern,
	})
	if err != nil {
		h.logger.Error("Failed to create reminder", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

// Complete PATCH /api/reminders/{id}/complete
// 完成重复提醒时会派生下一条实例
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request, id int) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	if !h.ownsReminder(w, r, userID, id) {
		return
	}
	reminder, err := h.storage.CompleteReminder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		h.logger.Error("Failed to complete reminder", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// Snooze PATCH /api/reminders/{id}/snooze
func (h *ReminderHandler) Snooze(w http.ResponseWriter, r *http.Request, id int) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "Minutes required")
		return
	}
	if !h.ownsReminder(w, r, userID, id) {
		return
	}
	reminder, err := h.storage.SnoozeReminder(r.Context(), id, req.Minutes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		h.logger.Error("Failed to snooze reminder", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) ownsReminder(w http.ResponseWriter, r *http.Request, userID, id int) bool {
	reminder, err := h.storage.GetReminder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Reminder not found")
			return false
		}
		h.logger.Error("Failed to fetch reminder", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	if reminder.UserID != userID {
		writeError(w, http.StatusNotFound, "Reminder not found")
		return false
	}
	return true
}
