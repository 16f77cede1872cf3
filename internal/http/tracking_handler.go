package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// TrackingHandler 健康打点
type TrackingHandler struct {
	storage  repository.Storage
	sessions *SessionStore
	logger   *zap.Logger
}

func NewTrackingHandler(storage repository.Storage, sessions *SessionStore, logger *zap.Logger) *TrackingHandler {
	return &TrackingHandler{storage: storage, sessions: sessions, logger: logger}
}

// List GET /api/health-tracking?metric=&timeRange=
func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "all"
	}
	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = "week"
	}

	entries, err := h.storage.ListHealthTracking(r.Context(), userID, metric, timeRange)
	if err != nil {
		h.logger.Error("Failed to list health tracking data", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type createTrackingRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Notes string `json:"notes"`
}

// Create POST /api/health-tracking
// timestamp 由服务端写入；同类指标会同步刷新健康快照。
func (h *TrackingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createTrackingRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid health tracking data")
		return
	}
	if req.Type == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "Invalid health tracking data")
		return
	}

	entry, err := h.storage.CreateHealthTracking(r.Context(), &domain.HealthTracking{
		UserID:    userID,
		Timestamp: time.Now(),
		Type:      req.Type,
		Value:     req.Value,
		Notes:     req.Notes,
	})
	if err != nil {
		h.logger.Error("Failed to create health tracking entry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
