package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifepulse/internal/repository"
)

// UserHandler 用户档案与健康快照
type UserHandler struct {
	storage  repository.Storage
	sessions *SessionStore
	logger   *zap.Logger
}

func NewUserHandler(storage repository.Storage, sessions *SessionStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{storage: storage, sessions: sessions, logger: logger}
}

// CurrentUser GET /api/users/current
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.storage.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to fetch user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// LatestHealthStats GET /api/health-stats/latest
func (h *UserHandler) LatestHealthStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	stats, err := h.storage.GetHealthStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Health stats not found")
			return
		}
		h.logger.Error("Failed to fetch health stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
