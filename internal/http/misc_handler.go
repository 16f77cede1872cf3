package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
	"lifepulse/internal/service"
)

// MiscHandler 客户端配置与健康建议
type MiscHandler struct {
	storage   repository.Storage
	sessions  *SessionStore
	companion *service.Companion
	logger    *zap.Logger
}

func NewMiscHandler(storage repository.Storage, sessions *SessionStore, companion *service.Companion, logger *zap.Logger) *MiscHandler {
	return &MiscHandler{storage: storage, sessions: sessions, companion: companion, logger: logger}
}

// Config GET /api/config
func (h *MiscHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"aiProvider": "huggingface",
		"aiStatus":   "active",
	})
}

// Suggestions GET /api/suggestions
// 基于当前健康快照给出建议；没有快照时返回默认建议。
func (h *MiscHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}

	var stats *domain.HealthStats
	s, err := h.storage.GetHealthStats(r.Context(), userID)
	switch {
	case err == nil:
		stats = s
	case errors.Is(err, repository.ErrNotFound):
		// 新用户还没有快照
	default:
		h.logger.Error("Failed to fetch health stats for suggestions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	suggestions, priority := h.companion.Suggestions(stats)
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"priority":    priority,
	})
}
