package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// RewardHandler 奖励与成就。token 奖励入账、成就派生奖励都在存储层完成。
type RewardHandler struct {
	storage  repository.Storage
	sessions *SessionStore
	logger   *zap.Logger
}

func NewRewardHandler(storage repository.Storage, sessions *SessionStore, logger *zap.Logger) *RewardHandler {
	return &RewardHandler{storage: storage, sessions: sessions, logger: logger}
}

// ListRewards GET /api/rewards
func (h *RewardHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	rewards, err := h.storage.ListRewards(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list rewards", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

type createRewardRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CreateReward POST /api/rewards
func (h *RewardHandler) CreateReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createRewardRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reward data")
		return
	}
	if req.Type == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid reward data")
		return
	}

	reward, err := h.storage.CreateReward(r.Context(), &domain.Reward{
		UserID:      userID,
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		AcquiredAt:  time.Now(),
	})
	if err != nil {
		h.logger.Error("Failed to create reward", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

// ListAchievements GET /api/achievements
func (h *RewardHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	achievements, err := h.storage.ListAchievements(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list achievements", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

type createAchievementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CreateAchievement POST /api/achievements
func (h *RewardHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createAchievementRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid achievement data")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid achievement data")
		return
	}

	achievement, err := h.storage.CreateAchievement(r.Context(), &domain.Achievement{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		AcquiredAt:  time.Now(),
	})
	if err != nil {
		h.logger.Error("Failed to create achievement", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, achievement)
}
