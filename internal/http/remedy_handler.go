package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// RemedyHandler 家庭疗法目录（只读，不要求登录）
type RemedyHandler struct {
	storage repository.Storage
	logger  *zap.Logger
}

func NewRemedyHandler(storage repository.Storage, logger *zap.Logger) *RemedyHandler {
	return &RemedyHandler{storage: storage, logger: logger}
}

// List GET /api/home-remedies[?q=]
func (h *RemedyHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var err error
	var remedies []domain.HomeRemedy
	if query != "" {
		remedies, err = h.storage.SearchHomeRemedies(r.Context(), query)
	} else {
		remedies, err = h.storage.ListHomeRemedies(r.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list home remedies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, remedies)
}

// Get GET /api/home-remedies/{id}
func (h *RemedyHandler) Get(w http.ResponseWriter, r *http.Request, id int) {
	remedy, err := h.storage.GetHomeRemedy(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Home remedy not found")
			return
		}
		h.logger.Error("Failed to fetch home remedy", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, remedy)
}
