package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
	"lifepulse/internal/service"
)

// ScanHandler 药品扫描记录
type ScanHandler struct {
	storage   repository.Storage
	sessions  *SessionStore
	companion *service.Companion
	logger    *zap.Logger
}

func NewScanHandler(storage repository.Storage, sessions *SessionStore, companion *service.Companion, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{storage: storage, sessions: sessions, companion: companion, logger: logger}
}

// List GET /api/medicine-scans
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	scans, err := h.storage.ListMedicineScans(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list medicine scans", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

type createScanRequest struct {
	MedicineName string   `json:"medicineName"`
	Dosage       string   `json:"dosage"`
	Timing       string   `json:"timing"`
	SideEffects  []string `json:"sideEffects"`
}

// Create POST /api/medicine-scans
// 缺失的剂量/服用时机/副作用从药品档案补齐。
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createScanRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid medicine scan data")
		return
	}
	if req.MedicineName == "" {
		writeError(w, http.StatusBadRequest, "Invalid medicine scan data")
		return
	}

	if req.Dosage == "" || req.Timing == "" || len(req.SideEffects) == 0 {
		info := h.companion.LookupMedicine(req.MedicineName)
		if req.Dosage == "" {
			req.Dosage = info.Dosage
		}
		if req.Timing == "" {
			req.Timing = info.Frequency
		}
		if len(req.SideEffects) == 0 {
			req.SideEffects = info.SideEffects
		}
	}

	scan, err := h.storage.CreateMedicineScan(r.Context(), &domain.MedicineScan{
		UserID:       userID,
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		Timing:       req.Timing,
		SideEffects:  req.SideEffects,
		ScannedAt:    time.Now(),
	})
	if err != nil {
		h.logger.Error("Failed to create medicine scan", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, scan)
}
