package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifepulse/internal/service"
)

// AuthHandler 注册 / 登录 / 登出 / 当前用户
type AuthHandler struct {
	auth     service.AuthService
	sessions *SessionStore
	logger   *zap.Logger
}

func NewAuthHandler(auth service.AuthService, sessions *SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Username, password and email are required")
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	user, err := h.auth.LoginWithGoogle(r.Context(), req.Token)
	if err != nil {
		h.logger.Warn("Google login rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	if err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load current user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
