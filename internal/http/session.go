package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifepulse/internal/store"
)

const sessionKeyPrefix = "session:"

var errNoSession = errors.New("no active session")

// SessionStore 基于 KV 的会话存储（cookie 里只放随机 token，用户 id 存在 KV）
type SessionStore struct {
	kv         store.KV
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     *zap.Logger
}

func NewSessionStore(kv store.KV, cookieName string, ttlDays int, secure bool, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		kv:         kv,
		cookieName: cookieName,
		ttl:        time.Duration(ttlDays) * 24 * time.Hour,
		secure:     secure,
		logger:     logger,
	}
}

// Create 签发新会话并写回 cookie
func (s *SessionStore) Create(ctx context.Context, w http.ResponseWriter, userID int) error {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, sessionKeyPrefix+token, strconv.Itoa(userID), s.ttl); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// UserID 从请求 cookie 解析当前用户
func (s *SessionStore) UserID(r *http.Request) (int, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, errNoSession
	}
	val, err := s.kv.Get(r.Context(), sessionKeyPrefix+cookie.Value)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return 0, errNoSession
		}
		return 0, err
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, errNoSession
	}
	return id, nil
}

// Destroy 删除会话并清空 cookie
func (s *SessionStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil && cookie.Value != "" {
		if err := s.kv.Del(ctx, sessionKeyPrefix+cookie.Value); err != nil {
			s.logger.Warn("Failed to delete session key", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireUser 解析会话；未登录时写 401 并返回 false
func (s *SessionStore) requireUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := s.UserID(r)
	if err != nil {
		if errors.Is(err, errNoSession) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
		} else {
			s.logger.Error("Session lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return 0, false
	}
	return userID, true
}
