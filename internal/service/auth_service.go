package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrMissingFields      = errors.New("missing required fields")
)

// AuthService 认证服务接口
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*domain.User, error)
	CurrentUser(ctx context.Context, userID int) (*domain.User, error)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

type authService struct {
	storage  repository.Storage
	verifier GoogleVerifier
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(storage repository.Storage, verifier GoogleVerifier, logger *zap.Logger) AuthService {
	return &authService{
		storage:  storage,
		verifier: verifier,
		logger:   logger,
	}
}

// Register 本地账号注册（重名 / 重邮箱拒绝）
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" || req.Email == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.storage.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.storage.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.CreateUser(ctx, &domain.User{
		Username:     req.Username,
		Password:     hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
		StreakGoal:   7,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 本地口令登录
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Login failed: unknown username", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	// Google-only 账号没有本地口令
	if user.Password == "" || !ComparePasswords(password, user.Password) {
		s.logger.Warn("Login failed: bad password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithGoogle 外部身份登录：先按 googleId 找，再按 email 绑定，最后建新用户
func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*domain.User, error) {
	claims, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByGoogleID(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err = s.storage.GetUserByEmail(ctx, claims.Email)
	if err == nil {
		// 已有本地账号：补上 Google 身份信息
		linked, err := s.storage.UpdateUser(ctx, user.ID, domain.UserPatch{
			GoogleID:         &claims.Subject,
			GoogleProfilePic: &claims.Picture,
			AccessToken:      &idToken,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("Linked Google identity to existing user", zap.Int("user_id", linked.ID))
		return linked, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	firstName, lastName := splitDisplayName(claims.Name)
	created, err := s.storage.CreateUser(ctx, &domain.User{
		Username:         deriveUsername(claims.Email),
		Email:            claims.Email,
		FirstName:        firstName,
		LastName:         lastName,
		GoogleID:         claims.Subject,
		GoogleProfilePic: claims.Picture,
		AccessToken:      idToken,
		ProfileImage:     claims.Picture,
		StreakGoal:       7,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Created user from Google identity", zap.Int("user_id", created.ID))
	return created, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int) (*domain.User, error) {
	return s.storage.GetUser(ctx, userID)
}

func splitDisplayName(name string) (first, last string) {
	first, last = "New", "User"
	parts := strings.Fields(name)
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

// deriveUsername 邮箱前缀 + 随机后缀，避免与已有用户名冲突
func deriveUsername(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	return fmt.Sprintf("%s%d", local, rand.Intn(1000))
}
