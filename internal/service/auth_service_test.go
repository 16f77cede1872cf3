package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifepulse/internal/repository"
)

type stubVerifier struct {
	claims *GoogleClaims
	err    error
}

func (v *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func newAuthFixture(t *testing.T, verifier GoogleVerifier) (AuthService, *repository.MemoryStorage) {
	t.Helper()
	storage := repository.NewMemoryStorage()
	return NewAuthService(storage, verifier, zap.NewNop()), storage
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, &stubVerifier{})
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username:  "maria",
		Password:  "s3cret-pass",
		Email:     "maria@example.com",
		FirstName: "Maria",
		LastName:  "Lopez",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "s3cret-pass", user.Password)

	got, err := svc.Login(ctx, "maria", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, "maria", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newAuthFixture(t, &stubVerifier{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "maria", Password: "p", Email: "maria@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "maria", Password: "p", Email: "other@example.com"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterRequest{Username: "maria2", Password: "p", Email: "maria@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterRequest{Username: "", Password: "", Email: ""})
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestLoginWithGoogleCreatesUser(t *testing.T) {
	verifier := &stubVerifier{claims: &GoogleClaims{
		Subject: "google-sub-1",
		Email:   "pat@example.com",
		Name:    "Pat Doe",
		Picture: "https://example.com/pat.png",
	}}
	svc, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	user, err := svc.LoginWithGoogle(ctx, "token-abc")
	require.NoError(t, err)
	require.Equal(t, "google-sub-1", user.GoogleID)
	require.Equal(t, "Pat", user.FirstName)
	require.Equal(t, "Doe", user.LastName)
	require.Contains(t, user.Username, "pat")

	// 二次登录命中同一账号
	again, err := svc.LoginWithGoogle(ctx, "token-abc")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)

	// 外部账号没有本地口令，本地登录应失败
	_, err = svc.Login(ctx, user.Username, "anything")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithGoogleLinksExistingEmail(t *testing.T) {
	verifier := &stubVerifier{claims: &GoogleClaims{
		Subject: "google-sub-9",
		Email:   "maria@example.com",
		Name:    "Maria Lopez",
		Picture: "https://example.com/m.png",
	}}
	svc, _ := newAuthFixture(t, verifier)
	ctx := context.Background()

	local, err := svc.Register(ctx, RegisterRequest{Username: "maria", Password: "p", Email: "maria@example.com"})
	require.NoError(t, err)

	linked, err := svc.LoginWithGoogle(ctx, "token-xyz")
	require.NoError(t, err)
	require.Equal(t, local.ID, linked.ID)
	require.Equal(t, "google-sub-9", linked.GoogleID)
	require.Equal(t, "https://example.com/m.png", linked.GoogleProfilePic)
}

func TestLoginWithGoogleVerifierError(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("invalid token")}
	svc, _ := newAuthFixture(t, verifier)

	_, err := svc.LoginWithGoogle(context.Background(), "bad")
	require.Error(t, err)
}
