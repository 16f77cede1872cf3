package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GoogleClaims tokeninfo 端点返回的身份声明（只取需要的字段）
type GoogleClaims struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Audience string `json:"aud"`
}

// GoogleVerifier 外部身份令牌校验
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error)
}

// GoogleClient 调 Google tokeninfo 端点做服务端校验（签名/有效期由 Google 侧保证）
type GoogleClient struct {
	httpClient *resty.Client
	clientID   string
	logger     *zap.Logger
}

const googleTokenInfoBaseURL = "https://oauth2.googleapis.com"

func NewGoogleClient(clientID string, logger *zap.Logger) *GoogleClient {
	client := resty.New().
		SetBaseURL(googleTokenInfoBaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &GoogleClient{
		httpClient: client,
		clientID:   clientID,
		logger:     logger,
	}
}

// VerifyIDToken 校验 id_token 并检查 audience / email
func (c *GoogleClient) VerifyIDToken(ctx context.Context, idToken string) (*GoogleClaims, error) {
	var claims GoogleClaims
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(&claims).
		Get("/tokeninfo")
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("Google token rejected", zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("invalid token")
	}
	if c.clientID != "" && claims.Audience != c.clientID {
		c.logger.Warn("Google token audience mismatch", zap.String("aud", claims.Audience))
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims, nil
}
