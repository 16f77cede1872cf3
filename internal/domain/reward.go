package domain

import "time"

// TokenRewardAmount 每次 token 类奖励的固定额度
const TokenRewardAmount = 10

// Reward 奖励记录。创建 token 类奖励会增加用户 tokenBalance / lifetimeTokens。
type Reward struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Type        string    `json:"type"` // token | badge | trophy
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	AcquiredAt  time.Time `json:"acquiredAt"`
}

const RewardTypeToken = "token"

// Achievement 成就。创建成就总是同步派生一条 token 奖励。
type Achievement struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	AcquiredAt  time.Time `json:"acquiredAt"`
}
