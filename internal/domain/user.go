package domain

// User 用户领域模型
// password / accessToken / refreshToken 绝不序列化到客户端
type User struct {
	ID               int    `json:"id"`
	Username         string `json:"username"`
	Password         string `json:"-"` // scrypt "hex(hash).salt"；Google 用户为空
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	ProfileImage     string `json:"profileImage,omitempty"`
	GoogleID         string `json:"googleId,omitempty"`
	GoogleProfilePic string `json:"googleProfilePic,omitempty"`
	AccessToken      string `json:"-"`
	RefreshToken     string `json:"-"`
	TokenBalance     int    `json:"tokenBalance"`
	LifetimeTokens   int    `json:"lifetimeTokens"`
	Streak           int    `json:"streak"`
	StreakGoal       int    `json:"streakGoal"`
}

// UserPatch 部分更新（nil 字段不修改）
type UserPatch struct {
	GoogleID         *string
	GoogleProfilePic *string
	ProfileImage     *string
	AccessToken      *string
	TokenBalance     *int
	LifetimeTokens   *int
}
