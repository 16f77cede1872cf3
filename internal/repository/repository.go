package repository

import (
	"context"
	"errors"

	"lifepulse/internal/domain"
)

// ErrNotFound 引用的记录不存在
var ErrNotFound = errors.New("record not found")

// Storage 存储接口
// 使用强类型领域模型；Memory 与 Postgres 两种实现
type Storage interface {
	// 用户
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, patch domain.UserPatch) (*domain.User, error)

	// 健康快照
	GetHealthStats(ctx context.Context, userID int) (*domain.HealthStats, error)
	CreateHealthStats(ctx context.Context, stats *domain.HealthStats) (*domain.HealthStats, error)

	// 提醒
	ListReminders(ctx context.Context, userID int) ([]domain.Reminder, error)
	GetReminder(ctx context.Context, id int) (*domain.Reminder, error)
	CreateReminder(ctx context.Context, reminder *domain.Reminder) (*domain.Reminder, error)
	CompleteReminder(ctx context.Context, id int) (*domain.Reminder, error)
	SnoozeReminder(ctx context.Context, id int, minutes int) (*domain.Reminder, error)

	// 会话消息
	ListChatMessages(ctx context.Context, userID int, conversationID string) ([]domain.ChatMessage, error)
	ListRecentChatMessages(ctx context.Context, userID int) ([]domain.ChatMessage, error)
	ListChatConversations(ctx context.Context, userID int) ([]domain.Conversation, error)
	CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)

	// 预约
	ListAppointments(ctx context.Context, userID int) ([]domain.Appointment, error)
	GetAppointment(ctx context.Context, id int) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)

	// 家庭疗法目录
	ListHomeRemedies(ctx context.Context) ([]domain.HomeRemedy, error)
	GetHomeRemedy(ctx context.Context, id int) (*domain.HomeRemedy, error)
	SearchHomeRemedies(ctx context.Context, query string) ([]domain.HomeRemedy, error)
	CreateHomeRemedy(ctx context.Context, remedy *domain.HomeRemedy) (*domain.HomeRemedy, error)

	// 健康打点
	ListHealthTracking(ctx context.Context, userID int, metric, timeRange string) ([]domain.HealthTracking, error)
	CreateHealthTracking(ctx context.Context, entry *domain.HealthTracking) (*domain.HealthTracking, error)

	// 药品扫描
	ListMedicineScans(ctx context.Context, userID int) ([]domain.MedicineScan, error)
	CreateMedicineScan(ctx context.Context, scan *domain.MedicineScan) (*domain.MedicineScan, error)

	// 奖励 / 成就
	ListRewards(ctx context.Context, userID int) ([]domain.Reward, error)
	CreateReward(ctx context.Context, reward *domain.Reward) (*domain.Reward, error)
	ListAchievements(ctx context.Context, userID int) ([]domain.Achievement, error)
	CreateAchievement(ctx context.Context, achievement *domain.Achievement) (*domain.Achievement, error)
}
