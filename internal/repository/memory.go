package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"lifepulse/internal/domain"
)

// MemoryStorage 进程内存储：每种实体一张 map，所有实体共享一个自增 id。
// 无持久化；进程退出即回到种子数据。
type MemoryStorage struct {
	mu sync.RWMutex

	users          map[int]domain.User
	healthStats    map[int]domain.HealthStats
	reminders      map[int]domain.Reminder
	chatMessages   map[int]domain.ChatMessage
	appointments   map[int]domain.Appointment
	homeRemedies   map[int]domain.HomeRemedy
	healthTracking map[int]domain.HealthTracking
	medicineScans  map[int]domain.MedicineScan
	rewards        map[int]domain.Reward
	achievements   map[int]domain.Achievement

	nextID int
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:          map[int]domain.User{},
		healthStats:    map[int]domain.HealthStats{},
		reminders:      map[int]domain.Reminder{},
		chatMessages:   map[int]domain.ChatMessage{},
		appointments:   map[int]domain.Appointment{},
		homeRemedies:   map[int]domain.HomeRemedy{},
		healthTracking: map[int]domain.HealthTracking{},
		medicineScans:  map[int]domain.MedicineScan{},
		rewards:        map[int]domain.Reward{},
		achievements:   map[int]domain.Achievement{},
		nextID:         1,
	}
}

// allocID 必须在持有写锁时调用
func (s *MemoryStorage) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// --- 用户 ---

func (s *MemoryStorage) GetUser(_ context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStorage) findUser(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Username == username })
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.Email == email })
}

func (s *MemoryStorage) GetUserByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return s.findUser(func(u domain.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (s *MemoryStorage) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	u.ID = s.allocID()
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemoryStorage) UpdateUser(_ context.Context, id int, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.GoogleID != nil {
		u.GoogleID = *patch.GoogleID
	}
	if patch.GoogleProfilePic != nil {
		u.GoogleProfilePic = *patch.GoogleProfilePic
	}
	if patch.ProfileImage != nil {
		u.ProfileImage = *patch.ProfileImage
	}
	if patch.AccessToken != nil {
		u.AccessToken = *patch.AccessToken
	}
	if patch.TokenBalance != nil {
		u.TokenBalance = *patch.TokenBalance
	}
	if patch.LifetimeTokens != nil {
		u.LifetimeTokens = *patch.LifetimeTokens
	}
	s.users[id] = u
	return &u, nil
}

// --- 健康快照 ---

func (s *MemoryStorage) GetHealthStats(_ context.Context, userID int) (*domain.HealthStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.healthStats {
		if st.UserID == userID {
			st := st
			return &st, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CreateHealthStats(_ context.Context, stats *domain.HealthStats) (*domain.HealthStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := *stats
	st.ID = s.allocID()
	s.healthStats[st.ID] = st
	return &st, nil
}

// --- 提醒 ---

func (s *MemoryStorage) ListReminders(_ context.Context, userID int) ([]domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reminder, 0)
	for _, r := range s.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) GetReminder(_ context.Context, id int) (*domain.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStorage) CreateReminder(_ context.Context, reminder *domain.Reminder) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *reminder
	r.ID = s.allocID()
	s.reminders[r.ID] = r
	return &r, nil
}

// CompleteReminder 标记完成；recurring 提醒派生下一条 pending 实例（原完成记录保留）。
func (s *MemoryStorage) CompleteReminder(_ context.Context, id int) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Completed = true
	s.reminders[id] = r

	if r.Recurring && r.RecurringPattern != "" {
		next := r
		next.ID = s.allocID()
		next.Time = domain.NextOccurrence(r.Time, r.RecurringPattern)
		next.Completed = false
		s.reminders[next.ID] = next
	}
	return &r, nil
}

func (s *MemoryStorage) SnoozeReminder(_ context.Context, id int, minutes int) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Time = r.Time.Add(time.Duration(minutes) * time.Minute)
	s.reminders[id] = r
	return &r, nil
}

// --- 会话消息 ---

func (s *MemoryStorage) ListChatMessages(_ context.Context, userID int, conversationID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listChatMessagesLocked(userID, conversationID), nil
}

func (s *MemoryStorage) listChatMessagesLocked(userID int, conversationID string) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0)
	for _, m := range s.chatMessages {
		if m.UserID == userID && m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// ListRecentChatMessages 返回最近活跃会话（含最新消息的会话）的全部消息
func (s *MemoryStorage) ListRecentChatMessages(_ context.Context, userID int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latestID := 0
	latestConv := ""
	for _, m := range s.chatMessages {
		if m.UserID == userID && m.ID > latestID {
			latestID = m.ID
			latestConv = m.ConversationID
		}
	}
	if latestConv == "" {
		return []domain.ChatMessage{}, nil
	}
	return s.listChatMessagesLocked(userID, latestConv), nil
}

func (s *MemoryStorage) ListChatConversations(_ context.Context, userID int) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type group struct {
		first *domain.ChatMessage // earliest user-sent message
	}
	groups := map[string]*group{}
	for _, m := range s.chatMessages {
		if m.UserID != userID {
			continue
		}
		g, ok := groups[m.ConversationID]
		if !ok {
			g = &group{}
			groups[m.ConversationID] = g
		}
		if m.Sender == domain.SenderUser {
			m := m
			if g.first == nil || m.Timestamp.Before(g.first.Timestamp) {
				g.first = &m
			}
		}
	}

	out := make([]domain.Conversation, 0, len(groups))
	for id, g := range groups {
		title := "New Conversation"
		if g.first != nil {
			title = g.first.Content
			if len(title) > 30 {
				title = title[:27] + "..."
			}
		}
		out = append(out, domain.Conversation{ID: id, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) CreateChatMessage(_ context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *msg
	m.ID = s.allocID()
	s.chatMessages[m.ID] = m
	return &m, nil
}

// --- 预约 ---

func (s *MemoryStorage) ListAppointments(_ context.Context, userID int) ([]domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStorage) GetAppointment(_ context.Context, id int) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStorage) CreateAppointment(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *appt
	a.ID = s.allocID()
	s.appointments[a.ID] = a
	return &a, nil
}

// --- 家庭疗法目录 ---

func (s *MemoryStorage) ListHomeRemedies(_ context.Context) ([]domain.HomeRemedy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HomeRemedy, 0, len(s.homeRemedies))
	for _, r := range s.homeRemedies {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) GetHomeRemedy(_ context.Context, id int) (*domain.HomeRemedy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.homeRemedies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStorage) SearchHomeRemedies(_ context.Context, query string) ([]domain.HomeRemedy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]domain.HomeRemedy, 0)
	for _, r := range s.homeRemedies {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.Ailment), q) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) CreateHomeRemedy(_ context.Context, remedy *domain.HomeRemedy) (*domain.HomeRemedy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *remedy
	r.ID = s.allocID()
	s.homeRemedies[r.ID] = r
	return &r, nil
}

// --- 健康打点 ---

// trackingWindowStart timeRange → 起始时间（day=今天零点，week=-7d，month=-1月，默认 week）
func trackingWindowStart(now time.Time, timeRange string) time.Time {
	switch timeRange {
	case "day":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "month":
		return now.AddDate(0, -1, 0)
	default: // "week" and anything else
		return now.AddDate(0, 0, -7)
	}
}

func (s *MemoryStorage) ListHealthTracking(_ context.Context, userID int, metric, timeRange string) ([]domain.HealthTracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := trackingWindowStart(time.Now(), timeRange)
	out := make([]domain.HealthTracking, 0)
	for _, e := range s.healthTracking {
		if e.UserID != userID {
			continue
		}
		if metric != "" && metric != "all" && e.Type != metric {
			continue
		}
		if e.Timestamp.Before(start) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// CreateHealthTracking 追加打点并刷新该用户快照中对应指标
func (s *MemoryStorage) CreateHealthTracking(_ context.Context, entry *domain.HealthTracking) (*domain.HealthTracking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *entry
	e.ID = s.allocID()
	s.healthTracking[e.ID] = e

	for id, st := range s.healthStats {
		if st.UserID != e.UserID {
			continue
		}
		switch e.Type {
		case domain.MetricBloodPressure:
			st.BloodPressure = e.Value
		case domain.MetricHeartRate:
			if v, err := strconv.Atoi(e.Value); err == nil {
				st.HeartRate = v
			}
		case domain.MetricSteps:
			if v, err := strconv.Atoi(e.Value); err == nil {
				st.Steps = v
			}
		case domain.MetricHydration:
			if v, err := strconv.Atoi(e.Value); err == nil {
				st.HydrationGlasses = v
			}
		}
		s.healthStats[id] = st
		break
	}
	return &e, nil
}

// --- 药品扫描 ---

func (s *MemoryStorage) ListMedicineScans(_ context.Context, userID int) ([]domain.MedicineScan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MedicineScan, 0)
	for _, sc := range s.medicineScans {
		if sc.UserID == userID {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScannedAt.After(out[j].ScannedAt) })
	return out, nil
}

func (s *MemoryStorage) CreateMedicineScan(_ context.Context, scan *domain.MedicineScan) (*domain.MedicineScan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := *scan
	sc.ID = s.allocID()
	s.medicineScans[sc.ID] = sc
	return &sc, nil
}

// --- 奖励 / 成就 ---

func (s *MemoryStorage) ListRewards(_ context.Context, userID int) ([]domain.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reward, 0)
	for _, r := range s.rewards {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredAt.After(out[j].AcquiredAt) })
	return out, nil
}

// CreateReward token 类奖励同时给用户增加固定额度的 tokenBalance / lifetimeTokens
func (s *MemoryStorage) CreateReward(_ context.Context, reward *domain.Reward) (*domain.Reward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRewardLocked(reward), nil
}

func (s *MemoryStorage) createRewardLocked(reward *domain.Reward) *domain.Reward {
	r := *reward
	r.ID = s.allocID()
	s.rewards[r.ID] = r

	if r.Type == domain.RewardTypeToken {
		if u, ok := s.users[r.UserID]; ok {
			u.TokenBalance += domain.TokenRewardAmount
			u.LifetimeTokens += domain.TokenRewardAmount
			s.users[u.ID] = u
		}
	}
	return &r
}

func (s *MemoryStorage) ListAchievements(_ context.Context, userID int) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Achievement, 0)
	for _, a := range s.achievements {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredAt.After(out[j].AcquiredAt) })
	return out, nil
}

// CreateAchievement 落库成就并无条件派生一条 token 奖励
func (s *MemoryStorage) CreateAchievement(_ context.Context, achievement *domain.Achievement) (*domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *achievement
	a.ID = s.allocID()
	s.achievements[a.ID] = a

	s.createRewardLocked(&domain.Reward{
		UserID:      a.UserID,
		Type:        domain.RewardTypeToken,
		Name:        "Achievement: " + a.Name,
		Description: "Earned " + a.Name + " achievement",
		Icon:        a.Icon,
		AcquiredAt:  a.AcquiredAt,
	})
	return &a, nil
}
