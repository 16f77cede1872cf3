package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifepulse/internal/domain"
)

func newTestUser(t *testing.T, s Storage) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &domain.User{
		Username:       "sarahj",
		FirstName:      "Sarah",
		LastName:       "Johnson",
		Email:          "sarah.johnson@example.com",
		TokenBalance:   2840,
		LifetimeTokens: 4250,
		Streak:         5,
		StreakGoal:     7,
	})
	require.NoError(t, err)
	return u
}

func TestCompleteReminder_DailySpawnsSuccessor(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	base := time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, &domain.Reminder{
		UserID:           u.ID,
		Title:            "Take Medication",
		Time:             base,
		Type:             "medicine",
		Recurring:        true,
		RecurringPattern: domain.PatternDaily,
	})
	require.NoError(t, err)

	done, err := s.CompleteReminder(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, done.Completed)

	list, err := s.ListReminders(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2, "completed instance is retained and a successor is spawned")

	next := list[1]
	require.False(t, next.Completed)
	require.Equal(t, base.Add(24*time.Hour), next.Time)
	require.Equal(t, r.Title, next.Title)
	require.True(t, next.Recurring)
}

func TestCompleteReminder_WeekdaysNeverLandsOnWeekend(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	friday := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, &domain.Reminder{
		UserID:           u.ID,
		Title:            "Drink Water",
		Time:             friday,
		Type:             "water",
		Recurring:        true,
		RecurringPattern: domain.PatternWeekdays,
	})
	require.NoError(t, err)

	_, err = s.CompleteReminder(ctx, r.ID)
	require.NoError(t, err)

	list, err := s.ListReminders(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	next := list[1]
	require.NotEqual(t, time.Saturday, next.Time.Weekday())
	require.NotEqual(t, time.Sunday, next.Time.Weekday())
	require.True(t, next.Time.After(friday))
}

func TestCompleteReminder_NonRecurringAndMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	r, err := s.CreateReminder(ctx, &domain.Reminder{
		UserID: u.ID, Title: "One-off", Time: time.Now(), Type: "other",
	})
	require.NoError(t, err)

	_, err = s.CompleteReminder(ctx, r.ID)
	require.NoError(t, err)
	list, _ := s.ListReminders(ctx, u.ID)
	require.Len(t, list, 1, "non-recurring completion must not spawn")

	_, err = s.CompleteReminder(ctx, 99999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSnoozeReminder_ShiftsTriggerOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	base := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, &domain.Reminder{
		UserID: u.ID, Title: "Short Walk", Time: base, Type: "activity",
	})
	require.NoError(t, err)

	snoozed, err := s.SnoozeReminder(ctx, r.ID, 30)
	require.NoError(t, err)
	require.Equal(t, base.Add(30*time.Minute), snoozed.Time)
	require.False(t, snoozed.Completed)
}

func TestCreateReward_TokenLedger(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	const n = 3
	for i := 0; i < n; i++ {
		_, err := s.CreateReward(ctx, &domain.Reward{
			UserID: u.ID, Type: domain.RewardTypeToken,
			Name: "Daily Hydration", AcquiredAt: time.Now(),
		})
		require.NoError(t, err)
	}

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2840+n*domain.TokenRewardAmount, got.TokenBalance)
	require.Equal(t, 4250+n*domain.TokenRewardAmount, got.LifetimeTokens)
}

func TestCreateReward_BadgeDoesNotCredit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	_, err := s.CreateReward(ctx, &domain.Reward{
		UserID: u.ID, Type: "badge", Name: "Early Bird", AcquiredAt: time.Now(),
	})
	require.NoError(t, err)

	got, _ := s.GetUser(ctx, u.ID)
	require.Equal(t, 2840, got.TokenBalance)
	require.Equal(t, 4250, got.LifetimeTokens)
}

func TestCreateAchievement_SynthesizesTokenReward(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	when := time.Now()
	_, err := s.CreateAchievement(ctx, &domain.Achievement{
		UserID: u.ID, Name: "Step Master", Icon: "ri-walk-fill", AcquiredAt: when,
	})
	require.NoError(t, err)

	achievements, err := s.ListAchievements(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)

	rewards, err := s.ListRewards(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	require.Equal(t, domain.RewardTypeToken, rewards[0].Type)
	require.Equal(t, "Achievement: Step Master", rewards[0].Name)
	require.Equal(t, "ri-walk-fill", rewards[0].Icon)

	// seed scenario from the demo data: 2840 → 2850, 4250 → 4260
	got, _ := s.GetUser(ctx, u.ID)
	require.Equal(t, 2850, got.TokenBalance)
	require.Equal(t, 4260, got.LifetimeTokens)
}

func TestCreateHealthTracking_RefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	_, err := s.CreateHealthStats(ctx, &domain.HealthStats{
		UserID: u.ID, Date: time.Now(),
		BloodPressure: "120/80", HeartRate: 72,
		Steps: 6584, StepsGoal: 10000,
		HydrationGlasses: 3, HydrationGoal: 8,
	})
	require.NoError(t, err)

	_, err = s.CreateHealthTracking(ctx, &domain.HealthTracking{
		UserID: u.ID, Timestamp: time.Now(),
		Type: domain.MetricHeartRate, Value: "80",
	})
	require.NoError(t, err)

	st, err := s.GetHealthStats(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 80, st.HeartRate)
	// other fields untouched
	require.Equal(t, "120/80", st.BloodPressure)
	require.Equal(t, 6584, st.Steps)
	require.Equal(t, 3, st.HydrationGlasses)
}

func TestListHealthTracking_MetricAndWindowFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	now := time.Now()
	mk := func(ts time.Time, typ, val string) {
		_, err := s.CreateHealthTracking(ctx, &domain.HealthTracking{
			UserID: u.ID, Timestamp: ts, Type: typ, Value: val,
		})
		require.NoError(t, err)
	}
	mk(now.AddDate(0, 0, -1), domain.MetricSteps, "7000")
	mk(now.AddDate(0, 0, -2), domain.MetricHeartRate, "70")
	mk(now.AddDate(0, 0, -20), domain.MetricSteps, "5000") // outside week window

	steps, err := s.ListHealthTracking(ctx, u.ID, domain.MetricSteps, "week")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "7000", steps[0].Value)

	all, err := s.ListHealthTracking(ctx, u.ID, "all", "month")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestHomeRemedies_SearchAndStableOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for _, ailment := range []string{"Headache", "Common Cold", "Indigestion"} {
		_, err := s.CreateHomeRemedy(ctx, &domain.HomeRemedy{
			Title:        ailment + " Relief",
			Description:  "Natural remedies",
			Ailment:      ailment,
			Ingredients:  []string{"Honey", "Ginger"},
			Instructions: "Step 1: rest",
			Rating:       4,
		})
		require.NoError(t, err)
	}

	first, err := s.ListHomeRemedies(ctx)
	require.NoError(t, err)
	second, err := s.ListHomeRemedies(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second, "listing must be idempotent with stable order")

	hits, err := s.SearchHomeRemedies(ctx, "cold")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Common Cold", hits[0].Ailment)
}

func TestChatConversations_TitleFromFirstUserMessage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	u := newTestUser(t, s)

	base := time.Now().Add(-time.Hour)
	msgs := []domain.ChatMessage{
		{UserID: u.ID, Content: "Hello Sarah! How are you feeling today?", Sender: domain.SenderAI, Timestamp: base, ConversationID: "conv1"},
		{UserID: u.ID, Content: "I've been feeling a bit tired today, maybe dehydrated", Sender: domain.SenderUser, Timestamp: base.Add(time.Minute), ConversationID: "conv1"},
		{UserID: u.ID, Content: "How do I sleep better?", Sender: domain.SenderUser, Timestamp: base.Add(2 * time.Minute), ConversationID: "conv2"},
	}
	for i := range msgs {
		_, err := s.CreateChatMessage(ctx, &msgs[i])
		require.NoError(t, err)
	}

	convs, err := s.ListChatConversations(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, "conv1", convs[0].ID)
	require.Equal(t, "I've been feeling a bit tir...", convs[0].Title, "long titles truncate to 30 chars")
	require.Equal(t, "How do I sleep better?", convs[1].Title)

	recent, err := s.ListRecentChatMessages(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "conv2", recent[0].ConversationID)
}

func TestSharedIDCounterAcrossKinds(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	u, _ := s.CreateUser(ctx, &domain.User{Username: "a", Email: "a@example.com"})
	r, _ := s.CreateReminder(ctx, &domain.Reminder{UserID: u.ID, Title: "x", Time: time.Now(), Type: "other"})
	a, _ := s.CreateAppointment(ctx, &domain.Appointment{UserID: u.ID, Type: "Checkup", DoctorName: "Dr", Date: time.Now(), Duration: 30, Status: domain.AppointmentScheduled})

	require.Equal(t, u.ID+1, r.ID)
	require.Equal(t, r.ID+1, a.ID)
}
