package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
)

// Seed 写入演示账号和配套数据，已存在则跳过。
// 供本地联调与演示环境使用。
func Seed(ctx context.Context, storage repository.Storage, logger *zap.Logger) error {
	if _, err := storage.GetUserByUsername(ctx, "sarahj"); err == nil {
		logger.Debug("Demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := HashPassword("password123")
	if err != nil {
		return err
	}

	user, err := storage.CreateUser(ctx, &domain.User{
		Username:       "sarahj",
		Password:       hashed,
		FirstName:      "Sarah",
		LastName:       "Johnson",
		Email:          "sarah.johnson@example.com",
		ProfileImage:   "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-1.2.1&auto=format&fit=crop&w=120&q=80",
		TokenBalance:   2840,
		LifetimeTokens: 4250,
		Streak:         5,
		StreakGoal:     7,
	})
	if err != nil {
		return err
	}

	now := time.Now()

	if _, err := storage.CreateHealthStats(ctx, &domain.HealthStats{
		UserID:              user.ID,
		Date:                now,
		BloodPressure:       "120/80",
		BloodPressureStatus: "Normal",
		HeartRate:           72,
		HeartRateStatus:     "Normal",
		Steps:               6584,
		StepsGoal:           10000,
		HydrationGlasses:    3,
		HydrationGoal:       8,
	}); err != nil {
		return err
	}

	if err := seedReminders(ctx, storage, user.ID, now); err != nil {
		return err
	}
	if err := seedAppointments(ctx, storage, user.ID, now); err != nil {
		return err
	}
	if err := seedChat(ctx, storage, user.ID, now); err != nil {
		return err
	}
	if err := seedRemedies(ctx, storage); err != nil {
		return err
	}
	if err := seedTracking(ctx, storage, user.ID, now); err != nil {
		return err
	}
	if err := seedScans(ctx, storage, user.ID, now); err != nil {
		return err
	}
	if err := seedRewards(ctx, storage, user.ID, now); err != nil {
		return err
	}

	logger.Info("Seeded demo data", zap.Int("user_id", user.ID))
	return nil
}

func seedReminders(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	at := func(hour, min int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	}
	reminders := []domain.Reminder{
		{Title: "Take Medication", Description: "Aspirin, 1 tablet", Time: at(12, 30), Type: "medicine", Icon: "ri-medicine-bottle-line", Recurring: true, RecurringPattern: domain.PatternDaily},
		{Title: "Drink Water", Description: "1 glass", Time: at(14, 0), Type: "water", Icon: "ri-drop-line"},
		{Title: "Short Walk", Description: "15 minutes", Time: at(16, 30), Type: "activity", Icon: "ri-walk-line", Recurring: true, RecurringPattern: domain.PatternDaily},
	}
	for i := range reminders {
		reminders[i].UserID = userID
		if _, err := storage.CreateReminder(ctx, &reminders[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedAppointments(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	appointments := []domain.Appointment{
		{Type: "Cardiology Follow-up", DoctorName: "Dr. Michael Chen", Location: "Valley Medical Center", Date: now.AddDate(0, 0, 7), Duration: 45},
		{Type: "Annual Physical", DoctorName: "Dr. Sarah Williams", Location: "Community Health Center", Date: now.AddDate(0, 0, 14), Duration: 60},
	}
	for i := range appointments {
		appointments[i].UserID = userID
		appointments[i].Status = domain.AppointmentScheduled
		if _, err := storage.CreateAppointment(ctx, &appointments[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedChat(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	const conversationID = "conv123456"
	messages := []struct {
		sender  string
		content string
		minsAgo int
	}{
		{domain.SenderAI, "Hello Sarah! How are you feeling today? I see your blood pressure is normal, but your hydration could use some improvement.", 10},
		{domain.SenderUser, "I've been feeling a bit tired today. Maybe that's why I forgot to drink water.", 8},
		{domain.SenderAI, "Fatigue can definitely be related to dehydration. I'll set a water reminder for you every hour. Also, have you been getting enough sleep lately?", 6},
		{domain.SenderUser, "Not really. I've been averaging about 6 hours.", 4},
		{domain.SenderAI, "Aim for 7-8 hours of sleep for optimal health. Here's a tip: try a 10-minute meditation before bed and avoid screens an hour before sleep. Would you like me to suggest a sleep schedule based on your daily routine?", 2},
	}
	for _, m := range messages {
		if _, err := storage.CreateChatMessage(ctx, &domain.ChatMessage{
			UserID:         userID,
			Content:        m.content,
			Sender:         m.sender,
			Timestamp:      now.Add(-time.Duration(m.minsAgo) * time.Minute),
			ConversationID: conversationID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func seedRemedies(ctx context.Context, storage repository.Storage) error {
	ailments := []string{"Headache", "Common Cold", "Indigestion", "Sore Throat"}
	descriptions := []string{
		"Natural ways to relieve headache pain without medication",
		"Remedies to help you recover from a cold faster",
		"Simple remedies to ease stomach discomfort and indigestion",
		"Soothing remedies for throat pain and irritation",
	}
	for i, ailment := range ailments {
		if _, err := storage.CreateHomeRemedy(ctx, &domain.HomeRemedy{
			Title:        ailment + " Relief",
			Description:  descriptions[i],
			Ailment:      ailment,
			Ingredients:  []string{"Ingredient 1", "Ingredient 2", "Ingredient 3"},
			Instructions: "Step 1: Do this\nStep 2: Do that\nStep 3: Rest and repeat if needed",
			Rating:       float64(4 + i%2),
			ReviewCount:  10 + i*5,
		}); err != nil {
			return err
		}
	}
	return nil
}

func seedTracking(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	for day := 6; day >= 0; day-- {
		ts := now.AddDate(0, 0, -day)
		entries := []domain.HealthTracking{
			{Type: domain.MetricBloodPressure, Value: fmt.Sprintf("%d/%d", 115+rand.Intn(10), 75+rand.Intn(10)), Notes: "Regular measurement"},
			{Type: domain.MetricHeartRate, Value: fmt.Sprintf("%d", 65+rand.Intn(15)), Notes: "Resting heart rate"},
			{Type: domain.MetricSteps, Value: fmt.Sprintf("%d", 5000+rand.Intn(5000)), Notes: "Daily activity"},
			{Type: domain.MetricHydration, Value: fmt.Sprintf("%d", 2+rand.Intn(6)), Notes: "Water intake"},
		}
		for i := range entries {
			entries[i].UserID = userID
			entries[i].Timestamp = ts
			if _, err := storage.CreateHealthTracking(ctx, &entries[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedScans(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	scans := []domain.MedicineScan{
		{MedicineName: "Aspirin", Dosage: "81mg", Timing: "Once daily", SideEffects: []string{"Upset stomach", "Heartburn"}, ScannedAt: now.AddDate(0, 0, -3)},
		{MedicineName: "Lisinopril", Dosage: "10mg", Timing: "Once daily in the morning", SideEffects: []string{"Dizziness", "Cough"}, ScannedAt: now.AddDate(0, 0, -1)},
	}
	for i := range scans {
		scans[i].UserID = userID
		if _, err := storage.CreateMedicineScan(ctx, &scans[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedRewards(ctx context.Context, storage repository.Storage, userID int, now time.Time) error {
	rewards := []domain.Reward{
		{Type: domain.RewardTypeToken, Name: "Daily Hydration", Description: "Completed hydration goal for the day", Icon: "ri-drop-fill", AcquiredAt: now.AddDate(0, 0, -2)},
		{Type: domain.RewardTypeToken, Name: "Medicine Adherence", Description: "Took all medications on time", Icon: "ri-medicine-bottle-fill", AcquiredAt: now.AddDate(0, 0, -1)},
	}
	for i := range rewards {
		rewards[i].UserID = userID
		if _, err := storage.CreateReward(ctx, &rewards[i]); err != nil {
			return err
		}
	}

	achievements := []domain.Achievement{
		{Name: "Step Master", Description: "Completed 10,000 steps for 3 consecutive days", Icon: "ri-walk-fill", AcquiredAt: now.AddDate(0, 0, -5)},
		{Name: "Hydration Hero", Description: "Drank 8 glasses of water for a week", Icon: "ri-drop-fill", AcquiredAt: now.AddDate(0, 0, -3)},
	}
	for i := range achievements {
		achievements[i].UserID = userID
		if _, err := storage.CreateAchievement(ctx, &achievements[i]); err != nil {
			return err
		}
	}
	return nil
}
