package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"lifepulse/internal/domain"
)

// PostgresStorage Storage 的 Postgres 实现（强类型，database/sql + lib/pq）
type PostgresStorage struct {
	db *sql.DB
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const userColumns = `id, username, COALESCE(password, ''), first_name, last_name, email,
	COALESCE(profile_image, ''), COALESCE(google_id, ''), COALESCE(google_profile_pic, ''),
	COALESCE(access_token, ''), COALESCE(refresh_token, ''),
	token_balance, lifetime_tokens, streak, streak_goal`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Email,
		&u.ProfileImage, &u.GoogleID, &u.GoogleProfilePic,
		&u.AccessToken, &u.RefreshToken,
		&u.TokenBalance, &u.LifetimeTokens, &u.Streak, &u.StreakGoal,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- 用户 ---

func (s *PostgresStorage) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *PostgresStorage) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := *user
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, profile_image,
			google_id, google_profile_pic, access_token, refresh_token,
			token_balance, lifetime_tokens, streak, streak_goal)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
			$11, $12, $13, $14)
		 RETURNING id`,
		u.Username, u.Password, u.FirstName, u.LastName, u.Email, u.ProfileImage,
		u.GoogleID, u.GoogleProfilePic, u.AccessToken, u.RefreshToken,
		u.TokenBalance, u.LifetimeTokens, u.Streak, u.StreakGoal,
	).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStorage) UpdateUser(ctx context.Context, id int, patch domain.UserPatch) (*domain.User, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.GoogleID != nil {
		add("google_id", *patch.GoogleID)
	}
	if patch.GoogleProfilePic != nil {
		add("google_profile_pic", *patch.GoogleProfilePic)
	}
	if patch.ProfileImage != nil {
		add("profile_image", *patch.ProfileImage)
	}
	if patch.AccessToken != nil {
		add("access_token", *patch.AccessToken)
	}
	if patch.TokenBalance != nil {
		add("token_balance", *patch.TokenBalance)
	}
	if patch.LifetimeTokens != nil {
		add("lifetime_tokens", *patch.LifetimeTokens)
	}
	if len(set) == 0 {
		return s.GetUser(ctx, id)
	}
	args = append(args, id)
	query := "UPDATE users SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// --- 健康快照 ---

const healthStatsColumns = `id, user_id, date, COALESCE(blood_pressure, ''), COALESCE(blood_pressure_status, ''),
	heart_rate, COALESCE(heart_rate_status, ''), steps, steps_goal, hydration_glasses, hydration_goal`

func (s *PostgresStorage) GetHealthStats(ctx context.Context, userID int) (*domain.HealthStats, error) {
	var st domain.HealthStats
	err := s.db.QueryRowContext(ctx,
		`SELECT `+healthStatsColumns+` FROM health_stats WHERE user_id = $1 ORDER BY id LIMIT 1`,
		userID,
	).Scan(&st.ID, &st.UserID, &st.Date, &st.BloodPressure, &st.BloodPressureStatus,
		&st.HeartRate, &st.HeartRateStatus, &st.Steps, &st.StepsGoal,
		&st.HydrationGlasses, &st.HydrationGoal)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *PostgresStorage) CreateHealthStats(ctx context.Context, stats *domain.HealthStats) (*domain.HealthStats, error) {
	st := *stats
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO health_stats (user_id, date, blood_pressure, blood_pressure_status,
			heart_rate, heart_rate_status, steps, steps_goal, hydration_glasses, hydration_goal)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, $10)
		 RETURNING id`,
		st.UserID, st.Date, st.BloodPressure, st.BloodPressureStatus,
		st.HeartRate, st.HeartRateStatus, st.Steps, st.StepsGoal,
		st.HydrationGlasses, st.HydrationGoal,
	).Scan(&st.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create health stats: %w", err)
	}
	return &st, nil
}

// --- 提醒 ---

const reminderColumns = `id, user_id, title, COALESCE(description, ''), time, type,
	COALESCE(icon, ''), completed, recurring, COALESCE(recurring_pattern, '')`

func scanReminders(rows *sql.Rows) ([]domain.Reminder, error) {
	defer rows.Close()
	out := make([]domain.Reminder, 0)
	for rows.Next() {
		var r domain.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Time, &r.Type,
			&r.Icon, &r.Completed, &r.Recurring, &r.RecurringPattern); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) ListReminders(ctx context.Context, userID int) ([]domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return scanReminders(rows)
}

func (s *PostgresStorage) getReminderTx(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id int) (*domain.Reminder, error) {
	var r domain.Reminder
	err := q.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.Time, &r.Type,
		&r.Icon, &r.Completed, &r.Recurring, &r.RecurringPattern)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStorage) GetReminder(ctx context.Context, id int) (*domain.Reminder, error) {
	return s.getReminderTx(ctx, s.db, id)
}

func (s *PostgresStorage) CreateReminder(ctx context.Context, reminder *domain.Reminder) (*domain.Reminder, error) {
	r := *reminder
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO reminders (user_id, title, description, time, type, icon, completed, recurring, recurring_pattern)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''))
		 RETURNING id`,
		r.UserID, r.Title, r.Description, r.Time, r.Type, r.Icon,
		r.Completed, r.Recurring, r.RecurringPattern,
	).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return &r, nil
}

// CompleteReminder 完成 + 派生下一条放在同一事务里
func (s *PostgresStorage) CompleteReminder(ctx context.Context, id int) (*domain.Reminder, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r, err := s.getReminderTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE reminders SET completed = true WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to complete reminder: %w", err)
	}
	r.Completed = true

	if r.Recurring && r.RecurringPattern != "" {
		next := domain.NextOccurrence(r.Time, r.RecurringPattern)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reminders (user_id, title, description, time, type, icon, completed, recurring, recurring_pattern)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), false, true, $7)`,
			r.UserID, r.Title, r.Description, next, r.Type, r.Icon, r.RecurringPattern,
		); err != nil {
			return nil, fmt.Errorf("failed to spawn next reminder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStorage) SnoozeReminder(ctx context.Context, id int, minutes int) (*domain.Reminder, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET time = time + make_interval(mins => $1) WHERE id = $2`,
		minutes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to snooze reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetReminder(ctx, id)
}

// --- 会话消息 ---

const chatColumns = `id, user_id, content, sender, timestamp, conversation_id`

func scanChatMessages(rows *sql.Rows) ([]domain.ChatMessage, error) {
	defer rows.Close()
	out := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Sender, &m.Timestamp, &m.ConversationID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) ListChatMessages(ctx context.Context, userID int, conversationID string) ([]domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chatColumns+` FROM chat_messages
		 WHERE user_id = $1 AND conversation_id = $2 ORDER BY timestamp, id`,
		userID, conversationID)
	if err != nil {
		return nil, err
	}
	return scanChatMessages(rows)
}

func (s *PostgresStorage) ListRecentChatMessages(ctx context.Context, userID int) ([]domain.ChatMessage, error) {
	var conv string
	err := s.db.QueryRowContext(ctx,
		`SELECT conversation_id FROM chat_messages WHERE user_id = $1 ORDER BY id DESC LIMIT 1`,
		userID).Scan(&conv)
	if err == sql.ErrNoRows {
		return []domain.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ListChatMessages(ctx, userID, conv)
}

func (s *PostgresStorage) ListChatConversations(ctx context.Context, userID int) ([]domain.Conversation, error) {
	// 标题取会话里最早的一条用户消息
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT ON (conversation_id) conversation_id, content
		 FROM chat_messages
		 WHERE user_id = $1 AND sender = 'user'
		 ORDER BY conversation_id, timestamp, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		if len(c.Title) > 30 {
			c.Title = c.Title[:27] + "..."
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	m := *msg
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO chat_messages (user_id, content, sender, timestamp, conversation_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.UserID, m.Content, m.Sender, m.Timestamp, m.ConversationID,
	).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return &m, nil
}

// --- 预约 ---

const appointmentColumns = `id, user_id, type, doctor_name, COALESCE(location, ''), date, duration, status`

func (s *PostgresStorage) ListAppointments(ctx context.Context, userID int) ([]domain.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = $1 ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.DoctorName, &a.Location,
			&a.Date, &a.Duration, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) GetAppointment(ctx context.Context, id int) (*domain.Appointment, error) {
	var a domain.Appointment
	err := s.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Type, &a.DoctorName, &a.Location, &a.Date, &a.Duration, &a.Status)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStorage) CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	a := *appt
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO appointments (user_id, type, doctor_name, location, date, duration, status)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7) RETURNING id`,
		a.UserID, a.Type, a.DoctorName, a.Location, a.Date, a.Duration, a.Status,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &a, nil
}

// --- 家庭疗法目录 ---

const remedyColumns = `id, title, description, ailment, ingredients, instructions,
	COALESCE(rating, 0), review_count`

func scanRemedies(rows *sql.Rows) ([]domain.HomeRemedy, error) {
	defer rows.Close()
	out := make([]domain.HomeRemedy, 0)
	for rows.Next() {
		var r domain.HomeRemedy
		var ingredients pq.StringArray
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Ailment, &ingredients,
			&r.Instructions, &r.Rating, &r.ReviewCount); err != nil {
			return nil, err
		}
		r.Ingredients = ingredients
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) ListHomeRemedies(ctx context.Context) ([]domain.HomeRemedy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+remedyColumns+` FROM home_remedies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanRemedies(rows)
}

func (s *PostgresStorage) GetHomeRemedy(ctx context.Context, id int) (*domain.HomeRemedy, error) {
	var r domain.HomeRemedy
	var ingredients pq.StringArray
	err := s.db.QueryRowContext(ctx,
		`SELECT `+remedyColumns+` FROM home_remedies WHERE id = $1`, id,
	).Scan(&r.ID, &r.Title, &r.Description, &r.Ailment, &ingredients,
		&r.Instructions, &r.Rating, &r.ReviewCount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return &r, nil
}

func (s *PostgresStorage) SearchHomeRemedies(ctx context.Context, query string) ([]domain.HomeRemedy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+remedyColumns+` FROM home_remedies
		 WHERE title ILIKE '%' || $1 || '%'
		    OR description ILIKE '%' || $1 || '%'
		    OR ailment ILIKE '%' || $1 || '%'
		 ORDER BY id`,
		query)
	if err != nil {
		return nil, err
	}
	return scanRemedies(rows)
}

func (s *PostgresStorage) CreateHomeRemedy(ctx context.Context, remedy *domain.HomeRemedy) (*domain.HomeRemedy, error) {
	r := *remedy
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO home_remedies (title, description, ailment, ingredients, instructions, rating, review_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.Title, r.Description, r.Ailment, pq.Array(r.Ingredients),
		r.Instructions, r.Rating, r.ReviewCount,
	).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create home remedy: %w", err)
	}
	return &r, nil
}

// --- 健康打点 ---

func (s *PostgresStorage) ListHealthTracking(ctx context.Context, userID int, metric, timeRange string) ([]domain.HealthTracking, error) {
	start := trackingWindowStart(time.Now(), timeRange)
	query := `SELECT id, user_id, timestamp, type, value, COALESCE(notes, '')
		 FROM health_tracking WHERE user_id = $1 AND timestamp >= $2`
	args := []any{userID, start}
	if metric != "" && metric != "all" {
		query += ` AND type = $3`
		args = append(args, metric)
	}
	query += ` ORDER BY timestamp, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.HealthTracking, 0)
	for rows.Next() {
		var e domain.HealthTracking
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Type, &e.Value, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) CreateHealthTracking(ctx context.Context, entry *domain.HealthTracking) (*domain.HealthTracking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e := *entry
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO health_tracking (user_id, timestamp, type, value, notes)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')) RETURNING id`,
		e.UserID, e.Timestamp, e.Type, e.Value, e.Notes,
	).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("failed to create tracking entry: %w", err)
	}

	// 刷新快照中对应指标
	var statsUpdate string
	var statsValue any
	switch e.Type {
	case domain.MetricBloodPressure:
		statsUpdate, statsValue = "blood_pressure", e.Value
	case domain.MetricHeartRate:
		statsUpdate, statsValue = "heart_rate", atoiOrZero(e.Value)
	case domain.MetricSteps:
		statsUpdate, statsValue = "steps", atoiOrZero(e.Value)
	case domain.MetricHydration:
		statsUpdate, statsValue = "hydration_glasses", atoiOrZero(e.Value)
	}
	if statsUpdate != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE health_stats SET `+statsUpdate+` = $1 WHERE user_id = $2`,
			statsValue, e.UserID); err != nil {
			return nil, fmt.Errorf("failed to refresh health stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &e, nil
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// --- 药品扫描 ---

func (s *PostgresStorage) ListMedicineScans(ctx context.Context, userID int) ([]domain.MedicineScan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, medicine_name, COALESCE(dosage, ''), COALESCE(timing, ''),
			side_effects, scanned_at
		 FROM medicine_scans WHERE user_id = $1 ORDER BY scanned_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.MedicineScan, 0)
	for rows.Next() {
		var sc domain.MedicineScan
		var effects pq.StringArray
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.MedicineName, &sc.Dosage, &sc.Timing,
			&effects, &sc.ScannedAt); err != nil {
			return nil, err
		}
		sc.SideEffects = effects
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) CreateMedicineScan(ctx context.Context, scan *domain.MedicineScan) (*domain.MedicineScan, error) {
	sc := *scan
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO medicine_scans (user_id, medicine_name, dosage, timing, side_effects, scanned_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6) RETURNING id`,
		sc.UserID, sc.MedicineName, sc.Dosage, sc.Timing, pq.Array(sc.SideEffects), sc.ScannedAt,
	).Scan(&sc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create medicine scan: %w", err)
	}
	return &sc, nil
}

// --- 奖励 / 成就 ---

func (s *PostgresStorage) ListRewards(ctx context.Context, userID int) ([]domain.Reward, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, name, COALESCE(description, ''), COALESCE(icon, ''), acquired_at
		 FROM rewards WHERE user_id = $1 ORDER BY acquired_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Reward, 0)
	for rows.Next() {
		var r domain.Reward
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &r.Name, &r.Description, &r.Icon, &r.AcquiredAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) createRewardTx(ctx context.Context, tx *sql.Tx, reward *domain.Reward) (*domain.Reward, error) {
	r := *reward
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO rewards (user_id, type, name, description, icon, acquired_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6) RETURNING id`,
		r.UserID, r.Type, r.Name, r.Description, r.Icon, r.AcquiredAt,
	).Scan(&r.ID); err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	if r.Type == domain.RewardTypeToken {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET token_balance = token_balance + $1,
				lifetime_tokens = lifetime_tokens + $1
			 WHERE id = $2`,
			domain.TokenRewardAmount, r.UserID); err != nil {
			return nil, fmt.Errorf("failed to credit tokens: %w", err)
		}
	}
	return &r, nil
}

// CreateReward token 记账与奖励记录同事务提交
func (s *PostgresStorage) CreateReward(ctx context.Context, reward *domain.Reward) (*domain.Reward, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	r, err := s.createRewardTx(ctx, tx, reward)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStorage) ListAchievements(ctx context.Context, userID int) ([]domain.Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, COALESCE(description, ''), COALESCE(icon, ''), acquired_at
		 FROM achievements WHERE user_id = $1 ORDER BY acquired_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Achievement, 0)
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Description, &a.Icon, &a.AcquiredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAchievement 成就 + 派生 token 奖励同事务提交
func (s *PostgresStorage) CreateAchievement(ctx context.Context, achievement *domain.Achievement) (*domain.Achievement, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a := *achievement
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO achievements (user_id, name, description, icon, acquired_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5) RETURNING id`,
		a.UserID, a.Name, a.Description, a.Icon, a.AcquiredAt,
	).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	if _, err := s.createRewardTx(ctx, tx, &domain.Reward{
		UserID:      a.UserID,
		Type:        domain.RewardTypeToken,
		Name:        "Achievement: " + a.Name,
		Description: "Earned " + a.Name + " achievement",
		Icon:        a.Icon,
		AcquiredAt:  a.AcquiredAt,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &a, nil
}
