package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
	"lifepulse/internal/service"
	"lifepulse/internal/store"
)

// testEnv 全量路由 + 内存存储 + 内存会话
type testEnv struct {
	router  *Router
	storage *repository.MemoryStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	storage := repository.NewMemoryStorage()
	kv := store.NewMemoryKV()
	sessions := NewSessionStore(kv, "lifepulse_session", 7, false, logger)
	companion := service.NewCompanion()
	auth := service.NewAuthService(storage, nil, logger)

	router := NewRouter(logger)
	router.RegisterAuthRoutes(NewAuthHandler(auth, sessions, logger))
	router.RegisterUserRoutes(NewUserHandler(storage, sessions, logger))
	router.RegisterReminderRoutes(NewReminderHandler(storage, sessions, logger))
	router.RegisterChatRoutes(NewChatHandler(storage, sessions, companion, logger))
	router.RegisterAppointmentRoutes(NewAppointmentHandler(storage, sessions, logger))
	router.RegisterRemedyRoutes(NewRemedyHandler(storage, logger))
	router.RegisterTrackingRoutes(NewTrackingHandler(storage, sessions, logger))
	router.RegisterScanRoutes(NewScanHandler(storage, sessions, companion, logger))
	router.RegisterRewardRoutes(NewRewardHandler(storage, sessions, logger))
	router.RegisterMiscRoutes(NewMiscHandler(storage, sessions, companion, logger))

	return &testEnv{router: router, storage: storage}
}

func (e *testEnv) do(t *testing.T, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "lifepulse_session", Value: cookie})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register 创建账号并返回会话 token
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "test-pass-1",
		"email":    username + "@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got %d, body %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lifepulse_session" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("register: no session cookie set")
	return ""
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	token := env.register(t, "maria")

	rec := env.do(t, http.MethodGet, "/api/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: got %d", rec.Code)
	}
	var me map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("me: %v", err)
	}
	if me["username"] != "maria" {
		t.Fatalf("me: username = %v", me["username"])
	}
	if _, ok := me["password"]; ok {
		t.Fatal("me: password leaked in response")
	}

	// 错误口令
	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "maria", "password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "message") {
		t.Fatalf("bad login: error body = %s", rec.Body.String())
	}

	// 正确口令
	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "maria", "password": "test-pass-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d", rec.Code)
	}

	// 登出后会话失效
	rec = env.do(t, http.MethodPost, "/api/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: got %d", rec.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "maria", "password": "p", "email": "other@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d", rec.Code)
	}
}

func TestResourcesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	paths := []string{
		"/api/users/current",
		"/api/health-stats/latest",
		"/api/reminders",
		"/api/chat/messages/recent",
		"/api/appointments",
		"/api/health-tracking",
		"/api/medicine-scans",
		"/api/rewards",
		"/api/achievements",
		"/api/suggestions",
	}
	for _, path := range paths {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without session: got %d, want 401", path, rec.Code)
		}
	}
}

func TestReminderCompleteSpawnsSuccessor(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{
		"title":            "Take Medication",
		"time":             time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC),
		"type":             "medicine",
		"recurring":        true,
		"recurringPattern": "daily",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reminder: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/reminders/%d/complete", created.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/reminders", token, nil)
	var reminders []domain.Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &reminders); err != nil {
		t.Fatal(err)
	}
	if len(reminders) != 2 {
		t.Fatalf("reminders after complete: got %d, want 2", len(reminders))
	}
	successor := reminders[1]
	if successor.Completed {
		t.Fatal("successor should be pending")
	}
	if want := created.Time.AddDate(0, 0, 1); !successor.Time.Equal(want) {
		t.Fatalf("successor time = %v, want %v", successor.Time, want)
	}
}

func TestReminderSnooze(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{
		"title": "Drink Water",
		"time":  time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		"type":  "water",
	})
	var created domain.Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// 缺 minutes → 400
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/reminders/%d/snooze", created.ID), token, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("snooze without minutes: got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/reminders/%d/snooze", created.ID), token, map[string]any{"minutes": 30})
	if rec.Code != http.StatusOK {
		t.Fatalf("snooze: got %d", rec.Code)
	}
	var snoozed domain.Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &snoozed); err != nil {
		t.Fatal(err)
	}
	if want := created.Time.Add(30 * time.Minute); !snoozed.Time.Equal(want) {
		t.Fatalf("snoozed time = %v, want %v", snoozed.Time, want)
	}

	// 不存在的 id → 404
	rec = env.do(t, http.MethodPatch, "/api/reminders/99999/snooze", token, map[string]any{"minutes": 10})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("snooze missing reminder: got %d", rec.Code)
	}
}

func TestChatMessageGetsCompanionReply(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/chat/messages", token, map[string]string{
		"content":        "I have a terrible headache",
		"sender":         "user",
		"conversationId": "conv-test",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("send: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/chat/messages?conversationId=conv-test", token, nil)
	var messages []domain.ChatMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &messages); err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages: got %d, want user + companion reply", len(messages))
	}
	if messages[1].Sender != domain.SenderAI {
		t.Fatalf("second message sender = %s", messages[1].Sender)
	}
	if !strings.Contains(messages[1].Content, "For headaches") {
		t.Fatalf("companion reply = %q", messages[1].Content)
	}
}

func TestChatMessagesRequireConversationID(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodGet, "/api/chat/messages", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("messages without conversationId: got %d", rec.Code)
	}
}

func TestMedicineScanAutofill(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/medicine-scans", token, map[string]string{
		"medicineName": "Aspirin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create scan: got %d, body %s", rec.Code, rec.Body.String())
	}
	var scan domain.MedicineScan
	if err := json.Unmarshal(rec.Body.Bytes(), &scan); err != nil {
		t.Fatal(err)
	}
	if scan.Dosage != "81mg" || scan.Timing != "Once daily" {
		t.Fatalf("autofill: dosage=%q timing=%q", scan.Dosage, scan.Timing)
	}
	if len(scan.SideEffects) == 0 {
		t.Fatal("autofill: side effects empty")
	}
}

func TestTokenRewardCreditsBalance(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodGet, "/api/users/current", token, nil)
	var before domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatal(err)
	}

	rec = env.do(t, http.MethodPost, "/api/rewards", token, map[string]string{
		"type": "token",
		"name": "Daily Hydration",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reward: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/users/current", token, nil)
	var after domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatal(err)
	}
	if after.TokenBalance != before.TokenBalance+domain.TokenRewardAmount {
		t.Fatalf("tokenBalance = %d, want %d", after.TokenBalance, before.TokenBalance+domain.TokenRewardAmount)
	}
	if after.LifetimeTokens != before.LifetimeTokens+domain.TokenRewardAmount {
		t.Fatalf("lifetimeTokens = %d, want %d", after.LifetimeTokens, before.LifetimeTokens+domain.TokenRewardAmount)
	}
}

func TestAchievementSynthesizesReward(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/achievements", token, map[string]string{
		"name": "Step Master",
		"icon": "ri-walk-fill",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create achievement: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/rewards", token, nil)
	var rewards []domain.Reward
	if err := json.Unmarshal(rec.Body.Bytes(), &rewards); err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 1 {
		t.Fatalf("rewards: got %d, want 1 synthesized", len(rewards))
	}
	if rewards[0].Name != "Achievement: Step Master" {
		t.Fatalf("synthesized reward name = %q", rewards[0].Name)
	}
}

func TestHomeRemediesPublicAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedRemedies(t, env.storage)

	first := env.do(t, http.MethodGet, "/api/home-remedies", "", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("list remedies: got %d", first.Code)
	}
	second := env.do(t, http.MethodGet, "/api/home-remedies", "", nil)
	if first.Body.String() != second.Body.String() {
		t.Fatal("remedy listing not stable across identical reads")
	}

	rec := env.do(t, http.MethodGet, "/api/home-remedies?q=cold", "", nil)
	var remedies []domain.HomeRemedy
	if err := json.Unmarshal(rec.Body.Bytes(), &remedies); err != nil {
		t.Fatal(err)
	}
	if len(remedies) != 1 || remedies[0].Ailment != "Common Cold" {
		t.Fatalf("search: got %+v", remedies)
	}

	rec = env.do(t, http.MethodGet, "/api/home-remedies/99999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing remedy: got %d", rec.Code)
	}
}

func seedRemedies(t *testing.T, storage *repository.MemoryStorage) {
	t.Helper()
	for _, remedy := range []domain.HomeRemedy{
		{Title: "Headache Relief", Ailment: "Headache", Description: "Natural headache relief"},
		{Title: "Common Cold Relief", Ailment: "Common Cold", Description: "Recover from a cold faster"},
	} {
		r := remedy
		if _, err := storage.CreateHomeRemedy(context.Background(), &r); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHealthTrackingFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodPost, "/api/health-tracking", token, map[string]string{
		"type":  "heartRate",
		"value": "80",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/health-tracking?metric=heartRate&timeRange=day", token, nil)
	var entries []domain.HealthTracking
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Value != "80" {
		t.Fatalf("tracking list: got %+v", entries)
	}

	// 其它指标过滤为空
	rec = env.do(t, http.MethodGet, "/api/health-tracking?metric=steps", token, nil)
	entries = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("steps filter: got %d entries", len(entries))
	}
}

func TestHealthTrackingExport(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	env.do(t, http.MethodPost, "/api/health-tracking", token, map[string]string{"type": "steps", "value": "7200"})

	rec := env.do(t, http.MethodGet, "/api/health-tracking/export", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("export content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("export: empty body")
	}
}

func TestConfigEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/config", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("config: got %d", rec.Code)
	}
	var cfg map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg["aiProvider"] != "huggingface" || cfg["aiStatus"] != "active" {
		t.Fatalf("config body = %v", cfg)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "maria")

	rec := env.do(t, http.MethodGet, "/api/suggestions", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggestions: got %d", rec.Code)
	}
	var body struct {
		Suggestions []string `json:"suggestions"`
		Priority    string   `json:"priority"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Suggestions) != 3 {
		t.Fatalf("suggestions: got %d, want 3", len(body.Suggestions))
	}
	if body.Priority == "" {
		t.Fatal("suggestions: priority missing")
	}
}

func TestAppointmentOwnership(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.register(t, "maria")
	tokenB := env.register(t, "lucas")

	rec := env.do(t, http.MethodPost, "/api/appointments", tokenA, map[string]any{
		"type":       "Annual Physical",
		"doctorName": "Dr. Sarah Williams",
		"date":       time.Now().AddDate(0, 0, 7),
		"duration":   60,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create appointment: got %d, body %s", rec.Code, rec.Body.String())
	}
	var appt domain.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatal(err)
	}
	if appt.Status != domain.AppointmentScheduled {
		t.Fatalf("default status = %q", appt.Status)
	}

	// 其他用户看不到
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/appointments/%d", appt.ID), tokenB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user appointment read: got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/appointments/%d", appt.ID), tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner appointment read: got %d", rec.Code)
	}
}
