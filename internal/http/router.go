package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes 会话生命周期
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/register", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Register(w, req)
	})
	r.Handle("/api/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
	r.Handle("/api/login/google", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.LoginGoogle(w, req)
	})
	r.Handle("/api/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
	r.Handle("/api/me", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Me(w, req)
	})
}

// RegisterUserRoutes 用户档案与健康快照
func (r *Router) RegisterUserRoutes(h *UserHandler) {
	r.Handle("/api/users/current", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.CurrentUser(w, req)
	})
	r.Handle("/api/health-stats/latest", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.LatestHealthStats(w, req)
	})
}

// RegisterReminderRoutes 提醒
func (r *Router) RegisterReminderRoutes(h *ReminderHandler) {
	r.Handle("/api/reminders", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// /api/reminders/{id}/complete | /api/reminders/{id}/snooze
	r.Handle("/api/reminders/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/reminders/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parseInt(parts[0], 0)
		if id <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid reminder id")
			return
		}
		switch parts[1] {
		case "complete":
			h.Complete(w, req, id)
		case "snooze":
			h.Snooze(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterChatRoutes 健康助手会话
func (r *Router) RegisterChatRoutes(h *ChatHandler) {
	r.Handle("/api/chat/messages", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.Messages(w, req)
		case http.MethodPost:
			h.Send(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/chat/messages/recent", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Recent(w, req)
	})
	r.Handle("/api/chat/conversations", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Conversations(w, req)
	})
}

// RegisterAppointmentRoutes 预约
func (r *Router) RegisterAppointmentRoutes(h *AppointmentHandler) {
	r.Handle("/api/appointments", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/appointments/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/appointments/")
		if rest == "" || strings.Contains(rest, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parseInt(rest, 0)
		if id <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid appointment id")
			return
		}
		h.Get(w, req, id)
	})
}

// RegisterRemedyRoutes 家庭疗法目录
func (r *Router) RegisterRemedyRoutes(h *RemedyHandler) {
	r.Handle("/api/home-remedies", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.List(w, req)
	})
	r.Handle("/api/home-remedies/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/api/home-remedies/")
		if rest == "" || strings.Contains(rest, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		id := parseInt(rest, 0)
		if id <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid remedy id")
			return
		}
		h.Get(w, req, id)
	})
}

// RegisterTrackingRoutes 健康打点
func (r *Router) RegisterTrackingRoutes(h *TrackingHandler) {
	r.Handle("/api/health-tracking", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/health-tracking/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, req)
	})
}

// RegisterScanRoutes 药品扫描
func (r *Router) RegisterScanRoutes(h *ScanHandler) {
	r.Handle("/api/medicine-scans", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterRewardRoutes 奖励与成就
func (r *Router) RegisterRewardRoutes(h *RewardHandler) {
	r.Handle("/api/rewards", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListRewards(w, req)
		case http.MethodPost:
			h.CreateReward(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/achievements", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListAchievements(w, req)
		case http.MethodPost:
			h.CreateAchievement(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterMiscRoutes 配置 / 建议
func (r *Router) RegisterMiscRoutes(h *MiscHandler) {
	r.Handle("/api/config", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Config(w, req)
	})
	r.Handle("/api/suggestions", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Suggestions(w, req)
	})
}

// RegisterDoctorRoutes 诊断
func (r *Router) RegisterDoctorRoutes(h *DoctorHandler) {
	r.Handle("/healthz", h.HealthCheck)
}
