package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifepulse/internal/domain"
	"lifepulse/internal/repository"
	"lifepulse/internal/service"
)

// ChatHandler 健康助手会话。用户消息入库后同步生成助手回复。
type ChatHandler struct {
	storage   repository.Storage
	sessions  *SessionStore
	companion *service.Companion
	logger    *zap.Logger
}

func NewChatHandler(storage repository.Storage, sessions *SessionStore, companion *service.Companion, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{storage: storage, sessions: sessions, companion: companion, logger: logger}
}

// Messages GET /api/chat/messages?conversationId=
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		writeError(w, http.StatusBadRequest, "Conversation ID required")
		return
	}
	messages, err := h.storage.ListChatMessages(r.Context(), userID, conversationID)
	if err != nil {
		h.logger.Error("Failed to list chat messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Recent GET /api/chat/messages/recent
func (h *ChatHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	messages, err := h.storage.ListRecentChatMessages(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list recent chat messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Conversations GET /api/chat/conversations
func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	conversations, err := h.storage.ListChatConversations(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

type createChatMessageRequest struct {
	Content        string `json:"content"`
	Sender         string `json:"sender"`
	ConversationID string `json:"conversationId"`
}

// Send POST /api/chat/messages
// sender=user 的消息入库后，助手回复会追加到同一会话并一起返回。
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.requireUser(w, r)
	if !ok {
		return
	}
	var req createChatMessageRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message data")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Invalid message data")
		return
	}
	if req.Sender == "" {
		req.Sender = domain.SenderUser
	}
	if req.Sender != domain.SenderUser && req.Sender != domain.SenderAI {
		writeError(w, http.StatusBadRequest, "Invalid message data")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = "conv" + uuid.NewString()[:8]
	}

	msg, err := h.storage.CreateChatMessage(r.Context(), &domain.ChatMessage{
		UserID:         userID,
		Content:        req.Content,
		Sender:         req.Sender,
		Timestamp:      time.Now(),
		ConversationID: req.ConversationID,
	})
	if err != nil {
		h.logger.Error("Failed to create chat message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Sender == domain.SenderUser {
		if _, err := h.storage.CreateChatMessage(r.Context(), &domain.ChatMessage{
			UserID:         userID,
			Content:        h.companion.Reply(req.Content),
			Sender:         domain.SenderAI,
			Timestamp:      time.Now(),
			ConversationID: req.ConversationID,
		}); err != nil {
			// 用户消息已入库，回复失败只记录不影响响应
			h.logger.Warn("Failed to store companion reply", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, msg)
}
