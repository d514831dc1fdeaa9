package handler

import (
	"log"

	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/service"
	"referly/internal/ws"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	msgRepo  *repository.MessageRepository
	userRepo *repository.UserRepository
	chatHub  *ws.ChatHub
	notifSvc *service.NotificationService
}

func NewMessageHandler(msgRepo *repository.MessageRepository, userRepo *repository.UserRepository, chatHub *ws.ChatHub, notifSvc *service.NotificationService) *MessageHandler {
	return &MessageHandler{msgRepo: msgRepo, userRepo: userRepo, chatHub: chatHub, notifSvc: notifSvc}
}

// Start opens (or returns) the conversation with another user.
func (h *MessageHandler) Start(c *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id is required")
		return
	}
	callerID := middleware.GetUserID(c)
	if req.UserID == callerID {
		badRequest(c, "cannot message yourself")
		return
	}
	if _, err := h.userRepo.GetByID(req.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	conv, err := h.msgRepo.GetOrCreateConversation(callerID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, conv)
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.msgRepo.ListConversations(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *MessageHandler) loadOwnConversation(c *gin.Context) (*models.Conversation, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	conv, err := h.msgRepo.GetConversation(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if !conv.HasParticipant(middleware.GetUserID(c)) {
		respondError(c, 403, "FORBIDDEN", "not part of this conversation")
		return nil, false
	}
	return conv, true
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	conv, ok := h.loadOwnConversation(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	msgs, err := h.msgRepo.ListMessages(conv.ID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, msgs)
}

// Send posts a message over REST; connected WebSocket peers get it pushed.
func (h *MessageHandler) Send(c *gin.Context) {
	conv, ok := h.loadOwnConversation(c)
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body is required")
		return
	}
	senderID := middleware.GetUserID(c)
	m := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
	}
	if err := h.msgRepo.CreateMessage(m); err != nil {
		respondServiceError(c, err)
		return
	}
	if room := h.chatHub.GetRoom(conv.ID); room != nil {
		room.Broadcast(nil, gin.H{
			"type":            "message",
			"id":              m.ID,
			"conversation_id": m.ConversationID,
			"sender_id":       m.SenderID,
			"body":            m.Body,
			"created_at":      m.CreatedAt,
		})
	}
	if h.notifSvc != nil {
		sender, err := h.userRepo.GetByID(senderID)
		name := "Someone"
		if err == nil && sender.Username != "" {
			name = sender.Username
		}
		if err := h.notifSvc.NotifyNewMessage(conv.OtherParticipant(senderID), name, conv.ID); err != nil {
			log.Printf("[message] notify failed for conversation %d: %v", conv.ID, err)
		}
	}
	respondCreated(c, m)
}

// MarkRead marks the other side's messages in the conversation as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	conv, ok := h.loadOwnConversation(c)
	if !ok {
		return
	}
	if err := h.msgRepo.MarkRead(conv.ID, middleware.GetUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, 200, "marked read", nil)
}
