package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"referly/config"
	"referly/internal/auth"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for chat; query: token, conversation_id.
// The user must be a participant of that conversation.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.ChatHub, msgRepo *repository.MessageRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "token and conversation_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}
		convID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		conv, err := msgRepo.GetConversation(convID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "conversation not found"})
			return
		}
		if !conv.HasParticipant(claims.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "not part of this conversation"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(conv.ID, conv.UserAID, conv.UserBID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type string `json:"type"`
				Body string `json:"body"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" || msg.Body == "" {
				continue
			}
			m := &models.Message{
				ConversationID: conv.ID,
				SenderID:       claims.UserID,
				Body:           msg.Body,
			}
			if err := msgRepo.CreateMessage(m); err != nil {
				continue
			}
			payload := map[string]interface{}{
				"type":            "message",
				"id":              m.ID,
				"conversation_id": m.ConversationID,
				"sender_id":       m.SenderID,
				"body":            m.Body,
				"created_at":      m.CreatedAt,
			}
			room.Broadcast(client, payload)
		}
	}
}
