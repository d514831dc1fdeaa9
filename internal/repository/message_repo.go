package repository

import (
	"referly/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetOrCreateConversation returns the thread for a user pair, normalizing the
// pair order so (a,b) and (b,a) map to the same row.
func (r *MessageRepository) GetOrCreateConversation(userA, userB uint) (*models.Conversation, error) {
	if userA > userB {
		userA, userB = userB, userA
	}
	var conv models.Conversation
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", userA, userB).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	conv = models.Conversation{UserAID: userA, UserBID: userB}
	if err := r.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) GetConversation(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) ListConversations(userID uint, limit, offset int) ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *MessageRepository) CreateMessage(m *models.Message) error {
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	// bump conversation recency for inbox ordering
	return r.db.Model(&models.Conversation{}).Where("id = ?", m.ConversationID).
		Update("updated_at", m.CreatedAt).Error
}

func (r *MessageRepository) ListMessages(conversationID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *MessageRepository) MarkRead(conversationID, readerID uint) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", gorm.Expr("NOW()")).Error
}
