package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a two-party thread, at most one per user pair.
type Conversation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserAID   uint           `gorm:"not null;index:idx_conv_pair,unique" json:"user_a_id"` // lower user id of the pair
	UserBID   uint           `gorm:"not null;index:idx_conv_pair,unique" json:"user_b_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserA User `gorm:"foreignKey:UserAID" json:"-"`
	UserB User `gorm:"foreignKey:UserBID" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

type Message struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time     `json:"read_at"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string { return "messages" }
