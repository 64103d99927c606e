package models

import "time"

// SessionEntry model - PostgreSQL (durable key-value rows for cart sessions)
type SessionEntry struct {
	Key       string     `gorm:"primaryKey;size:255" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (SessionEntry) TableName() string {
	return "cart_session_entries"
}
