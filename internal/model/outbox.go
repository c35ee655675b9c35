package model

import "time"

// OutboxEvent is an event written in the same transaction as the change it
// describes and relayed to Kafka afterwards. SentAt is nil until relayed.
type OutboxEvent struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	EventID   string     `json:"event_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Topic     string     `json:"topic" gorm:"type:varchar(255);not null"`
	Key       string     `json:"key" gorm:"type:varchar(255)"`
	Payload   string     `json:"payload" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at" gorm:"index"`
}
