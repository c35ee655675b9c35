// Package events carries sale notifications to Kafka through a
// transactional outbox.
package events

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypeSaleCreated is the event type written when a checkout commits
const TypeSaleCreated = "sale.created"

// Envelope wraps every published event
type Envelope struct {
	EventID   string      `json:"event_id"`
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

// SaleCreated is the payload of a sale.created event
type SaleCreated struct {
	SaleID     uint             `json:"sale_id"`
	CustomerID uint             `json:"customer_id"`
	Total      decimal.Decimal  `json:"total"`
	Date       time.Time        `json:"date"`
	Items      []model.SaleItem `json:"items"`
}

// NewSaleCreated builds the outbox row for a sale.created event on topic,
// keyed by sale id so one sale's events stay on one partition
func NewSaleCreated(topic string, sale SaleCreated, now time.Time) (*model.OutboxEvent, error) {
	env := Envelope{
		EventID:   uuid.New().String(),
		Type:      TypeSaleCreated,
		CreatedAt: now.UTC(),
		Payload:   sale,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	return &model.OutboxEvent{
		EventID:   env.EventID,
		Topic:     topic,
		Key:       strconv.FormatUint(uint64(sale.SaleID), 10),
		Payload:   string(data),
		CreatedAt: env.CreatedAt,
	}, nil
}
