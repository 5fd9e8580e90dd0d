package events

import (
	"encoding/json"
	"time"

	"app/internal/domain/model"
)

const (
	TopicOrderCreated   = "order.created"
	TopicOrderCancelled = "order.cancelled"
)

// 全イベント共通の外側。Payloadはイベント種別ごとのJSON。
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string           `json:"order_id"`
	ClientID   string           `json:"client_id"`
	Name       string           `json:"name"`
	TotalPrice string           `json:"total_price"`
	LineItems  []model.LineItem `json:"line_items"`
}

type OrderCancelledPayload struct {
	OrderID  string `json:"order_id"`
	ClientID string `json:"client_id"`
}
