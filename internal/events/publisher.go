package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"app/internal/domain/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const producerName = "commerce-api"

// Kafkaへの注文イベント発行。Asyncなのでリクエストはブローカーを待たない。
// 送信エラーはCompletionで拾ってログに残すだけ（発行失敗で業務は止めない）。
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
	}
	w.Completion = func(messages []kafka.Message, err error) {
		if err != nil {
			logger.Error("failed to publish event", "count", len(messages), "error", err)
		}
	}
	return &Publisher{writer: w, logger: logger}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) OrderCreated(o model.Order) {
	p.publish(TopicOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:    o.ID,
		ClientID:   o.ClientID,
		Name:       o.Name,
		TotalPrice: o.TotalPrice.String(),
		LineItems:  o.LineItems,
	})
}

func (p *Publisher) OrderCancelled(orderID string, clientID string) {
	p.publish(TopicOrderCancelled, orderID, OrderCancelledPayload{
		OrderID:  orderID,
		ClientID: clientID,
	})
}

// キーは注文IDなので同一注文のイベントは同じパーティションに並ぶ。
func (p *Publisher) publish(topic string, key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event payload", "topic", topic, "error", err)
		return
	}

	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  topic,
		OccurredAt: time.Now(),
		Producer:   producerName,
		Payload:    body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("failed to marshal event envelope", "topic", topic, "error", err)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	//Async=trueなのでWriteMessagesはキュー投入のみ
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Error("failed to enqueue event", "topic", topic, "error", err)
	}
}
