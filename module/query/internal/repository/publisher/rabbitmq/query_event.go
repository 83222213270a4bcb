package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/publisher"
)

var _ publisher.QueryEventPublisher = (*QueryEventPublisher)(nil)

const (
	ExchangeName = "kgm.events"
	QueueName    = "query_events"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type QueryEventPublisher struct {
	mu sync.Mutex
	ch channel
}

func NewQueryEventPublisher(conn *amqp.Connection) (*QueryEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := DeclareTopology(ch); err != nil {
		return nil, err
	}

	return &QueryEventPublisher{ch: ch}, nil
}

// DeclareTopology declares the fanout exchange and the durable queue bound to it.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

type eventMessage struct {
	Outcome        domain.Outcome `json:"outcome"`
	Source         domain.Source  `json:"source"`
	UpstreamStatus int            `json:"upstream_status"`
	DurationMS     int64          `json:"duration_ms"`
	Timestamp      int64          `json:"timestamp"`
}

func (p *QueryEventPublisher) PublishEvent(ctx context.Context, ev *domain.QueryEvent) error {
	msg := eventMessage{
		Outcome:        ev.Outcome,
		Source:         ev.Source,
		UpstreamStatus: ev.UpstreamStatus,
		DurationMS:     ev.DurationMS,
		Timestamp:      ev.OccurredAt.Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
