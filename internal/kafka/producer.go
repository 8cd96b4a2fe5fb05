package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"order-ticketing/internal/config"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
)

// Producer streams ticket lifecycle events. With MockMode set it only
// logs; a nil *Producer is a no-op so callers never need to gate on the
// kafka Enabled flag themselves.
type Producer struct {
	createdWriter   *kafka.Writer
	announcedWriter *kafka.Writer
	log             *logger.Logger
	mockMode        bool
}

// NewProducer returns nil when kafka is disabled.
func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	if !cfg.Enabled {
		return nil
	}
	p := &Producer{log: log, mockMode: cfg.MockMode}
	if !cfg.MockMode {
		p.createdWriter = kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topics.TicketCreated,
		})
		p.announcedWriter = kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topics.TicketAnnounced,
		})
	}
	return p
}

// PublishTicketCreated streams the ticket creation event.
func (p *Producer) PublishTicketCreated(ticket models.Ticket) error {
	if p == nil {
		return nil
	}
	return p.publish(p.createdWriter, "ticket_created", ticket)
}

// PublishTicketAnnounced streams the announcement event.
func (p *Producer) PublishTicketAnnounced(ticket models.Ticket) error {
	if p == nil {
		return nil
	}
	return p.publish(p.announcedWriter, "ticket_announced", ticket)
}

func (p *Producer) publish(writer *kafka.Writer, event string, ticket models.Ticket) error {
	if p == nil {
		return nil
	}

	msgBytes, err := json.Marshal(ticket)
	if err != nil {
		return err
	}

	if p.mockMode {
		if p.log != nil {
			p.log.LogKafka("MOCK", event, fmt.Sprintf("ticket %s (UID %s)", ticket.ID, ticket.UID))
		}
		return nil
	}

	if p.log != nil {
		p.log.LogKafka("PUBLISH", event, fmt.Sprintf("ticket %s (UID %s)", ticket.ID, ticket.UID))
	}
	return writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(ticket.ID),
			Value: msgBytes,
		},
	)
}

// Close flushes and closes the underlying writers.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	var firstErr error
	for _, w := range []*kafka.Writer{p.createdWriter, p.announcedWriter} {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
