// Package events publishes entity-change notifications to Kafka.
// Publishing is strictly best-effort: a full queue or a broker failure
// is logged and the triggering request is never affected.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	EntityCreated EventType = "entity_created"
	EntityUpdated EventType = "entity_updated"
	EntityDeleted EventType = "entity_deleted"
)

// Event is the message body written to the topic. Payload carries the
// serialized entity at the time of the change.
type Event struct {
	Type       EventType   `json:"type"`
	EntityType string      `json:"entity_type"`
	EntityID   uint        `json:"entity_id"`
	Payload    interface{} `json:"payload,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist; brokers may still be coming up
	// when the service starts, so retry the dial briefly.
	err := backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		return conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			Topic:        topic,
			WriteTimeout: 10 * time.Second,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Produce enqueues an event without blocking. Events are dropped with
// a warning when the queue is full.
func (p *Producer) Produce(eventType EventType, entityType string, entityID uint, payload interface{}) {
	select {
	case p.events <- Event{Type: eventType, EntityType: entityType, EntityID: entityID, Payload: payload}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("entity_type", entityType),
			zap.Uint("entity_id", entityID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("entity_type", event.EntityType),
			zap.Uint("entity_id", event.EntityID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityType + "-" + strconv.FormatUint(uint64(event.EntityID), 10)),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("entity_type", event.EntityType),
			zap.Uint("entity_id", event.EntityID),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
