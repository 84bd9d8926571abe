package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 10),
			logger: zaptest.NewLogger(t),
		}

		producer.Produce(EntityCreated, "company", 1, nil)

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1), // Small buffer for test
			logger: zap.New(core),
		}

		// Fill the channel
		producer.Produce(EntityCreated, "company", 1, nil)
		producer.Produce(EntityCreated, "company", 2, nil) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer := &Producer{
			writer: mockWriter,
			logger: zaptest.NewLogger(t),
		}

		event := Event{Type: EntityCreated, EntityType: "employee", EntityID: 7}
		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
		msgs := mockWriter.Calls[0].Arguments.Get(1).([]kafka.Message)
		assert.Equal(t, []byte("employee-7"), msgs[0].Key)
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := &Producer{logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), Event{Type: EntityCreated, EntityType: "company", EntityID: 1})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		producer := &Producer{writer: mockWriter, logger: zap.New(core)}
		producer.sendEvent(context.Background(), Event{Type: EntityDeleted, EntityType: "company", EntityID: 1})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		events:    make(chan Event, 1),
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	go producer.eventLoop()

	producer.events <- Event{Type: EntityUpdated, EntityType: "employee", EntityID: 3}

	// Give time for processing
	time.Sleep(100 * time.Millisecond)
	close(producer.closeChan)

	mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	producer.Close()

	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}

	mockWriter.AssertCalled(t, "Close")
}
