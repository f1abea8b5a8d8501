package messagebus

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"scamscope/internal/models"
	"scamscope/internal/tracing"
)

//go:generate mockgen -destination=../mocks/mock_messagebus.go -package=mocks . MessageBusInterface

type MessageBusInterface interface {
	PublishCheckRequest(ctx context.Context, m CheckRequestMessage) error
	PublishCheckUpdate(ctx context.Context, m CheckUpdateMessage) error
	PublishCheckProgress(ctx context.Context, m CheckProgressMessage) error
	SubscribeToCheckRequest(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
	SubscribeToCheckUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
	SubscribeToCheckProgress(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
}

type MessageType string

const (
	CheckRequestMessageType  MessageType = "check.request"
	CheckUpdateMessageType   MessageType = "check.update"
	CheckProgressMessageType MessageType = "check.progress"
)

// CheckRequestMessage asks the checker to run a queued check
type CheckRequestMessage struct {
	Type    MessageType `json:"type"`
	CheckID string      `json:"check_id"`
}

// CheckUpdateMessage announces a check's status transition, carrying the
// final report on completion
type CheckUpdateMessage struct {
	Type      MessageType            `json:"type"`
	CheckID   string                 `json:"check_id"`
	Status    string                 `json:"status"`
	RiskScore *int                   `json:"risk_score,omitempty"`
	Report    *models.AnalysisReport `json:"report,omitempty"`
}

// CheckProgressMessage carries one emission of the progress narrative
type CheckProgressMessage struct {
	Type    MessageType `json:"type"`
	CheckID string      `json:"check_id"`
	Percent float64     `json:"percent"`
	Message string      `json:"message,omitempty"`
}

// MetricsCollector records publish/receive outcomes
type MetricsCollector interface {
	RecordNATSPublish(messageType string, success bool)
	RecordNATSReceive(messageType string, duration time.Duration, success bool)
}

// NoOpMetricsCollector is a no-op implementation of MetricsCollector
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordNATSPublish(messageType string, success bool) {}
func (NoOpMetricsCollector) RecordNATSReceive(messageType string, duration time.Duration, success bool) {
}

// MessageBus provides a NATS message bus for publishing and subscribing to messages
type MessageBus struct {
	nc      *nats.Conn
	metrics MetricsCollector
}

// New creates a new message bus
func New(nc *nats.Conn, metrics MetricsCollector) *MessageBus {
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	return &MessageBus{
		nc:      nc,
		metrics: metrics,
	}
}

// PublishCheckRequest publishes a check request message to NATS
func (b *MessageBus) PublishCheckRequest(ctx context.Context, m CheckRequestMessage) (err error) {
	defer func() {
		b.metrics.RecordNATSPublish(string(CheckRequestMessageType), err == nil)
	}()

	m.Type = CheckRequestMessageType
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("Failed to marshal check request: %v", err)
		return err
	}

	err = b.publishMsg(ctx, data, CheckRequestMessageType)
	if err != nil {
		log.Printf("Failed to publish check request: %v", err)
	}
	return err
}

// PublishCheckUpdate publishes a check update message to NATS
func (b *MessageBus) PublishCheckUpdate(ctx context.Context, m CheckUpdateMessage) (err error) {
	defer func() {
		b.metrics.RecordNATSPublish(string(CheckUpdateMessageType), err == nil)
	}()

	m.Type = CheckUpdateMessageType
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("Failed to marshal check update: %v", err)
		return err
	}

	err = b.publishMsg(ctx, data, CheckUpdateMessageType)
	if err != nil {
		log.Printf("Failed to publish check update: %v", err)
	}
	return err
}

// PublishCheckProgress publishes a progress emission to NATS
func (b *MessageBus) PublishCheckProgress(ctx context.Context, m CheckProgressMessage) (err error) {
	defer func() {
		b.metrics.RecordNATSPublish(string(CheckProgressMessageType), err == nil)
	}()

	m.Type = CheckProgressMessageType
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("Failed to marshal check progress: %v", err)
		return err
	}

	err = b.publishMsg(ctx, data, CheckProgressMessageType)
	if err != nil {
		log.Printf("Failed to publish check progress: %v", err)
	}
	return err
}

// publishMsg publishes a message to NATS with trace context in headers
func (b *MessageBus) publishMsg(ctx context.Context, data []byte, messageType MessageType) (err error) {
	ctx, span := tracing.CreateNATSPublishSpan(ctx, string(messageType))
	defer span.End()

	msg := &nats.Msg{
		Subject: string(messageType),
		Data:    data,
		Header:  make(nats.Header),
	}

	tracing.InjectNATSHeaders(ctx, msg)

	err = b.nc.PublishMsg(msg)
	if err != nil {
		tracing.SetError(ctx, err)
	}
	return err
}

// SubscribeToCheckRequest subscribes to check request messages
func (b *MessageBus) SubscribeToCheckRequest(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(CheckRequestMessageType, handler)
	return b.nc.Subscribe(string(CheckRequestMessageType), h)
}

// SubscribeToCheckUpdate subscribes to check update messages
func (b *MessageBus) SubscribeToCheckUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(CheckUpdateMessageType, handler)
	return b.nc.Subscribe(string(CheckUpdateMessageType), h)
}

// SubscribeToCheckProgress subscribes to progress messages
func (b *MessageBus) SubscribeToCheckProgress(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(CheckProgressMessageType, handler)
	return b.nc.Subscribe(string(CheckProgressMessageType), h)
}

// wrapHandler wraps the original handler to automatically inject trace context and record receive metrics
func (b *MessageBus) wrapHandler(messageType MessageType, handler func(ctx context.Context, m *nats.Msg)) nats.MsgHandler {
	return func(m *nats.Msg) {
		ctx := tracing.ExtractNATSHeaders(context.Background(), m)
		ctx, span := tracing.CreateNATSConsumeSpan(ctx, m.Subject)
		defer span.End()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				// If handler panics, record as error
				b.metrics.RecordNATSReceive(string(messageType), time.Since(start), false)
				panic(r)
			} else {
				// Record successful processing
				b.metrics.RecordNATSReceive(string(messageType), time.Since(start), true)
			}
		}()

		handler(ctx, m)
	}
}
