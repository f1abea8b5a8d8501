// Package notifications bridges check updates from the message bus to
// connected WebSocket clients. Status transitions go to every client;
// progress narration only to clients subscribed to that check.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"scamscope/internal/messagebus"
)

// NotificationService handles WebSocket notifications and NATS message subscriptions
type NotificationService struct {
	hub  *Hub
	mb   messagebus.MessageBusInterface
	log  *slog.Logger
	subs []*nats.Subscription
}

// Option configures the NotificationService
type Option func(*NotificationService)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *NotificationService) { s.log = log }
}

// NewNotificationService creates a new notification service with WebSocket hub and message bus
func NewNotificationService(
	hub *Hub,
	mb messagebus.MessageBusInterface,
	opts ...Option,
) *NotificationService {
	s := &NotificationService{
		hub:  hub,
		mb:   mb,
		log:  slog.Default(),
		subs: make([]*nats.Subscription, 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes all NATS subscriptions for the notification service
func (s *NotificationService) Start(ctx context.Context) error {
	s.log.Info("Starting notification service subscriptions")

	if err := s.setupCheckUpdateSubscription(); err != nil {
		return err
	}

	if err := s.setupCheckProgressSubscription(); err != nil {
		return err
	}

	s.log.Info("All NATS subscriptions established", slog.Int("count", len(s.subs)))
	return nil
}

// Stop unsubscribes from all NATS subscriptions
func (s *NotificationService) Stop() {
	s.log.Info("Stopping notification service", slog.Int("subscriptions", len(s.subs)))

	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.log.Error("Failed to unsubscribe", slog.Any("error", err))
		}
	}

	s.subs = s.subs[:0] // Clear slice
}

// GetWebSocketHandler returns the WebSocket handler for HTTP routing
func (s *NotificationService) GetWebSocketHandler() *Handler {
	return NewHandler(s.hub, s.log)
}

// setupCheckUpdateSubscription subscribes to check update messages and broadcasts them
func (s *NotificationService) setupCheckUpdateSubscription() error {
	sub, err := s.mb.SubscribeToCheckUpdate(func(ctx context.Context, msg *nats.Msg) {
		var m messagebus.CheckUpdateMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			s.log.Error("Failed to unmarshal check update", slog.Any("error", err))
			return
		}

		s.log.Info("Broadcasting check update",
			slog.String("checkId", m.CheckID),
			slog.String("status", m.Status))
		s.hub.Broadcast(m)
	})

	if err != nil {
		s.log.Error("Failed to subscribe to check updates", slog.Any("error", err))
		return err
	}

	s.subs = append(s.subs, sub)
	return nil
}

// setupCheckProgressSubscription subscribes to progress messages and broadcasts to check groups
func (s *NotificationService) setupCheckProgressSubscription() error {
	sub, err := s.mb.SubscribeToCheckProgress(func(ctx context.Context, msg *nats.Msg) {
		var m messagebus.CheckProgressMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			s.log.Error("Failed to unmarshal check progress", slog.Any("error", err))
			return
		}

		s.hub.BroadcastToGroup(m, m.CheckID)
	})

	if err != nil {
		s.log.Error("Failed to subscribe to check progress", slog.Any("error", err))
		return err
	}

	s.subs = append(s.subs, sub)
	return nil
}
