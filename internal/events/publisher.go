// Package events publishes domain events as JSON envelopes to registered
// webhooks. Delivery runs in the background and failures are only logged.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/httpclient"
)

const (
	schemaVersion = "1.0"

	// DefaultDeliveryTimeout bounds one webhook delivery including retries.
	DefaultDeliveryTimeout = 10 * time.Second
)

// Publisher handles event publishing via HTTP webhooks.
type Publisher struct {
	source string
	client *httpclient.Client
	logger *zap.Logger

	deliveryTimeout time.Duration
	inflight        sync.WaitGroup

	mu        sync.RWMutex
	endpoints map[string]string // eventType -> webhook URL
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithDeliveryTimeout bounds each webhook delivery, retries included.
// Non-positive values keep the default.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.deliveryTimeout = d
		}
	}
}

// NewPublisher creates a new event publisher. A nil client gets a default
// retrying client with a 5s timeout.
func NewPublisher(source string, client *httpclient.Client, logger *zap.Logger, opts ...Option) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = httpclient.NewClient(source+"-events", 5*time.Second, httpclient.WithLogger(logger))
	}
	p := &Publisher{
		source:          source,
		client:          client,
		logger:          logger,
		deliveryTimeout: DefaultDeliveryTimeout,
		endpoints:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterEndpoint registers a webhook endpoint for an event type
func (p *Publisher) RegisterEndpoint(eventType, webhookURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoints[eventType] = webhookURL
}

// Publish wraps data in an envelope, logs it and hands it to a background
// delivery to the webhook registered for eventType, if any. It returns without
// waiting for the webhook. The delivery keeps ctx's values but not its
// cancellation. subject identifies what the event is about and feeds the
// idempotency key.
func (p *Publisher) Publish(ctx context.Context, eventType, subject string, data any) {
	now := time.Now().UTC()
	envelope := Envelope{
		EventID:        "evt_" + uuid.NewString(),
		EventType:      eventType,
		SchemaVersion:  schemaVersion,
		IdempotencyKey: fmt.Sprintf("%s_%s_%d", eventType, subject, now.Unix()),
		Timestamp:      now,
		Source:         p.source,
		Data:           data,
	}

	p.logger.Info("event_published",
		zap.String("event_id", envelope.EventID),
		zap.String("event_type", envelope.EventType),
		zap.String("source", envelope.Source),
	)

	p.mu.RLock()
	webhookURL, ok := p.endpoints[eventType]
	p.mu.RUnlock()
	if !ok {
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.deliveryTimeout)
		defer cancel()
		p.sendWebhook(ctx, webhookURL, envelope)
	}()
}

// Wait blocks until every delivery started so far has finished or timed out.
func (p *Publisher) Wait() {
	p.inflight.Wait()
}

func (p *Publisher) sendWebhook(ctx context.Context, url string, envelope Envelope) {
	resp, err := p.client.Post(ctx, url, envelope, map[string]string{
		"X-Event-ID":   envelope.EventID,
		"X-Event-Type": envelope.EventType,
	})
	if err != nil {
		p.logger.Warn("webhook_failed",
			zap.String("url", url),
			zap.String("event_type", envelope.EventType),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		p.logger.Warn("webhook_error",
			zap.String("url", url),
			zap.String("event_type", envelope.EventType),
			zap.Int("status", resp.StatusCode),
		)
	}
}
