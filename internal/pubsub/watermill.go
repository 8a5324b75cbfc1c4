package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Reserved metadata keys. Anything else in Message.Metadata travels as is.
const (
	metaKeyUserID = "event_user_id"
	metaKeyTopic  = "event_topic"
)

// WatermillBridge carries application events such as user.registered over
// watermill's in-process GoChannel. Nothing is persisted: an event published
// while nobody is subscribed to its topic is dropped.
type WatermillBridge struct {
	gc     *gochannel.GoChannel
	logger *slog.Logger

	// loops counts running subscription loops so Close can wait for the
	// handler currently at work, e.g. a welcome mail being sent.
	loops sync.WaitGroup
}

// NewWatermillBridge creates a bridge that logs through slog.Default.
func NewWatermillBridge() *WatermillBridge {
	return NewWatermillBridgeWithLogger(slog.Default())
}

// NewWatermillBridgeWithLogger creates a bridge whose own and watermill's
// diagnostics go to logger.
func NewWatermillBridgeWithLogger(logger *slog.Logger) *WatermillBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatermillBridge{
		gc: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
		logger: logger,
	}
}

func toWire(msg Message) *message.Message {
	wm := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wm.Metadata.Set(k, v)
	}
	wm.Metadata.Set(metaKeyTopic, msg.Topic)
	if msg.UserID != "" {
		wm.Metadata.Set(metaKeyUserID, msg.UserID)
	}
	return wm
}

func fromWire(wm *message.Message) Message {
	msg := Message{
		Topic:    wm.Metadata.Get(metaKeyTopic),
		UserID:   wm.Metadata.Get(metaKeyUserID),
		Payload:  wm.Payload,
		Metadata: make(map[string]string, len(wm.Metadata)),
	}
	for k, v := range wm.Metadata {
		if k != metaKeyUserID && k != metaKeyTopic {
			msg.Metadata[k] = v
		}
	}
	return msg
}

// Publish hands msg to every current subscriber of msg.Topic.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wm := toWire(msg)
	if err := wb.gc.Publish(msg.Topic, wm); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	wb.logger.DebugContext(ctx, "Published event", "topic", msg.Topic, "msg_id", wm.UUID)
	return nil
}

// Subscribe runs handler for each message on topic in a background loop
// that ends when ctx is canceled or the bridge is closed. Messages on one
// topic are handled one at a time.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.gc.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	wb.loops.Add(1)
	go func() {
		defer wb.loops.Done()
		for wm := range messages {
			wb.deliver(ctx, topic, wm, handler)
		}
		wb.logger.Debug("Subscription ended", "topic", topic)
	}()
	return nil
}

// deliver always acks. GoChannel redelivers a nacked message immediately,
// and handlers such as the welcome mail are not idempotent.
func (wb *WatermillBridge) deliver(ctx context.Context, topic string, wm *message.Message, handler Handler) {
	defer wm.Ack()
	defer func() {
		if r := recover(); r != nil {
			wb.logger.ErrorContext(ctx, "Event handler panicked", "topic", topic, "msg_id", wm.UUID, "panic", r)
		}
	}()

	if err := handler(ctx, fromWire(wm)); err != nil {
		wb.logger.ErrorContext(ctx, "Event handler failed", "topic", topic, "msg_id", wm.UUID, "error", err)
	}
}

// Close stops delivery and waits for running handlers to return.
func (wb *WatermillBridge) Close() error {
	err := wb.gc.Close()
	wb.loops.Wait()
	return err
}
