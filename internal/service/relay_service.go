package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/logger"
	"ai-support-chat-be/pkg/events"
	natsbus "ai-support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const relayLogModule = "service.relay"

type IRelayService interface {
	Consume(ctx context.Context) error
}

// relayService bridges the in-process bus to NATS: every completed
// chat turn published on the local topic is re-published as a
// JetStream event for external consumers.
type relayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	publisher *natsbus.Publisher
	log       logger.ILogger
}

func NewRelayService(
	pubSub *gochannel.GoChannel,
	topicName string,
	publisher *natsbus.Publisher,
	log logger.ILogger,
) IRelayService {
	return &relayService{
		pubSub:    pubSub,
		topicName: topicName,
		publisher: publisher,
		log:       log,
	}
}

func (rs *relayService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *relayService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ChatTurnCompletedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		rs.log.Error(relayLogModule, "failed to unmarshal chat turn message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if rs.publisher == nil {
		msg.Ack()
		return
	}

	evt := events.BaseEvent{
		Type: "CHAT_TURN_COMPLETED",
		Data: map[string]interface{}{
			"session_id": payload.SessionId,
			"question":   payload.Question,
			"answer":     payload.Answer,
			"sources":    payload.Sources,
		},
		OccurredAt: time.Now(),
	}

	if err := rs.publisher.Publish(ctx, evt); err != nil {
		rs.log.Error(relayLogModule, "failed to relay chat turn", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack() // Retry
		return
	}

	rs.log.Info(relayLogModule, "chat turn relayed", map[string]interface{}{
		"session_id": payload.SessionId,
	})
	msg.Ack()
}
