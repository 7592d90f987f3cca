package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/pkg/assistant"
)

type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
}

type chatService struct {
	pipeline         *assistant.Pipeline
	publisherService IPublisherService
}

func NewChatService(
	pipeline *assistant.Pipeline,
	publisherService IPublisherService,
) IChatService {
	return &chatService{
		pipeline:         pipeline,
		publisherService: publisherService,
	}
}

func (c *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	result := c.pipeline.GenerateResponse(ctx, req.Message, req.SessionId)

	// The completed turn is announced on the bus; delivery problems must
	// not surface to the caller.
	if c.publisherService != nil {
		msg := dto.ChatTurnCompletedMessage{
			SessionId: req.SessionId,
			Question:  req.Message,
			Answer:    result.Answer,
			Sources:   result.Sources,
		}
		msgJson, err := json.Marshal(msg)
		if err == nil {
			err = c.publisherService.Publish(ctx, msgJson)
		}
		if err != nil {
			log.Printf("[WARN] Failed to publish chat turn event for session %s: %v", req.SessionId, err)
		}
	}

	return &dto.SendChatResponse{
		Answer:    result.Answer,
		Sources:   result.Sources,
		SessionId: req.SessionId,
	}, nil
}
