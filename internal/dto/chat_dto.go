package dto

import "ai-support-chat-be/pkg/assistant"

type SendChatRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=5000"`
	SessionId string `json:"session_id" validate:"required,max=255"`
}

type SendChatResponse struct {
	Answer    string                 `json:"answer"`
	Sources   []assistant.SourceInfo `json:"sources"`
	SessionId string                 `json:"session_id"`
}

// ChatTurnCompletedMessage is the payload published after every
// answered turn, consumed by the event relay.
type ChatTurnCompletedMessage struct {
	SessionId string                 `json:"session_id"`
	Question  string                 `json:"question"`
	Answer    string                 `json:"answer"`
	Sources   []assistant.SourceInfo `json:"sources"`
}

type StatusResponse struct {
	Status           string `json:"status"`
	PriorityEntries  int    `json:"priority_entries"`
	DocumentCount    int64  `json:"document_count"`
	ChatTurnCount    int64  `json:"chat_turn_count"`
	HistoryBackend   string `json:"history_backend"`
	LLMProvider      string `json:"llm_provider"`
	EmbeddingBackend string `json:"embedding_backend"`
}
