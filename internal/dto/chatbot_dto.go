package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	Message   string `json:"message" validate:"required,max=8000"`
	SessionId string `json:"session_id" validate:"max=100"`
}

type SendChatWithFilesRequest struct {
	Message   string      `json:"message" form:"message" validate:"required,max=8000"`
	SessionId string      `json:"session_id" form:"session_id" validate:"max=100"`
	FileIds   []uuid.UUID `json:"file_ids" form:"file_ids" validate:"max=10"`
}

type SendChatResponse struct {
	SessionId string    `json:"session_id"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationMessageResponse struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHealthResponse struct {
	Status         string `json:"status"`
	AIConfigured   bool   `json:"ai_configured"`
	ProviderFamily string `json:"provider_family"`
	ActiveSessions int    `json:"active_sessions"`
}
