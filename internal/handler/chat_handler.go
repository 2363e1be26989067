package handler

import (
	"context"
	"encoding/json"
	"strings"

	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/repository/memory"
	"onboarding-buddy-be/internal/service"
	internalWS "onboarding-buddy-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const chatHandlerModule = "ChatHandler"

type registerSessionData struct {
	SessionID string `json:"session_id"`
}

type sendMessageData struct {
	Message string `json:"message"`
}

type receiveMessageData struct {
	Text string `json:"text"`
}

type errorData struct {
	Message string `json:"message"`
}

// ChatHandler adapts websocket frames to the chatbot service.
type ChatHandler struct {
	chatbot  service.IChatbotService
	sessions *memory.SessionStore
	hub      *internalWS.Hub
	logger   logger.ILogger
}

var _ internalWS.FrameHandler = &ChatHandler{}

func NewChatHandler(chatbot service.IChatbotService, sessions *memory.SessionStore, hub *internalWS.Hub, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		chatbot:  chatbot,
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

// ServeWs upgrades the request and serves the connection until it closes.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		internalWS.ServeWs(h.hub, conn, h)
	})(c)
}

func (h *ChatHandler) HandleFrame(client *internalWS.Client, raw []byte) {
	frame, err := internalWS.DecodeFrame(raw)
	if err != nil {
		h.reply(client, internalWS.FrameError, errorData{Message: "invalid frame"})
		return
	}

	ctx := context.Background()
	switch frame.Type {
	case internalWS.FrameRegisterSession:
		h.registerSession(ctx, client, frame.Data)
	case internalWS.FrameSendMessage:
		h.sendMessage(ctx, client, frame.Data)
	case internalWS.FrameGetHistory:
		h.sendHistory(client)
	default:
		h.logger.Warn(chatHandlerModule, "Unknown frame type", map[string]interface{}{
			"connection_id": client.ID,
			"type":          frame.Type,
		})
		h.reply(client, internalWS.FrameError, errorData{Message: "unknown frame type"})
	}
}

func (h *ChatHandler) HandleDisconnect(client *internalWS.Client) {
	h.sessions.UnmapConnection(client.ID)
	h.logger.Info(chatHandlerModule, "Connection unmapped", map[string]interface{}{
		"connection_id": client.ID,
		"session_id":    client.SessionID(),
	})
}

func (h *ChatHandler) registerSession(ctx context.Context, client *internalWS.Client, data json.RawMessage) {
	var req registerSessionData
	if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		h.reply(client, internalWS.FrameError, errorData{Message: "session_id is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	client.SetSessionID(sessionID)
	h.sessions.MapConnection(client.ID, sessionID)
	h.logger.Info(chatHandlerModule, "Connection mapped to session", map[string]interface{}{
		"connection_id": client.ID,
		"session_id":    sessionID,
	})

	if welcome, sent := h.chatbot.HandleSessionRegistered(ctx, sessionID); sent {
		h.reply(client, internalWS.FrameReceiveMessage, receiveMessageData{Text: welcome})
	}
}

func (h *ChatHandler) sendMessage(ctx context.Context, client *internalWS.Client, data json.RawMessage) {
	var req sendMessageData
	if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Message) == "" {
		h.reply(client, internalWS.FrameError, errorData{Message: "message is required"})
		return
	}

	sessionID := h.sessionFor(client)
	h.logger.Info(chatHandlerModule, "Message received", map[string]interface{}{
		"connection_id":  client.ID,
		"session_id":     sessionID,
		"message_length": len(req.Message),
	})

	text := h.chatbot.HandleMessage(ctx, sessionID, req.Message, nil)
	h.reply(client, internalWS.FrameReceiveMessage, receiveMessageData{Text: text})
}

func (h *ChatHandler) sendHistory(client *internalWS.Client) {
	sessionID := h.sessionFor(client)
	h.reply(client, internalWS.FrameConversationHistory, map[string]interface{}{
		"messages": h.chatbot.GetConversationHistory(sessionID),
	})
}

// sessionFor resolves the session a connection speaks for. Unregistered
// connections use their own id.
func (h *ChatHandler) sessionFor(client *internalWS.Client) string {
	if sessionID := client.SessionID(); sessionID != "" {
		return sessionID
	}
	if sessionID, ok := h.sessions.ResolveConnection(client.ID); ok {
		return sessionID
	}
	return client.ID
}

func (h *ChatHandler) reply(client *internalWS.Client, frameType string, data any) {
	if err := h.hub.SendFrame(client.ID, frameType, data); err != nil {
		h.logger.Warn(chatHandlerModule, "Failed to deliver frame", map[string]interface{}{
			"connection_id": client.ID,
			"type":          frameType,
			"error":         err.Error(),
		})
	}
}
