package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/repository/memory"
	internalWS "onboarding-buddy-be/internal/websocket"
	"onboarding-buddy-be/pkg/llm"
)

type fakeChatbot struct {
	mu         sync.Mutex
	registered map[string]bool
	messages   []string
	sessions   []string
}

func (f *fakeChatbot) HandleMessage(ctx context.Context, sessionID, message string, attachments []llm.Attachment) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	f.sessions = append(f.sessions, sessionID)
	return "<p>echo: " + message + "</p>"
}

func (f *fakeChatbot) HandleSessionRegistered(ctx context.Context, sessionID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registered[sessionID] {
		return "", false
	}
	f.registered[sessionID] = true
	return "<p>welcome</p>", true
}

func (f *fakeChatbot) GetOrCreateWelcome(ctx context.Context, sessionID string) string {
	return "<p>welcome</p>"
}

func (f *fakeChatbot) GetConversationHistory(sessionID string) []*dto.ConversationMessageResponse {
	return []*dto.ConversationMessageResponse{{Id: "1", Text: "hello from " + sessionID, IsUser: true}}
}

func (f *fakeChatbot) Health() *dto.ChatHealthResponse {
	return &dto.ChatHealthResponse{Status: "healthy"}
}

type harness struct {
	handler  *ChatHandler
	chatbot  *fakeChatbot
	sessions *memory.SessionStore
	client   *internalWS.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hub := internalWS.NewHub(nil, "instance-1", logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	client := internalWS.NewClient(hub, nil, "conn-1")
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	chatbot := &fakeChatbot{registered: map[string]bool{}}
	sessions := memory.NewSessionStore(logger.NewNopLogger())
	return &harness{
		handler:  NewChatHandler(chatbot, sessions, hub, logger.NewNopLogger()),
		chatbot:  chatbot,
		sessions: sessions,
		client:   client,
	}
}

func (h *harness) send(t *testing.T, frameType string, data any) {
	t.Helper()
	raw, err := internalWS.EncodeFrame(frameType, data)
	require.NoError(t, err)
	h.handler.HandleFrame(h.client, raw)
}

func (h *harness) next(t *testing.T) internalWS.Frame {
	t.Helper()
	select {
	case raw := <-h.client.Send:
		frame, err := internalWS.DecodeFrame(raw)
		require.NoError(t, err)
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame sent")
		return internalWS.Frame{}
	}
}

func textOf(t *testing.T, frame internalWS.Frame) string {
	t.Helper()
	var data receiveMessageData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	return data.Text
}

func TestChatHandler_RegisterSendsWelcomeOnce(t *testing.T) {
	h := newHarness(t)

	h.send(t, internalWS.FrameRegisterSession, registerSessionData{SessionID: "browser-1"})
	frame := h.next(t)
	assert.Equal(t, internalWS.FrameReceiveMessage, frame.Type)
	assert.Equal(t, "<p>welcome</p>", textOf(t, frame))

	sessionID, ok := h.sessions.ResolveConnection("conn-1")
	assert.True(t, ok)
	assert.Equal(t, "browser-1", sessionID)

	h.send(t, internalWS.FrameRegisterSession, registerSessionData{SessionID: "browser-1"})
	assert.Empty(t, h.client.Send)
}

func TestChatHandler_SendMessageUsesRegisteredSession(t *testing.T) {
	h := newHarness(t)
	h.send(t, internalWS.FrameRegisterSession, registerSessionData{SessionID: "browser-1"})
	h.next(t)

	h.send(t, internalWS.FrameSendMessage, sendMessageData{Message: "Where do I park?"})

	frame := h.next(t)
	assert.Equal(t, internalWS.FrameReceiveMessage, frame.Type)
	assert.Equal(t, "<p>echo: Where do I park?</p>", textOf(t, frame))
	assert.Equal(t, []string{"browser-1"}, h.chatbot.sessions)
}

func TestChatHandler_UnregisteredConnectionFallsBackToConnectionID(t *testing.T) {
	h := newHarness(t)

	h.send(t, internalWS.FrameSendMessage, sendMessageData{Message: "hi"})
	h.next(t)

	assert.Equal(t, []string{"conn-1"}, h.chatbot.sessions)
}

func TestChatHandler_GetHistory(t *testing.T) {
	h := newHarness(t)
	h.send(t, internalWS.FrameRegisterSession, registerSessionData{SessionID: "browser-9"})
	h.next(t)

	h.send(t, internalWS.FrameGetHistory, struct{}{})

	frame := h.next(t)
	assert.Equal(t, internalWS.FrameConversationHistory, frame.Type)
	assert.Contains(t, string(frame.Data), "hello from browser-9")
}

func TestChatHandler_BadFrames(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("hello")},
		{"unknown type", []byte(`{"type":"dance"}`)},
		{"empty message", []byte(`{"type":"send_message","data":{"message":"   "}}`)},
		{"missing session id", []byte(`{"type":"register_session","data":{}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.handler.HandleFrame(h.client, tt.raw)

			frame := h.next(t)
			assert.Equal(t, internalWS.FrameError, frame.Type)
			assert.Empty(t, h.chatbot.messages)
		})
	}
}

func TestChatHandler_DisconnectUnmaps(t *testing.T) {
	h := newHarness(t)
	h.send(t, internalWS.FrameRegisterSession, registerSessionData{SessionID: "browser-1"})
	h.next(t)

	h.handler.HandleDisconnect(h.client)

	_, ok := h.sessions.ResolveConnection("conn-1")
	assert.False(t, ok)
}
