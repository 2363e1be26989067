package store

import (
	"strings"
	"sync"
	"time"
)

const (
	// MaxSessionMessages bounds the flattened message log kept per session.
	MaxSessionMessages = 20

	HumanPrefix     = "Human: "
	AssistantPrefix = "Assistant: "

	// A continued provider conversation is re-primed after this many turns or this much idle time.
	RefreshAfterTurns = 20
	RefreshAfterIdle  = time.Hour
)

type TurnType string

const (
	TurnWelcome      TurnType = "welcome"
	TurnConversation TurnType = "conversation"
	TurnFollowUp     TurnType = "followup"
)

type ConversationTurn struct {
	UserQuery  string            `json:"user_query"`
	AIResponse string            `json:"ai_response"`
	Timestamp  time.Time         `json:"timestamp"`
	TurnType   TurnType          `json:"turn_type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ProviderState is what a session remembers about a server-side provider conversation.
type ProviderState struct {
	ConversationID string
	LastResponseID string
	Stale          bool
}

// ConversationSession is the per-browser conversation state. All mutation goes
// through its methods, which hold the session lock for the whole update.
type ConversationSession struct {
	ID        string
	StartTime time.Time

	mu                sync.RWMutex
	lastActivity      time.Time
	history           []ConversationTurn
	messages          []string
	hasTrainingCtx    bool
	trainingCtx       string
	trainingLoadedAt  time.Time
	loadedMaterialIDs []string
	conversationID    string
	lastResponseID    string
}

func NewConversationSession(id string, now time.Time) *ConversationSession {
	return &ConversationSession{
		ID:           id,
		StartTime:    now,
		lastActivity: now,
	}
}

func (s *ConversationSession) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = now
}

func (s *ConversationSession) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

func (s *ConversationSession) HasTrainingContext() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasTrainingCtx
}

func (s *ConversationSession) TrainingContext() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trainingCtx
}

func (s *ConversationSession) LoadedMaterialIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.loadedMaterialIDs...)
}

func (s *ConversationSession) MarkTrainingContextLoaded(rendered string, materialIDs []string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasTrainingCtx = true
	s.trainingCtx = rendered
	s.trainingLoadedAt = now
	s.loadedMaterialIDs = append([]string(nil), materialIDs...)
	s.lastActivity = now
}

// InvalidateTrainingContext drops the cached selection so the next message
// re-selects materials. Any provider continuation is dropped with it, since the
// provider still holds the old context. History is kept.
func (s *ConversationSession) InvalidateTrainingContext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.hasTrainingCtx
	s.hasTrainingCtx = false
	s.trainingCtx = ""
	s.trainingLoadedAt = time.Time{}
	s.loadedMaterialIDs = nil
	s.conversationID = ""
	s.lastResponseID = ""
	return had
}

// AppendTurn records a completed exchange and both halves of the message log.
func (s *ConversationSession) AppendTurn(userQuery, reply string, turnType TurnType, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, ConversationTurn{
		UserQuery:  userQuery,
		AIResponse: reply,
		Timestamp:  now,
		TurnType:   turnType,
	})
	s.appendMessagesLocked(HumanPrefix+userQuery, AssistantPrefix+reply)
	s.lastActivity = now
}

// AppendAssistantOnly records an assistant message that has no user half, such
// as a welcome. Only the assistant entry reaches the message log.
func (s *ConversationSession) AppendAssistantOnly(reply string, turnType TurnType, metadata map[string]string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, ConversationTurn{
		AIResponse: reply,
		Timestamp:  now,
		TurnType:   turnType,
		Metadata:   metadata,
	})
	s.appendMessagesLocked(AssistantPrefix + reply)
	s.lastActivity = now
}

func (s *ConversationSession) appendMessagesLocked(entries ...string) {
	s.messages = append(s.messages, entries...)
	if overflow := len(s.messages) - MaxSessionMessages; overflow > 0 {
		s.messages = append([]string(nil), s.messages[overflow:]...)
	}
}

// Messages returns a copy of the last max entries of the message log, oldest first.
// A non-positive max returns the whole log.
func (s *ConversationSession) Messages(max int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if max > 0 && len(s.messages) > max {
		start = len(s.messages) - max
	}
	return append([]string(nil), s.messages[start:]...)
}

func (s *ConversationSession) Turns() []ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ConversationTurn(nil), s.history...)
}

func (s *ConversationSession) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// WelcomeMessage returns the first recorded welcome reply, if any.
func (s *ConversationSession) WelcomeMessage() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, turn := range s.history {
		if turn.TurnType == TurnWelcome {
			return turn.AIResponse, true
		}
	}
	return "", false
}

func (s *ConversationSession) SetProviderState(conversationID, responseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conversationID != "" {
		s.conversationID = conversationID
	}
	if responseID != "" {
		s.lastResponseID = responseID
	}
}

func (s *ConversationSession) ProviderState(now time.Time) ProviderState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ProviderState{
		ConversationID: s.conversationID,
		LastResponseID: s.lastResponseID,
		Stale:          s.shouldRefreshLocked(now),
	}
}

// ShouldRefreshContext reports whether a continued conversation has run long
// enough, or sat idle long enough, that the provider needs reminding.
func (s *ConversationSession) ShouldRefreshContext(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shouldRefreshLocked(now)
}

func (s *ConversationSession) shouldRefreshLocked(now time.Time) bool {
	if len(s.history) > RefreshAfterTurns {
		return true
	}
	if len(s.history) == 0 {
		return false
	}
	return now.Sub(s.history[len(s.history)-1].Timestamp) > RefreshAfterIdle
}

// IsHumanEntry reports whether a message log entry came from the user.
func IsHumanEntry(entry string) bool {
	return strings.HasPrefix(entry, HumanPrefix)
}

func IsAssistantEntry(entry string) bool {
	return strings.HasPrefix(entry, AssistantPrefix)
}
