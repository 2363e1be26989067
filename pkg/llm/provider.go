package llm

import (
	"fmt"
	"strings"
)

// Family identifies a provider request/response shape.
type Family int

const (
	// FamilyChat sends a role-tagged message list with the system prompt as the first message.
	FamilyChat Family = iota + 1
	// FamilyInstructions sends top-level instructions plus one flattened input, and
	// can continue a server-side conversation by reference.
	FamilyInstructions
	// FamilySystemField sends the system prompt in a dedicated top-level field.
	FamilySystemField
)

func (f Family) String() string {
	switch f {
	case FamilyChat:
		return "chat"
	case FamilyInstructions:
		return "instructions"
	case FamilySystemField:
		return "system_field"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// SupportsContinuation reports whether the family can reference a prior provider response.
func (f Family) SupportsContinuation() bool {
	return f == FamilyInstructions
}

// ParseFamily maps a configuration value to a Family. Empty means FamilyChat.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chat", "chat_completions", "openai":
		return FamilyChat, nil
	case "instructions", "responses":
		return FamilyInstructions, nil
	case "system_field", "messages", "anthropic":
		return FamilySystemField, nil
	default:
		return 0, fmt.Errorf("unsupported AI provider family: %q", s)
	}
}

// Settings are the generation knobs shared by every family.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// Store asks the provider to persist the conversation server-side. Only
	// sent by families that support continuation, and only in stateful mode.
	Store bool
}

// ConversationState is the session's view of a provider-side conversation.
type ConversationState struct {
	Stateful       bool
	ConversationID string
	LastResponseID string
	Stale          bool
}

// CanContinue reports whether the next request can reference the stored response.
func (s ConversationState) CanContinue() bool {
	return s.Stateful && (s.LastResponseID != "" || s.ConversationID != "")
}

// BuildInput is everything a PayloadBuilder needs for one request.
type BuildInput struct {
	Message      string
	SystemPrompt string
	// History is the flattened "Human: "/"Assistant: " message log, oldest first.
	History     []string
	Attachments []Attachment
	State       ConversationState
}

// Reply is the normalized result of a provider response.
type Reply struct {
	Text           string
	ResponseID     string
	ConversationID string
}

// PayloadBuilder turns a BuildInput into a family-specific request body and
// pulls the reply text back out of the family's response body.
type PayloadBuilder interface {
	Family() Family
	BuildRequest(in BuildInput) (any, error)
	// ExtractReply never panics. When the body does not have the expected
	// shape it returns ReplyPlaceholder together with an ErrReplyShape error.
	ExtractReply(body []byte) (Reply, error)
}
