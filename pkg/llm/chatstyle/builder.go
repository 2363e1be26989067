// Package chatstyle builds chat-completions style payloads: one role-tagged
// message list whose first entry carries the system prompt.
package chatstyle

import (
	"encoding/json"
	"fmt"

	"onboarding-buddy-be/pkg/llm"
)

type Builder struct {
	settings llm.Settings
}

var _ llm.PayloadBuilder = &Builder{}

func NewBuilder(settings llm.Settings) *Builder {
	return &Builder{settings: settings}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content chatContent `json:"content"`
}

// chatContent marshals as a string or as a part array depending on how the
// llm.MessageContent was built.
type chatContent struct {
	llm.MessageContent
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

func (c chatContent) MarshalJSON() ([]byte, error) {
	if !c.IsParts() {
		return json.Marshal(c.Text())
	}
	parts := make([]chatPart, 0, len(c.PartList()))
	for _, p := range c.PartList() {
		switch p.Kind {
		case llm.PartText:
			parts = append(parts, chatPart{Type: "text", Text: p.Text})
		case llm.PartImage:
			parts = append(parts, chatPart{Type: "image_url", ImageURL: &chatImageURL{URL: p.DataURL()}})
		default:
			return nil, fmt.Errorf("unknown content part kind %d", p.Kind)
		}
	}
	return json.Marshal(parts)
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (b *Builder) Family() llm.Family {
	return llm.FamilyChat
}

func (b *Builder) BuildRequest(in llm.BuildInput) (any, error) {
	history := llm.HistoryMessages(llm.SplitHistory(in.History))

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{
		Role:    string(llm.RoleSystem),
		Content: chatContent{llm.Text(llm.WithFileContext(in.SystemPrompt, in.Attachments))},
	})
	for _, m := range history {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: chatContent{m.Content}})
	}
	messages = append(messages, chatMessage{
		Role:    string(llm.RoleUser),
		Content: chatContent{llm.UserContent(in.Message, in.Attachments)},
	})

	return chatRequest{
		Model:       b.settings.Model,
		Messages:    messages,
		MaxTokens:   b.settings.MaxTokens,
		Temperature: b.settings.Temperature,
	}, nil
}

func (b *Builder) ExtractReply(body []byte) (llm.Reply, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: %v", llm.ErrReplyShape, err)
	}
	if len(resp.Choices) == 0 {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: no choices", llm.ErrReplyShape)
	}

	text, ok := decodeContent(resp.Choices[0].Message.Content)
	if !ok {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: choices[0].message.content missing", llm.ErrReplyShape)
	}
	return llm.Reply{Text: text, ResponseID: resp.ID}, nil
}

// decodeContent accepts a plain string or an array of text parts.
func decodeContent(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var parts []chatPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", false
	}
	text := ""
	found := false
	for _, p := range parts {
		if p.Type == "text" {
			text += p.Text
			found = true
		}
	}
	return text, found
}
