// Package systemfield builds messages-API style payloads where the system
// prompt travels in its own top-level field.
package systemfield

import (
	"encoding/json"
	"fmt"
	"strings"

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

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string       `json:"role"`
	Content contentValue `json:"content"`
}

type contentValue struct {
	llm.MessageContent
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

func (c contentValue) MarshalJSON() ([]byte, error) {
	if !c.IsParts() {
		return json.Marshal(c.Text())
	}
	blocks := make([]contentBlock, 0, len(c.PartList()))
	for _, p := range c.PartList() {
		switch p.Kind {
		case llm.PartText:
			blocks = append(blocks, contentBlock{Type: "text", Text: p.Text})
		case llm.PartImage:
			blocks = append(blocks, contentBlock{
				Type:   "image",
				Source: &imageSource{Type: "base64", MediaType: p.MediaType, Data: p.Data},
			})
		default:
			return nil, fmt.Errorf("unknown content part kind %d", p.Kind)
		}
	}
	return json.Marshal(blocks)
}

type messagesResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (b *Builder) Family() llm.Family {
	return llm.FamilySystemField
}

func (b *Builder) BuildRequest(in llm.BuildInput) (any, error) {
	history := llm.HistoryMessages(llm.SplitHistory(in.History))

	messages := make([]message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, message{Role: string(m.Role), Content: contentValue{m.Content}})
	}
	messages = append(messages, message{
		Role:    string(llm.RoleUser),
		Content: contentValue{llm.UserContent(in.Message, in.Attachments)},
	})

	maxTokens := b.settings.MaxTokens
	if maxTokens <= 0 {
		// max_tokens is mandatory for this family.
		maxTokens = 1000
	}

	return messagesRequest{
		Model:       b.settings.Model,
		MaxTokens:   maxTokens,
		Temperature: b.settings.Temperature,
		System:      llm.WithFileContext(in.SystemPrompt, in.Attachments),
		Messages:    messages,
	}, nil
}

func (b *Builder) ExtractReply(body []byte) (llm.Reply, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: %v", llm.ErrReplyShape, err)
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	if len(texts) == 0 {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: no text content blocks", llm.ErrReplyShape)
	}
	return llm.Reply{Text: strings.Join(texts, ""), ResponseID: resp.ID}, nil
}
