// Package instructions builds responses-API style payloads: top-level
// instructions plus a single flattened input, optionally continuing a
// conversation the provider stores server-side.
package instructions

import (
	"encoding/json"
	"fmt"
	"strings"

	"onboarding-buddy-be/pkg/llm"
	"onboarding-buddy-be/pkg/store"
)

type Builder struct {
	settings llm.Settings
	// refresh replaces the full instructions on a stale continued conversation.
	refresh string
}

var _ llm.PayloadBuilder = &Builder{}

func NewBuilder(settings llm.Settings, refreshInstruction string) *Builder {
	return &Builder{settings: settings, refresh: refreshInstruction}
}

// --- Request/Response structs (Internal to this package) ---

type responsesRequest struct {
	Model              string  `json:"model"`
	Instructions       string  `json:"instructions,omitempty"`
	Input              any     `json:"input"`
	MaxOutputTokens    int     `json:"max_output_tokens,omitempty"`
	Temperature        float64 `json:"temperature"`
	Store              *bool   `json:"store,omitempty"`
	PreviousResponseID string  `json:"previous_response_id,omitempty"`
	Conversation       string  `json:"conversation,omitempty"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputPart `json:"content"`
}

type inputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesResponse struct {
	ID           string          `json:"id"`
	OutputText   string          `json:"output_text"`
	Conversation json.RawMessage `json:"conversation"`
	Output       []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (b *Builder) Family() llm.Family {
	return llm.FamilyInstructions
}

func (b *Builder) BuildRequest(in llm.BuildInput) (any, error) {
	req := responsesRequest{
		Model:           b.settings.Model,
		MaxOutputTokens: b.settings.MaxTokens,
		Temperature:     b.settings.Temperature,
	}

	if in.State.Stateful {
		storeConversation := b.settings.Store
		req.Store = &storeConversation
	}

	var prompt string
	if in.State.CanContinue() {
		// The provider already holds the system prompt and earlier turns.
		if in.State.LastResponseID != "" {
			req.PreviousResponseID = in.State.LastResponseID
		} else {
			req.Conversation = in.State.ConversationID
		}
		if in.State.Stale {
			req.Instructions = b.refresh
		}
		prompt = llm.WithFileContext(in.Message, in.Attachments)
	} else {
		req.Instructions = llm.WithFileContext(in.SystemPrompt, in.Attachments)
		prompt = flatten(in.History, in.Message)
	}

	req.Input = input(prompt, in.Attachments)
	return req, nil
}

// flatten serializes the replayable history and the new message into one prompt.
func flatten(history []string, message string) string {
	var b strings.Builder
	for _, ex := range llm.SplitHistory(history) {
		b.WriteString(store.HumanPrefix)
		b.WriteString(ex.User)
		b.WriteString("\n\n")
		b.WriteString(store.AssistantPrefix)
		b.WriteString(ex.Assistant)
		b.WriteString("\n\n")
	}
	if b.Len() == 0 {
		return message
	}
	b.WriteString(store.HumanPrefix)
	b.WriteString(message)
	return b.String()
}

func input(prompt string, attachments []llm.Attachment) any {
	content := llm.UserContent(prompt, attachments)
	if !content.IsParts() {
		return prompt
	}

	parts := make([]inputPart, 0, len(content.PartList()))
	for _, p := range content.PartList() {
		switch p.Kind {
		case llm.PartText:
			parts = append(parts, inputPart{Type: "input_text", Text: p.Text})
		case llm.PartImage:
			parts = append(parts, inputPart{Type: "input_image", ImageURL: p.DataURL()})
		}
	}
	return []inputMessage{{Role: string(llm.RoleUser), Content: parts}}
}

func (b *Builder) ExtractReply(body []byte) (llm.Reply, error) {
	var resp responsesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return llm.Reply{Text: llm.ReplyPlaceholder}, fmt.Errorf("%w: %v", llm.ErrReplyShape, err)
	}

	reply := llm.Reply{
		ResponseID:     resp.ID,
		ConversationID: conversationID(resp.Conversation),
	}

	if resp.OutputText != "" {
		reply.Text = resp.OutputText
		return reply, nil
	}

	var texts []string
	for _, item := range resp.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" {
				texts = append(texts, c.Text)
			}
		}
	}
	if len(texts) == 0 {
		reply.Text = llm.ReplyPlaceholder
		return reply, fmt.Errorf("%w: no output_text content", llm.ErrReplyShape)
	}
	reply.Text = strings.Join(texts, "")
	return reply, nil
}

// conversationID accepts either a bare id string or an object with an id field.
func conversationID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}
