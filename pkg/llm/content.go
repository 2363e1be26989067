package llm

import (
	"encoding/base64"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type PartKind int

const (
	PartText PartKind = iota + 1
	PartImage
)

// ContentPart is one piece of a multi-part message.
type ContentPart struct {
	Kind      PartKind
	Text      string
	MediaType string
	Data      string // base64, images only
}

func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartText, Text: text}
}

func ImagePart(mediaType string, raw []byte) ContentPart {
	return ContentPart{
		Kind:      PartImage,
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(raw),
	}
}

// DataURL renders an image part as a data: URL.
func (p ContentPart) DataURL() string {
	return "data:" + p.MediaType + ";base64," + p.Data
}

// MessageContent is either plain text or an ordered list of parts. The form is
// fixed when the value is constructed.
type MessageContent struct {
	text  string
	parts []ContentPart
	multi bool
}

func Text(s string) MessageContent {
	return MessageContent{text: s}
}

func Parts(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts, multi: true}
}

func (c MessageContent) IsParts() bool {
	return c.multi
}

// Text returns the plain text, or the text parts joined when the content is multi-part.
func (c MessageContent) Text() string {
	if !c.multi {
		return c.text
	}
	var texts []string
	for _, p := range c.parts {
		if p.Kind == PartText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func (c MessageContent) PartList() []ContentPart {
	return c.parts
}

type Message struct {
	Role    Role
	Content MessageContent
}

// Attachment is an uploaded file as seen by the payload builders.
type Attachment struct {
	OriginalFileName string
	ContentType      string
	Data             []byte
	ProcessedContent string
}

// IsInlineImage reports whether the attachment is embedded as image data rather than text.
func (a Attachment) IsInlineImage() bool {
	return strings.HasPrefix(strings.ToLower(a.ContentType), "image/") && len(a.Data) > 0
}

// UserContent builds the current user message: plain text when there are no
// inline images, otherwise a text part followed by one part per image.
func UserContent(message string, attachments []Attachment) MessageContent {
	var images []ContentPart
	for _, a := range attachments {
		if a.IsInlineImage() {
			images = append(images, ImagePart(a.ContentType, a.Data))
		}
	}
	if len(images) == 0 {
		return Text(message)
	}
	return Parts(append([]ContentPart{TextPart(message)}, images...)...)
}

// FileContext renders the processed text of non-image attachments.
func FileContext(attachments []Attachment) string {
	var b strings.Builder
	for _, a := range attachments {
		if a.IsInlineImage() || strings.TrimSpace(a.ProcessedContent) == "" {
			continue
		}
		b.WriteString("File: ")
		b.WriteString(a.OriginalFileName)
		b.WriteString("\n")
		b.WriteString(a.ProcessedContent)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// WithFileContext appends attachment text to a prompt under an "Attached Files:" heading.
func WithFileContext(prompt string, attachments []Attachment) string {
	files := FileContext(attachments)
	if files == "" {
		return prompt
	}
	if strings.TrimSpace(prompt) == "" {
		return "Attached Files:\n" + files
	}
	return prompt + "\n\nAttached Files:\n" + files
}
