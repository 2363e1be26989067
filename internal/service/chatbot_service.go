package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboarding-buddy-be/internal/constant"
	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/repository/memory"
	"onboarding-buddy-be/internal/tracer"
	"onboarding-buddy-be/pkg/llm"
	"onboarding-buddy-be/pkg/rag/prompt"
	"onboarding-buddy-be/pkg/rag/relevance"
	"onboarding-buddy-be/pkg/store"
	"onboarding-buddy-be/pkg/tokenizer"
)

const (
	chatbotModule = "ChatbotService"

	// DefaultHistoryWindow is how many past turns are replayed per request.
	DefaultHistoryWindow = 10
)

// IChatbotService runs one conversation exchange at a time. Every method
// returns display text; failures are turned into canned replies.
type IChatbotService interface {
	HandleMessage(ctx context.Context, sessionID, message string, attachments []llm.Attachment) string
	// HandleSessionRegistered sends a welcome only to sessions with no history.
	// The bool reports whether a welcome was produced.
	HandleSessionRegistered(ctx context.Context, sessionID string) (string, bool)
	// GetOrCreateWelcome returns the stored welcome or generates one.
	GetOrCreateWelcome(ctx context.Context, sessionID string) string
	GetConversationHistory(sessionID string) []*dto.ConversationMessageResponse
	Health() *dto.ChatHealthResponse
}

// TrainingMaterialSource supplies the materials context selection draws from.
type TrainingMaterialSource interface {
	ListActive(ctx context.Context) ([]*entity.TrainingMaterial, error)
}

// ProviderSender posts a request body to the provider and returns the raw reply body.
type ProviderSender interface {
	Send(ctx context.Context, body any) ([]byte, error)
}

type ChatbotConfig struct {
	// Configured is false when no provider endpoint is set; every exchange then degrades.
	Configured       bool
	Stateful         bool
	MaxContextTokens int
	HistoryWindow    int
}

type chatbotService struct {
	materials TrainingMaterialSource
	sessions  *memory.SessionStore
	selector  *relevance.Selector
	prompts   *prompt.SystemPromptBuilder
	payloads  llm.PayloadBuilder
	sender    ProviderSender
	tokens    tokenizer.Estimator
	logger    logger.ILogger
	cfg       ChatbotConfig
	tracer    trace.Tracer
}

func NewChatbotService(
	materials TrainingMaterialSource,
	sessions *memory.SessionStore,
	payloads llm.PayloadBuilder,
	sender ProviderSender,
	tokens tokenizer.Estimator,
	log logger.ILogger,
	cfg ChatbotConfig,
) IChatbotService {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if tokens == nil {
		tokens = tokenizer.RuneEstimator{}
	}
	return &chatbotService{
		materials: materials,
		sessions:  sessions,
		selector:  relevance.NewSelector(),
		prompts:   prompt.NewSystemPromptBuilder(),
		payloads:  payloads,
		sender:    sender,
		tokens:    tokens,
		logger:    log,
		cfg:       cfg,
		tracer:    tracer.Tracer("chatbot"),
	}
}

// exchange is one request to the provider.
type exchange struct {
	sessionID      string
	message        string
	selectionQuery string
	attachments    []llm.Attachment
}

func (cs *chatbotService) HandleMessage(ctx context.Context, sessionID, message string, attachments []llm.Attachment) string {
	ctx, span := cs.tracer.Start(ctx, "ChatbotService.HandleMessage")
	defer span.End()

	reply, failure := cs.run(ctx, exchange{
		sessionID:      sessionID,
		message:        message,
		selectionQuery: message,
		attachments:    attachments,
	})
	span.SetAttributes(attribute.String("chat.outcome", failure.String()))

	if failure == llm.FailureNone {
		cs.sessions.AppendTurn(sessionID, message, reply)
	}
	return reply
}

func (cs *chatbotService) HandleSessionRegistered(ctx context.Context, sessionID string) (string, bool) {
	if cs.sessions.GetOrCreate(sessionID).TurnCount() > 0 {
		return "", false
	}
	return cs.welcome(ctx, sessionID), true
}

func (cs *chatbotService) GetOrCreateWelcome(ctx context.Context, sessionID string) string {
	if existing, ok := cs.sessions.ExistingWelcomeMessage(sessionID); ok {
		return existing
	}
	return cs.welcome(ctx, sessionID)
}

// welcome generates and records a welcome reply. The selection query is empty
// so the initial-load material set is used.
func (cs *chatbotService) welcome(ctx context.Context, sessionID string) string {
	ctx, span := cs.tracer.Start(ctx, "ChatbotService.Welcome")
	defer span.End()

	reply, failure := cs.run(ctx, exchange{
		sessionID: sessionID,
		message:   constant.WelcomeDirective,
	})
	if failure != llm.FailureNone {
		reply = constant.DefaultWelcomeMessage
	}

	cs.sessions.AppendWelcome(sessionID, reply)
	return reply
}

func (cs *chatbotService) run(ctx context.Context, ex exchange) (string, llm.Failure) {
	if !cs.cfg.Configured || cs.sender == nil {
		cs.logger.Warn(chatbotModule, "AI provider not configured, replying in degraded mode", map[string]interface{}{
			"session_id": ex.sessionID,
		})
		return constant.DegradedModeMessage, llm.FailureUpstream
	}

	cs.sessions.GetOrCreate(ex.sessionID)

	trainingContext := cs.trainingContext(ctx, ex.sessionID, ex.selectionQuery)
	systemPrompt := cs.prompts.Build(trainingContext)
	history := cs.sessions.History(ex.sessionID, cs.cfg.HistoryWindow)

	estimate := tokenizer.CountAll(cs.tokens, append([]string{systemPrompt, ex.message}, history...)...)
	if cs.cfg.MaxContextTokens > 0 && estimate > cs.cfg.MaxContextTokens {
		cs.logger.Warn(chatbotModule, "Prompt exceeds context budget", map[string]interface{}{
			"session_id":       ex.sessionID,
			"estimated_tokens": estimate,
			"max_tokens":       cs.cfg.MaxContextTokens,
		})
		return constant.ContentTooLargeMessage, llm.FailureContentTooLarge
	}

	state := cs.sessions.ProviderState(ex.sessionID)
	body, err := cs.payloads.BuildRequest(llm.BuildInput{
		Message:      ex.message,
		SystemPrompt: systemPrompt,
		History:      history,
		Attachments:  ex.attachments,
		State: llm.ConversationState{
			Stateful:       cs.cfg.Stateful,
			ConversationID: state.ConversationID,
			LastResponseID: state.LastResponseID,
			Stale:          state.Stale,
		},
	})
	if err != nil {
		cs.logger.Error(chatbotModule, "Failed to build provider request", map[string]interface{}{
			"session_id": ex.sessionID,
			"error":      err.Error(),
		})
		return constant.UpstreamFailureMessage, llm.FailureUpstream
	}

	cs.logger.Debug(chatbotModule, "Sending provider request", map[string]interface{}{
		"session_id":       ex.sessionID,
		"family":           cs.payloads.Family().String(),
		"message_length":   len(ex.message),
		"history_entries":  len(history),
		"attachments":      len(ex.attachments),
		"estimated_tokens": estimate,
	})

	raw, err := cs.sender.Send(ctx, body)
	if err != nil {
		failure := llm.Classify(err)
		cs.recordFailure(ctx, ex.sessionID, failure, err)
		return failureMessage(failure), failure
	}

	reply, err := cs.payloads.ExtractReply(raw)
	if err != nil {
		cs.recordFailure(ctx, ex.sessionID, llm.FailureExtraction, err)
		return constant.ExtractionFailureMessage, llm.FailureExtraction
	}

	if cs.cfg.Stateful && cs.payloads.Family().SupportsContinuation() {
		cs.sessions.SetProviderState(ex.sessionID, reply.ConversationID, reply.ResponseID)
	}

	return llm.StripCodeFences(reply.Text), llm.FailureNone
}

// trainingContext loads and caches the rendered material selection on first
// use. A store failure yields an empty context and is retried next message.
func (cs *chatbotService) trainingContext(ctx context.Context, sessionID, query string) string {
	if cs.sessions.HasTrainingContext(sessionID) {
		return cs.sessions.TrainingContext(sessionID)
	}

	materials, err := cs.materials.ListActive(ctx)
	if err != nil {
		cs.logger.Error(chatbotModule, "Failed to load training materials", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return ""
	}

	selected := cs.selector.Select(materials, query)
	rendered := relevance.Render(selected)
	cs.sessions.MarkTrainingContextLoaded(sessionID, rendered, relevance.MaterialIDs(selected))

	cs.logger.Info(chatbotModule, "Training context loaded", map[string]interface{}{
		"session_id":       sessionID,
		"materials":        len(selected),
		"available":        len(materials),
		"estimated_tokens": cs.tokens.CountTokens(rendered),
	})
	return rendered
}

func (cs *chatbotService) recordFailure(ctx context.Context, sessionID string, failure llm.Failure, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, failure.String())

	details := map[string]interface{}{
		"session_id": sessionID,
		"category":   failure.String(),
		"error":      err.Error(),
	}
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		details["status"] = upstream.StatusCode
	}
	cs.logger.Error(chatbotModule, "Provider exchange failed", details)
}

func failureMessage(failure llm.Failure) string {
	switch failure {
	case llm.FailureRateLimited:
		return constant.RateLimitedMessage
	case llm.FailureContentTooLarge:
		return constant.ContentTooLargeMessage
	case llm.FailureExtraction:
		return constant.ExtractionFailureMessage
	default:
		return constant.UpstreamFailureMessage
	}
}

// GetConversationHistory replays the session for the UI. Welcome turns have
// no user entry.
func (cs *chatbotService) GetConversationHistory(sessionID string) []*dto.ConversationMessageResponse {
	turns := cs.sessions.Turns(sessionID)
	messages := make([]*dto.ConversationMessageResponse, 0, len(turns)*2)

	for i, turn := range turns {
		if turn.TurnType != store.TurnWelcome && strings.TrimSpace(turn.UserQuery) != "" {
			messages = append(messages, &dto.ConversationMessageResponse{
				Id:        fmt.Sprintf("%s-%d-user", sessionID, i),
				Text:      turn.UserQuery,
				IsUser:    true,
				Timestamp: turn.Timestamp,
			})
		}
		messages = append(messages, &dto.ConversationMessageResponse{
			Id:        fmt.Sprintf("%s-%d-assistant", sessionID, i),
			Text:      turn.AIResponse,
			IsUser:    false,
			Timestamp: turn.Timestamp.Add(time.Millisecond),
		})
	}
	return messages
}

func (cs *chatbotService) Health() *dto.ChatHealthResponse {
	status := "healthy"
	if !cs.cfg.Configured {
		status = "degraded"
	}
	return &dto.ChatHealthResponse{
		Status:         status,
		AIConfigured:   cs.cfg.Configured,
		ProviderFamily: cs.payloads.Family().String(),
		ActiveSessions: len(cs.sessions.ActiveSessionIDs()),
	}
}
