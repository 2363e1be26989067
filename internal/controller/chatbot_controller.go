package controller

import (
	"strings"
	"time"

	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/handler"
	"onboarding-buddy-be/internal/pkg/serverutils"
	"onboarding-buddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	DefaultSessionID = "default-session"

	// sendWithFilesBodyLimit caps the multipart body of a chat message with attachments.
	sendWithFilesBodyLimit = 10 * 1024 * 1024
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	SendWithFiles(ctx *fiber.Ctx) error
	Welcome(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService    service.IChatbotService
	fileUploadService service.IFileUploadService
	chatHandler       *handler.ChatHandler
}

func NewChatbotController(
	chatbotService service.IChatbotService,
	fileUploadService service.IFileUploadService,
	chatHandler *handler.ChatHandler,
) IChatbotController {
	return &chatbotController{
		chatbotService:    chatbotService,
		fileUploadService: fileUploadService,
		chatHandler:       chatHandler,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("send", c.Send)
	h.Post("send-with-files", c.SendWithFiles)
	h.Post("welcome/:sessionId", c.Welcome)
	h.Get("history/:sessionId", c.History)
	h.Get("health", c.Health)
	h.Get("ws", c.chatHandler.ServeWs)
}

func sessionOrDefault(sessionID string) string {
	if s := strings.TrimSpace(sessionID); s != "" {
		return s
	}
	return DefaultSessionID
}

func (c *chatbotController) Send(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := sessionOrDefault(req.SessionId)
	reply := c.chatbotService.HandleMessage(ctx.UserContext(), sessionID, req.Message, nil)

	return ctx.JSON(serverutils.SuccessResponse("Success send message", dto.SendChatResponse{
		SessionId: sessionID,
		Response:  reply,
		Timestamp: time.Now().UTC(),
	}))
}

// SendWithFiles accepts a multipart form: message, session_id, any number of
// "files" parts and file_ids of earlier uploads.
func (c *chatbotController) SendWithFiles(ctx *fiber.Ctx) error {
	if len(ctx.Body()) > sendWithFilesBodyLimit {
		return serverutils.NewPayloadTooLargeError("request body exceeds 10 MB")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return serverutils.NewBadRequestError("expected multipart form data")
	}

	req := dto.SendChatWithFilesRequest{
		Message:   firstValue(form.Value["message"]),
		SessionId: firstValue(form.Value["session_id"]),
	}
	for _, raw := range form.Value["file_ids"] {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return serverutils.NewBadRequestError("invalid file id: " + part)
			}
			req.FileIds = append(req.FileIds, id)
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID := sessionOrDefault(req.SessionId)
	fileIDs := req.FileIds
	if files := form.File["files"]; len(files) > 0 {
		uploaded, err := c.fileUploadService.Upload(ctx.UserContext(), sessionID, files)
		if err != nil {
			return err
		}
		if len(uploaded.Errors) > 0 {
			return serverutils.NewBadRequestError(strings.Join(uploaded.Errors, "; "))
		}
		for _, f := range uploaded.Files {
			fileIDs = append(fileIDs, f.Id)
		}
	}

	attachments, err := c.fileUploadService.LoadAttachments(ctx.UserContext(), fileIDs)
	if err != nil {
		return err
	}

	reply := c.chatbotService.HandleMessage(ctx.UserContext(), sessionID, req.Message, attachments)

	return ctx.JSON(serverutils.SuccessResponse("Success send message", dto.SendChatResponse{
		SessionId: sessionID,
		Response:  reply,
		Timestamp: time.Now().UTC(),
	}))
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c *chatbotController) Welcome(ctx *fiber.Ctx) error {
	sessionID := sessionOrDefault(ctx.Params("sessionId"))
	reply := c.chatbotService.GetOrCreateWelcome(ctx.UserContext(), sessionID)

	return ctx.JSON(serverutils.SuccessResponse("Success get welcome message", dto.SendChatResponse{
		SessionId: sessionID,
		Response:  reply,
		Timestamp: time.Now().UTC(),
	}))
}

func (c *chatbotController) History(ctx *fiber.Ctx) error {
	sessionID := sessionOrDefault(ctx.Params("sessionId"))
	res := c.chatbotService.GetConversationHistory(sessionID)
	return ctx.JSON(serverutils.SuccessResponse("Success get conversation history", res))
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get chat health", c.chatbotService.Health()))
}
