package controller

import (
	"fmt"

	"onboarding-buddy-be/internal/pkg/serverutils"
	"onboarding-buddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetMetadata(ctx *fiber.Ctx) error
	ListBySession(ctx *fiber.Ctx) error
	GetContent(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileUploadController struct {
	service service.IFileUploadService
}

func NewFileUploadController(service service.IFileUploadService) IFileUploadController {
	return &fileUploadController{service: service}
}

func (c *fileUploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files/v1")
	h.Post("upload", c.Upload)
	h.Get("session/:sessionId", c.ListBySession)
	h.Get(":id", c.GetMetadata)
	h.Get(":id/content", c.GetContent)
	h.Delete(":id", c.Delete)
}

func (c *fileUploadController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return serverutils.NewBadRequestError("expected multipart form data")
	}

	res, err := c.service.Upload(ctx.UserContext(), firstValue(form.Value["session_id"]), form.File["files"])
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success upload files", res))
}

func (c *fileUploadController) GetMetadata(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetMetadata(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get file", res))
}

func (c *fileUploadController) ListBySession(ctx *fiber.Ctx) error {
	res, err := c.service.ListBySession(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session files", res))
}

func (c *fileUploadController) GetContent(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	content, err := c.service.GetContent(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, content.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", content.FileName))
	return ctx.Send(content.Data)
}

func (c *fileUploadController) Delete(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}
