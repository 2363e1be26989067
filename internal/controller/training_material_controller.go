package controller

import (
	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/pkg/serverutils"
	"onboarding-buddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITrainingMaterialController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	GetByCategory(ctx *fiber.Ctx) error
	AttachFile(ctx *fiber.Ctx) error
	RemoveAttachment(ctx *fiber.Ctx) error
}

type trainingMaterialController struct {
	service service.ITrainingMaterialService
}

func NewTrainingMaterialController(service service.ITrainingMaterialService) ITrainingMaterialController {
	return &trainingMaterialController{service: service}
}

func (c *trainingMaterialController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/training-materials/v1")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("search", c.Search)
	h.Get("category/:category", c.GetByCategory)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/attachments", c.AttachFile)
	h.Delete(":id/attachments/:fileId", c.RemoveAttachment)
}

func (c *trainingMaterialController) GetAll(ctx *fiber.Ctx) error {
	var query dto.ListTrainingMaterialsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.NewBadRequestError("invalid query parameters")
	}

	res, err := c.service.GetAll(ctx.UserContext(), &query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all training materials", res))
}

func (c *trainingMaterialController) Show(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show training material", res))
}

func (c *trainingMaterialController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTrainingMaterialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create training material", res))
}

func (c *trainingMaterialController) Update(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTrainingMaterialRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update training material", res))
}

func (c *trainingMaterialController) Delete(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete training material", nil))
}

func (c *trainingMaterialController) Search(ctx *fiber.Ctx) error {
	res, err := c.service.Search(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search training materials", res))
}

func (c *trainingMaterialController) GetByCategory(ctx *fiber.Ctx) error {
	res, err := c.service.GetByCategory(ctx.UserContext(), ctx.Params("category"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get training materials by category", res))
}

func (c *trainingMaterialController) AttachFile(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AttachFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AttachFile(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success attach file", res))
}

func (c *trainingMaterialController) RemoveAttachment(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	fileID, err := uuidParam(ctx, "fileId")
	if err != nil {
		return err
	}

	if err := c.service.RemoveAttachment(ctx.UserContext(), id, fileID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove attachment", nil))
}
