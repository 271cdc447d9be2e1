package controller

import (
	"clinical-assistant-be/internal/dto"
	"clinical-assistant-be/internal/pkg/serverutils"
	"clinical-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProtocolController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type protocolController struct {
	protocolService service.IProtocolService
}

func NewProtocolController(protocolService service.IProtocolService) IProtocolController {
	return &protocolController{
		protocolService: protocolService,
	}
}

func (c *protocolController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/protocol/v1")
	h.Post("", c.Ingest)
	h.Delete("", c.Delete)
	h.Get("stats", c.Stats)
}

func (c *protocolController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestProtocolRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.protocolService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue protocol", res))
}

func (c *protocolController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteProtocolRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	if err := c.protocolService.Delete(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete protocol", nil))
}

func (c *protocolController) Stats(ctx *fiber.Ctx) error {
	res, err := c.protocolService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get protocol stats", res))
}
