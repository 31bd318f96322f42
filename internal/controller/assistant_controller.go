package controller

import (
	"shop-assistant-be/internal/dto"
	"shop-assistant-be/internal/pkg/serverutils"
	"shop-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	ExecuteAction(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.SendChat)
	h.Get("history/:sessionKey", c.GetHistory)
	h.Post("session/end", c.EndSession)
	h.Get("status", c.GetStatus)

	// Operator action, requires a token.
	h.Post("action", serverutils.JwtMiddleware, c.ExecuteAction)
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *assistantController) GetHistory(ctx *fiber.Ctx) error {
	sessionKey := ctx.Params("sessionKey")
	limit := ctx.QueryInt("limit", 50)

	res, err := c.assistantService.GetHistory(ctx.Context(), sessionKey, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *assistantController) EndSession(ctx *fiber.Ctx) error {
	var req dto.EndSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.assistantService.EndSession(ctx.Context(), req.SessionKey); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end session", struct{}{}))
}

func (c *assistantController) GetStatus(ctx *fiber.Ctx) error {
	res := c.assistantService.GetStatus(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}

func (c *assistantController) ExecuteAction(ctx *fiber.Ctx) error {
	var req dto.AssistantActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.ExecuteAction(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success execute action", res))
}
