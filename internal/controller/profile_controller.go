package controller

import (
	"strconv"

	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/pkg/serverutils"
	"kdrama-recommender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	RecordInteraction(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
	GetPreferences(ctx *fiber.Ctx) error
}

type profileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) IProfileController {
	return &profileController{
		profileService: profileService,
	}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profile/v1")
	h.Post(":userId/interactions", c.RecordInteraction)
	h.Get(":userId/preferences/:type", c.GetPreferences)
	h.Get(":userId", c.GetSummary)
}

func (c *profileController) RecordInteraction(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")

	var req dto.RecordInteractionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.profileService.UpdateFromInteraction(ctx.Context(), userID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success record interaction", res))
}

func (c *profileController) GetSummary(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")

	res, err := c.profileService.GetSummary(ctx.Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *profileController) GetPreferences(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	prefType := ctx.Params("type")
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))

	res, err := c.profileService.TopPreferences(ctx.Context(), userID, prefType, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get preferences", res))
}
