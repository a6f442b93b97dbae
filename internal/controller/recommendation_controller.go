package controller

import (
	"kdrama-recommender-be/internal/dto"
	"kdrama-recommender-be/internal/pkg/serverutils"
	"kdrama-recommender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	Recommend(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type recommendationController struct {
	recommendationService service.IRecommendationService
}

func NewRecommendationController(recommendationService service.IRecommendationService) IRecommendationController {
	return &recommendationController{
		recommendationService: recommendationService,
	}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommend/v1")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Get("health", c.Health)
	h.Get("", c.Recommend)
}

func (c *recommendationController) Recommend(ctx *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Token identity wins over the explicit parameter when both exist.
	if userID, ok := ctx.Locals("user_id").(string); ok && userID != "" {
		req.UserID = userID
	}

	res, err := c.recommendationService.Recommend(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recommendations", res))
}

func (c *recommendationController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
