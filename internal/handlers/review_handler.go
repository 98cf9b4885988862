package handlers

import (
	"log"

	"unimarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews on completed orders.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/review", h.HandleSubmitReview)
	router.Get("/sellers/:id/reviews", h.HandleGetSellerReviews)
}

// SubmitReviewRequest is the request body for submitting a review.
type SubmitReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// HandleSubmitReview records the buyer's feedback on a completed order.
func (h *ReviewHandler) HandleSubmitReview(c *fiber.Ctx) error {
	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	review, err := h.service.SubmitReview(c.Params("id"), callerID(c), req.Rating, req.Comment)
	if err != nil {
		log.Printf("Error submitting review for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not submit review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleGetSellerReviews retrieves all reviews a seller has received.
func (h *ReviewHandler) HandleGetSellerReviews(c *fiber.Ctx) error {
	reviews, err := h.service.ListSellerReviews(c.Params("id"))
	if err != nil {
		log.Printf("Error getting reviews for seller %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}
