package handlers

import (
	"fmt"
	"log"

	"unimarket/internal/models"
	"unimarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles HTTP requests for job requests and the offers made
// against them, including the acceptance entrypoint.
type RequestHandler struct {
	requestService *services.RequestService
	offerService   *services.OfferService
	validate       *validator.Validate
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *services.RequestService, offerService *services.OfferService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		offerService:   offerService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the request and offer routes with the Fiber app.
func (h *RequestHandler) RegisterRoutes(router fiber.Router) {
	requestRoutes := router.Group("/requests")
	requestRoutes.Get("/", h.HandleGetRequests)
	requestRoutes.Get("/:id", h.HandleGetRequestByID)
	requestRoutes.Post("/", h.HandleCreateRequest)
	requestRoutes.Put("/:id", h.HandleUpdateRequest)
	requestRoutes.Delete("/:id", h.HandleDeleteRequest)
	requestRoutes.Get("/:id/offers", h.HandleGetOffers)
	requestRoutes.Post("/:id/offers", h.HandleMakeOffer)

	offerRoutes := router.Group("/offers")
	offerRoutes.Post("/:id/accept", h.HandleAcceptOffer)
}

// HandleGetRequests retrieves open requests, or the caller's own requests
// when the "mine" query parameter is set.
func (h *RequestHandler) HandleGetRequests(c *fiber.Ctx) error {
	var (
		requests []models.Request
		err      error
	)
	if c.QueryBool("mine") {
		requests, err = h.requestService.ListMyRequests(callerID(c))
	} else {
		requests, err = h.requestService.ListOpenRequests()
	}
	if err != nil {
		log.Printf("Error getting requests: %v", err)
		return errorJSON(c, "Could not retrieve requests", err)
	}
	return c.JSON(requests)
}

// HandleGetRequestByID retrieves a single request by its ID.
func (h *RequestHandler) HandleGetRequestByID(c *fiber.Ctx) error {
	request, err := h.requestService.GetRequestByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting request by ID %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve request", err)
	}
	return c.JSON(request)
}

// HandleCreateRequest creates a new open request owned by the caller.
func (h *RequestHandler) HandleCreateRequest(c *fiber.Ctx) error {
	var request models.Request
	if err := c.BodyParser(&request); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	request.OwnerID = callerID(c)
	if err := h.validate.Struct(request); err != nil {
		return validationErrorJSON(c, err)
	}

	if err := h.requestService.CreateRequest(&request, callerID(c)); err != nil {
		log.Printf("Error creating request: %v", err)
		return errorJSON(c, "Could not create request", err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// HandleUpdateRequest updates a request, owner only and only while open.
func (h *RequestHandler) HandleUpdateRequest(c *fiber.Ctx) error {
	var request models.Request
	if err := c.BodyParser(&request); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	request.ID = c.Params("id")
	request.OwnerID = callerID(c)
	if err := h.validate.Struct(request); err != nil {
		return validationErrorJSON(c, err)
	}

	if err := h.requestService.UpdateRequest(&request, callerID(c)); err != nil {
		log.Printf("Error updating request %s: %v", request.ID, err)
		return errorJSON(c, "Could not update request", err)
	}
	return c.JSON(request)
}

// HandleDeleteRequest removes a request, owner only and only while open.
func (h *RequestHandler) HandleDeleteRequest(c *fiber.Ctx) error {
	if err := h.requestService.DeleteRequest(c.Params("id"), callerID(c)); err != nil {
		log.Printf("Error deleting request %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not delete request", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s deleted successfully", c.Params("id")),
	})
}

// HandleGetOffers retrieves the offers on a request, owner only.
func (h *RequestHandler) HandleGetOffers(c *fiber.Ctx) error {
	offers, err := h.offerService.ListOffers(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error getting offers for request %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve offers", err)
	}
	return c.JSON(offers)
}

// MakeOfferRequest is the request body for submitting an offer.
type MakeOfferRequest struct {
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=2000"`
}

// HandleMakeOffer submits a provider's bid against an open request.
func (h *RequestHandler) HandleMakeOffer(c *fiber.Ctx) error {
	var req MakeOfferRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing offer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorJSON(c, err)
	}

	offer, err := h.offerService.MakeOffer(c.Params("id"), callerID(c), req.Price, req.Description)
	if err != nil {
		log.Printf("Error making offer on request %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not submit offer", err)
	}
	return c.Status(fiber.StatusCreated).JSON(offer)
}

// HandleAcceptOffer runs the acceptance transaction: it converts the offer
// into an order, rejects its siblings and closes the request.
func (h *RequestHandler) HandleAcceptOffer(c *fiber.Ctx) error {
	orderID, err := h.offerService.Accept(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error accepting offer %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not accept offer", err)
	}
	return c.JSON(fiber.Map{
		"new_order_id": orderID,
	})
}
