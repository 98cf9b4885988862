package handlers

import (
	"log"

	"unimarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders: checkout, the lifecycle
// transition endpoints and the order conversation.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout/:listingId", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Delete("/:id", h.HandleCancelOrder)
	orderRoutes.Get("/:id/actions", h.HandleGetAllowedActions)
	orderRoutes.Get("/:id/requirements", h.HandleGetRequirements)
	orderRoutes.Post("/:id/requirements", h.HandleSubmitRequirements)
	orderRoutes.Post("/:id/deliver", h.HandleDeliverOrder)
	orderRoutes.Post("/:id/complete", h.HandleCompleteOrder)
	orderRoutes.Post("/:id/revision", h.HandleRequestRevision)
	orderRoutes.Get("/:id/messages", h.HandleGetMessages)
	orderRoutes.Post("/:id/messages", h.HandleSendMessage)
}

// HandleCheckout creates an order for a direct listing purchase.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(c.Params("listingId"), callerID(c))
	if err != nil {
		log.Printf("Error during checkout for listing %s: %v", c.Params("listingId"), err)
		return errorJSON(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders the caller participates in.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(callerID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return errorJSON(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order, participants only.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error getting order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleGetAllowedActions reports which lifecycle actions the caller may
// currently perform on the order.
func (h *OrderHandler) HandleGetAllowedActions(c *fiber.Ctx) error {
	actions, err := h.service.AllowedActions(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error getting allowed actions for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve allowed actions", err)
	}
	return c.JSON(fiber.Map{"actions": actions})
}

// HandleGetRequirements retrieves the buyer's brief for an order.
func (h *OrderHandler) HandleGetRequirements(c *fiber.Ctx) error {
	requirements, err := h.service.GetRequirements(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error getting requirements for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve requirements", err)
	}
	return c.JSON(requirements)
}

// SubmitRequirementsRequest is the request body for submitting requirements.
type SubmitRequirementsRequest struct {
	RequirementsText string `json:"requirements_text"`
}

// HandleSubmitRequirements records the buyer's brief and starts the work.
func (h *OrderHandler) HandleSubmitRequirements(c *fiber.Ctx) error {
	var req SubmitRequirementsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing requirements request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.SubmitRequirements(c.Params("id"), callerID(c), req.RequirementsText)
	if err != nil {
		log.Printf("Error submitting requirements for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not submit requirements", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder removes an order that has not started yet.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	if err := h.service.Cancel(c.Params("id"), callerID(c)); err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not cancel order", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
	})
}

// HandleDeliverOrder marks the seller's work as delivered.
func (h *OrderHandler) HandleDeliverOrder(c *fiber.Ctx) error {
	order, err := h.service.Deliver(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error delivering order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not deliver order", err)
	}
	return c.JSON(order)
}

// HandleCompleteOrder records the buyer's acceptance of the delivery and
// points the buyer at the review flow.
func (h *OrderHandler) HandleCompleteOrder(c *fiber.Ctx) error {
	order, err := h.service.Complete(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error completing order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not complete order", err)
	}
	return c.JSON(fiber.Map{
		"order":       order,
		"review_path": "/api/v1/orders/" + order.ID + "/review",
	})
}

// RevisionRequest is the request body for requesting a revision.
type RevisionRequest struct {
	Comment string `json:"comment"`
}

// HandleRequestRevision sends a delivered order back to the seller.
func (h *OrderHandler) HandleRequestRevision(c *fiber.Ctx) error {
	var req RevisionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing revision request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.RequestRevision(c.Params("id"), callerID(c), req.Comment)
	if err != nil {
		log.Printf("Error requesting revision for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not request revision", err)
	}
	return c.JSON(order)
}

// HandleGetMessages retrieves the order conversation.
func (h *OrderHandler) HandleGetMessages(c *fiber.Ctx) error {
	messages, err := h.service.ListMessages(c.Params("id"), callerID(c))
	if err != nil {
		log.Printf("Error getting messages for order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve messages", err)
	}
	return c.JSON(messages)
}

// SendMessageRequest is the request body for a chat message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// HandleSendMessage appends a chat message to the order conversation.
func (h *OrderHandler) HandleSendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing message request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	message, err := h.service.SendMessage(c.Params("id"), callerID(c), req.Text)
	if err != nil {
		log.Printf("Error sending message on order %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not send message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
