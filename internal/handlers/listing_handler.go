package handlers

import (
	"fmt"
	"log"

	"unimarket/internal/models"
	"unimarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for service listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the listing routes with the Fiber app.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleGetListings)
	listingRoutes.Get("/:id", h.HandleGetListingByID)
	listingRoutes.Post("/", h.HandleCreateListing)
	listingRoutes.Put("/:id", h.HandleUpdateListing)
	listingRoutes.Delete("/:id", h.HandleDeleteListing)
}

// HandleGetListings retrieves all listings.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	listings, err := h.service.GetAllListings()
	if err != nil {
		log.Printf("Error getting all listings: %v", err)
		return errorJSON(c, "Could not retrieve listings", err)
	}
	return c.JSON(listings)
}

// HandleGetListingByID retrieves a single listing by its ID.
func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	listing, err := h.service.GetListingByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting listing by ID %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve listing", err)
	}
	return c.JSON(listing)
}

// HandleCreateListing creates a new listing owned by the caller.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var listing models.Listing
	if err := c.BodyParser(&listing); err != nil {
		log.Printf("Error parsing listing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	listing.SellerID = callerID(c)
	if err := h.validate.Struct(listing); err != nil {
		return validationErrorJSON(c, err)
	}

	if err := h.service.CreateListing(&listing, callerID(c)); err != nil {
		log.Printf("Error creating listing: %v", err)
		return errorJSON(c, "Could not create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing updates an existing listing, owner only.
func (h *ListingHandler) HandleUpdateListing(c *fiber.Ctx) error {
	var listing models.Listing
	if err := c.BodyParser(&listing); err != nil {
		log.Printf("Error parsing listing request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	listing.ID = c.Params("id")
	listing.SellerID = callerID(c)
	if err := h.validate.Struct(listing); err != nil {
		return validationErrorJSON(c, err)
	}

	if err := h.service.UpdateListing(&listing, callerID(c)); err != nil {
		log.Printf("Error updating listing %s: %v", listing.ID, err)
		return errorJSON(c, "Could not update listing", err)
	}
	return c.JSON(listing)
}

// HandleDeleteListing deletes a listing, owner only.
func (h *ListingHandler) HandleDeleteListing(c *fiber.Ctx) error {
	if err := h.service.DeleteListing(c.Params("id"), callerID(c)); err != nil {
		log.Printf("Error deleting listing %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not delete listing", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Listing %s deleted successfully", c.Params("id")),
	})
}
