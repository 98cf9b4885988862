package repositories

import (
	"unimarket/internal/lifecycle"
	"unimarket/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	// UpdateStatusFrom flips the order's status only if it still has the
	// expected current status, and reports whether a row was affected. A
	// false return means a concurrent transition won the race.
	UpdateStatusFrom(id string, from, to lifecycle.Status) (bool, error)
	// Delete removes the order row entirely (buyer cancellation).
	Delete(id string) error
	AddRequirements(requirements *models.OrderRequirements) error
	GetRequirements(orderID string) (*models.OrderRequirements, error)
}
