package repositories

import (
	"unimarket/internal/models"
)

// MessageRepository defines the interface for order conversation data access.
// Messages are append-only; there is no update or delete.
type MessageRepository interface {
	Create(message *models.Message) error
	ListByOrder(orderID string) ([]models.Message, error)
}
