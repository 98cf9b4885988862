package repositories

import (
	"fmt"

	"unimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create appends a message to an order's conversation.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Kind == "" {
		message.Kind = models.MessageChat
	}
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByOrder retrieves an order's conversation in creation order.
func (r *GORMMessageRepository) ListByOrder(orderID string) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages for order %s: %w", orderID, err)
	}
	return messages, nil
}
