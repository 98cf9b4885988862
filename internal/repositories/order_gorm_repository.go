package repositories

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/lifecycle"
	"unimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser retrieves all orders where the user is buyer or seller.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatusFrom performs the conditional status flip used by every
// lifecycle transition.
func (r *GORMOrderRepository) UpdateStatusFrom(id string, from, to lifecycle.Status) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update order %s status: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the order row. Orders have no soft delete: a cancelled
// order ceases to exist and later lookups return not found.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// AddRequirements persists the buyer's brief for an order.
func (r *GORMOrderRepository) AddRequirements(requirements *models.OrderRequirements) error {
	if requirements.ID == "" {
		requirements.ID = uuid.New().String()
	}
	if err := r.db.Create(requirements).Error; err != nil {
		return fmt.Errorf("failed to create order requirements: %w", err)
	}
	return nil
}

// GetRequirements retrieves the brief attached to an order.
func (r *GORMOrderRepository) GetRequirements(orderID string) (*models.OrderRequirements, error) {
	var requirements models.OrderRequirements
	if err := r.db.First(&requirements, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("requirements for order %s: %w", orderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get requirements for order %s: %w", orderID, err)
	}
	return &requirements, nil
}
