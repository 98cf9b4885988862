package repositories

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Create creates a new review in the database.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByOrder retrieves the review left on an order, if any.
func (r *GORMReviewRepository) GetByOrder(orderID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "order_id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review for order %s: %w", orderID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review for order %s: %w", orderID, err)
	}
	return &review, nil
}

// ListBySeller retrieves all reviews received by a seller, newest first.
func (r *GORMReviewRepository) ListBySeller(sellerID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews for seller %s: %w", sellerID, err)
	}
	return reviews, nil
}
