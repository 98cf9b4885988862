package repositories

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOfferRepository is a GORM implementation of OfferRepository.
type GORMOfferRepository struct {
	db *gorm.DB
}

// NewGORMOfferRepository creates a new instance of GORMOfferRepository.
func NewGORMOfferRepository(db *gorm.DB) *GORMOfferRepository {
	return &GORMOfferRepository{
		db: db,
	}
}

// GetByID retrieves a single offer by its ID.
func (r *GORMOfferRepository) GetByID(id string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.First(&offer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("offer with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get offer by ID %s: %w", id, err)
	}
	return &offer, nil
}

// ListByRequest retrieves all offers made against a request, newest first.
func (r *GORMOfferRepository) ListByRequest(requestID string) ([]models.Offer, error) {
	var offers []models.Offer
	if err := r.db.Where("request_id = ?", requestID).Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers for request %s: %w", requestID, err)
	}
	return offers, nil
}

// Create creates a new offer in the database.
func (r *GORMOfferRepository) Create(offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.Status == "" {
		offer.Status = models.OfferPending
	}
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// AcceptIfPending performs the conditional flip to accepted, guarding against
// a double accept of the same offer.
func (r *GORMOfferRepository) AcceptIfPending(id string) (bool, error) {
	res := r.db.Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, models.OfferPending).
		Update("status", models.OfferAccepted)
	if res.Error != nil {
		return false, fmt.Errorf("failed to accept offer %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RejectPendingByRequest rejects every pending sibling offer on the request.
func (r *GORMOfferRepository) RejectPendingByRequest(requestID, exceptOfferID string) error {
	res := r.db.Model(&models.Offer{}).
		Where("request_id = ? AND id <> ? AND status = ?", requestID, exceptOfferID, models.OfferPending).
		Update("status", models.OfferRejected)
	if res.Error != nil {
		return fmt.Errorf("failed to reject sibling offers for request %s: %w", requestID, res.Error)
	}
	return nil
}
