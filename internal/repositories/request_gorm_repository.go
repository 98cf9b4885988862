package repositories

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRequestRepository is a GORM implementation of RequestRepository.
type GORMRequestRepository struct {
	db *gorm.DB
}

// NewGORMRequestRepository creates a new instance of GORMRequestRepository.
func NewGORMRequestRepository(db *gorm.DB) *GORMRequestRepository {
	return &GORMRequestRepository{
		db: db,
	}
}

// ListOpen retrieves all requests still accepting offers.
func (r *GORMRequestRepository) ListOpen() ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.Where("status = ?", models.RequestOpen).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}
	return requests, nil
}

// ListByOwner retrieves all requests posted by the given user.
func (r *GORMRequestRepository) ListByOwner(ownerID string) ([]models.Request, error) {
	var requests []models.Request
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests for owner %s: %w", ownerID, err)
	}
	return requests, nil
}

// GetByID retrieves a single request by its ID.
func (r *GORMRequestRepository) GetByID(id string) (*models.Request, error) {
	var request models.Request
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("request with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request by ID %s: %w", id, err)
	}
	return &request, nil
}

// Create creates a new request in the database.
func (r *GORMRequestRepository) Create(request *models.Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.Status == "" {
		request.Status = models.RequestOpen
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// Update updates an existing request in the database.
func (r *GORMRequestRepository) Update(request *models.Request) error {
	res := r.db.Save(request)
	if res.Error != nil {
		return fmt.Errorf("failed to update request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request with ID %s: %w", request.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a request by its ID from the database.
func (r *GORMRequestRepository) Delete(id string) error {
	res := r.db.Delete(&models.Request{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("request with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// CloseIfOpen performs the conditional status flip that guards the acceptance
// transaction against concurrent accepts on the same request.
func (r *GORMRequestRepository) CloseIfOpen(id string) (bool, error) {
	res := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestOpen).
		Update("status", models.RequestClosed)
	if res.Error != nil {
		return false, fmt.Errorf("failed to close request %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
