package repositories

import (
	"unimarket/internal/models"
)

// ListingRepository defines the interface for service listing data access.
type ListingRepository interface {
	GetAll() ([]models.Listing, error)
	GetByID(id string) (*models.Listing, error)
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id string) error
}
