package repositories

import (
	"unimarket/internal/models"
)

// RequestRepository defines the interface for job request data access.
type RequestRepository interface {
	ListOpen() ([]models.Request, error)
	ListByOwner(ownerID string) ([]models.Request, error)
	GetByID(id string) (*models.Request, error)
	Create(request *models.Request) error
	Update(request *models.Request) error
	Delete(id string) error
	// CloseIfOpen flips the request to closed only if it is still open and
	// reports whether a row was affected. The caller treats false as a lost
	// race with a concurrent acceptance.
	CloseIfOpen(id string) (bool, error)
}
