package repositories

import (
	"unimarket/internal/models"
)

// OfferRepository defines the interface for offer data access.
type OfferRepository interface {
	GetByID(id string) (*models.Offer, error)
	ListByRequest(requestID string) ([]models.Offer, error)
	Create(offer *models.Offer) error
	// AcceptIfPending marks the offer accepted only if it is still pending
	// and reports whether a row was affected.
	AcceptIfPending(id string) (bool, error)
	// RejectPendingByRequest rejects every still-pending offer on the request
	// except the one being accepted.
	RejectPendingByRequest(requestID, exceptOfferID string) error
}
