package models

import "time"

// OfferStatus is the state of a provider's bid.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Offer is a provider's bid against a request: a proposed price and a
// description of what they will deliver for it. Offers are created by
// prospective providers and mutated only by the acceptance transaction.
type Offer struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RequestID   string      `json:"request_id" gorm:"index;type:varchar(36)" validate:"required"`
	ProviderID  string      `json:"provider_id" gorm:"index;type:varchar(36)" validate:"required"`
	Price       float64     `json:"price" validate:"required,gt=0"`
	Description string      `json:"description" validate:"required,max=2000"`
	Status      OfferStatus `json:"status" gorm:"type:varchar(16);default:'pending'"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
