package models

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"unimarket/internal/lifecycle"
)

// OriginKind discriminates how an order came to exist.
type OriginKind string

const (
	// OriginListing: the buyer purchased a listed service directly.
	OriginListing OriginKind = "listing"
	// OriginRequest: the order resulted from an accepted offer on a request.
	OriginRequest OriginKind = "request"
)

// Origin is the tagged-union view of an order's provenance: exactly one
// listing or one request, never both.
type Origin struct {
	Kind OriginKind `json:"kind"`
	ID   string     `json:"id"`
}

// ErrAmbiguousOrigin is returned when an order does not reference exactly one
// of a listing or a request.
var ErrAmbiguousOrigin = errors.New("order must reference exactly one of listing or request")

// Order is one buyer purchasing one unit of work from one seller. The two
// nullable foreign keys back the Origin union; BeforeSave keeps the
// exactly-one invariant out of reach of call sites.
type Order struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID   string           `json:"buyer_id" gorm:"index;type:varchar(36)"`
	SellerID  string           `json:"seller_id" gorm:"index;type:varchar(36)"`
	ListingID *string          `json:"listing_id,omitempty" gorm:"index;type:varchar(36)"`
	RequestID *string          `json:"request_id,omitempty" gorm:"index;type:varchar(36)"`
	Amount    float64          `json:"amount"`
	Status    lifecycle.Status `json:"status" gorm:"type:varchar(32)"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewListingOrder builds an order for a direct service purchase.
func NewListingOrder(listingID, buyerID, sellerID string, amount float64) *Order {
	return &Order{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ListingID: &listingID,
		Amount:    amount,
		Status:    lifecycle.StatusAwaitingRequirements,
	}
}

// NewRequestOrder builds an order for an accepted offer on a request.
func NewRequestOrder(requestID, buyerID, sellerID string, amount float64) *Order {
	return &Order{
		BuyerID:   buyerID,
		SellerID:  sellerID,
		RequestID: &requestID,
		Amount:    amount,
		Status:    lifecycle.StatusAwaitingRequirements,
	}
}

// Origin returns the tagged provenance of the order.
func (o *Order) Origin() (Origin, error) {
	switch {
	case o.ListingID != nil && o.RequestID == nil:
		return Origin{Kind: OriginListing, ID: *o.ListingID}, nil
	case o.RequestID != nil && o.ListingID == nil:
		return Origin{Kind: OriginRequest, ID: *o.RequestID}, nil
	default:
		return Origin{}, ErrAmbiguousOrigin
	}
}

// RoleOf returns the lifecycle role the given user plays on this order, or
// false if they are not a participant.
func (o *Order) RoleOf(userID string) (lifecycle.Role, bool) {
	switch userID {
	case o.BuyerID:
		return lifecycle.RoleBuyer, true
	case o.SellerID:
		return lifecycle.RoleSeller, true
	default:
		return "", false
	}
}

// BeforeSave enforces the origin invariant at the persistence boundary.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if _, err := o.Origin(); err != nil {
		return err
	}
	return nil
}

// OrderRequirements is the buyer-authored brief for an order, written in the
// same transaction that moves the order out of awaiting_requirements.
type OrderRequirements struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID          string    `json:"order_id" gorm:"index;type:varchar(36)"`
	RequirementsText string    `json:"requirements_text" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
}
