package models

import "time"

// Review is the buyer's feedback on a completed order, one per order. The
// listing/request reference mirrors the order's origin so profile pages can
// aggregate ratings per listing or per fulfilled request.
type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string    `json:"order_id" gorm:"uniqueIndex;type:varchar(36)"`
	ListingID  *string   `json:"listing_id,omitempty" gorm:"index;type:varchar(36)"`
	RequestID  *string   `json:"request_id,omitempty" gorm:"index;type:varchar(36)"`
	ReviewerID string    `json:"reviewer_id" gorm:"index;type:varchar(36)"`
	SellerID   string    `json:"seller_id" gorm:"index;type:varchar(36)"`
	Rating     float64   `json:"rating" validate:"required,gte=0.5,lte=5"`
	Comment    string    `json:"comment" validate:"omitempty,max=2000"`
	CreatedAt  time.Time `json:"created_at"`
}
