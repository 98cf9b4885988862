package models

import "gorm.io/gorm"

// RequestStatus is the state of a job posting.
type RequestStatus string

const (
	RequestOpen   RequestStatus = "open"
	RequestClosed RequestStatus = "closed"
)

// Request is a job posting: a buyer describes work they want done and a
// budget, and providers bid on it with offers. A request closes exactly once,
// when one of its offers is accepted, and never reopens.
type Request struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OwnerID     string        `json:"owner_id" gorm:"index;type:varchar(36)" validate:"required"`
	Title       string        `json:"title" validate:"required,min=3,max=100"`
	Description string        `json:"description" validate:"omitempty,max=2000"`
	Budget      float64       `json:"budget" validate:"required,gt=0"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(16);default:'open'"`
	gorm.Model
}
