package services

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
)

// RequestService handles business logic for job requests. Closing a request
// is not done here: that happens only inside the offer acceptance
// transaction.
type RequestService struct {
	repo repositories.RequestRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(repo repositories.RequestRepository) *RequestService {
	return &RequestService{
		repo: repo,
	}
}

// ListOpenRequests retrieves all requests still accepting offers.
func (s *RequestService) ListOpenRequests() ([]models.Request, error) {
	return s.repo.ListOpen()
}

// ListMyRequests retrieves the caller's own requests, open and closed.
func (s *RequestService) ListMyRequests(ownerID string) ([]models.Request, error) {
	return s.repo.ListByOwner(ownerID)
}

// GetRequestByID retrieves a single request by its ID.
func (s *RequestService) GetRequestByID(id string) (*models.Request, error) {
	return s.repo.GetByID(id)
}

// CreateRequest creates a new open request owned by the caller.
func (s *RequestService) CreateRequest(request *models.Request, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("create request: %w", apperrors.ErrUnauthenticated)
	}
	request.OwnerID = callerID
	request.Status = models.RequestOpen
	return s.repo.Create(request)
}

// UpdateRequest updates a request. Only the owner may edit it, and only
// while it is still open; a closed request already produced an order.
func (s *RequestService) UpdateRequest(request *models.Request, callerID string) error {
	existing, err := s.repo.GetByID(request.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return fmt.Errorf("only the owner may update request %s: %w", request.ID, apperrors.ErrUnauthorized)
	}
	if existing.Status != models.RequestOpen {
		return fmt.Errorf("request %s is %s: %w", request.ID, existing.Status, apperrors.ErrInvalidTransition)
	}
	request.OwnerID = existing.OwnerID
	request.Status = existing.Status
	request.CreatedAt = existing.CreatedAt
	return s.repo.Update(request)
}

// DeleteRequest removes a request. Only the owner may delete it, and only
// while it is still open.
func (s *RequestService) DeleteRequest(id, callerID string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return fmt.Errorf("only the owner may delete request %s: %w", id, apperrors.ErrUnauthorized)
	}
	if existing.Status != models.RequestOpen {
		return fmt.Errorf("request %s is %s: %w", id, existing.Status, apperrors.ErrInvalidTransition)
	}
	return s.repo.Delete(id)
}
