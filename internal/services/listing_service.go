package services

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
)

// ListingService handles business logic related to service listings.
type ListingService struct {
	repo repositories.ListingRepository
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository) *ListingService {
	return &ListingService{
		repo: repo,
	}
}

// GetAllListings retrieves all listings.
func (s *ListingService) GetAllListings() ([]models.Listing, error) {
	return s.repo.GetAll()
}

// GetListingByID retrieves a single listing by its ID.
func (s *ListingService) GetListingByID(id string) (*models.Listing, error) {
	return s.repo.GetByID(id)
}

// CreateListing creates a new listing owned by the caller.
func (s *ListingService) CreateListing(listing *models.Listing, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("create listing: %w", apperrors.ErrUnauthenticated)
	}
	listing.SellerID = callerID
	return s.repo.Create(listing)
}

// UpdateListing updates an existing listing. Only the seller who owns it may
// do so.
func (s *ListingService) UpdateListing(listing *models.Listing, callerID string) error {
	existing, err := s.repo.GetByID(listing.ID)
	if err != nil {
		return err
	}
	if existing.SellerID != callerID {
		return fmt.Errorf("only the seller may update listing %s: %w", listing.ID, apperrors.ErrUnauthorized)
	}
	listing.SellerID = existing.SellerID
	listing.CreatedAt = existing.CreatedAt
	return s.repo.Update(listing)
}

// DeleteListing deletes a listing. Only the seller who owns it may do so.
func (s *ListingService) DeleteListing(id, callerID string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.SellerID != callerID {
		return fmt.Errorf("only the seller may delete listing %s: %w", id, apperrors.ErrUnauthorized)
	}
	return s.repo.Delete(id)
}
