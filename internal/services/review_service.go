package services

import (
	"fmt"

	"unimarket/internal/apperrors"
	"unimarket/internal/lifecycle"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
)

// ReviewService handles business logic for reviews on completed orders.
type ReviewService struct {
	repos repositories.Repos
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repos repositories.Repos) *ReviewService {
	return &ReviewService{
		repos: repos,
	}
}

// SubmitReview records the buyer's feedback on a completed order. The review
// carries the order's origin so ratings can be aggregated per listing or per
// fulfilled request.
func (s *ReviewService) SubmitReview(orderID, reviewerID string, rating float64, comment string) (*models.Review, error) {
	if reviewerID == "" {
		return nil, fmt.Errorf("submit review: %w", apperrors.ErrUnauthenticated)
	}
	if rating < 0.5 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 0.5 and 5: %w", apperrors.ErrValidation)
	}

	order, err := s.repos.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != reviewerID {
		return nil, fmt.Errorf("only the buyer may review order %s: %w", orderID, apperrors.ErrUnauthorized)
	}
	if order.Status != lifecycle.StatusCompleted {
		return nil, fmt.Errorf("order %s is %s, not completed: %w", orderID, order.Status, apperrors.ErrInvalidTransition)
	}
	if _, err := s.repos.Reviews.GetByOrder(orderID); err == nil {
		return nil, fmt.Errorf("order %s already has a review: %w", orderID, apperrors.ErrConflict)
	}

	review := &models.Review{
		OrderID:    order.ID,
		ListingID:  order.ListingID,
		RequestID:  order.RequestID,
		ReviewerID: reviewerID,
		SellerID:   order.SellerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repos.Reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListSellerReviews retrieves all reviews received by a seller.
func (s *ReviewService) ListSellerReviews(sellerID string) ([]models.Review, error) {
	return s.repos.Reviews.ListBySeller(sellerID)
}
