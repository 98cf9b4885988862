package services

import (
	"fmt"
	"strings"

	"unimarket/internal/apperrors"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
)

// OfferService handles business logic for offers on job requests, including
// the acceptance transaction that converts an offer into an order.
type OfferService struct {
	repos  repositories.Repos
	tx     repositories.TxManager
	events EventPublisher
}

// NewOfferService creates a new OfferService.
func NewOfferService(repos repositories.Repos, tx repositories.TxManager, events EventPublisher) *OfferService {
	return &OfferService{
		repos:  repos,
		tx:     tx,
		events: events,
	}
}

// MakeOffer submits a provider's bid against an open request.
func (s *OfferService) MakeOffer(requestID, providerID string, price float64, description string) (*models.Offer, error) {
	if providerID == "" {
		return nil, fmt.Errorf("make offer: %w", apperrors.ErrUnauthenticated)
	}
	if price <= 0 {
		return nil, fmt.Errorf("offer price must be positive: %w", apperrors.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("offer description is required: %w", apperrors.ErrValidation)
	}

	request, err := s.repos.Requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestOpen {
		return nil, fmt.Errorf("request %s is %s: %w", request.ID, request.Status, apperrors.ErrInvalidTransition)
	}
	if request.OwnerID == providerID {
		return nil, fmt.Errorf("cannot make an offer on your own request: %w", apperrors.ErrValidation)
	}

	offer := &models.Offer{
		RequestID:   requestID,
		ProviderID:  providerID,
		Price:       price,
		Description: description,
		Status:      models.OfferPending,
	}
	if err := s.repos.Offers.Create(offer); err != nil {
		return nil, err
	}

	publishEvent(s.events, "offer.created", map[string]interface{}{
		"offerID":    offer.ID,
		"requestID":  requestID,
		"providerID": providerID,
		"ownerID":    request.OwnerID,
		"price":      price,
	})
	return offer, nil
}

// ListOffers returns the offers on a request. Only the request owner may see
// them.
func (s *OfferService) ListOffers(requestID, callerID string) ([]models.Offer, error) {
	request, err := s.repos.Requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.OwnerID != callerID {
		return nil, fmt.Errorf("only the request owner may view its offers: %w", apperrors.ErrUnauthorized)
	}
	return s.repos.Offers.ListByRequest(requestID)
}

// Accept converts one pending offer on an open request into an order. In a
// single transaction it creates the order, marks the offer accepted, rejects
// every pending sibling offer and closes the request. The conditional status
// flips guarantee that two concurrent accepts on the same request commit at
// most once: the loser sees zero rows affected and the whole invocation rolls
// back with a Conflict.
func (s *OfferService) Accept(offerID, callerID string) (string, error) {
	if callerID == "" {
		return "", fmt.Errorf("accept offer: %w", apperrors.ErrUnauthenticated)
	}

	var (
		orderID  string
		buyerID  string
		sellerID string
		amount   float64
	)
	err := s.tx.InTx(func(r repositories.Repos) error {
		offer, err := r.Offers.GetByID(offerID)
		if err != nil {
			return err
		}
		request, err := r.Requests.GetByID(offer.RequestID)
		if err != nil {
			return err
		}
		if request.OwnerID != callerID {
			return fmt.Errorf("only the request owner may accept an offer: %w", apperrors.ErrUnauthorized)
		}
		if offer.Status != models.OfferPending {
			return fmt.Errorf("offer %s is already %s: %w", offer.ID, offer.Status, apperrors.ErrInvalidTransition)
		}
		if request.Status != models.RequestOpen {
			return fmt.Errorf("request %s is already %s: %w", request.ID, request.Status, apperrors.ErrInvalidTransition)
		}

		order := models.NewRequestOrder(request.ID, request.OwnerID, offer.ProviderID, offer.Price)
		if err := r.Orders.Create(order); err != nil {
			return err
		}

		accepted, err := r.Offers.AcceptIfPending(offer.ID)
		if err != nil {
			return err
		}
		if !accepted {
			return fmt.Errorf("offer %s was accepted concurrently: %w", offer.ID, apperrors.ErrConflict)
		}
		if err := r.Offers.RejectPendingByRequest(request.ID, offer.ID); err != nil {
			return err
		}

		closed, err := r.Requests.CloseIfOpen(request.ID)
		if err != nil {
			return err
		}
		if !closed {
			return fmt.Errorf("request %s was closed concurrently: %w", request.ID, apperrors.ErrConflict)
		}

		orderID = order.ID
		buyerID = order.BuyerID
		sellerID = order.SellerID
		amount = order.Amount
		return nil
	})
	if err != nil {
		return "", err
	}

	publishEvent(s.events, "offer.accepted", map[string]interface{}{
		"offerID":  offerID,
		"orderID":  orderID,
		"buyerID":  buyerID,
		"sellerID": sellerID,
		"amount":   amount,
	})
	return orderID, nil
}
