package services

import (
	"fmt"
	"strings"

	"unimarket/internal/apperrors"
	"unimarket/internal/lifecycle"
	"unimarket/internal/models"
	"unimarket/internal/repositories"
)

// OrderService handles business logic for orders: direct checkout, the
// lifecycle transitions and the order conversation. Every transition consults
// the lifecycle package for validity and actor, runs inside a transaction and
// flips the status conditionally, so a lost race surfaces as a Conflict
// instead of a silent overwrite.
type OrderService struct {
	repos  repositories.Repos
	tx     repositories.TxManager
	events EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(repos repositories.Repos, tx repositories.TxManager, events EventPublisher) *OrderService {
	return &OrderService{
		repos:  repos,
		tx:     tx,
		events: events,
	}
}

// Checkout creates an order for a direct listing purchase.
func (s *OrderService) Checkout(listingID, buyerID string) (*models.Order, error) {
	if buyerID == "" {
		return nil, fmt.Errorf("checkout: %w", apperrors.ErrUnauthenticated)
	}
	listing, err := s.repos.Listings.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("cannot purchase your own listing: %w", apperrors.ErrValidation)
	}

	order := models.NewListingOrder(listing.ID, buyerID, listing.SellerID, listing.Price)
	if err := s.repos.Orders.Create(order); err != nil {
		return nil, err
	}

	publishEvent(s.events, "order.created", map[string]interface{}{
		"orderID":  order.ID,
		"buyerID":  order.BuyerID,
		"sellerID": order.SellerID,
		"amount":   order.Amount,
		"status":   order.Status,
	})
	return order, nil
}

// GetOrder retrieves an order for one of its participants.
func (s *OrderService) GetOrder(orderID, callerID string) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if _, ok := order.RoleOf(callerID); !ok {
		return nil, fmt.Errorf("user %s is not a participant of order %s: %w", callerID, orderID, apperrors.ErrUnauthorized)
	}
	return order, nil
}

// ListOrders retrieves all orders the user participates in, as buyer or
// seller.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	return s.repos.Orders.ListByUser(userID)
}

// GetRequirements returns the buyer's brief for an order, participants only.
func (s *OrderService) GetRequirements(orderID, callerID string) (*models.OrderRequirements, error) {
	if _, err := s.GetOrder(orderID, callerID); err != nil {
		return nil, err
	}
	return s.repos.Orders.GetRequirements(orderID)
}

// AllowedActions reports which lifecycle actions the caller may currently
// perform on the order. Display surfaces use this instead of re-deriving
// branching from raw status strings.
func (s *OrderService) AllowedActions(orderID, callerID string) ([]lifecycle.Action, error) {
	order, err := s.GetOrder(orderID, callerID)
	if err != nil {
		return nil, err
	}
	role, _ := order.RoleOf(callerID)
	return lifecycle.AllowedActions(order.Status, role), nil
}

// transition is the shared skeleton of every lifecycle action: load the
// order, check the actor, consult the transition table, run the action's side
// effects and conditionally flip the status, all in one transaction.
func (s *OrderService) transition(orderID, actorID string, action lifecycle.Action, sideEffects func(r repositories.Repos, order *models.Order) error) (*models.Order, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%s: %w", action, apperrors.ErrUnauthenticated)
	}
	var updated *models.Order
	err := s.tx.InTx(func(r repositories.Repos) error {
		order, err := r.Orders.GetByID(orderID)
		if err != nil {
			return err
		}
		role, ok := order.RoleOf(actorID)
		if !ok || role != lifecycle.ActorFor(action) {
			return fmt.Errorf("user %s may not %s order %s: %w", actorID, action, orderID, apperrors.ErrUnauthorized)
		}
		next, err := lifecycle.Next(order.Status, action)
		if err != nil {
			return fmt.Errorf("%v: %w", err, apperrors.ErrInvalidTransition)
		}

		if sideEffects != nil {
			if err := sideEffects(r, order); err != nil {
				return err
			}
		}

		if action == lifecycle.ActionCancel {
			if err := r.Orders.Delete(order.ID); err != nil {
				return err
			}
			updated = order
			return nil
		}

		moved, err := r.Orders.UpdateStatusFrom(order.ID, order.Status, next)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("order %s was modified concurrently: %w", order.ID, apperrors.ErrConflict)
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SubmitRequirements records the buyer's brief and moves the order to
// in_progress. The requirements row and the status flip commit together:
// there is no observable state with one but not the other.
func (s *OrderService) SubmitRequirements(orderID, actorID, requirementsText string) (*models.Order, error) {
	if strings.TrimSpace(requirementsText) == "" {
		return nil, fmt.Errorf("requirements text is required: %w", apperrors.ErrValidation)
	}
	order, err := s.transition(orderID, actorID, lifecycle.ActionSubmitRequirements, func(r repositories.Repos, order *models.Order) error {
		return r.Orders.AddRequirements(&models.OrderRequirements{
			OrderID:          order.ID,
			RequirementsText: requirementsText,
		})
	})
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, "order.started", s.eventPayload(order))
	return order, nil
}

// Cancel removes an order that has not started yet. Only the buyer may
// cancel, and only while the order still awaits requirements; any other
// state is an invalid transition.
func (s *OrderService) Cancel(orderID, actorID string) error {
	order, err := s.transition(orderID, actorID, lifecycle.ActionCancel, nil)
	if err != nil {
		return err
	}
	publishEvent(s.events, "order.cancelled", s.eventPayload(order))
	return nil
}

// Deliver marks the seller's work as delivered and appends the delivery
// event to the conversation. The event text distinguishes a first delivery
// from a revised one.
func (s *OrderService) Deliver(orderID, actorID string) (*models.Order, error) {
	order, err := s.transition(orderID, actorID, lifecycle.ActionDeliver, func(r repositories.Repos, order *models.Order) error {
		text := "The seller has delivered the order."
		if order.Status == lifecycle.StatusInRevision {
			text = "The seller has delivered the revised work."
		}
		return r.Messages.Create(&models.Message{
			OrderID:  order.ID,
			SenderID: actorID,
			Text:     text,
			Kind:     models.MessageEventDelivered,
		})
	})
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, "order.delivered", s.eventPayload(order))
	return order, nil
}

// Complete records the buyer's acceptance of the delivery. The caller is
// expected to direct the buyer into the review flow afterwards.
func (s *OrderService) Complete(orderID, actorID string) (*models.Order, error) {
	order, err := s.transition(orderID, actorID, lifecycle.ActionComplete, func(r repositories.Repos, order *models.Order) error {
		return r.Messages.Create(&models.Message{
			OrderID:  order.ID,
			SenderID: actorID,
			Text:     "The buyer has accepted the delivery and completed this order.",
			Kind:     models.MessageEventCompleted,
		})
	})
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, "order.completed", s.eventPayload(order))
	return order, nil
}

// RequestRevision sends a delivered order back to the seller with the
// buyer's comment.
func (s *OrderService) RequestRevision(orderID, actorID, comment string) (*models.Order, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("revision comment is required: %w", apperrors.ErrValidation)
	}
	order, err := s.transition(orderID, actorID, lifecycle.ActionRequestRevision, func(r repositories.Repos, order *models.Order) error {
		return r.Messages.Create(&models.Message{
			OrderID:  order.ID,
			SenderID: actorID,
			Text:     fmt.Sprintf("Revision requested: %q", comment),
			Kind:     models.MessageEventRevision,
		})
	})
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, "order.revision_requested", s.eventPayload(order))
	return order, nil
}

// SendMessage appends a free-text chat message to the order conversation.
func (s *OrderService) SendMessage(orderID, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text is required: %w", apperrors.ErrValidation)
	}
	order, err := s.GetOrder(orderID, senderID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		OrderID:  order.ID,
		SenderID: senderID,
		Text:     text,
		Kind:     models.MessageChat,
	}
	if err := s.repos.Messages.Create(message); err != nil {
		return nil, err
	}

	publishEvent(s.events, "message.sent", map[string]interface{}{
		"orderID":   order.ID,
		"messageID": message.ID,
		"senderID":  senderID,
		"buyerID":   order.BuyerID,
		"sellerID":  order.SellerID,
	})
	return message, nil
}

// ListMessages returns the order conversation in creation order,
// participants only.
func (s *OrderService) ListMessages(orderID, callerID string) ([]models.Message, error) {
	if _, err := s.GetOrder(orderID, callerID); err != nil {
		return nil, err
	}
	return s.repos.Messages.ListByOrder(orderID)
}

func (s *OrderService) eventPayload(order *models.Order) map[string]interface{} {
	return map[string]interface{}{
		"orderID":  order.ID,
		"buyerID":  order.BuyerID,
		"sellerID": order.SellerID,
		"status":   order.Status,
	}
}
