package lifecycle

import "fmt"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusAwaitingRequirements Status = "awaiting_requirements"
	StatusInProgress           Status = "in_progress"
	StatusDelivered            Status = "delivered"
	StatusInRevision           Status = "in_revision"
	StatusCompleted            Status = "completed"
)

// Action is a user-triggered transition on an order.
type Action string

const (
	ActionSubmitRequirements Action = "submit_requirements"
	ActionCancel             Action = "cancel"
	ActionDeliver            Action = "deliver"
	ActionComplete           Action = "complete"
	ActionRequestRevision    Action = "request_revision"
)

// Role identifies which party of an order may perform an action.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ErrInvalidTransition is returned when an action is not valid for the
// order's current status.
type ErrInvalidTransition struct {
	From   Status
	Action Action
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("action %q is not valid for status %q", e.Action, e.From)
}

// transitions is the single authoritative table. Cancel maps to no target
// status: the order row is removed instead of moved.
var transitions = map[Status]map[Action]Status{
	StatusAwaitingRequirements: {
		ActionSubmitRequirements: StatusInProgress,
		ActionCancel:             "", // order is deleted, not re-statused
	},
	StatusInProgress: {
		ActionDeliver: StatusDelivered,
	},
	StatusInRevision: {
		ActionDeliver: StatusDelivered,
	},
	StatusDelivered: {
		ActionComplete:        StatusCompleted,
		ActionRequestRevision: StatusInRevision,
	},
	StatusCompleted: {},
}

// actors maps each action to the party allowed to perform it.
var actors = map[Action]Role{
	ActionSubmitRequirements: RoleBuyer,
	ActionCancel:             RoleBuyer,
	ActionDeliver:            RoleSeller,
	ActionComplete:           RoleBuyer,
	ActionRequestRevision:    RoleBuyer,
}

// Valid reports whether s is a known order status.
func Valid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further actions exist for s.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ActorFor returns the role that may perform the given action.
func ActorFor(a Action) Role {
	return actors[a]
}

// Next returns the status an order moves to when action is applied to from.
// It returns ErrInvalidTransition when the pair is not in the table. For
// ActionCancel the returned status is empty: the order ceases to exist.
func Next(from Status, action Action) (Status, error) {
	row, ok := transitions[from]
	if !ok {
		return "", &ErrInvalidTransition{From: from, Action: action}
	}
	to, ok := row[action]
	if !ok {
		return "", &ErrInvalidTransition{From: from, Action: action}
	}
	return to, nil
}

// AllowedActions returns the actions the given role may perform on an order
// in the given status. Call sites use this instead of re-deriving branching
// from raw status strings.
func AllowedActions(s Status, role Role) []Action {
	var out []Action
	for action := range transitions[s] {
		if actors[action] == role {
			out = append(out, action)
		}
	}
	return out
}
