package statemachine

import (
	"errors"

	"car-rental-api/models"
)

// Actor names the party performing a transition.
const (
	ActorDealer = "dealer"
	ActorUser   = "user"
	ActorAdmin  = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.RentalStatus
	To    models.RentalStatus
	Actor string
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Dealer decides on a pending request
	{From: models.RentalPending, To: models.RentalApproved, Actor: ActorDealer},
	{From: models.RentalPending, To: models.RentalRejected, Actor: ActorDealer},
	// Dealer marks an approved rental finished
	{From: models.RentalApproved, To: models.RentalCompleted, Actor: ActorDealer},
	// User may cancel while pending or approved
	{From: models.RentalPending, To: models.RentalCancelled, Actor: ActorUser},
	{From: models.RentalApproved, To: models.RentalCancelled, Actor: ActorUser},
}

// availabilityAfter maps a rental status to the car availability it implies.
// Rejection, completion and cancellation all release the car so it becomes
// bookable again.
var availabilityAfter = map[models.RentalStatus]models.Availability{
	models.RentalPending:   models.CarUnavailable,
	models.RentalApproved:  models.CarRented,
	models.RentalRejected:  models.CarAvailable,
	models.RentalCompleted: models.CarAvailable,
	models.RentalCancelled: models.CarAvailable,
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.RentalStatus
	To    models.RentalStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RentalStatus) []models.RentalStatus {
	var nexts []models.RentalStatus
	seen := map[models.RentalStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.RentalStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.RentalStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

// AvailabilityAfter returns the car availability implied by a rental reaching
// the given status, and whether the status carries an availability side effect.
func AvailabilityAfter(status models.RentalStatus) (models.Availability, bool) {
	a, ok := availabilityAfter[status]
	return a, ok
}

func describeValidFrom(status models.RentalStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
