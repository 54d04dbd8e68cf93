package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturning  OrderStatus = "returning"
	StatusReturned   OrderStatus = "returned"
)

// transitions lists, for each state, the states it may move to.
// Forward moves along pending → processing → shipped → delivered may skip steps.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReturning},
	StatusReturning:  {StatusDelivered, StatusReturned},
	StatusCancelled:  nil,
	StatusReturned:   nil,
}

// ParseOrderStatus validates a raw status value
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// IsTerminal reports whether no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Transition returns next if moving from s to next is legal
func (s OrderStatus) Transition(next OrderStatus) (OrderStatus, error) {
	if _, ok := transitions[next]; !ok {
		return s, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}

// IsCustomerRequest reports whether an order's owner may request s themselves.
// Every other move, including completing a return, belongs to an admin.
func (s OrderStatus) IsCustomerRequest() bool {
	return s == StatusCancelled || s == StatusReturning
}
