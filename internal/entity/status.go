package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

// UserStatus is the account lifecycle state. It only ever moves forward.
type UserStatus string

const (
	UserStatusPending UserStatus = "PENDING"
	UserStatusPaid    UserStatus = "PAID"
	UserStatusActive  UserStatus = "ACTIVE"
)

var allowedStatusTransitions = map[UserStatus][]UserStatus{
	UserStatusPending: {UserStatusPaid},
	UserStatusPaid:    {UserStatusActive},
	UserStatusActive:  {},
}

func ParseUserStatus(value string) (UserStatus, error) {
	status := UserStatus(value)
	if value == "UNPAID" {
		status = UserStatusPending
	}
	if _, ok := allowedStatusTransitions[status]; !ok {
		return "", fmt.Errorf("unknown user status %q", value)
	}
	return status, nil
}

func (s UserStatus) Valid() bool {
	_, ok := allowedStatusTransitions[s]
	return ok
}

func (s UserStatus) CanTransition(to UserStatus) bool {
	for _, next := range allowedStatusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns the next status or ErrInvalidStatusTransition.
func (s UserStatus) Transition(to UserStatus) (UserStatus, error) {
	if !s.CanTransition(to) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, to)
	}
	return to, nil
}
