package service

import "errors"

// Validation and lookup failures
var (
	ErrValidation           = errors.New("invalid request")
	ErrUserNotFound         = errors.New("user not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrTopupNotFound        = errors.New("top-up request not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Business rule failures
var (
	ErrWalletMissing       = errors.New("wallet does not exist")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTopupProcessed      = errors.New("this top-up request has already been processed")
	ErrLastAdmin           = errors.New("cannot remove the last admin user")
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// IsNotFound reports whether err is one of the lookup failures
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTopupNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
