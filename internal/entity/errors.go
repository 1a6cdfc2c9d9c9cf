package entity

import "errors"

var (
	ErrCustomerNotFound   = errors.New("Customer not found")
	ErrLeadNotFound       = errors.New("Lead not found")
	ErrUserNotFound       = errors.New("User not found")
	ErrEmailAlreadyExists = errors.New("User with this email already exists")
)
