package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound = errors.New("event not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidInput  = errors.New("invalid input")
)
