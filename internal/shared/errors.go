package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Entity lookup errors
	ErrUserNotFound           = fmt.Errorf("user not found")
	ErrTrackNotFound          = fmt.Errorf("track not found")
	ErrRecommendationNotFound = fmt.Errorf("recommendation not found")

	// Persistence errors
	ErrPersistence = fmt.Errorf("persistence failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
