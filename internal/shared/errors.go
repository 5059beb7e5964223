package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrInvalidToken = fmt.Errorf("invalid client token")

	// Session and proxy errors
	ErrNotConnected = fmt.Errorf("no browser session available")
	ErrUpstream     = fmt.Errorf("upstream request failed")
	ErrPersistence  = fmt.Errorf("persistence failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
