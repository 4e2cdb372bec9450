package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrEntryNotFound indicates the entry is not in the local snapshot
	ErrEntryNotFound = errors.New("entry not found")

	// ErrDuplicateEntry indicates the backend refused to save a catalog game
	// because it is already in the user's list
	ErrDuplicateEntry = errors.New("game already in list")

	// ErrInvalidStatus indicates an unknown status value
	ErrInvalidStatus = errors.New("invalid status")

	// ErrServerOffline indicates the backlog service is unreachable
	ErrServerOffline = errors.New("backlog service is unreachable")

	// ErrAuthFailed indicates the bearer token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrUnauthenticated indicates no bearer token is available, so no request was attempted
	ErrUnauthenticated = errors.New("not signed in")

	// ErrInvalidCredentials indicates the login or register call was refused
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingCredentials indicates an empty username or password
	ErrMissingCredentials = errors.New("username and password are required")
)
