package models

import "errors"

var (
	// ErrAuthenticationFailed is returned when no roster entry matches the credentials
	ErrAuthenticationFailed = errors.New("invalid username or password")
	// ErrPermissionDenied is returned when the acting role may not perform an action
	ErrPermissionDenied = errors.New("forbidden")
	// ErrNotLoggedIn is returned for actions that need a logged-in session
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnknownPage is returned when navigating to a page outside the menu
	ErrUnknownPage = errors.New("unknown page")
)
