package errors

import "errors"

var (
	ErrNotAdmin       = errors.New("caller does not hold the admin role")
	ErrNotArtist      = errors.New("caller does not hold the artist role")
	ErrInvalidAccount = errors.New("account address is required")
)
