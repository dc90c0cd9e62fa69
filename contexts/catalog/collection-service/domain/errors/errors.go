package errors

import "errors"

var (
	ErrUnknownCollection    = errors.New("collection does not exist")
	ErrUnknownItem          = errors.New("item does not exist")
	ErrNotCollectionCreator = errors.New("caller is not the collection creator")
	ErrInvalidName          = errors.New("collection name and symbol are required")
	ErrInvalidURI           = errors.New("item uri is required")
)
