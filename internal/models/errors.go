package models

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrParentCommentNotFound = errors.New("parent comment not found")
)

var (
	ErrAlreadyAttending = errors.New("user is already attending this event")
)

var (
	ErrValidation = errors.New("validation error")
	ErrInvalidID  = fmt.Errorf("%w: invalid id", ErrValidation)
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("only the event creator can modify this event")
)
