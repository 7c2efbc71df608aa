package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrInvalidDueDate  = errors.New("due date must be in the future")
	ErrAlreadyReturned = errors.New("borrowing is already closed")
	ErrNotBorrowed     = errors.New("book is not borrowed")
	ErrAlreadyReserved = errors.New("book already has an active reservation")
	ErrAlreadyReviewed = errors.New("review already exists for this book")
	ErrDuplicate       = errors.New("record already exists")
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrForbidden       = errors.New("forbidden")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
