package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is a named, finite failure category. The set is closed: every
// failure surfaced to the presentation layer is exactly one of these.
type ErrorKind string

const (
	KindUsernameTaken       ErrorKind = "USERNAME_TAKEN"
	KindEmailTaken          ErrorKind = "EMAIL_TAKEN"
	KindRequiredFieldsEmpty ErrorKind = "REQUIRED_FIELDS_EMPTY"
	KindInvalidRole         ErrorKind = "INVALID_ROLE"
	KindDeleteFailed        ErrorKind = "DELETE_FAILED"
	KindContactNotFound     ErrorKind = "CONTACT_NOT_FOUND"
	KindClientNotFound      ErrorKind = "CLIENT_NOT_FOUND"
	KindContractNotFound    ErrorKind = "CONTRACT_NOT_FOUND"
	KindEventNotFound       ErrorKind = "EVENT_NOT_FOUND"
	KindInvalidTotalPrice   ErrorKind = "INVALID_TOTAL_PRICE"
	KindInferiorTotalPrice  ErrorKind = "INFERIOR_TOTAL_PRICE"
	KindNegativeRestToPay   ErrorKind = "NEGATIVE_REST_TO_PAY"
	KindEventDateInPast     ErrorKind = "EVENT_DATE_IN_PAST"
	KindEndBeforeStart      ErrorKind = "END_BEFORE_START"
	KindAccessDenied        ErrorKind = "ACCESS_DENIED"
	KindInvalidCredentials  ErrorKind = "INVALID_CREDENTIALS"
	KindDatabaseError       ErrorKind = "DATABASE_ERROR"
)

// Error is the result type carried by every failed operation. It tags the
// failure kind with optional diagnostic context (offending field, record id).
type Error struct {
	Kind  ErrorKind
	Field string
	ID    int64
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s (field %s)", e.Kind, e.Field)
	case e.ID != 0:
		return fmt.Sprintf("%s (id %d)", e.Kind, e.ID)
	}
	return string(e.Kind)
}

// NewError returns a bare Error of the given kind.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// FieldError returns an Error pointing at the offending field.
func FieldError(kind ErrorKind, field string) *Error {
	return &Error{Kind: kind, Field: field}
}

// IDError returns an Error pointing at the missing or offending record.
func IDError(kind ErrorKind, id int64) *Error {
	return &Error{Kind: kind, ID: id}
}

// KindOf extracts the kind from any error. Unclassified errors (driver
// faults, I/O errors) collapse to DATABASE_ERROR.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindDatabaseError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// messages is the single table mapping kinds to user-facing text.
var messages = map[ErrorKind]string{
	KindUsernameTaken:       "This username is already taken.",
	KindEmailTaken:          "This email is already registered.",
	KindRequiredFieldsEmpty: "Required fields cannot be empty or whitespace.",
	KindInvalidRole:         "Invalid role. Must be one of: commercial, management, support.",
	KindDeleteFailed:        "Failed to delete user. Dependencies may be locked.",
	KindContactNotFound:     "The contact mentioned does not exist.",
	KindClientNotFound:      "The specified client does not exist.",
	KindContractNotFound:    "The specified contract does not exist.",
	KindEventNotFound:       "The specified event does not exist.",
	KindInvalidTotalPrice:   "Total price can't be <= 0.",
	KindInferiorTotalPrice:  "Total price can't be inferior to rest to pay.",
	KindNegativeRestToPay:   "Rest to pay can't be < 0.",
	KindEventDateInPast:     "Event date must be in the future.",
	KindEndBeforeStart:      "End date must be after start date.",
	KindAccessDenied:        "You do not have permission to perform this action.",
	KindInvalidCredentials:  "The credentials you have selected are not recognized. Please try again.",
	KindDatabaseError:       "A technical error occurred. Please try again later.",
}

// MessageFor returns the display message for a kind. Unknown kinds fall
// back to the generic database error message.
func MessageFor(kind ErrorKind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return messages[KindDatabaseError]
}
