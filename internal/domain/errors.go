package domain

import (
	"errors"
	"strings"
)

// Kind classifies a failure of an escrow operation. Kinds are stable strings
// surfaced to API clients as error codes.
type Kind string

const (
	// KindInvalidFields covers malformed payload fields and duplicate ids on create
	KindInvalidFields Kind = "invalid_fields"
	// KindUnsupportedAssetType covers denominations that are not restricted asset classes
	KindUnsupportedAssetType Kind = "unsupported_asset_type"
	// KindAttachedFundsUnsupported covers execute calls carrying attached funds
	KindAttachedFundsUnsupported Kind = "attached_funds_unsupported"
	// KindInsufficientFunds covers senders whose balance cannot cover the transfer
	KindInsufficientFunds Kind = "insufficient_funds"
	// KindTransferNotFound covers operations referencing an id with no pending record
	KindTransferNotFound Kind = "transfer_not_found"
	// KindUnauthorized covers cancel by a non-sender and approve/reject by a non-administrator
	KindUnauthorized Kind = "unauthorized"
	// KindInternal covers storage and collaborator infrastructure failures
	KindInternal Kind = "internal"
)

// Error is a classified domain error. Fields carries the offending field names
// when Kind is KindInvalidFields.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	cause   error
}

// NewError creates a classified error with the given kind and message
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewFieldError creates a KindInvalidFields error naming the offending fields
func NewFieldError(fields ...string) *Error {
	return &Error{
		Kind:    KindInvalidFields,
		Message: "invalid fields",
		Fields:  fields,
	}
}

// WrapError creates a classified error that wraps an underlying cause
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg += ": " + strings.Join(e.Fields, ", ")
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf returns the kind of err. Unclassified non-nil errors report
// KindInternal; nil reports the empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified with the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
