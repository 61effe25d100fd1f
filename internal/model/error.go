package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error kinds classify domain failures so the HTTP layer can map them to
// status codes without inspecting messages.
const (
	KindNotFound      = "NOT_FOUND"
	KindValidation    = "VALIDATION"
	KindConflict      = "CONFLICT"
	KindAuthorization = "AUTHORIZATION"
	KindInternal      = "INTERNAL"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCartItemNotFound  = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeCartEmpty         = "CART_EMPTY"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeMissingPhone      = "MISSING_PHONE"
	ErrCodeMissingAddress    = "MISSING_ADDRESS"
	ErrCodeProductInCart     = "PRODUCT_ALREADY_IN_CART"
	ErrCodeIllegalTransition = "ILLEGAL_STATUS_TRANSITION"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a machine-readable kind and code alongside a
// human-readable message.
type DomainError struct {
	Kind    string
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(kind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NotFoundError creates a NOT_FOUND domain error.
func NotFoundError(code, format string, args ...any) *DomainError {
	return NewDomainError(KindNotFound, code, fmt.Sprintf(format, args...))
}

// ValidationError creates a VALIDATION domain error.
func ValidationError(code, format string, args ...any) *DomainError {
	return NewDomainError(KindValidation, code, fmt.Sprintf(format, args...))
}

// ConflictError creates a CONFLICT domain error.
func ConflictError(code, format string, args ...any) *DomainError {
	return NewDomainError(KindConflict, code, fmt.Sprintf(format, args...))
}

// AuthorizationError creates an AUTHORIZATION domain error.
func AuthorizationError(code, format string, args ...any) *DomainError {
	return NewDomainError(KindAuthorization, code, fmt.Sprintf(format, args...))
}

// ErrorKind returns the kind of err if it is (or wraps) a *DomainError,
// or KindInternal otherwise.
func ErrorKind(err error) string {
	var derr *DomainError
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindInternal
}

// AsDomainError unwraps err into a *DomainError if possible.
func AsDomainError(err error) (*DomainError, bool) {
	var derr *DomainError
	ok := errors.As(err, &derr)
	return derr, ok
}

// Common domain errors
var (
	ErrProductNotFound  = NotFoundError(ErrCodeProductNotFound, "product not found")
	ErrCartItemNotFound = NotFoundError(ErrCodeCartItemNotFound, "item not found")
	ErrOrderNotFound    = NotFoundError(ErrCodeOrderNotFound, "order not found")
	ErrUserNotFound     = NotFoundError(ErrCodeUserNotFound, "user not found")
	ErrCartEmpty        = ValidationError(ErrCodeCartEmpty, "cart is empty")
	ErrInvalidQuantity  = ValidationError(ErrCodeInvalidQuantity, "quantity must be greater than zero")
	ErrProductInCart    = ConflictError(ErrCodeProductInCart, "product already in cart")
)
