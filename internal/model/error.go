package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeCategoryInUse      = "CATEGORY_IN_USE"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidTotal       = "INVALID_TOTAL"
	ErrCodeTotalMismatch      = "TOTAL_MISMATCH"
	ErrCodePaymentUnavailable = "PAYMENT_UNAVAILABLE"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Invalid builds a validation error carrying a caller-facing message.
func Invalid(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message)
}

// Common domain errors
var (
	ErrCategoryNotFound = NewDomainError(ErrCodeNotFound, "Category not found")
	ErrProductNotFound  = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrUserNotFound     = NewDomainError(ErrCodeNotFound, "User not found")

	ErrSlugTaken     = NewDomainError(ErrCodeConflict, "Slug is already in use")
	ErrEmailTaken    = NewDomainError(ErrCodeConflict, "Email is already in use")
	ErrCategoryInUse = NewDomainError(ErrCodeCategoryInUse, "Category still has products")

	ErrEmptyOrder      = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one product")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidTotal    = NewDomainError(ErrCodeInvalidTotal, "Order total must be positive")
	ErrTotalMismatch   = NewDomainError(ErrCodeTotalMismatch, "Order total does not match its products")

	ErrPaymentUnavailable = NewDomainError(ErrCodePaymentUnavailable, "Payments are not configured")

	ErrUnauthorised = NewDomainError(ErrCodeUnauthorised, "Unauthorized")
	ErrForbidden    = NewDomainError(ErrCodeForbidden, "You are not allowed!")
)
