package shared

// DomainError is an error with a stable machine readable code. The HTTP
// layer maps codes to status codes, so services never deal with HTTP.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches two domain errors by code, so a custom message still
// compares equal to the package sentinel via errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a domain error with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across aggregates.
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation             = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientStock      = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidRecipe          = NewDomainError("INVALID_RECIPE", "No active recipe for this product")
	ErrInvalidStateTransition = NewDomainError("INVALID_STATE_TRANSITION", "Status change is not allowed from the current state")
)
