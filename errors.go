package chatbot

import "errors"

var (
	// ErrInsufficientProducts indicates fewer than two valid products were
	// resolved for a comparison.
	ErrInsufficientProducts = errors.New("se necesitan al menos 2 productos para comparar")

	// ErrInvalidSpeaker indicates a conversation turn without a user
	// identity or session token.
	ErrInvalidSpeaker = errors.New("speaker must carry a user id or a session token")

	// ErrAmbiguousSpeaker indicates both a user identity and a session
	// token were supplied.
	ErrAmbiguousSpeaker = errors.New("speaker cannot carry both a user id and a session token")

	// ErrMissingCategory indicates a category lookup without an id or name.
	ErrMissingCategory = errors.New("se requiere category_id o category_name")

	// ErrEmptyMessage indicates an empty chat message.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// RequestError is a client-facing error with an HTTP-mappable code.
type RequestError struct {
	// Code is the machine-readable error code.
	Code string

	// Message is the human-readable explanation.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error codes for RequestError.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeNotFound   = "not_found"
	ErrCodeInternal   = "internal_error"
)

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a RequestError for invalid request shapes.
func NewValidationError(message string, err error) *RequestError {
	return &RequestError{Code: ErrCodeValidation, Message: message, Err: err}
}

// NewInternalError creates a RequestError for unexpected faults.
func NewInternalError(message string, err error) *RequestError {
	return &RequestError{Code: ErrCodeInternal, Message: message, Err: err}
}
