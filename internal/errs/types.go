package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

// ConflictError marks a state-machine violation: an edit draft already
// open, or a delete confirmed without being requested first.
type ConflictError struct {
	ErrorMessage
}

// ValidationError is local and field-keyed. It is resolved before any
// network call is issued.
type ValidationError struct {
	ErrorMessage
	Fields map[string]string
}

// NetworkError wraps a failed or timed-out request to the remote
// collaborator. The local collection is left untouched when it occurs.
type NetworkError struct {
	ErrorMessage
	Err error
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejection carries an error payload returned by the remote
// collaborator.
type ServerRejection struct {
	ErrorMessage
	Status int
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: "invalid input"},
		Fields:       fields,
	}
}

func NewNetworkError(err error) *NetworkError {
	return &NetworkError{
		ErrorMessage: ErrorMessage{Message: "request failed: " + err.Error()},
		Err:          err,
	}
}

func NewServerRejection(status int, message string) *ServerRejection {
	if message == "" {
		message = "the server rejected the request"
	}
	return &ServerRejection{
		ErrorMessage: ErrorMessage{Message: message},
		Status:       status,
	}
}
