package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrSessionNotFound    = NewDomainError("SESSION_NOT_FOUND", "Editing session not found")
	ErrSaveInProgress     = NewDomainError("SAVE_IN_PROGRESS", "A save is already in progress for this session")
	ErrAdminItemForbidden = NewDomainError("ADMIN_ITEM_FORBIDDEN", "Admin-only cost items require an elevated principal")
	ErrRecordNotFound     = NewDomainError("RECORD_NOT_FOUND", "Record not found in collection")
)
