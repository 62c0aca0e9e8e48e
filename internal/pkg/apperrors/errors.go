package apperrors

import "errors"

// Error categories. Every error leaving a service wraps exactly one of these.
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrResourceInUse    = errors.New("resource is still referenced")

	// Authentication errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Specific errors, each wrapping its category
var (
	ErrScheduleConflict    = &CustomError{Err: ErrConflict, Message: "teacher already has a class scheduled at this time", Code: CodeScheduleConflict}
	ErrEmailAlreadyExists  = &CustomError{Err: ErrConflict, Message: "email already exists", Code: CodeAlreadyExists}
	ErrClassNameExists     = &CustomError{Err: ErrConflict, Message: "class name already exists", Code: CodeAlreadyExists}
	ErrSubjectCodeExists   = &CustomError{Err: ErrConflict, Message: "subject code already exists", Code: CodeAlreadyExists}
	ErrDuplicateEnrollment = &CustomError{Err: ErrConflict, Message: "student is already enrolled in this class", Code: CodeDuplicateEnrollment}
	ErrInvalidTimeRange    = &CustomError{Err: ErrValidationFailed, Message: "end time must be after start time", Code: CodeInvalidTimeRange}
	ErrInvalidGradeLevel   = &CustomError{Err: ErrValidationFailed, Message: "grade level must be between 1 and 12", Code: CodeInvalidGradeLevel}
	ErrSelfDeletion        = &CustomError{Err: ErrValidationFailed, Message: "cannot delete your own account", Code: CodeValidationFailed}
	ErrNotTeaching         = &CustomError{Err: ErrPermissionDenied, Message: "you are not assigned to teach this subject in this class", Code: CodeForbidden}
)

// Error codes carried in responses
const (
	CodeInvalidCredentials  = "AUTH_001"
	CodeUnauthorized        = "AUTH_008"
	CodeForbidden           = "AUTH_009"
	CodeResourceNotFound    = "RES_001"
	CodeAlreadyExists       = "RES_002"
	CodeDuplicateEnrollment = "RES_004"
	CodeResourceInUse       = "RES_005"
	CodeValidationFailed    = "VAL_001"
	CodeInvalidTimeRange    = "VAL_002"
	CodeInvalidGradeLevel   = "VAL_003"
	CodeScheduleConflict    = "SCH_001"
	CodeInternalServer      = "SRV_001"
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
		Code:    CodeResourceNotFound,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
		Code:    CodeAlreadyExists,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
		Code:    CodeForbidden,
	}
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Code:    CodeValidationFailed,
	}
}

// NewFieldValidationError creates a validation error naming the offending field
func NewFieldValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Code:    CodeValidationFailed,
		Details: map[string]interface{}{"field": field},
	}
}

// NewResourceInUseError creates an error for deletes blocked by dependent rows
func NewResourceInUseError(message string, details map[string]interface{}) error {
	return &CustomError{
		Err:     ErrResourceInUse,
		Message: message,
		Code:    CodeResourceInUse,
		Details: details,
	}
}

// NewScheduleConflictError describes the entry a candidate collides with
func NewScheduleConflictError(details map[string]interface{}) error {
	return &CustomError{
		Err:     ErrScheduleConflict,
		Message: ErrScheduleConflict.Message,
		Code:    CodeScheduleConflict,
		Details: details,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// AsCustom returns the outermost CustomError in err's chain
func AsCustom(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
