package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ExportError describes a failed export with enough context to report it
// back to the caller of a tool or CLI
type ExportError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	Path        string    `json:"path,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
	Err         error     `json:"-"`
}

// ErrorType categorises export failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidForm
	ErrorTypeInvalidSignature
	ErrorTypeLayout
	ErrorTypeWrite
	ErrorTypePostProcess
	ErrorTypeTimeout
	ErrorTypeSecurity
	ErrorTypeNotFound
	ErrorTypeExists
	ErrorTypeCancelled
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// Error implements the error interface
func (e *ExportError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *ExportError) Unwrap() error {
	return e.Err
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidForm:
		return "INVALID_FORM"
	case ErrorTypeInvalidSignature:
		return "INVALID_SIGNATURE"
	case ErrorTypeLayout:
		return "LAYOUT"
	case ErrorTypeWrite:
		return "WRITE"
	case ErrorTypePostProcess:
		return "POSTPROCESS"
	case ErrorTypeTimeout:
		return "TIMEOUT"
	case ErrorTypeSecurity:
		return "SECURITY"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeExists:
		return "EXISTS"
	case ErrorTypeCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeInvalidForm, ErrorTypeInvalidSignature, ErrorTypeNotFound, ErrorTypeExists:
		return SeverityWarning
	case ErrorTypeCancelled:
		return SeverityInfo
	case ErrorTypeLayout, ErrorTypePostProcess, ErrorTypeTimeout:
		return SeverityError
	case ErrorTypeWrite, ErrorTypeSecurity:
		return SeverityCritical
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether retrying, or fixing the input, can succeed
func (et ErrorType) IsRecoverable() bool {
	switch et {
	case ErrorTypeInvalidForm, ErrorTypeInvalidSignature:
		return true // caller fixes the form and resubmits
	case ErrorTypeTimeout, ErrorTypePostProcess:
		return true // transient
	case ErrorTypeNotFound, ErrorTypeExists:
		return true
	case ErrorTypeCancelled:
		return true // nothing was attempted
	default:
		return false
	}
}

// New creates an ExportError wrapping err
func New(errorType ErrorType, message string, err error) *ExportError {
	return &ExportError{
		Type:        errorType,
		Message:     message,
		Recoverable: errorType.IsRecoverable(),
		Timestamp:   time.Now(),
		Err:         err,
	}
}

// WithPath records the file the error relates to
func (e *ExportError) WithPath(path string) *ExportError {
	e.Path = path
	return e
}

// WithReference records the form reference the error relates to
func (e *ExportError) WithReference(ref string) *ExportError {
	e.Reference = ref
	return e
}

// WithContext adds free-form context
func (e *ExportError) WithContext(context string) *ExportError {
	e.Context = context
	return e
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var ee *ExportError
	if stderrors.As(err, &ee) {
		return ee.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is an ExportError of the given type
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// IsCritical reports whether the error should abort a batch
func (e *ExportError) IsCritical() bool {
	return e.Type.GetSeverity() >= SeverityCritical
}

// ErrorCollection gathers the failures of a batch export
type ErrorCollection struct {
	Errors   []*ExportError `json:"errors"`
	Warnings []*ExportError `json:"warnings"`
}

// NewErrorCollection creates an empty collection
func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*ExportError, 0),
		Warnings: make([]*ExportError, 0),
	}
}

// Add files err as a warning or an error depending on its severity
func (ec *ErrorCollection) Add(err *ExportError) {
	if err.Type.GetSeverity() <= SeverityWarning {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// HasCriticalErrors returns true if any critical errors exist
func (ec *ErrorCollection) HasCriticalErrors() bool {
	for _, err := range ec.Errors {
		if err.IsCritical() {
			return true
		}
	}
	return false
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Empty reports whether nothing was collected
func (ec *ErrorCollection) Empty() bool {
	return len(ec.Errors) == 0 && len(ec.Warnings) == 0
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}

	summary := fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)

	if ec.HasCriticalErrors() {
		summary += " (including critical errors)"
	}

	return summary
}
