package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New(ErrorTypeWrite, "failed to write document", cause).
		WithPath("/out/wo.pdf").
		WithReference("WO-1").
		WithContext("rename")

	assert.Equal(t, "[WRITE] failed to write document: rename: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Recoverable)
	assert.True(t, err.IsCritical())
	assert.Equal(t, "/out/wo.pdf", err.Path)

	wrapped := fmt.Errorf("export: %w", err)
	assert.Equal(t, ErrorTypeWrite, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeWrite))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(cause))
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		errorType   ErrorType
		name        string
		severity    ErrorSeverity
		recoverable bool
	}{
		{ErrorTypeInvalidForm, "INVALID_FORM", SeverityWarning, true},
		{ErrorTypeInvalidSignature, "INVALID_SIGNATURE", SeverityWarning, true},
		{ErrorTypeLayout, "LAYOUT", SeverityError, false},
		{ErrorTypeWrite, "WRITE", SeverityCritical, false},
		{ErrorTypePostProcess, "POSTPROCESS", SeverityError, true},
		{ErrorTypeTimeout, "TIMEOUT", SeverityError, true},
		{ErrorTypeSecurity, "SECURITY", SeverityCritical, false},
		{ErrorTypeNotFound, "NOT_FOUND", SeverityWarning, true},
		{ErrorTypeExists, "EXISTS", SeverityWarning, true},
		{ErrorTypeCancelled, "CANCELLED", SeverityInfo, true},
		{ErrorTypeUnknown, "UNKNOWN", SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.errorType.String())
			assert.Equal(t, tt.severity, tt.errorType.GetSeverity())
			assert.Equal(t, tt.recoverable, tt.errorType.IsRecoverable())
		})
	}
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection()
	assert.True(t, ec.Empty())
	assert.Equal(t, "No errors or warnings", ec.Summary())

	ec.Add(New(ErrorTypeInvalidForm, "number is required", nil))
	ec.Add(New(ErrorTypeTimeout, "render timed out", nil))
	errs, warns := ec.Count()
	require.Equal(t, 1, errs)
	require.Equal(t, 1, warns)
	assert.False(t, ec.HasCriticalErrors())
	assert.Equal(t, "Found 1 error(s) and 1 warning(s)", ec.Summary())

	ec.Add(New(ErrorTypeSecurity, "path escapes output directory", nil))
	assert.True(t, ec.HasCriticalErrors())
	assert.Contains(t, ec.Summary(), "critical")
}
