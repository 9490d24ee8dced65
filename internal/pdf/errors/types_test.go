package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFError_Error(t *testing.T) {
	err := NewPDFError(ErrorTypeEmptyDocument, "no pages")
	assert.Equal(t, "[EMPTY_DOCUMENT] no pages", err.Error())

	err = NewPDFErrorWithContext(ErrorTypeCorruptedData, "cannot open", "xref")
	assert.Equal(t, "[CORRUPTED_DATA] cannot open: xref", err.Error())
}

func TestPDFError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		sentinel error
	}{
		{"invalid input", ErrorTypeInvalidInput, ErrInvalidInput},
		{"empty document", ErrorTypeEmptyDocument, ErrEmptyDocument},
		{"corrupted", ErrorTypeCorruptedData, ErrCorruptedData},
		{"too large", ErrorTypeFileTooLarge, ErrFileTooLarge},
		{"annotation", ErrorTypeInvalidAnnotation, ErrMalformedPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("extract: %w", NewPDFError(tt.errType, "x"))
			assert.True(t, stderrors.Is(wrapped, tt.sentinel))
		})
	}

	assert.False(t, stderrors.Is(NewPDFError(ErrorTypeEmptyDocument, "x"), ErrCorruptedData))
}

func TestWrapError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := WrapError(ErrorTypeCorruptedData, cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, ErrCorruptedData))
	assert.Equal(t, "boom", err.Message)
}

func TestIsInputFailure(t *testing.T) {
	assert.True(t, IsInputFailure(NewPDFError(ErrorTypeEmptyDocument, "x")))
	assert.True(t, IsInputFailure(fmt.Errorf("wrap: %w", NewPDFError(ErrorTypeInvalidInput, "x"))))
	assert.False(t, IsInputFailure(NewPDFError(ErrorTypeMalformedPage, "x")))
	assert.False(t, IsInputFailure(stderrors.New("plain")))
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection("a.pdf")
	assert.Equal(t, "No errors or warnings", ec.Summary())

	ec.Add(NewPDFError(ErrorTypeInvalidAnnotation, "bad annot").WithPage(2))
	ec.Add(NewPDFError(ErrorTypeCorruptedData, "bad data"))

	errs, warns := ec.Count()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
	require.Len(t, ec.Warnings, 1)
	assert.Equal(t, "a.pdf", ec.Warnings[0].FilePath)
	assert.Equal(t, 2, ec.Warnings[0].PageNumber)
	assert.Equal(t, "Found 1 error(s) and 1 warning(s)", ec.Summary())
}
