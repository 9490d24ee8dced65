package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is. Every PDFError matches the sentinel of its type.
var (
	ErrInvalidInput   = stderrors.New("invalid input")
	ErrEmptyDocument  = stderrors.New("document has no pages")
	ErrCorruptedData  = stderrors.New("corrupted document data")
	ErrFileTooLarge   = stderrors.New("file too large")
	ErrMalformedPage  = stderrors.New("malformed page")
	ErrInvalidContent = stderrors.New("invalid content stream")
)

// PDFError is a document processing error with context about where it happened
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	cause      error
}

// ErrorType represents different categories of document errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidInput
	ErrorTypeEmptyDocument
	ErrorTypeCorruptedData
	ErrorTypeFileTooLarge
	ErrorTypeMalformedPage
	ErrorTypeInvalidAnnotation
	ErrorTypeInvalidContent
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// Error implements the error interface
func (e *PDFError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type.String(), e.Message, e.Context)
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

// Unwrap returns the wrapped cause, if any
func (e *PDFError) Unwrap() error {
	return e.cause
}

// Is matches the sentinel error of the error type
func (e *PDFError) Is(target error) bool {
	return target != nil && target == e.Type.sentinel()
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	case ErrorTypeEmptyDocument:
		return "EMPTY_DOCUMENT"
	case ErrorTypeCorruptedData:
		return "CORRUPTED_DATA"
	case ErrorTypeFileTooLarge:
		return "FILE_TOO_LARGE"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	case ErrorTypeInvalidAnnotation:
		return "INVALID_ANNOTATION"
	case ErrorTypeInvalidContent:
		return "INVALID_CONTENT"
	default:
		return "UNKNOWN"
	}
}

func (et ErrorType) sentinel() error {
	switch et {
	case ErrorTypeInvalidInput:
		return ErrInvalidInput
	case ErrorTypeEmptyDocument:
		return ErrEmptyDocument
	case ErrorTypeCorruptedData:
		return ErrCorruptedData
	case ErrorTypeFileTooLarge:
		return ErrFileTooLarge
	case ErrorTypeMalformedPage, ErrorTypeInvalidAnnotation:
		return ErrMalformedPage
	case ErrorTypeInvalidContent:
		return ErrInvalidContent
	default:
		return nil
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeInvalidInput, ErrorTypeEmptyDocument, ErrorTypeCorruptedData, ErrorTypeFileTooLarge:
		return SeverityCritical
	case ErrorTypeMalformedPage, ErrorTypeInvalidAnnotation, ErrorTypeInvalidContent:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// IsInputFailure reports whether the error type means the document could not
// be read at all
func (et ErrorType) IsInputFailure() bool {
	return et.GetSeverity() == SeverityCritical
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewPDFErrorWithContext creates a new PDFError with additional context
func NewPDFErrorWithContext(errorType ErrorType, message, context string) *PDFError {
	e := NewPDFError(errorType, message)
	e.Context = context
	return e
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, err error) *PDFError {
	e := NewPDFError(errorType, err.Error())
	e.cause = err
	return e
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// IsInputFailure reports whether err is a PDFError that aborts extraction
func IsInputFailure(err error) bool {
	var pe *PDFError
	if stderrors.As(err, &pe) {
		return pe.Type.IsInputFailure()
	}
	return false
}

// ErrorCollection gathers non-fatal problems found while reading a document
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
	FilePath string      `json:"file_path,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(filePath string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
		FilePath: filePath,
	}
}

// Add adds an error to the appropriate collection based on severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err.FilePath == "" && ec.FilePath != "" {
		err.FilePath = ec.FilePath
	}

	if err.Type.GetSeverity() == SeverityWarning {
		ec.Warnings = append(ec.Warnings, err)
	} else {
		ec.Errors = append(ec.Errors, err)
	}
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
