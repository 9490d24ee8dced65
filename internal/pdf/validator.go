package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
)

// headerWindow is how far into a file the %PDF- marker may start
const headerWindow = 1024

var pdfMagic = []byte("%PDF-")

// Validator handles PDF validation for uploads and files
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateUpload checks that an uploaded document is non-empty, within the
// size limit and starts like a PDF
func (v *Validator) ValidateUpload(in Upload) error {
	if len(in.Data) == 0 {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "file is empty").WithFile(in.Name)
	}

	if int64(len(in.Data)) > v.maxFileSize {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeFileTooLarge,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(in.Data), v.maxFileSize)).
			WithFile(in.Name)
	}

	if !hasPDFHeader(in.Data) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "missing %PDF- header").WithFile(in.Name)
	}

	return nil
}

// ValidateFile performs validation on a PDF file and reports the outcome in
// the result rather than as an error
func (v *Validator) ValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	result := &PDFValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	err := v.validatePDFFile(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	return result, nil
}

// validatePDFFile checks the file on disk, its header and that it opens
// with at least one page
func (v *Validator) validatePDFFile(filePath string) error {
	if filePath == "" {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "file does not exist").WithFile(filePath)
	}
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(filePath)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(filePath)
	}
	head := make([]byte, headerWindow)
	n, err := io.ReadFull(f, head)
	f.Close()
	if err != nil && err != io.ErrUnexpectedEOF {
		return pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(filePath)
	}
	if !hasPDFHeader(head[:n]) {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "missing %PDF- header").WithFile(filePath)
	}

	return openCheck(filePath)
}

// openCheck opens the file with the text reader and requires a page
func openCheck(filePath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pdferrors.NewPDFErrorWithContext(pdferrors.ErrorTypeCorruptedData,
				"invalid PDF file", fmt.Sprint(r)).WithFile(filePath)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return pdferrors.WrapError(pdferrors.ErrorTypeCorruptedData, err).WithFile(filePath)
	}
	defer f.Close()

	if r.NumPage() == 0 {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeEmptyDocument, "document has no pages").WithFile(filePath)
	}
	return nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "path is a directory, not a file").WithFile(filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "file is not a PDF").WithFile(filePath)
	}

	if fileInfo.Size() == 0 {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "file is empty").WithFile(filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return pdferrors.NewPDFError(pdferrors.ErrorTypeFileTooLarge,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)).
			WithFile(filePath)
	}

	return nil
}

func hasPDFHeader(data []byte) bool {
	if len(data) > headerWindow {
		data = data[:headerWindow]
	}
	return bytes.Contains(data, pdfMagic)
}
