package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/a3tai/sitecheck-reader/internal/pdf/adapter"
	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
	"github.com/a3tai/sitecheck-reader/internal/pdf/security"
	"github.com/a3tai/sitecheck-reader/internal/sitecheck"
)

// Service handles document operations by orchestrating validation, the
// primitive adapter and the protocol extractor. It keeps no state between
// calls, so one Service can serve concurrent requests.
type Service struct {
	maxFileSize   int64
	validator     *Validator
	adapter       *adapter.Adapter
	extractor     *sitecheck.Extractor
	pathValidator *security.PathValidator
	logger        zerolog.Logger
}

// NewService creates a new service with all components
func NewService(maxFileSize int64, configuredDirectory string, logger zerolog.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		adapter:       adapter.New(logger),
		extractor:     sitecheck.NewExtractor(logger),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetConfiguredDirectory returns the directory file requests are confined to
func (s *Service) GetConfiguredDirectory() string {
	return s.pathValidator.ConfiguredDirectory()
}

// load validates an upload and decodes it into page primitives
func (s *Service) load(in Upload) (primitives.Document, error) {
	if err := s.validator.ValidateUpload(in); err != nil {
		return primitives.Document{}, err
	}

	result, err := s.adapter.Load(in.Name, in.Data)
	if err != nil {
		return primitives.Document{}, err
	}

	for _, problem := range result.Problems.Warnings {
		s.logger.Warn().Err(problem).Str("file", in.Name).Msg("degraded page data")
	}
	for _, problem := range result.Problems.Errors {
		s.logger.Warn().Err(problem).Str("file", in.Name).Msg("page data lost")
	}

	return result.Document, nil
}

// ExtractProtocol decodes an upload and extracts the protocol model
func (s *Service) ExtractProtocol(in Upload) (*sitecheck.Protocol, error) {
	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(doc)
}

// ExtractText returns the text of all pages joined by newlines
func (s *Service) ExtractText(in Upload) (*TextResult, error) {
	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return &TextResult{Text: joinedText(doc)}, nil
}

// ExtractAll returns per-page text, tables and the combined view
func (s *Service) ExtractAll(in Upload) (*ExtractAllResult, error) {
	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return extractAll(doc), nil
}

// LocateWords finds the boxes of the requested words and phrases
func (s *Service) LocateWords(in Upload, words []string) (*LocateWordsResult, error) {
	if len(words) == 0 {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "no words provided")
	}

	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return &LocateWordsResult{Locations: locateWords(doc, words)}, nil
}

// RedactionTargets finds the values written after fieldName on every line
func (s *Service) RedactionTargets(in Upload, fieldName string) (*RedactionResult, error) {
	if fieldName == "" {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidInput, "no field name provided")
	}

	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return &RedactionResult{Targets: redactionTargets(doc, fieldName)}, nil
}

// DebugWords returns the word list of every page
func (s *Service) DebugWords(in Upload) ([]PageWords, error) {
	doc, err := s.load(in)
	if err != nil {
		return nil, err
	}
	return debugWords(doc), nil
}

// ExtractImages returns the embedded images of an upload
func (s *Service) ExtractImages(in Upload) (*ImagesResult, error) {
	if err := s.validator.ValidateUpload(in); err != nil {
		return nil, err
	}

	images, err := s.adapter.Images(in.Name, in.Data)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []adapter.Image{}
	}
	return &ImagesResult{Images: images}, nil
}

// ReadFile loads a file from the configured directory as an upload
func (s *Service) ReadFile(path string) (Upload, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return Upload{}, pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).
			WithContext("security validation failed")
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Upload{}, pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(resolved)
	}
	if err := s.validator.ValidateFileInfo(resolved, info); err != nil {
		return Upload{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Upload{}, pdferrors.WrapError(pdferrors.ErrorTypeInvalidInput, err).WithFile(resolved)
	}

	return Upload{Name: filepath.Base(resolved), Data: data}, nil
}

// SitecheckExtractFile extracts the protocol model of a file
func (s *Service) SitecheckExtractFile(req SitecheckExtractFileRequest) (*sitecheck.Protocol, error) {
	in, err := s.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return s.ExtractProtocol(in)
}

// PDFExtractTextFile returns the plain text of a file
func (s *Service) PDFExtractTextFile(req PDFExtractTextFileRequest) (*TextResult, error) {
	in, err := s.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return s.ExtractText(in)
}

// PDFLocateWordsFile locates words in a file
func (s *Service) PDFLocateWordsFile(req PDFLocateWordsFileRequest) (*LocateWordsResult, error) {
	in, err := s.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return s.LocateWords(in, req.Words)
}

// PDFRedactionTargetsFile finds the values of a labelled field in a file
func (s *Service) PDFRedactionTargetsFile(req PDFRedactionTargetsFileRequest) (*RedactionResult, error) {
	in, err := s.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return s.RedactionTargets(in, req.FieldName)
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	resolved, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: resolved})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}
