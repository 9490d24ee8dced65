// Package api serves the protocol extractor and the text helpers over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/a3tai/sitecheck-reader/internal/pdf"
	"github.com/a3tai/sitecheck-reader/internal/sitecheck"
)

// DocumentService is the document work the API delegates to
type DocumentService interface {
	GetMaxFileSize() int64
	ExtractProtocol(in pdf.Upload) (*sitecheck.Protocol, error)
	ExportChecklistXLSX(protocol *sitecheck.Protocol) ([]byte, error)
	ExtractText(in pdf.Upload) (*pdf.TextResult, error)
	ExtractAll(in pdf.Upload) (*pdf.ExtractAllResult, error)
	LocateWords(in pdf.Upload, words []string) (*pdf.LocateWordsResult, error)
	RedactionTargets(in pdf.Upload, fieldName string) (*pdf.RedactionResult, error)
	DebugWords(in pdf.Upload) ([]pdf.PageWords, error)
	ExtractImages(in pdf.Upload) (*pdf.ImagesResult, error)
}

// Server is the HTTP API server
type Server struct {
	router  chi.Router
	service DocumentService
	apiKey  string
	log     zerolog.Logger
}

// NewServer creates and configures the HTTP server
func NewServer(service DocumentService, apiKey string, log zerolog.Logger) *Server {
	s := &Server{
		service: service,
		apiKey:  apiKey,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.apiKey))

		r.Post("/extract-sitecheck-protocol", s.handleExtractProtocol)
		r.Post("/extract", s.handleExtractText)
		r.Post("/extract-all", s.handleExtractAll)
		r.Post("/locate-words", s.handleLocateWords)
		r.Post("/redact", s.handleRedact)
		r.Post("/debug-words", s.handleDebugWords)
		r.Post("/extract-images", s.handleExtractImages)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}
