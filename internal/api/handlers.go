package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/a3tai/sitecheck-reader/internal/pdf"
	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
)

const (
	// formOverhead is the room left for multipart framing and text fields
	formOverhead = 1 << 20
	// formMemory is kept in memory while parsing, the rest spills to disk
	formMemory = 32 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	msgNoFile = "No file provided"
)

func (s *Server) handleExtractProtocol(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	protocol, err := s.service.ExtractProtocol(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		data, err := s.service.ExportChecklistXLSX(protocol)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		name := strings.TrimSuffix(in.Name, filepath.Ext(in.Name)) + ".xlsx"
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Write(data)
		return
	}

	writeJSON(w, protocol)
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.service.ExtractText(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleExtractAll(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.service.ExtractAll(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleLocateWords(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	words := r.MultipartForm.Value["words"]
	if len(words) == 0 {
		jsonError(w, "No words provided", http.StatusBadRequest)
		return
	}

	result, err := s.service.LocateWords(in, words)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	fieldName := r.FormValue("fieldName")
	if fieldName == "" {
		jsonError(w, "No field name provided", http.StatusBadRequest)
		return
	}

	result, err := s.service.RedactionTargets(in, fieldName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.service.DebugWords(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleExtractImages(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	result, err := s.service.ExtractImages(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, result)
}

// readUpload parses the multipart form and reads its file part. It writes
// the error response itself and reports whether the handler may continue.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (pdf.Upload, bool) {
	limit := s.service.GetMaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", limit), http.StatusRequestEntityTooLarge)
			return pdf.Upload{}, false
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			jsonError(w, msgNoFile, http.StatusBadRequest)
			return pdf.Upload{}, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return pdf.Upload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, msgNoFile, http.StatusBadRequest)
		return pdf.Upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		s.fail(w, r, fmt.Errorf("failed to read upload: %w", err))
		return pdf.Upload{}, false
	}

	return pdf.Upload{Name: sanitizeFilename(header.Filename), Data: data}, true
}

// fail maps an error to its status code: 413 for oversized documents, 422
// for documents that cannot be processed and 500 for everything else
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, pdferrors.ErrFileTooLarge):
		log.Info().Err(err).Msg("upload rejected")
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case pdferrors.IsInputFailure(err):
		log.Info().Err(err).Msg("upload rejected")
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error().Err(err).Msg("request failed")
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "upload.pdf"
	}
	return name
}
