package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/sitecheck-reader/internal/config"
	"github.com/a3tai/sitecheck-reader/internal/pdf"
)

// writePDF stores a one page document showing lines in 10 point Courier
func writePDF(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	var content strings.Builder
	content.WriteString("BT /F1 10 Tf 100 700 Td")
	for i, line := range lines {
		if i > 0 {
			content.WriteString(" 0 -20 Td")
		}
		fmt.Fprintf(&content, " (%s) Tj", line)
	}
	content.WriteString(" ET")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" +
			strings.TrimSpace(strings.Repeat("600 ", 95)) + "] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Mode:         config.ModeStdio,
		Host:         config.DefaultHost,
		Port:         config.DefaultPort,
		PDFDirectory: dir,
		Version:      "1.0.0",
		ServerName:   "test-server",
		LogLevel:     "info",
		LogFormat:    config.FormatConsole,
		MaxFileSize:  1024 * 1024,
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := testConfig(dir)
	service, err := pdf.NewService(cfg.MaxFileSize, dir, zerolog.Nop())
	require.NoError(t, err)

	server, err := NewServer(cfg, service, zerolog.Nop())
	require.NoError(t, err)
	return server, dir
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	service, err := pdf.NewService(1024, dir, zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		name    string
		config  *config.Config
		service *pdf.Service
		wantErr string
	}{
		{name: "valid", config: testConfig(dir), service: service},
		{name: "nil config", service: service, wantErr: "config cannot be nil"},
		{name: "nil service", config: testConfig(dir), wantErr: "pdfService cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.config, tt.service, zerolog.Nop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, server)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.config, server.config)
			assert.NotNil(t, server.mcpServer)
		})
	}
}

func TestHandleSitecheckExtractFile(t *testing.T) {
	server, dir := newTestServer(t)
	writePDF(t, dir, "protocol.pdf", "Lorem ipsum")

	result, err := server.handleSitecheckExtractFile(context.Background(), callRequest(map[string]interface{}{
		"path": "protocol.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &body))
	assert.Contains(t, body, "document_header")
	assert.Contains(t, body, "site_info")
	assert.JSONEq(t, "[]", string(body["sections"]))
}

func TestHandlePDFExtractText(t *testing.T) {
	server, dir := newTestServer(t)
	path := writePDF(t, dir, "a.pdf", "Name: Max", "Telefon: 0123")

	result, err := server.handlePDFExtractText(context.Background(), callRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	assert.Equal(t, "Name: Max\nTelefon: 0123", extractTextFromResult(result))
}

func TestHandlePDFLocateWords(t *testing.T) {
	server, dir := newTestServer(t)
	writePDF(t, dir, "a.pdf", "Name: Max")

	tests := []struct {
		name      string
		words     interface{}
		wantError bool
		wantCount int
	}{
		{name: "array", words: []interface{}{"max", "nobody"}, wantCount: 1},
		{name: "single string", words: "name:", wantCount: 1},
		{name: "empty array", words: []interface{}{}, wantError: true},
		{name: "blank string", words: "  ", wantError: true},
		{name: "wrong type", words: 42, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePDFLocateWords(context.Background(), callRequest(map[string]interface{}{
				"path":  "a.pdf",
				"words": tt.words,
			}))
			require.NoError(t, err)
			if tt.wantError {
				assert.True(t, result.IsError)
				return
			}
			require.False(t, result.IsError, extractTextFromResult(result))

			var body pdf.LocateWordsResult
			require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &body))
			assert.Len(t, body.Locations, tt.wantCount)
		})
	}
}

func TestHandlePDFRedactionTargets(t *testing.T) {
	server, dir := newTestServer(t)
	writePDF(t, dir, "a.pdf", "Telefon: 0123")

	result, err := server.handlePDFRedactionTargets(context.Background(), callRequest(map[string]interface{}{
		"path":       "a.pdf",
		"field_name": "Telefon:",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	assert.JSONEq(t,
		`{"redaction_targets":[{"page":1,"field":"Telefon:","value_detected":"0123"}]}`,
		extractTextFromResult(result))

	result, err = server.handlePDFRedactionTargets(context.Background(), callRequest(map[string]interface{}{
		"path": "a.pdf",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandlePDFValidateFile(t *testing.T) {
	server, dir := newTestServer(t)
	writePDF(t, dir, "good.pdf", "Lorem ipsum")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.pdf"), []byte("%PDF-1.4\nbroken"), 0o600))

	tests := []struct {
		name      string
		path      string
		wantText  string
		wantError bool
	}{
		{name: "valid", path: "good.pdf", wantText: "is valid and readable"},
		{name: "corrupted", path: "bad.pdf", wantText: "PDF validation failed"},
		{name: "outside directory", path: "/etc/passwd", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handlePDFValidateFile(context.Background(), callRequest(map[string]interface{}{
				"path": tt.path,
			}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError, extractTextFromResult(result))
			if tt.wantText != "" {
				assert.Contains(t, extractTextFromResult(result), tt.wantText)
			}
		})
	}
}

func TestHandleServerInfo(t *testing.T) {
	server, dir := newTestServer(t)
	writePDF(t, dir, "a.pdf", "Lorem ipsum")

	result, err := server.handleServerInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "test-server v1.0.0")
	assert.Contains(t, text, "PDF files (1):")
	assert.Contains(t, text, "a.pdf")
	assert.Contains(t, text, "sitecheck_extract_file")
}

func TestHandlers_MissingPath(t *testing.T) {
	server, _ := newTestServer(t)

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"sitecheck_extract_file": server.handleSitecheckExtractFile,
		"pdf_extract_text":       server.handlePDFExtractText,
		"pdf_locate_words":       server.handlePDFLocateWords,
		"pdf_redaction_targets":  server.handlePDFRedactionTargets,
		"pdf_validate_file":      server.handlePDFValidateFile,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandlers_PathOutsideDirectory(t *testing.T) {
	server, _ := newTestServer(t)
	outside := writePDF(t, t.TempDir(), "outside.pdf", "Lorem ipsum")

	result, err := server.handlePDFExtractText(context.Background(), callRequest(map[string]interface{}{
		"path": outside,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "security validation failed")
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, stringList([]interface{}{"a", "", 3, "b c"}))
	assert.Equal(t, []string{"x"}, stringList("x"))
	assert.Equal(t, []string{"y"}, stringList([]string{"y"}))
	assert.Nil(t, stringList(nil))
	assert.Nil(t, stringList(""))
}

// extractTextFromResult returns the first text content of a result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
