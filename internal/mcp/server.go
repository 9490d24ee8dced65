package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/sitecheck-reader/internal/config"
	"github.com/a3tai/sitecheck-reader/internal/descriptions"
	"github.com/a3tai/sitecheck-reader/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		"sitecheck_extract_file",
		mcp.WithDescription(descriptions.GetToolDescription("sitecheck_extract_file")),
		pathParam,
	), s.handleSitecheckExtractFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_extract_text",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_text")),
		pathParam,
	), s.handlePDFExtractText)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_locate_words",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_locate_words")),
		pathParam,
		mcp.WithArray("words",
			mcp.Required(),
			mcp.Description("Words or phrases to locate"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handlePDFLocateWords)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_redaction_targets",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_redaction_targets")),
		pathParam,
		mcp.WithString("field_name",
			mcp.Required(),
			mcp.Description("Field label whose values should be reported, e.g. 'Telefon:'"),
		),
	), s.handlePDFRedactionTargets)

	s.mcpServer.AddTool(mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		pathParam,
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"sitecheck_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("sitecheck_server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleSitecheckExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	protocol, err := s.pdfService.SitecheckExtractFile(pdf.SitecheckExtractFileRequest{Path: path})
	if err != nil {
		return s.toolError("sitecheck_extract_file", path, err), nil
	}

	return jsonResult(protocol)
}

func (s *Server) handlePDFExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFExtractTextFile(pdf.PDFExtractTextFileRequest{Path: path})
	if err != nil {
		return s.toolError("pdf_extract_text", path, err), nil
	}

	return mcp.NewToolResultText(result.Text), nil
}

func (s *Server) handlePDFLocateWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	words := stringList(request.GetArguments()["words"])
	if len(words) == 0 {
		return mcp.NewToolResultError("required argument \"words\" not found"), nil
	}

	result, err := s.pdfService.PDFLocateWordsFile(pdf.PDFLocateWordsFileRequest{Path: path, Words: words})
	if err != nil {
		return s.toolError("pdf_locate_words", path, err), nil
	}

	return jsonResult(result)
}

func (s *Server) handlePDFRedactionTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldName, err := request.RequireString("field_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFRedactionTargetsFile(pdf.PDFRedactionTargetsFileRequest{Path: path, FieldName: fieldName})
	if err != nil {
		return s.toolError("pdf_redaction_targets", path, err), nil
	}

	return jsonResult(result)
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return s.toolError("pdf_validate_file", path, err), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(ctx, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

func (s *Server) toolError(tool, path string, err error) *mcp.CallToolResult {
	s.logger.Info().Err(err).Str("tool", tool).Str("path", path).Msg("tool failed")
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s v%s\n", result.ServerName, result.Version)
	fmt.Fprintf(&b, "Directory: %s\n", result.DefaultDirectory)
	fmt.Fprintf(&b, "Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		fmt.Fprintf(&b, "PDF files (%d):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			fmt.Fprintf(&b, "  %d. %s (%d bytes)\n", i+1, file.Path, file.Size)
		}
		if result.Truncated {
			b.WriteString("  ... listing truncated\n")
		}
	} else {
		b.WriteString("PDF files: none found\n")
	}

	b.WriteString("\nTools:\n")
	for _, tool := range result.AvailableTools {
		fmt.Fprintf(&b, "  • %s\n", tool.Name)
	}

	return b.String()
}

// jsonResult renders v as indented JSON text content
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringList accepts a JSON array of strings or a single string
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Run serves MCP over standard I/O until ctx is done or stdin closes
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info().
		Str("directory", s.config.PDFDirectory).
		Str("version", s.config.Version).
		Msg("serving MCP over stdio")

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
