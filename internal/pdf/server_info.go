package pdf

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/sitecheck-reader/internal/descriptions"
)

const (
	scanMaxDepth  = 3
	scanFileLimit = 100
	scanTimeLimit = 3 * time.Second
)

// FileInfo represents a PDF file found in the configured directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ToolInfo describes one available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServerInfoResult describes the server and the files it can read
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	Truncated         bool       `json:"truncated"`
}

// ServerInfo lists the tools and the PDFs below the configured directory.
// The scan stops at scanFileLimit files, scanMaxDepth levels or
// scanTimeLimit, whichever comes first.
func (s *Service) ServerInfo(ctx context.Context, serverName, version string) (*ServerInfoResult, error) {
	tools := make([]ToolInfo, 0, len(descriptions.ToolDescriptions))
	for _, name := range descriptions.GetAllToolNames() {
		tools = append(tools, ToolInfo{Name: name, Description: descriptions.GetToolDescription(name)})
	}

	files, truncated := s.scanDirectory(ctx)

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  s.GetConfiguredDirectory(),
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    tools,
		DirectoryContents: files,
		Truncated:         truncated,
	}, nil
}

// scanDirectory walks the configured directory for PDF files. Hidden
// entries and symlinks are skipped. Unreadable entries are ignored.
func (s *Service) scanDirectory(ctx context.Context) ([]FileInfo, bool) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeLimit)
	defer cancel()

	root := s.GetConfiguredDirectory()
	files := []FileInfo{}
	truncated := false

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil || len(files) >= scanFileLimit {
			truncated = true
			return filepath.SkipAll
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && strings.Count(rel, string(filepath.Separator)) >= scanMaxDepth-1 {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:         rel,
			Name:         d.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().UTC().Format(time.RFC3339),
		})
		return nil
	})

	return files, truncated
}
