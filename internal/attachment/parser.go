package attachment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// Parser extracts text from resumes and other attachments stored on disk.
type Parser struct {
	uploadsDir string
}

func NewParser(uploadsDir string) *Parser {
	return &Parser{
		uploadsDir: uploadsDir,
	}
}

// Kind returns the attachment type tag for filename ("pdf", "docx", ...),
// or "" when it has no extension.
func Kind(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ExtractText reads the file at path (relative paths resolve against the
// uploads directory) and returns its plain text.
func (p *Parser) ExtractText(path string) (string, error) {
	if !filepath.IsAbs(path) && p.uploadsDir != "" {
		path = filepath.Join(p.uploadsDir, path)
	}

	switch kind := Kind(path); kind {
	case "pdf", "docx", "doc", "rtf", "odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}
		return strings.TrimSpace(res.Body), nil
	case "txt", "md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return strings.TrimSpace(string(content)), nil
	default:
		return "", fmt.Errorf("unsupported file type: %q", kind)
	}
}
