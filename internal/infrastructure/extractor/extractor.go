package extractor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

// Extractor converts a downloaded document into plain text, dispatching on
// the normalized file-type token. Unknown types fall through to the plain
// reader, which is where txt, md and json land too.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, localPath, fileType string) (string, error) {
	var (
		text string
		err  error
	)
	switch fileType {
	case "pdf":
		text, err = extractPDF(localPath)
	case "docx":
		text, err = extractDocx(localPath)
	case "xlsx", "xls":
		text, err = extractExcel(localPath)
	case "csv":
		text, err = extractCSV(localPath)
	default:
		text, err = extractPlain(localPath)
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, fmt.Sprintf("extract %s", fileType), err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func extractPlain(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(raw), nil
}
