package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the kind of document a file holds.
type Format string

const (
	PlainText    Format = "txt"
	RichText     Format = "docx"
	PageDocument Format = "pdf"
)

// FormatOf infers the format from the file extension, case-insensitively.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", path, ErrUnsupportedFormat)
	}
	return ParseFormat(ext)
}

// ParseFormat accepts a format name such as "pdf" or ".pdf".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case PlainText, RichText, PageDocument:
		return f, nil
	default:
		return "", fmt.Errorf("format %q: %w", name, ErrUnsupportedFormat)
	}
}
