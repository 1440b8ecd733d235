// Package extract reads plain text out of resume and job description files.
package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spigell/resume-ats/internal/logger"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecode            = errors.New("cannot decode document")
	ErrExtraction        = errors.New("text extraction failed")
)

// TextCache stores extracted text by content key.
type TextCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key string, format string, text string) error
}

// Extractor reads documents. The zero value is ready to use and works
// without a cache.
type Extractor struct {
	Cache  TextCache
	Logger *zap.Logger
}

func New(cache TextCache, logger *zap.Logger) *Extractor {
	return &Extractor{Cache: cache, Logger: logger}
}

// Extract infers the format of path from its extension and returns its text.
func Extract(path string) (string, error) {
	var e Extractor
	return e.Extract(context.Background(), path)
}

// ExtractAs returns the text of path read as format.
func ExtractAs(path string, format Format) (string, error) {
	var e Extractor
	return e.ExtractAs(context.Background(), path, format)
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	format, err := FormatOf(path)
	if err != nil {
		return "", err
	}
	return e.ExtractAs(ctx, path, format)
}

// ExtractAs reads path once and decodes it as format. Cached text is keyed by
// the file content, so renamed or copied files hit the same entry.
func (e *Extractor) ExtractAs(ctx context.Context, path string, format Format) (string, error) {
	decode, err := decoderFor(format)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w: %w", path, ErrDecode, err)
	}

	log := logger.WithDocument(e.logger(), path, string(format))

	key := CacheKey(data, format)
	if e.Cache != nil {
		text, ok, err := e.Cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("text cache lookup failed", zap.Error(err))
		case ok:
			log.Debug("text served from cache")
			return text, nil
		}
	}

	text, err := decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("text extracted", zap.Int("bytes", len(data)), zap.Int("chars", len(text)))

	if e.Cache != nil {
		if err := e.Cache.Put(ctx, key, string(format), text); err != nil {
			log.Warn("text cache update failed", zap.Error(err))
		}
	}

	return text, nil
}

// CacheKey identifies a document by its content and the format it is read as.
func CacheKey(data []byte, format Format) string {
	sum := sha256.Sum256(data)
	return string(format) + ":" + hex.EncodeToString(sum[:])
}

func (e *Extractor) logger() *zap.Logger {
	if e == nil || e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func decoderFor(format Format) (func([]byte) (string, error), error) {
	switch format {
	case PlainText:
		return decodePlain, nil
	case RichText:
		return decodeDocx, nil
	case PageDocument:
		return decodePDF, nil
	default:
		return nil, fmt.Errorf("format %q: %w", format, ErrUnsupportedFormat)
	}
}
