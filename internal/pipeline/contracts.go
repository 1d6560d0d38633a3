// Package pipeline orchestrates a full document processing run: text
// extraction, heuristic field matching, optional AI extraction and the
// sanitized result write.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/docbase-br/docbase/internal/common"
)

// TextExtractor is stage 1: file on disk -> raw text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string, forceOCR bool) (TextResult, error)
}

type TextResult struct {
	Text    string
	OCRUsed bool
	Quality string // "good" | "poor" | "empty"
}

// PlainTextExtractor reads .txt files directly. Binary formats need an OCR
// backend plugged in behind the TextExtractor seam.
type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(_ context.Context, path string, _ bool) (TextResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "txt" {
		return TextResult{}, fmt.Errorf("%w: no text extractor for .%s", common.ErrFileUnreadable, ext)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return TextResult{}, fmt.Errorf("%w: %v", common.ErrFileUnreadable, err)
	}
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return TextResult{Text: text, OCRUsed: false, Quality: textQuality(text)}, nil
}

func textQuality(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return "empty"
	case len(trimmed) < 40:
		return "poor"
	default:
		return "good"
	}
}
