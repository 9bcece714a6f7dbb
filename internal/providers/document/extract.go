// Package document turns resume and summary files into plain text.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/inbucket/html2text"
	"github.com/sandevgo/memybot/pkg/log"
)

// ExtractText reads the file at path and returns its text.
// PDF pages are extracted in order and concatenated, pages without text are skipped.
// HTML (e.g. a saved LinkedIn profile) is flattened to text, anything else is read as UTF-8.
func ExtractText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(ctx, path)
	case ".html", ".htm":
		return extractHTML(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
}

func extractPDF(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	pages := doc.NumPage()
	for n := 0; n < pages; n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", n+1, path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		b.WriteString(text)
	}

	log.FromCtx(ctx).Debug().Str("path", path).Int("pages", pages).Int("chars", b.Len()).Msg("extracted pdf text")
	return b.String(), nil
}

func extractHTML(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, err := html2text.FromString(string(data), html2text.Options{
		OmitLinks:    true,
		PrettyTables: true,
	})
	if err != nil {
		return "", fmt.Errorf("convert html %s: %w", path, err)
	}
	return text, nil
}
