package docparse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Placeholder stands in for a résumé whose text could not be extracted.
const Placeholder = "Summary: Experienced professional with skills in Java, Python, React, Communication, and Project Management. Looking for a Software Engineering role."

const (
	DefaultDocumentTimeout = 5 * time.Second
	DefaultOverallTimeout  = 8 * time.Second
)

// ErrUnsupportedFormat is returned for extensions other than pdf, docx and txt.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is an uploaded résumé file.
type Document struct {
	Name string
	Data []byte
}

// Ext returns the lowercase extension without the dot.
func (d Document) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name)), ".")
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{Name: filepath.Base(path), Data: data}, nil
}

type reader func(data []byte) (string, error)

// Parser turns documents into plain text.
type Parser struct {
	logger          *zap.Logger
	documentTimeout time.Duration
	overallTimeout  time.Duration
	readers         map[string]reader
}

// NewParser creates a parser. Non-positive timeouts select the defaults.
func NewParser(logger *zap.Logger, documentTimeout, overallTimeout time.Duration) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if documentTimeout <= 0 {
		documentTimeout = DefaultDocumentTimeout
	}
	if overallTimeout <= 0 {
		overallTimeout = DefaultOverallTimeout
	}
	return &Parser{
		logger:          logger,
		documentTimeout: documentTimeout,
		overallTimeout:  overallTimeout,
		readers: map[string]reader{
			"pdf":  readPDF,
			"docx": readDOCX,
			"txt":  readTXT,
		},
	}
}

// Parse always returns usable text within the overall timeout. Any failure
// is logged and replaced by Placeholder.
func (p *Parser) Parse(ctx context.Context, doc Document) string {
	ctx, cancel := context.WithTimeout(ctx, p.overallTimeout)
	defer cancel()

	start := time.Now()
	text, err := p.Extract(ctx, doc)
	if err != nil {
		p.logger.Warn("document parsing failed, using placeholder text",
			zap.String("file", doc.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Placeholder
	}
	if text == "" {
		p.logger.Warn("document has no text, using placeholder text", zap.String("file", doc.Name))
		return Placeholder
	}

	p.logger.Debug("document parsed",
		zap.String("file", doc.Name),
		zap.Int("length", len(text)),
		zap.Duration("duration", time.Since(start)),
	)
	return text
}

// Extract returns the trimmed document text or an error. The read is bounded
// by the per-document timeout.
func (p *Parser) Extract(ctx context.Context, doc Document) (string, error) {
	read, ok := p.readers[doc.Ext()]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Ext())
	}

	ctx, cancel := context.WithTimeout(ctx, p.documentTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := read(doc.Data)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("parse %s: %w", doc.Name, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("parse %s: %w", doc.Name, res.err)
		}
		return strings.TrimSpace(res.text), nil
	}
}
