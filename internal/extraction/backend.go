package extraction

import (
	"context"
	"fmt"

	"github.com/zombor/invoice-extract/internal/invoice"
)

// DocumentReader converts an input file into the text+tables payload
// the engine consumes. PDF reading lives behind this interface so the
// engine itself never opens files.
type DocumentReader interface {
	Read(filename string, data []byte) (invoice.RawDocument, error)
}

// Backend adapts the pattern Engine to the invoice.Extractor contract
// by pairing it with a DocumentReader.
type Backend struct {
	engine *Engine
	reader DocumentReader
}

// NewBackend creates a pattern-engine extraction backend.
func NewBackend(engine *Engine, reader DocumentReader) *Backend {
	return &Backend{
		engine: engine,
		reader: reader,
	}
}

// Extract converts the document and runs the pattern pipeline over it.
func (b *Backend) Extract(ctx context.Context, filename string, data []byte) (*invoice.Record, error) {
	doc, err := b.reader.Read(filename, data)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return b.engine.Extract(doc, filename), nil
}

// Close releases backend resources (none for the pattern engine).
func (b *Backend) Close() error {
	return nil
}
