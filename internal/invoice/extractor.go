package invoice

import "context"

// Extractor is the capability shared by every extraction backend:
// given a document, produce a Record. The pattern engine, the AI
// backend, and the parse-API backend all implement it, so callers can
// swap backends without changing the output contract.
type Extractor interface {
	// Extract analyzes one document and returns its structured record.
	// Backends never fail on missing or malformed fields inside the
	// document; those degrade to nulls in the record. An error means
	// the document could not be processed at all.
	Extract(ctx context.Context, filename string, data []byte) (*Record, error)

	// Close releases backend resources.
	Close() error
}
