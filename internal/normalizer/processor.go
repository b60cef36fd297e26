// Package normalizer turns tokenized HIS rows into canonical records.
package normalizer

import (
	"fmt"
	"time"

	"hisdash/internal/models"
)

// Processor validates a table and then normalizes its rows.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// NewProcessorWithClock creates a processor whose transformer reads now for the stat-date fallback.
func NewProcessorWithClock(now func() time.Time) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformerWithClock(now),
	}
}

// Process rejects the whole table at the schema gate or returns one record per row.
func (p *Processor) Process(table *models.Table) ([]models.CanonicalRecord, error) {
	if err := p.validator.Validate(table); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return p.transformer.Transform(table.Rows), nil
}
