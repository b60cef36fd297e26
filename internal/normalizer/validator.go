package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"hisdash/internal/models"
)

// Validation errors.
var (
	ErrNilTable       = errors.New("no table to validate")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoRows         = errors.New("payload contains no data rows")
)

// SchemaError lists every required column absent from a payload header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrMissingColumns
}

// Validator is the schema gate in front of the transformer.
type Validator struct {
	required []string
}

// NewValidator creates a validator for the standard required columns.
func NewValidator() *Validator {
	return &Validator{required: models.RequiredColumns}
}

// Validate rejects tables without the required columns or without rows.
func (v *Validator) Validate(table *models.Table) error {
	if table == nil {
		return ErrNilTable
	}

	var missing []string

	for _, col := range v.required {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	if len(table.Rows) == 0 {
		return ErrNoRows
	}

	return nil
}
