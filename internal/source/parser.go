package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"hisdash/internal/models"
)

// ErrEmptyPayload indicates a payload without a header row.
var ErrEmptyPayload = errors.New("payload is empty")

// ParseCSV tokenizes CSV text into a table. The first record is the header; blank rows
// are skipped, short rows leave their missing columns empty and extra cells are ignored.
func ParseCSV(text string) (*models.Table, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\uFEFF")))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyPayload
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &models.Table{Header: header}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+1, err)
		}

		if isBlank(record) {
			continue
		}

		table.Rows = append(table.Rows, toRawRecord(header, record))
	}

	return table, nil
}

func toRawRecord(header, record []string) models.RawRecord {
	var raw models.RawRecord

	for i, col := range header {
		if i < len(record) {
			raw.SetField(col, record[i])
		}
	}

	return raw
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
