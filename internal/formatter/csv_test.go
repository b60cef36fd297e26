package formatter

import (
	"testing"

	"hisdash/internal/models"
)

func TestExportCSV(t *testing.T) {
	tests := []struct {
		name     string
		table    models.FlatTable
		expected string
	}{
		{
			name: "Quotes every value",
			table: models.FlatTable{
				Columns: []string{"name", "cost", "visits"},
				Rows: [][]string{
					{"Khoa Nội", "1500", "2"},
					{`Phòng "VIP"`, "30.5", "1"},
				},
			},
			expected: "name,cost,visits\n\"Khoa Nội\",\"1500\",\"2\"\n\"Phòng \"\"VIP\"\"\",\"30.5\",\"1\"",
		},
		{
			name: "Commas stay inside quotes",
			table: models.FlatTable{
				Columns: []string{"name", "cost"},
				Rows:    [][]string{{"Nội, Ngoại", "1"}},
			},
			expected: "name,cost\n\"Nội, Ngoại\",\"1\"",
		},
		{
			name:     "No rows",
			table:    models.FlatTable{Columns: []string{"name"}},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportCSV(tt.table); got != tt.expected {
				t.Errorf("ExportCSV() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}
