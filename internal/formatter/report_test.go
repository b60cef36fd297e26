package formatter

import (
	"strings"
	"testing"
	"time"

	"hisdash/internal/models"
	"hisdash/pkg/metadata"
)

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Filters: models.FilterState{
			StartDate:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local),
			EndDate:    time.Date(2024, time.March, 31, 0, 0, 0, 0, time.Local),
			Department: "Nội",
		},
		RowCount: 3,
		KPIs: models.KPIStats{
			TotalRows:            3,
			TotalVisits:          2,
			TotalPatients:        2,
			TotalCost:            180,
			AvgCostPerVisit:      90,
			InpatientCount:       1,
			InpatientRevenue:     150,
			ConsultationCount:    1,
			ConsultationRevenue:  30,
			MedicineRevenue:      150,
			OtherCategoryRevenue: 30,
		},
		Rollups: models.Rollups{
			Departments: []models.RollupItem{{Name: "Nội", Value: 180, Visits: 2, Cost: 180}},
			Diagnoses:   []models.RollupItem{{Name: "J18", Value: 2, Visits: 2, Cost: 180}},
		},
		Alerts: []models.AlertItem{{
			Severity: models.SeverityDanger,
			Message:  "Department cost up 45.0%: Nội",
			Detail:   "Nội rose from 100 to 145 (03/2024 vs 02/2024).",
		}},
	}
}

func TestFormatReport(t *testing.T) {
	meta := metadata.New("export.csv", "file", []byte("x"), 3, nil)

	out := FormatReport(sampleSnapshot(), meta)

	for _, want := range []string{
		"HIS BILLING REPORT",
		"Source:  export.csv (file, load " + meta.ShortID(),
		"Period:  01/03/2024 - 31/03/2024",
		"Filters: department=Nội",
		"OVERVIEW",
		"| Total cost         | 180 VND |",
		"VISIT TYPES",
		"| Inpatient            |      1 | 150 VND |",
		"REVENUE STRUCTURE",
		"| Medicine | 150 VND | 83.3% |",
		"TOP 5 DEPARTMENTS BY COST",
		"TOP 5 SERVICES BY COST",
		"(no data)",
		"[DANGER] Department cost up 45.0%: Nội",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestFormatReport_NoAlertsNoMeta(t *testing.T) {
	snap := models.Snapshot{}

	out := FormatReport(snap, nil)

	if strings.Contains(out, "Source:") {
		t.Error("report without metadata should not print a source line")
	}

	for _, want := range []string{"Period:  all dates", "Filters: none", "No alerts.", "| Medicine |   0 VND |     - |"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestRenderTable_AlignsWideText(t *testing.T) {
	lines := renderTable([]string{"Name", "Cost"}, [][]string{{"Nội", "1"}, {"Chẩn đoán", "20"}}, []bool{false, true})

	want := []string{
		"| Name      | Cost |",
		"| --------- | ---- |",
		"| Nội       |    1 |",
		"| Chẩn đoán |   20 |",
	}

	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("renderTable =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(1234567.6); got != "1,234,568 VND" {
		t.Errorf("FormatMoney = %q", got)
	}

	if got := FormatInt(12000); got != "12,000" {
		t.Errorf("FormatInt = %q", got)
	}
}
