package models

import (
	"strconv"
)

// KPIStats is the summary derived from a filtered record set.
type KPIStats struct {
	TotalRows       int     `json:"totalRows"`
	TotalVisits     int     `json:"totalVisits"`
	TotalPatients   int     `json:"totalPatients"`
	TotalCost       float64 `json:"totalCost"`
	TotalQuantity   float64 `json:"totalQuantity"`
	AvgCostPerVisit float64 `json:"avgCostPerVisit"`
	// AvgTreatmentDays is the mean over visits of each visit's longest treatment-day value.
	AvgTreatmentDays float64 `json:"avgTreatmentDays"`

	InpatientCount      int     `json:"countNoiTru"`
	InpatientRevenue    float64 `json:"revenueNoiTru"`
	OutpatientCount     int     `json:"countNgoaiTru"`
	OutpatientRevenue   float64 `json:"revenueNgoaiTru"`
	ConsultationCount   int     `json:"countKhamBenh"`
	ConsultationRevenue float64 `json:"revenueKhamBenh"`
	OtherVisitCount     int     `json:"countLoaiKhac"`
	OtherVisitRevenue   float64 `json:"revenueLoaiKhac"`

	MedicineRevenue      float64 `json:"revenueThuoc"`
	ImagingRevenue       float64 `json:"revenueCdha"`
	LabRevenue           float64 `json:"revenueXetNghiem"`
	BedRevenue           float64 `json:"revenueGiuong"`
	OtherCategoryRevenue float64 `json:"revenueNhomKhac"`

	TopDiagnosis       string  `json:"topDiagnosis"`
	TopDiagnosisVisits int     `json:"topDiagnosisVisits"`
	TopService         string  `json:"topService"`
	TopServiceCost     float64 `json:"topServiceCost"`
}

// RollupItem is one grouped entry of a rollup. Value is the metric the rollup is sorted by.
type RollupItem struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Visits   int     `json:"visits,omitempty"`
	Cost     float64 `json:"cost,omitempty"`
	Quantity float64 `json:"quantity,omitempty"`
}

// TimePoint is one calendar day of the time series.
type TimePoint struct {
	Date   string  `json:"date"`
	Cost   float64 `json:"cost"`
	Visits int     `json:"visits"`
}

// Rollup names accepted by Rollups.Table.
const (
	RollupTimeline          = "timeline"
	RollupDepartments       = "departments"
	RollupObjectTypes       = "objectTypes"
	RollupDiagnoses         = "diagnoses"
	RollupServices          = "services"
	RollupDoctors           = "doctors"
	RollupServiceGroups     = "serviceGroups"
	RollupRevenueStructure  = "revenueStructure"
	RollupTreatmentOutcomes = "treatmentOutcomes"
	RollupDischargeStatuses = "dischargeStatuses"
)

// RollupNames lists every named rollup in display order.
var RollupNames = []string{
	RollupTimeline,
	RollupDepartments,
	RollupObjectTypes,
	RollupDiagnoses,
	RollupServices,
	RollupDoctors,
	RollupServiceGroups,
	RollupRevenueStructure,
	RollupTreatmentOutcomes,
	RollupDischargeStatuses,
}

// Rollups holds the chart-ready groupings of a filtered record set.
type Rollups struct {
	Timeline          []TimePoint  `json:"timeline"`
	Departments       []RollupItem `json:"departments"`
	ObjectTypes       []RollupItem `json:"objectTypes"`
	Diagnoses         []RollupItem `json:"diagnoses"`
	Services          []RollupItem `json:"services"`
	Doctors           []RollupItem `json:"doctors"`
	ServiceGroups     []RollupItem `json:"serviceGroups"`
	RevenueStructure  []RollupItem `json:"revenueStructure"`
	TreatmentOutcomes []RollupItem `json:"treatmentOutcomes"`
	DischargeStatuses []RollupItem `json:"dischargeStatuses"`
}

// FlatTable is a rollup flattened into uniform rows, ready for delimited export.
type FlatTable struct {
	Columns []string
	Rows    [][]string
}

// Table flattens the named rollup. The second result is false for an unknown name.
func (r *Rollups) Table(name string) (FlatTable, bool) {
	switch name {
	case RollupTimeline:
		t := FlatTable{Columns: []string{"date", "cost", "visits"}}
		for _, p := range r.Timeline {
			t.Rows = append(t.Rows, []string{p.Date, formatFloat(p.Cost), strconv.Itoa(p.Visits)})
		}

		return t, true
	case RollupDepartments, RollupDoctors:
		return itemTable(r.items(name), "cost", "visits"), true
	case RollupDiagnoses:
		return itemTable(r.Diagnoses, "visits", "cost"), true
	case RollupServices:
		return itemTable(r.Services, "cost", "quantity"), true
	case RollupTreatmentOutcomes, RollupDischargeStatuses:
		return itemTable(r.items(name), "visits"), true
	case RollupObjectTypes, RollupServiceGroups, RollupRevenueStructure:
		return itemTable(r.items(name), "cost"), true
	}

	return FlatTable{}, false
}

func (r *Rollups) items(name string) []RollupItem {
	switch name {
	case RollupDepartments:
		return r.Departments
	case RollupObjectTypes:
		return r.ObjectTypes
	case RollupDiagnoses:
		return r.Diagnoses
	case RollupServices:
		return r.Services
	case RollupDoctors:
		return r.Doctors
	case RollupServiceGroups:
		return r.ServiceGroups
	case RollupRevenueStructure:
		return r.RevenueStructure
	case RollupTreatmentOutcomes:
		return r.TreatmentOutcomes
	case RollupDischargeStatuses:
		return r.DischargeStatuses
	}

	return nil
}

// itemTable renders items as name, the primary metric (Value) and the named secondary metrics.
func itemTable(items []RollupItem, primary string, secondary ...string) FlatTable {
	t := FlatTable{Columns: append([]string{"name", primary}, secondary...)}

	for _, it := range items {
		row := []string{it.Name, formatFloat(it.Value)}
		for _, col := range secondary {
			row = append(row, secondaryMetric(it, col))
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

func secondaryMetric(it RollupItem, col string) string {
	switch col {
	case "visits":
		return strconv.Itoa(it.Visits)
	case "quantity":
		return formatFloat(it.Quantity)
	default:
		return formatFloat(it.Cost)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Alert severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// AlertItem is one month-over-month anomaly.
type AlertItem struct {
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
	Detail    string  `json:"detail"`
	Dimension string  `json:"dimension,omitempty"`
	Key       string  `json:"key,omitempty"`
	Previous  float64 `json:"previous,omitempty"`
	Current   float64 `json:"current,omitempty"`
	GrowthPct float64 `json:"growthPct,omitempty"`
}
