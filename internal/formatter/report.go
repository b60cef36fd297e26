// Package formatter renders dashboard snapshots as a plain-text report and CSV exports.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"hisdash/internal/models"
	"hisdash/pkg/metadata"
	"hisdash/pkg/utils"
)

// reportTopN is the length of the top lists in the text report.
const reportTopN = 5

// FormatMoney renders an amount in whole currency units.
func FormatMoney(v float64) string {
	return utils.FormatAmount(v) + " VND"
}

// FormatInt renders a count with thousands separators.
func FormatInt(n int) string {
	return utils.FormatInt(n)
}

// FormatReport composes the fixed-template text summary of snap. meta may be nil.
func FormatReport(snap models.Snapshot, meta *metadata.Metadata) string {
	var sections [][]string

	sections = append(sections, header(snap, meta))
	sections = append(sections, overview(snap.KPIs))
	sections = append(sections, visitTypes(snap.KPIs))
	sections = append(sections, revenueStructure(snap.KPIs))
	sections = append(sections, topList(
		fmt.Sprintf("TOP %d DEPARTMENTS BY COST", reportTopN),
		[]string{"#", "Department", "Cost", "Visits"},
		snap.Rollups.Departments,
		func(it models.RollupItem) []string { return []string{FormatMoney(it.Value), FormatInt(it.Visits)} },
	))
	sections = append(sections, topList(
		fmt.Sprintf("TOP %d DIAGNOSES BY VISITS", reportTopN),
		[]string{"#", "Diagnosis", "Visits", "Cost"},
		snap.Rollups.Diagnoses,
		func(it models.RollupItem) []string { return []string{FormatInt(int(it.Value)), FormatMoney(it.Cost)} },
	))
	sections = append(sections, topList(
		fmt.Sprintf("TOP %d SERVICES BY COST", reportTopN),
		[]string{"#", "Service", "Cost", "Quantity"},
		snap.Rollups.Services,
		func(it models.RollupItem) []string {
			return []string{FormatMoney(it.Value), strconv.FormatFloat(it.Quantity, 'f', -1, 64)}
		},
	))
	sections = append(sections, alerts(snap.Alerts))

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, strings.Join(s, "\n"))
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func header(snap models.Snapshot, meta *metadata.Metadata) []string {
	lines := []string{"HIS BILLING REPORT", strings.Repeat("=", 18)}

	if meta != nil {
		lines = append(lines, fmt.Sprintf("Source:  %s (%s, load %s, %s rows)",
			meta.Source, meta.Kind, meta.ShortID(), FormatInt(meta.Rows)))
		lines = append(lines, "Loaded:  "+meta.LoadedAt.Local().Format("02/01/2006 15:04"))
	}

	period := "all dates"
	if snap.Filters.HasDateRange() {
		period = snap.Filters.StartDate.Format("02/01/2006") + " - " + snap.Filters.EndDate.Format("02/01/2006")
	}

	lines = append(lines, "Period:  "+period)
	lines = append(lines, "Filters: "+describeFilters(snap.Filters))

	return lines
}

func describeFilters(f models.FilterState) string {
	var parts []string

	for _, kv := range []struct{ k, v string }{
		{"department", f.Department},
		{"doctor", f.Doctor},
		{"group", f.ServiceGroup},
		{"object type", f.ObjectType},
		{"visit type", f.VisitTypeCode},
		{"diagnosis", f.DiagnosisCode},
		{"outcome", f.TreatmentOutcome},
		{"discharge", f.DischargeStatus},
		{"service contains", f.ServiceName},
	} {
		if kv.v != "" {
			parts = append(parts, kv.k+"="+kv.v)
		}
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, "; ")
}

func overview(k models.KPIStats) []string {
	rows := [][]string{
		{"Line items", FormatInt(k.TotalRows)},
		{"Visits", FormatInt(k.TotalVisits)},
		{"Patients", FormatInt(k.TotalPatients)},
		{"Total cost", FormatMoney(k.TotalCost)},
		{"Avg cost per visit", FormatMoney(k.AvgCostPerVisit)},
		{"Avg treatment days", strconv.FormatFloat(k.AvgTreatmentDays, 'f', 1, 64)},
	}

	return section("OVERVIEW", renderTable([]string{"Metric", "Value"}, rows, []bool{false, true}))
}

func visitTypes(k models.KPIStats) []string {
	rows := [][]string{
		{"Inpatient", FormatInt(k.InpatientCount), FormatMoney(k.InpatientRevenue)},
		{"Outpatient treatment", FormatInt(k.OutpatientCount), FormatMoney(k.OutpatientRevenue)},
		{"Consultation", FormatInt(k.ConsultationCount), FormatMoney(k.ConsultationRevenue)},
		{"Other", FormatInt(k.OtherVisitCount), FormatMoney(k.OtherVisitRevenue)},
	}

	return section("VISIT TYPES", renderTable([]string{"Type", "Visits", "Revenue"}, rows, []bool{false, true, true}))
}

func revenueStructure(k models.KPIStats) []string {
	buckets := []struct {
		name  string
		value float64
	}{
		{"Medicine", k.MedicineRevenue},
		{"Imaging", k.ImagingRevenue},
		{"Lab", k.LabRevenue},
		{"Bed", k.BedRevenue},
		{"Other", k.OtherCategoryRevenue},
	}

	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.name, FormatMoney(b.value), share(b.value, k.TotalCost)})
	}

	return section("REVENUE STRUCTURE", renderTable([]string{"Category", "Revenue", "Share"}, rows, []bool{false, true, true}))
}

func share(part, total float64) string {
	if total <= 0 {
		return "-"
	}

	return utils.FormatPercent(part / total * 100)
}

func topList(title string, head []string, items []models.RollupItem, metrics func(models.RollupItem) []string) []string {
	if len(items) == 0 {
		return section(title, []string{"(no data)"})
	}

	if len(items) > reportTopN {
		items = items[:reportTopN]
	}

	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, append([]string{strconv.Itoa(i + 1), it.Name}, metrics(it)...))
	}

	return section(title, renderTable(head, rows, []bool{true, false, true, true}))
}

func alerts(items []models.AlertItem) []string {
	if len(items) == 0 {
		return section("ALERTS", []string{"No alerts."})
	}

	var lines []string
	for _, a := range items {
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(a.Severity), a.Message))
		if a.Detail != "" {
			lines = append(lines, "    "+a.Detail)
		}
	}

	return section("ALERTS", lines)
}

func section(title string, body []string) []string {
	return append([]string{title, strings.Repeat("-", len(title))}, body...)
}
