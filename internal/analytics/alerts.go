package analytics

import (
	"fmt"
	"sort"
	"time"

	"hisdash/internal/models"
	"hisdash/pkg/utils"
)

// Alert dimensions.
const (
	DimensionDepartment = "department"
	DimensionDiagnosis  = "diagnosis"
	DimensionService    = "service"
)

type alertRule struct {
	dimension string
	severity  string
	key       func(*models.CanonicalRecord) string
	metric    metric
	// floor is the value the previous month must exceed before growth is tested.
	floor  float64
	label  string
	format func(float64) string
}

// DetectAlerts compares the latest month in records with the calendar month before it
// and reports groups whose growth exceeds opts.GrowthThresholdPct.
func DetectAlerts(records []models.CanonicalRecord, opts Options) []models.AlertItem {
	alerts := []models.AlertItem{}
	if len(records) == 0 {
		return alerts
	}

	latest := records[0].StatDate
	for i := range records {
		if records[i].StatDate.After(latest) {
			latest = records[i].StatDate
		}
	}

	curYear, curMonth := latest.Year(), latest.Month()
	prevStart := time.Date(curYear, curMonth-1, 1, 0, 0, 0, 0, time.Local)
	prevYear, prevMonth := prevStart.Year(), prevStart.Month()

	var current, previous []models.CanonicalRecord

	for i := range records {
		y, m := records[i].StatDate.Year(), records[i].StatDate.Month()

		switch {
		case y == curYear && m == curMonth:
			current = append(current, records[i])
		case y == prevYear && m == prevMonth:
			previous = append(previous, records[i])
		}
	}

	if len(previous) == 0 {
		return append(alerts, models.AlertItem{
			Severity: models.SeverityInfo,
			Message:  "Not enough data for a month-over-month comparison",
			Detail:   fmt.Sprintf("No records in %02d/%d to compare with %02d/%d.", prevMonth, prevYear, curMonth, curYear),
		})
	}

	period := fmt.Sprintf("%02d/%d vs %02d/%d", curMonth, curYear, prevMonth, prevYear)

	for _, rule := range alertRules(opts) {
		alerts = append(alerts, rule.evaluate(current, previous, opts.GrowthThresholdPct, period)...)
	}

	return alerts
}

func alertRules(opts Options) []alertRule {
	return []alertRule{
		{
			dimension: DimensionDepartment,
			severity:  models.SeverityDanger,
			key:       byDepartment,
			metric:    costMetric,
			label:     "Department cost",
			format:    utils.FormatAmount,
		},
		{
			dimension: DimensionDiagnosis,
			severity:  models.SeverityWarning,
			key:       byDiagnosis,
			metric:    visitMetric,
			floor:     float64(opts.DiagnosisMinPrevVisits),
			label:     "Diagnosis visits",
			format:    utils.FormatAmount,
		},
		{
			dimension: DimensionService,
			severity:  models.SeverityDanger,
			key:       byService,
			metric:    costMetric,
			floor:     opts.ServiceMinPrevCost,
			label:     "Service cost",
			format:    utils.FormatAmount,
		},
	}
}

// evaluate emits one alert per current-month group that grew past thresholdPct,
// ordered by growth descending.
func (r alertRule) evaluate(current, previous []models.CanonicalRecord, thresholdPct float64, period string) []models.AlertItem {
	prevGroups := groupBy(previous, r.key)

	var out []models.AlertItem

	groupBy(current, r.key).each(func(name string, b *bucket) {
		pb, ok := prevGroups.lookup(name)
		if !ok {
			return
		}

		cur, prev := r.metric(b), r.metric(pb)
		if prev <= 0 || prev <= r.floor {
			return
		}

		// Cross-multiplied so integral inputs compare exactly at the threshold.
		if (cur-prev)*100 <= thresholdPct*prev {
			return
		}

		growth := (cur - prev) / prev * 100

		out = append(out, models.AlertItem{
			Severity:  r.severity,
			Message:   fmt.Sprintf("%s up %s: %s", r.label, utils.FormatPercent(growth), name),
			Detail:    fmt.Sprintf("%s rose from %s to %s (%s).", name, r.format(prev), r.format(cur), period),
			Dimension: r.dimension,
			Key:       name,
			Previous:  prev,
			Current:   cur,
			GrowthPct: growth,
		})
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].GrowthPct > out[j].GrowthPct })

	return out
}
