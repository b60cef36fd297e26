// Package filter narrows a canonical record set to the rows matching a FilterState.
package filter

import (
	"strings"
	"time"

	"hisdash/internal/models"
)

type predicate func(*models.CanonicalRecord) bool

// Apply returns the records that satisfy every non-empty criterion of state, in input order.
// An empty state returns records itself.
func Apply(records []models.CanonicalRecord, state models.FilterState) []models.CanonicalRecord {
	preds := predicates(state)
	if len(preds) == 0 {
		return records
	}

	out := make([]models.CanonicalRecord, 0, len(records))

	for i := range records {
		if matchesAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}

	return out
}

func matchesAll(rec *models.CanonicalRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}

	return true
}

func predicates(state models.FilterState) []predicate {
	var preds []predicate

	if state.HasDateRange() {
		from := StartOfDay(state.StartDate)
		to := EndOfDay(state.EndDate)

		preds = append(preds, func(r *models.CanonicalRecord) bool {
			return !r.StatDate.Before(from) && !r.StatDate.After(to)
		})
	}

	exact := []struct {
		want  string
		field func(*models.CanonicalRecord) string
	}{
		{state.Department, func(r *models.CanonicalRecord) string { return r.Department }},
		{state.Doctor, func(r *models.CanonicalRecord) string { return r.Doctor }},
		{state.ServiceGroup, func(r *models.CanonicalRecord) string { return r.ServiceGroupName }},
		{state.ObjectType, func(r *models.CanonicalRecord) string { return r.ObjectType }},
		{state.VisitTypeCode, func(r *models.CanonicalRecord) string { return r.VisitTypeCode }},
		{state.DiagnosisCode, func(r *models.CanonicalRecord) string { return r.DiagnosisCode }},
		{state.TreatmentOutcome, func(r *models.CanonicalRecord) string { return r.TreatmentOutcome }},
		{state.DischargeStatus, func(r *models.CanonicalRecord) string { return r.DischargeStatus }},
	}

	for _, e := range exact {
		if e.want == "" {
			continue
		}

		want, field := e.want, e.field
		preds = append(preds, func(r *models.CanonicalRecord) bool { return field(r) == want })
	}

	if state.ServiceName != "" {
		needle := strings.ToLower(state.ServiceName)
		preds = append(preds, func(r *models.CanonicalRecord) bool {
			return strings.Contains(strings.ToLower(r.ServiceName), needle)
		})
	}

	return preds
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
