// Package dashboard holds the loaded dataset and derives snapshots from it per filter.
package dashboard

import (
	"hisdash/internal/analytics"
	"hisdash/internal/filter"
	"hisdash/internal/models"
)

// Snapshot is the result of one pipeline run.
type Snapshot = models.Snapshot

// Compute filters records and derives KPIs, rollups and alerts from the filtered set.
// records is never modified.
func Compute(records []models.CanonicalRecord, filters models.FilterState, opts analytics.Options) Snapshot {
	filtered := filter.Apply(records, filters)

	return Snapshot{
		Filters:  filters,
		RowCount: len(filtered),
		KPIs:     analytics.ComputeKPIs(filtered, opts),
		Rollups:  analytics.ComputeRollups(filtered, opts),
		Alerts:   analytics.DetectAlerts(filtered, opts),
	}
}
