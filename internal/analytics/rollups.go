package analytics

import (
	"sort"

	"hisdash/internal/category"
	"hisdash/internal/models"
)

// ComputeRollups builds every chart rollup for records.
func ComputeRollups(records []models.CanonicalRecord, opts Options) models.Rollups {
	opts = opts.normalized()

	return models.Rollups{
		Timeline:          timeline(records),
		Departments:       top(items(groupBy(records, byDepartment), costMetric), opts.TopDepartments),
		ObjectTypes:       pie(items(groupBy(records, byObjectType), costMetric), opts.PieSlices),
		Diagnoses:         top(items(groupBy(records, byDiagnosis), visitMetric), opts.TopDiagnoses),
		Services:          top(items(groupBy(records, byService), costMetric), opts.TopServices),
		Doctors:           top(items(groupBy(records, byDoctor), costMetric), opts.TopDoctors),
		ServiceGroups:     top(items(groupBy(records, byServiceGroup), costMetric), opts.TopServiceGroups),
		RevenueStructure:  revenueStructure(records),
		TreatmentOutcomes: pie(items(groupBy(records, byOutcome), visitMetric), opts.PieSlices),
		DischargeStatuses: pie(items(groupBy(records, byDischarge), visitMetric), opts.PieSlices),
	}
}

// timeline emits one point per calendar day in chronological order.
func timeline(records []models.CanonicalRecord) []models.TimePoint {
	groups := groupBy(records, byDay)

	points := make([]models.TimePoint, 0, groups.len())
	groups.each(func(day string, b *bucket) {
		points = append(points, models.TimePoint{Date: day, Cost: b.cost, Visits: b.visitCount()})
	})

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return points
}

// revenueStructure always lists the five categories in fixed order.
func revenueStructure(records []models.CanonicalRecord) []models.RollupItem {
	groups := groupBy(records, byCategory)

	out := make([]models.RollupItem, 0, len(category.All))

	for _, c := range category.All {
		it := models.RollupItem{Name: string(c)}
		if b, ok := groups.lookup(string(c)); ok {
			it.Value = b.cost
			it.Cost = b.cost
			it.Visits = b.visitCount()
			it.Quantity = b.quantity
		}

		out = append(out, it)
	}

	return out
}
