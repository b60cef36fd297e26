package analytics

import (
	"hisdash/internal/category"
	"hisdash/internal/models"
)

type visitAgg struct {
	cost    float64
	maxDays int
	typ     VisitType
}

// ComputeKPIs summarizes records. Visit types are resolved across all rows of a visit
// and never downgrade; visit-type revenue is the per-visit total credited to the final type.
func ComputeKPIs(records []models.CanonicalRecord, opts Options) models.KPIStats {
	opts = opts.normalized()

	var stats models.KPIStats

	visits := newOrderedMap[string, visitAgg]()
	patients := make(map[string]struct{})

	for i := range records {
		r := &records[i]

		stats.TotalRows++
		stats.TotalCost += r.LineAmount
		stats.TotalQuantity += r.Quantity

		if r.PatientID != "" {
			patients[r.PatientID] = struct{}{}
		}

		v := visits.get(r.VisitID)
		v.cost += r.LineAmount

		if r.TreatmentDays > v.maxDays {
			v.maxDays = r.TreatmentDays
		}

		if t := opts.VisitTypeOf(r.VisitTypeCode); t > v.typ {
			v.typ = t
		}

		addCategoryRevenue(&stats, category.Classify(r.ServiceGroupName), r.LineAmount)
	}

	stats.TotalVisits = visits.len()
	stats.TotalPatients = len(patients)

	var totalDays int

	visits.each(func(_ string, v *visitAgg) {
		totalDays += v.maxDays

		switch v.typ {
		case VisitInpatient:
			stats.InpatientCount++
			stats.InpatientRevenue += v.cost
		case VisitOutpatient:
			stats.OutpatientCount++
			stats.OutpatientRevenue += v.cost
		case VisitConsultation:
			stats.ConsultationCount++
			stats.ConsultationRevenue += v.cost
		default:
			stats.OtherVisitCount++
			stats.OtherVisitRevenue += v.cost
		}
	})

	if stats.TotalVisits > 0 {
		stats.AvgCostPerVisit = stats.TotalCost / float64(stats.TotalVisits)
		stats.AvgTreatmentDays = float64(totalDays) / float64(stats.TotalVisits)
	}

	if name, b, ok := leader(groupBy(records, byDiagnosis), visitMetric); ok {
		stats.TopDiagnosis = name
		stats.TopDiagnosisVisits = b.visitCount()
	}

	if name, b, ok := leader(groupBy(records, byService), costMetric); ok {
		stats.TopService = name
		stats.TopServiceCost = b.cost
	}

	return stats
}

func addCategoryRevenue(stats *models.KPIStats, c category.Category, amount float64) {
	switch c {
	case category.Medicine:
		stats.MedicineRevenue += amount
	case category.Imaging:
		stats.ImagingRevenue += amount
	case category.Lab:
		stats.LabRevenue += amount
	case category.Bed:
		stats.BedRevenue += amount
	default:
		stats.OtherCategoryRevenue += amount
	}
}

// leader returns the group with the largest metric; the first one seen wins ties.
func leader(groups *orderedMap[string, bucket], m metric) (string, *bucket, bool) {
	var (
		bestName string
		best     *bucket
	)

	groups.each(func(name string, b *bucket) {
		if best == nil || m(b) > m(best) {
			bestName, best = name, b
		}
	})

	return bestName, best, best != nil
}

func byDepartment(r *models.CanonicalRecord) string   { return r.Department }
func byDiagnosis(r *models.CanonicalRecord) string    { return r.DiagnosisCode }
func byService(r *models.CanonicalRecord) string      { return r.ServiceName }
func byDoctor(r *models.CanonicalRecord) string       { return r.Doctor }
func byServiceGroup(r *models.CanonicalRecord) string { return r.ServiceGroupName }
func byObjectType(r *models.CanonicalRecord) string   { return r.ObjectType }
func byOutcome(r *models.CanonicalRecord) string      { return r.TreatmentOutcome }
func byDischarge(r *models.CanonicalRecord) string    { return r.DischargeStatus }
func byCategory(r *models.CanonicalRecord) string {
	return string(category.Classify(r.ServiceGroupName))
}
func byDay(r *models.CanonicalRecord) string { return r.StatDate.Format("2006-01-02") }
