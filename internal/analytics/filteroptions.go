package analytics

import (
	"sort"

	"hisdash/internal/models"
)

// FilterOptions collects the sorted distinct non-empty values of every exact-match filter field.
func FilterOptions(records []models.CanonicalRecord) models.FilterOptions {
	return models.FilterOptions{
		Departments:       distinct(records, byDepartment),
		Doctors:           distinct(records, byDoctor),
		ServiceGroups:     distinct(records, byServiceGroup),
		ObjectTypes:       distinct(records, byObjectType),
		VisitTypeCodes:    distinct(records, func(r *models.CanonicalRecord) string { return r.VisitTypeCode }),
		DiagnosisCodes:    distinct(records, byDiagnosis),
		TreatmentOutcomes: distinct(records, byOutcome),
		DischargeStatuses: distinct(records, byDischarge),
	}
}

func distinct(records []models.CanonicalRecord, key func(*models.CanonicalRecord) string) []string {
	seen := make(map[string]bool)
	values := []string{}

	for i := range records {
		v := key(&records[i])
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	sort.Strings(values)

	return values
}
