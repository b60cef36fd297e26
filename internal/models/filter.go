package models

import "time"

// FilterState is a flat set of optional criteria. A zero or empty criterion places no constraint.
type FilterState struct {
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Department       string    `json:"department,omitempty"`
	Doctor           string    `json:"doctor,omitempty"`
	ServiceGroup     string    `json:"serviceGroup,omitempty"`
	ObjectType       string    `json:"objectType,omitempty"`
	VisitTypeCode    string    `json:"visitTypeCode,omitempty"`
	DiagnosisCode    string    `json:"diagnosisCode,omitempty"`
	TreatmentOutcome string    `json:"treatmentOutcome,omitempty"`
	DischargeStatus  string    `json:"dischargeStatus,omitempty"`
	ServiceName      string    `json:"serviceName,omitempty"`
}

// HasDateRange reports whether both date bounds are set.
func (f FilterState) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// IsEmpty reports whether no criterion is set.
func (f FilterState) IsEmpty() bool {
	return !f.HasDateRange() &&
		f.Department == "" &&
		f.Doctor == "" &&
		f.ServiceGroup == "" &&
		f.ObjectType == "" &&
		f.VisitTypeCode == "" &&
		f.DiagnosisCode == "" &&
		f.TreatmentOutcome == "" &&
		f.DischargeStatus == "" &&
		f.ServiceName == ""
}

// FilterOptions holds the distinct values available for each exact-match filter field.
type FilterOptions struct {
	Departments       []string `json:"departments"`
	Doctors           []string `json:"doctors"`
	ServiceGroups     []string `json:"serviceGroups"`
	ObjectTypes       []string `json:"objectTypes"`
	VisitTypeCodes    []string `json:"visitTypeCodes"`
	DiagnosisCodes    []string `json:"diagnosisCodes"`
	TreatmentOutcomes []string `json:"treatmentOutcomes"`
	DischargeStatuses []string `json:"dischargeStatuses"`
}
