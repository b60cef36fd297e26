// Package models defines the data structures shared by the loader, normalizer and analytics stages.
package models

import "time"

// Source column names. Exact, case-sensitive header names of the HIS export.
const (
	ColVisitID          = "MA_LK"
	ColPatientID        = "MA_BN"
	ColLineAmount       = "THANH_TIEN"
	ColDepartment       = "TEN_KHOA"
	ColAdmissionDate    = "NGAY_VAO"
	ColDischargeDate    = "NGAY_RA"
	ColPaymentDate      = "NGAY_TTOAN"
	ColTreatmentDays    = "SO_NGAY_DTRI"
	ColTreatmentOutcome = "KET_QUA_DTRI"
	ColDiagnosisCode    = "MA_BENH"
	ColDoctor           = "TEN_BAC_SI"
	ColServiceGroup     = "TEN_NHOM"
	ColServiceName      = "TEN_DICH_VU"
	ColVisitTypeCode    = "MA_LOAI_KCB"
	ColDischargeStatus  = "TINH_TRANG_RV"
	ColObjectType       = "DOI_TUONG"
	ColQuantity         = "SO_LUONG"
)

// RequiredColumns lists the columns a payload must carry before it is normalized.
var RequiredColumns = []string{ColVisitID, ColPatientID, ColLineAmount, ColDepartment}

// Sentinels substituted for empty source values.
const (
	UnknownValue = "Unknown"
	OtherValue   = "Other"
)

// Table is a tokenized payload: the header row plus one RawRecord per data row.
type Table struct {
	Header []string
	Rows   []RawRecord
}

// HasColumn reports whether the header carries the exact column name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}

	return false
}

// RawRecord is one source row. Every field is the untrimmed cell text; absent columns are "".
type RawRecord struct {
	VisitID          string `json:"visitId"`
	PatientID        string `json:"patientId"`
	LineAmount       string `json:"lineAmount"`
	Department       string `json:"department"`
	AdmissionDate    string `json:"admissionDate"`
	DischargeDate    string `json:"dischargeDate"`
	PaymentDate      string `json:"paymentDate"`
	TreatmentDays    string `json:"treatmentDays"`
	TreatmentOutcome string `json:"treatmentOutcome"`
	DiagnosisCode    string `json:"diagnosisCode"`
	Doctor           string `json:"doctor"`
	ServiceGroupName string `json:"serviceGroupName"`
	ServiceName      string `json:"serviceName"`
	VisitTypeCode    string `json:"visitTypeCode"`
	DischargeStatus  string `json:"dischargeStatus"`
	ObjectType       string `json:"objectType"`
	Quantity         string `json:"quantity"`
}

// SetField assigns the value of a named source column. Unknown columns are ignored.
func (r *RawRecord) SetField(column, value string) {
	switch column {
	case ColVisitID:
		r.VisitID = value
	case ColPatientID:
		r.PatientID = value
	case ColLineAmount:
		r.LineAmount = value
	case ColDepartment:
		r.Department = value
	case ColAdmissionDate:
		r.AdmissionDate = value
	case ColDischargeDate:
		r.DischargeDate = value
	case ColPaymentDate:
		r.PaymentDate = value
	case ColTreatmentDays:
		r.TreatmentDays = value
	case ColTreatmentOutcome:
		r.TreatmentOutcome = value
	case ColDiagnosisCode:
		r.DiagnosisCode = value
	case ColDoctor:
		r.Doctor = value
	case ColServiceGroup:
		r.ServiceGroupName = value
	case ColServiceName:
		r.ServiceName = value
	case ColVisitTypeCode:
		r.VisitTypeCode = value
	case ColDischargeStatus:
		r.DischargeStatus = value
	case ColObjectType:
		r.ObjectType = value
	case ColQuantity:
		r.Quantity = value
	}
}

// CanonicalRecord is the normalized, typed representation of one billed line item.
type CanonicalRecord struct {
	StatDate         time.Time  `json:"statDate"`
	AdmissionDate    *time.Time `json:"admissionDate,omitempty"`
	DischargeDate    *time.Time `json:"dischargeDate,omitempty"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty"`
	ID               string     `json:"id"`
	VisitID          string     `json:"visitId"`
	PatientID        string     `json:"patientId"`
	TreatmentOutcome string     `json:"treatmentOutcome"`
	DiagnosisCode    string     `json:"diagnosisCode"`
	Department       string     `json:"department"`
	Doctor           string     `json:"doctor"`
	ServiceGroupName string     `json:"serviceGroupName"`
	ServiceName      string     `json:"serviceName"`
	VisitTypeCode    string     `json:"visitTypeCode"`
	DischargeStatus  string     `json:"dischargeStatus"`
	ObjectType       string     `json:"objectType"`
	Quantity         float64    `json:"quantity"`
	LineAmount       float64    `json:"lineAmount"`
	TreatmentDays    int        `json:"treatmentDays"`
	Year             int        `json:"year"`
	Month            int        `json:"month"`
	Quarter          int        `json:"quarter"`
}
