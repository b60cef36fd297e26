package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"hisdash/internal/models"
	"hisdash/pkg/utils"
)

// numberSeparators strips thousands separators, including the no-break space spreadsheets emit.
var numberSeparators = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

// Transformer maps raw rows onto canonical records.
type Transformer struct {
	now func() time.Time
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{now: time.Now}
}

// NewTransformerWithClock creates a transformer whose processing-time fallback reads now.
func NewTransformerWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

// Transform normalizes every row, in order. It never drops a row and never fails.
func (t *Transformer) Transform(rows []models.RawRecord) []models.CanonicalRecord {
	records := make([]models.CanonicalRecord, len(rows))

	for i := range rows {
		records[i] = t.TransformRow(i, rows[i])
	}

	return records
}

// TransformRow normalizes a single row found at index within its payload.
func (t *Transformer) TransformRow(index int, raw models.RawRecord) models.CanonicalRecord {
	visitID := strings.TrimSpace(raw.VisitID)

	rec := models.CanonicalRecord{
		ID:               strconv.Itoa(index) + "-" + visitID,
		VisitID:          visitID,
		PatientID:        strings.TrimSpace(raw.PatientID),
		AdmissionDate:    resolveOptional(raw.AdmissionDate),
		DischargeDate:    resolveOptional(raw.DischargeDate),
		PaymentDate:      resolveOptional(raw.PaymentDate),
		TreatmentOutcome: textOr(raw.TreatmentOutcome, models.UnknownValue),
		DiagnosisCode:    textOr(raw.DiagnosisCode, models.UnknownValue),
		Department:       textOr(raw.Department, models.UnknownValue),
		Doctor:           textOr(raw.Doctor, models.UnknownValue),
		ServiceGroupName: textOr(raw.ServiceGroupName, models.OtherValue),
		ServiceName:      textOr(raw.ServiceName, models.UnknownValue),
		VisitTypeCode:    strings.TrimSpace(raw.VisitTypeCode),
		DischargeStatus:  textOr(raw.DischargeStatus, models.UnknownValue),
		ObjectType:       textOr(raw.ObjectType, models.UnknownValue),
		Quantity:         ParseAmount(raw.Quantity),
		LineAmount:       ParseAmount(raw.LineAmount),
	}

	rec.StatDate = t.statDate(&rec)
	rec.TreatmentDays = treatmentDays(raw.TreatmentDays, rec.AdmissionDate, rec.DischargeDate)
	rec.Year = rec.StatDate.Year()
	rec.Month = int(rec.StatDate.Month())
	rec.Quarter = (rec.Month-1)/3 + 1

	return rec
}

// statDate picks payment, then discharge, then admission, then the processing time.
func (t *Transformer) statDate(rec *models.CanonicalRecord) time.Time {
	for _, d := range []*time.Time{rec.PaymentDate, rec.DischargeDate, rec.AdmissionDate} {
		if d != nil {
			return *d
		}
	}

	return t.now()
}

// ParseAmount parses a decimal after removing thousands separators.
// Unparseable, non-finite and negative inputs yield 0.
func ParseAmount(text string) float64 {
	v, ok := parseDecimal(text)
	if !ok || v < 0 {
		return 0
	}

	return v
}

func parseDecimal(text string) (float64, bool) {
	cleaned := numberSeparators.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// treatmentDays keeps a usable source value (zero included) and otherwise counts
// calendar days from admission to discharge inclusively.
func treatmentDays(source string, admission, discharge *time.Time) int {
	if v, ok := parseDecimal(source); ok && v >= 0 {
		return int(v)
	}

	if admission == nil || discharge == nil {
		return 0
	}

	days := calendarDaysBetween(*admission, *discharge) + 1
	if days < 0 {
		return 0
	}

	return days
}

// calendarDaysBetween compares calendar components only, so DST shifts never lose a day.
func calendarDaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a).Hours() / 24)
}

func resolveOptional(text string) *time.Time {
	t, ok := ResolveDate(text)
	if !ok {
		return nil
	}

	return &t
}

func textOr(text, fallback string) string {
	if v := utils.NormalizeWhitespace(text); v != "" {
		return v
	}

	return fallback
}
