package normalizer

import (
	"testing"
	"time"

	"hisdash/internal/models"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.Local)

func newTestTransformer() *Transformer {
	return NewTransformerWithClock(func() time.Time { return fixedNow })
}

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer()
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_Transform_IsTotal(t *testing.T) {
	tr := newTestTransformer()

	rows := []models.RawRecord{
		{VisitID: "V1", LineAmount: "1,000"},
		{},
		{VisitID: "V2", LineAmount: "garbage", Quantity: "NaN", AdmissionDate: "not a date"},
	}

	records := tr.Transform(rows)
	if len(records) != len(rows) {
		t.Fatalf("Transform returned %d records, want %d", len(records), len(rows))
	}

	if records[0].ID != "0-V1" || records[1].ID != "1-" || records[2].ID != "2-V2" {
		t.Errorf("IDs = %q %q %q", records[0].ID, records[1].ID, records[2].ID)
	}

	for i, rec := range records {
		if rec.StatDate.IsZero() {
			t.Errorf("record %d has zero StatDate", i)
		}
	}
}

func TestTransformer_StatDatePriority(t *testing.T) {
	tr := newTestTransformer()

	tests := []struct {
		name string
		raw  models.RawRecord
		want time.Time
	}{
		{
			name: "payment wins",
			raw:  models.RawRecord{AdmissionDate: "01/03/2024", DischargeDate: "05/03/2024", PaymentDate: "06/03/2024"},
			want: time.Date(2024, time.March, 6, 0, 0, 0, 0, time.Local),
		},
		{
			name: "discharge when no payment",
			raw:  models.RawRecord{AdmissionDate: "01/03/2024", DischargeDate: "05/03/2024", PaymentDate: "??"},
			want: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local),
		},
		{
			name: "unsupported encoding falls back to now",
			raw:  models.RawRecord{AdmissionDate: "202403010730"},
			want: fixedNow,
		},
		{
			name: "admission only parseable",
			raw:  models.RawRecord{AdmissionDate: "20240301073000"},
			want: time.Date(2024, time.March, 1, 7, 30, 0, 0, time.Local),
		},
		{
			name: "nothing parseable falls back to now",
			raw:  models.RawRecord{AdmissionDate: "x", DischargeDate: "y", PaymentDate: "z"},
			want: fixedNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tr.TransformRow(0, tt.raw)
			if !rec.StatDate.Equal(tt.want) {
				t.Errorf("StatDate = %v, want %v", rec.StatDate, tt.want)
			}
		})
	}
}

func TestTransformer_PeriodFields(t *testing.T) {
	rec := newTestTransformer().TransformRow(0, models.RawRecord{PaymentDate: "2024-11-20"})

	if rec.Year != 2024 || rec.Month != 11 || rec.Quarter != 4 {
		t.Errorf("period = %d/%d Q%d, want 2024/11 Q4", rec.Year, rec.Month, rec.Quarter)
	}

	rec = newTestTransformer().TransformRow(0, models.RawRecord{PaymentDate: "2024-01-02"})
	if rec.Quarter != 1 {
		t.Errorf("Quarter = %d, want 1", rec.Quarter)
	}
}

func TestTransformer_Numbers(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234,567", 1234567},
		{"1 234 567", 1234567},
		{"1\u00a0234", 1234},
		{"12.5", 12.5},
		{"  42 ", 42},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"-500", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseAmount(tt.in); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformer_TreatmentDays(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawRecord
		want int
	}{
		{"source value wins", models.RawRecord{TreatmentDays: "7", AdmissionDate: "01/03/2024", DischargeDate: "02/03/2024"}, 7},
		{"source zero kept", models.RawRecord{TreatmentDays: "0", AdmissionDate: "01/03/2024", DischargeDate: "05/03/2024"}, 0},
		{"computed inclusive", models.RawRecord{AdmissionDate: "01/03/2024", DischargeDate: "05/03/2024"}, 5},
		{"same day counts one", models.RawRecord{AdmissionDate: "20240301080000", DischargeDate: "20240301170000"}, 1},
		{"across month end", models.RawRecord{AdmissionDate: "2024-02-28", DischargeDate: "2024-03-01"}, 3},
		{"invalid source falls back", models.RawRecord{TreatmentDays: "n/a", AdmissionDate: "01/03/2024", DischargeDate: "03/03/2024"}, 3},
		{"negative source falls back", models.RawRecord{TreatmentDays: "-2", AdmissionDate: "01/03/2024", DischargeDate: "03/03/2024"}, 3},
		{"discharge before admission clamps", models.RawRecord{AdmissionDate: "10/03/2024", DischargeDate: "01/03/2024"}, 0},
		{"missing discharge", models.RawRecord{AdmissionDate: "10/03/2024"}, 0},
	}

	tr := newTestTransformer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.TransformRow(0, tt.raw).TreatmentDays; got != tt.want {
				t.Errorf("TreatmentDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransformer_Defaults(t *testing.T) {
	rec := newTestTransformer().TransformRow(3, models.RawRecord{
		VisitID:       " V9 ",
		PatientID:     "P1",
		DiagnosisCode: "   ",
		Department:    "  Khoa   Nội ",
	})

	if rec.VisitID != "V9" || rec.ID != "3-V9" {
		t.Errorf("VisitID/ID = %q/%q", rec.VisitID, rec.ID)
	}

	if rec.DiagnosisCode != models.UnknownValue {
		t.Errorf("DiagnosisCode = %q, want Unknown", rec.DiagnosisCode)
	}

	if rec.Department != "Khoa Nội" {
		t.Errorf("Department = %q, want %q", rec.Department, "Khoa Nội")
	}

	if rec.ServiceGroupName != models.OtherValue {
		t.Errorf("ServiceGroupName = %q, want Other", rec.ServiceGroupName)
	}

	for name, v := range map[string]string{
		"Doctor":           rec.Doctor,
		"ServiceName":      rec.ServiceName,
		"TreatmentOutcome": rec.TreatmentOutcome,
		"DischargeStatus":  rec.DischargeStatus,
		"ObjectType":       rec.ObjectType,
	} {
		if v != models.UnknownValue {
			t.Errorf("%s = %q, want Unknown", name, v)
		}
	}

	if rec.VisitTypeCode != "" {
		t.Errorf("VisitTypeCode = %q, want empty", rec.VisitTypeCode)
	}

	if rec.AdmissionDate != nil || rec.DischargeDate != nil || rec.PaymentDate != nil {
		t.Error("expected nil optional dates")
	}
}
