// Package analytics derives KPIs, chart rollups and month-over-month alerts from canonical records.
package analytics

import "strings"

// VisitType is the resolved classification of a visit. Larger values outrank smaller ones.
type VisitType int

// Visit types in ascending priority.
const (
	VisitOther VisitType = iota
	VisitConsultation
	VisitOutpatient
	VisitInpatient
)

func (v VisitType) String() string {
	switch v {
	case VisitConsultation:
		return "consultation"
	case VisitOutpatient:
		return "outpatient"
	case VisitInpatient:
		return "inpatient"
	default:
		return "other"
	}
}

// VisitTypeCodes maps source visit-type codes onto visit types.
type VisitTypeCodes struct {
	Inpatient    []string `yaml:"inpatient"`
	Outpatient   []string `yaml:"outpatient"`
	Consultation []string `yaml:"consultation"`
}

func (c VisitTypeCodes) isZero() bool {
	return len(c.Inpatient) == 0 && len(c.Outpatient) == 0 && len(c.Consultation) == 0
}

// Options tunes aggregation limits and alert thresholds.
type Options struct {
	GrowthThresholdPct     float64
	DiagnosisMinPrevVisits int
	ServiceMinPrevCost     float64

	TopDepartments   int
	TopDiagnoses     int
	TopServices      int
	TopDoctors       int
	TopServiceGroups int
	PieSlices        int

	VisitTypes VisitTypeCodes

	codeRules []codeRule
}

// DefaultOptions returns the standard thresholds and limits.
func DefaultOptions() Options {
	return Options{
		GrowthThresholdPct:     30,
		DiagnosisMinPrevVisits: 10,
		ServiceMinPrevCost:     1_000_000,
		TopDepartments:         10,
		TopDiagnoses:           20,
		TopServices:            20,
		TopDoctors:             10,
		TopServiceGroups:       10,
		PieSlices:              5,
		VisitTypes: VisitTypeCodes{
			Inpatient:    []string{"3", "4", "9"},
			Outpatient:   []string{"2", "5", "6", "7", "8"},
			Consultation: []string{"1"},
		},
	}
}

// normalized fills unset limits and visit-type codes from DefaultOptions
// and compiles the code lookup. Thresholds are taken as given.
func (o Options) normalized() Options {
	def := DefaultOptions()

	for _, f := range []struct{ v, d *int }{
		{&o.TopDepartments, &def.TopDepartments},
		{&o.TopDiagnoses, &def.TopDiagnoses},
		{&o.TopServices, &def.TopServices},
		{&o.TopDoctors, &def.TopDoctors},
		{&o.TopServiceGroups, &def.TopServiceGroups},
		{&o.PieSlices, &def.PieSlices},
	} {
		if *f.v <= 0 {
			*f.v = *f.d
		}
	}

	if o.VisitTypes.isZero() {
		o.VisitTypes = def.VisitTypes
	}

	o.codeRules = []codeRule{
		newCodeRule(VisitInpatient, o.VisitTypes.Inpatient),
		newCodeRule(VisitOutpatient, o.VisitTypes.Outpatient),
		newCodeRule(VisitConsultation, o.VisitTypes.Consultation),
	}

	return o
}

type codeRule struct {
	visitType VisitType
	codes     map[string]bool
}

func newCodeRule(t VisitType, codes []string) codeRule {
	r := codeRule{visitType: t, codes: make(map[string]bool, len(codes))}
	for _, c := range codes {
		r.codes[canonicalCode(c)] = true
	}

	return r
}

// VisitTypeOf maps a single row's visit-type code. Unknown and empty codes are VisitOther.
func (o Options) VisitTypeOf(code string) VisitType {
	if o.codeRules == nil {
		o = o.normalized()
	}

	c := canonicalCode(code)
	if c == "" {
		return VisitOther
	}

	for _, r := range o.codeRules {
		if r.codes[c] {
			return r.visitType
		}
	}

	return VisitOther
}

// canonicalCode trims the code and drops leading zeros so "03" matches "3".
func canonicalCode(code string) string {
	code = strings.TrimSpace(code)

	t := strings.TrimLeft(code, "0")
	if t == "" && code != "" {
		return "0"
	}

	return t
}
