// Package category buckets service-group labels into revenue categories.
package category

import (
	"strings"

	"hisdash/pkg/utils"
)

// Category is a revenue bucket.
type Category string

// Revenue categories.
const (
	Medicine Category = "Medicine"
	Imaging  Category = "Imaging"
	Lab      Category = "Lab"
	Bed      Category = "Bed"
	Other    Category = "Other"
)

// All lists every category in reporting order.
var All = []Category{Medicine, Imaging, Lab, Bed, Other}

type rule struct {
	category Category
	codes    map[string]bool
	keywords []string
}

func (r rule) matches(folded string) bool {
	if r.codes[trimLeadingZeros(folded)] {
		return true
	}

	for _, kw := range r.keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}

	return false
}

// rules are evaluated in priority order; the first match wins.
var rules = []rule{
	newRule(Medicine, []string{"4", "5", "6"}, []string{"thuốc", "dược", "vắc xin", "huyết thanh"}),
	newRule(Imaging, []string{"2", "3"}, []string{"chẩn đoán hình ảnh", "x-quang", "siêu âm", "ct", "mri", "cộng hưởng từ"}),
	newRule(Lab, []string{"1"}, []string{"xét nghiệm", "huyết học", "sinh hóa", "vi sinh", "miễn dịch", "giải phẫu bệnh"}),
	newRule(Bed, []string{"14", "15"}, []string{"giường"}),
}

func newRule(c Category, codes, keywords []string) rule {
	r := rule{category: c, codes: make(map[string]bool, len(codes))}

	for _, code := range codes {
		r.codes[code] = true
	}

	for _, kw := range keywords {
		r.keywords = append(r.keywords, utils.Fold(kw))
	}

	return r
}

// Classify maps a service-group label or numeric group code to its category.
// Matching is case-insensitive and ignores Vietnamese diacritics.
func Classify(label string) Category {
	folded := utils.Fold(label)
	if folded == "" {
		return Other
	}

	for _, r := range rules {
		if r.matches(folded) {
			return r.category
		}
	}

	return Other
}

// trimLeadingZeros lets "04" match code "4"; "0" stays "0".
func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}

	return t
}
