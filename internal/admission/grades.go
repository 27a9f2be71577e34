package admission

import "strings"

// Family is the grading system a certificate belongs to.
type Family string

const (
	FamilyLGCSEIGCSE   Family = "lgcse_igcse"
	FamilyEdexcelIGCSE Family = "edexcel_igcse"
	FamilyOther        Family = "other"
)

var (
	lgcseIGCSEGrades   = []string{"A*", "A", "B", "C", "D", "E", "F", "G", "U"}
	edexcelIGCSEGrades = []string{"9", "8", "7", "6", "5", "4", "3", "2", "1", "U"}

	gradeSets = map[Family]map[string]struct{}{
		FamilyLGCSEIGCSE:   toSet(lgcseIGCSEGrades),
		FamilyEdexcelIGCSE: toSet(edexcelIGCSEGrades),
	}
)

func toSet(grades []string) map[string]struct{} {
	set := make(map[string]struct{}, len(grades))
	for _, g := range grades {
		set[g] = struct{}{}
	}
	return set
}

// Grades returns the grade alphabet of a family, best grade first. The
// second value is false for families without a fixed alphabet.
func Grades(f Family) ([]string, bool) {
	switch f {
	case FamilyLGCSEIGCSE:
		return append([]string(nil), lgcseIGCSEGrades...), true
	case FamilyEdexcelIGCSE:
		return append([]string(nil), edexcelIGCSEGrades...), true
	default:
		return nil, false
	}
}

// IsValidGrade reports whether grade belongs to the family's alphabet.
// Families without an alphabet accept any grade.
func IsValidGrade(f Family, grade string) bool {
	set, ok := gradeSets[f]
	if !ok {
		return true
	}
	_, valid := set[normalizeGrade(grade)]
	return valid
}

func normalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// DisplayName is the family name shown to applicants.
func (f Family) DisplayName() string {
	switch f {
	case FamilyLGCSEIGCSE:
		return "LGCSE/Cambridge IGCSE"
	case FamilyEdexcelIGCSE:
		return "Edexcel IGCSE"
	default:
		return "other"
	}
}
