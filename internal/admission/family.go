package admission

import "strings"

// ResolveFamily picks the grading family from the claimed certificate type
// name. The name decides on its own: issuer flags only feed the authority
// check, so "IGCSE" issued by Pearson still resolves to the letter-grade
// family unless the name says Edexcel.
func ResolveFamily(certificateType string) Family {
	name := strings.ToLower(strings.TrimSpace(certificateType))
	switch {
	case strings.Contains(name, "edexcel"):
		return FamilyEdexcelIGCSE
	case strings.Contains(name, "igcse"), strings.Contains(name, "lgcse"):
		return FamilyLGCSEIGCSE
	default:
		return FamilyOther
	}
}

// IsIGCSE reports whether the family is one of the IGCSE grading systems.
func (f Family) IsIGCSE() bool {
	return f == FamilyLGCSEIGCSE || f == FamilyEdexcelIGCSE
}
