package admission

import (
	"fmt"
	"strings"

	"admission-workers/internal/models"
)

const IdentityConfidenceMin = 90

var identityRequiredFields = []struct {
	name  string
	label string
	value func(models.IdentityCandidate) *string
}{
	{"fullName", "full name", func(c models.IdentityCandidate) *string { return c.FullName }},
	{"nationalId", "national ID number", func(c models.IdentityCandidate) *string { return c.NationalID }},
	{"dateOfBirth", "date of birth", func(c models.IdentityCandidate) *string { return c.DateOfBirth }},
	{"gender", "gender", func(c models.IdentityCandidate) *string { return c.Gender }},
}

// ValidateIdentity gates an identity document on type, confidence and
// required fields. An accepted candidate is returned unchanged.
func ValidateIdentity(c models.IdentityCandidate) Result[models.IdentityCandidate] {
	if c.DocumentType == models.IdentityOther {
		return reject[models.IdentityCandidate](Issue{
			Kind:    KindNotRecognizedDocument,
			Message: "The uploaded document is not a recognised identity document. Please upload a national ID, passport or birth certificate.",
		})
	}

	if c.Confidence < IdentityConfidenceMin {
		return reject[models.IdentityCandidate](Issue{
			Kind:    KindLowConfidence,
			Message: "The identity document could not be read clearly. Please upload a clearer image.",
		})
	}

	var fields, labels []string
	for _, f := range identityRequiredFields {
		if !models.Present(f.value(c)) {
			fields = append(fields, f.name)
			labels = append(labels, f.label)
		}
	}
	if len(fields) > 0 {
		return reject[models.IdentityCandidate](Issue{
			Kind:    KindMissingFields,
			Message: fmt.Sprintf("The identity document is missing: %s.", strings.Join(labels, ", ")),
			Fields:  fields,
		})
	}

	return accept(c)
}
