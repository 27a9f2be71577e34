// internal/workers/documents/validate-academic-document/models.go
package validateacademicdocument

import (
	"admission-workers/internal/admission"
	"admission-workers/internal/models"
)

type Input struct {
	ApplicationID string                   `json:"applicationId"`
	DocumentID    string                   `json:"documentId,omitempty"`
	ExpectedName  string                   `json:"expectedName,omitempty"`
	Candidate     models.DocumentCandidate `json:"candidate"`
}

type Output struct {
	AcademicResult admission.AcademicResult `json:"academicResult"`
	Outcome        admission.Outcome        `json:"outcome"`
	IsValid        bool                     `json:"isValid"`
	Messages       []string                 `json:"messages"`
}
