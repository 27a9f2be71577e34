// internal/workers/documents/validate-identity-document/models.go
package validateidentitydocument

import (
	"admission-workers/internal/admission"
	"admission-workers/internal/models"
)

type Input struct {
	ApplicationID string                   `json:"applicationId"`
	DocumentID    string                   `json:"documentId,omitempty"`
	Candidate     models.DocumentCandidate `json:"candidate"`
}

type Output struct {
	IdentityResult admission.Result[models.IdentityCandidate] `json:"identityResult"`
	IsValid        bool                                       `json:"isValid"`
	Messages       []string                                   `json:"messages"`
}
