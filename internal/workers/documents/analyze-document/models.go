// internal/workers/documents/analyze-document/models.go
package analyzedocument

import (
	"admission-workers/internal/admission"
	"admission-workers/internal/models"
)

type Input struct {
	ApplicationID    string                  `json:"applicationId"`
	DocumentID       string                  `json:"documentId"`
	DocumentURL      string                  `json:"documentUrl,omitempty"`
	FileBase64       string                  `json:"fileBase64,omitempty"`
	MediaType        string                  `json:"mediaType,omitempty"`
	ExpectedCategory models.DocumentCategory `json:"expectedCategory,omitempty"`
}

type Output struct {
	Candidate  *models.DocumentCandidate                  `json:"candidate"`
	Category   models.DocumentCategory                    `json:"category"`
	MediaType  string                                     `json:"mediaType"`
	Extraction admission.Result[models.DocumentCandidate] `json:"extraction"`
}
