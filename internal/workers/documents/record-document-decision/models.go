// internal/workers/documents/record-document-decision/models.go
package recorddocumentdecision

import (
	"admission-workers/internal/admission"
	"admission-workers/internal/models"
)

type Input struct {
	ApplicationID string                  `json:"applicationId"`
	DocumentID    string                  `json:"documentId,omitempty"`
	Category      models.DocumentCategory `json:"category"`
	IsValid       bool                    `json:"isValid"`
	Outcome       string                  `json:"outcome,omitempty"`
	Errors        []admission.Issue       `json:"errors,omitempty"`
}

type Output struct {
	DecisionID string `json:"decisionId"`
	DecidedAt  string `json:"decidedAt"`
}
