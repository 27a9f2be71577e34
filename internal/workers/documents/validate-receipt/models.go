// internal/workers/documents/validate-receipt/models.go
package validatereceipt

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
	ReceiptResult admission.Result[models.ReceiptCandidate] `json:"receiptResult"`
	ReceiptType   models.ReceiptType                        `json:"receiptType,omitempty"`
	IsValid       bool                                      `json:"isValid"`
	Messages      []string                                  `json:"messages"`
}
