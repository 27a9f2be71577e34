// internal/workers/documents/aggregate-receipts/models.go
package aggregatereceipts

import (
	"admission-workers/internal/admission"
	"admission-workers/internal/models"
)

type Input struct {
	ApplicationID string                     `json:"applicationId"`
	Receipts      []models.DocumentCandidate `json:"receipts"`
	// RequiredAmount overrides the programme fee when set.
	RequiredAmount *float64 `json:"requiredAmount,omitempty"`
}

type Output struct {
	AggregateResult admission.AggregateResult                   `json:"aggregateResult"`
	ReceiptResults  []admission.Result[models.ReceiptCandidate] `json:"receiptResults"`
	IsValid         bool                                        `json:"isValid"`
	Messages        []string                                    `json:"messages"`
}
