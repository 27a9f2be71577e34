package admission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"admission-workers/internal/models"
)

// AggregateResult joins the per-receipt results of one application.
type AggregateResult struct {
	IsValid        bool    `json:"isValid"`
	Errors         []Issue `json:"errors"`
	TotalAmount    float64 `json:"totalAmount"`
	RequiredAmount float64 `json:"requiredAmount"`
	ValidReceipts  int     `json:"validReceipts"`
}

func (r AggregateResult) Messages() []string {
	return issueMessages(r.Errors)
}

// AggregateReceipts sums the valid receipts and compares the total with the
// required fee. Every receipt must be valid and the total must reach the fee;
// the comparison is exact on the decimal value of each amount.
func AggregateReceipts(results []Result[models.ReceiptCandidate], requiredAmount float64) AggregateResult {
	total := decimal.Zero
	required := decimal.NewFromFloat(requiredAmount)

	var issues []Issue
	valid := 0
	for i, r := range results {
		if !r.IsValid || r.Data == nil {
			for _, is := range r.Errors {
				issues = append(issues, Issue{
					Kind:    is.Kind,
					Message: fmt.Sprintf("Receipt %d: %s", i+1, is.Message),
					Fields:  is.Fields,
				})
			}
			continue
		}
		valid++
		if r.Data.AmountDeposited != nil {
			total = total.Add(decimal.NewFromFloat(*r.Data.AmountDeposited))
		}
	}

	if total.LessThan(required) {
		issues = append(issues, Issue{
			Kind: KindInsufficientAggregateAmount,
			Message: fmt.Sprintf("The total paid (%s) is less than the required fee (%s).",
				total.StringFixed(2), required.StringFixed(2)),
			Fields: []string{"amountDeposited"},
		})
	}

	totalFloat, _ := total.Float64()
	return AggregateResult{
		IsValid:        len(issues) == 0,
		Errors:         cloneIssues(issues),
		TotalAmount:    totalFloat,
		RequiredAmount: requiredAmount,
		ValidReceipts:  valid,
	}
}
