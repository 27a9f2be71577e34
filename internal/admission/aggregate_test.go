package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-workers/internal/models"
)

func receiptResults(amounts ...float64) []Result[models.ReceiptCandidate] {
	policy := DefaultReceiptPolicy()
	results := make([]Result[models.ReceiptCandidate], len(amounts))
	for i, amount := range amounts {
		receipt := bankDeposit()
		receipt.AmountDeposited = models.Float64Ptr(amount)
		results[i] = ValidateReceipt(receipt, policy)
	}
	return results
}

func TestAggregateReceipts(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []float64
		required  float64
		wantValid bool
		wantTotal float64
		contains  []string
	}{
		{"sum exceeds fee", []float64{300, 250}, 500, true, 550, nil},
		{"sum equals fee", []float64{300, 200}, 500, true, 500, nil},
		{"sum short of fee", []float64{300, 150}, 500, false, 450, []string{"450.00", "500.00"}},
		{"decimal amounts", []float64{0.1, 0.2}, 0.3, true, 0.3, nil},
		{"cents short", []float64{499.99}, 500, false, 499.99, []string{"499.99", "500.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AggregateReceipts(receiptResults(tt.amounts...), tt.required)

			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.InDelta(t, tt.wantTotal, result.TotalAmount, 1e-9)
			assert.Equal(t, tt.required, result.RequiredAmount)
			assert.Equal(t, len(tt.amounts), result.ValidReceipts)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.Len(t, result.Errors, 1)
			assert.Equal(t, KindInsufficientAggregateAmount, result.Errors[0].Kind)
			for _, s := range tt.contains {
				assert.Contains(t, result.Errors[0].Message, s)
			}
		})
	}
}

func TestAggregateReceipts_SumsDecimalAmounts(t *testing.T) {
	amounts := []float64{0.1, 0.7}
	floatSum := 0.0
	for _, a := range amounts {
		floatSum += a
	}
	require.Less(t, floatSum, 0.8, "binary float sum falls short of the fee")

	result := AggregateReceipts(receiptResults(amounts...), 0.8)

	assert.True(t, result.IsValid, "unexpected errors: %v", result.Messages())
	assert.Equal(t, 0.8, result.TotalAmount)
	assert.Equal(t, 2, result.ValidReceipts)

	t.Run("one cent short is still short", func(t *testing.T) {
		result := AggregateReceipts(receiptResults(0.1, 0.69), 0.8)
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, KindInsufficientAggregateAmount, result.Errors[0].Kind)
		assert.Contains(t, result.Messages()[0], "0.79")
	})
}

func TestAggregateReceipts_InvalidReceiptFailsAggregate(t *testing.T) {
	results := receiptResults(600)
	bad := bankDeposit()
	bad.Reference = nil
	results = append(results, ValidateReceipt(bad, DefaultReceiptPolicy()))

	result := AggregateReceipts(results, 500)

	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ValidReceipts)
	assert.Equal(t, 600.0, result.TotalAmount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindMissingReference, result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "Receipt 2: ")
}

func TestAggregateReceipts_InvalidAmountsNotCounted(t *testing.T) {
	results := receiptResults(300)
	bad := bankDeposit()
	bad.BeneficiaryName = models.StringPtr("Someone Else")
	bad.AmountDeposited = models.Float64Ptr(400)
	results = append(results, ValidateReceipt(bad, DefaultReceiptPolicy()))

	result := AggregateReceipts(results, 500)

	assert.False(t, result.IsValid)
	assert.Equal(t, 300.0, result.TotalAmount)
	assert.Equal(t, []string{
		"Receipt 2: " + ValidateReceipt(bad, DefaultReceiptPolicy()).Errors[0].Message,
		"The total paid (300.00) is less than the required fee (500.00).",
	}, result.Messages())
}

func TestAggregateReceipts_NoReceipts(t *testing.T) {
	result := AggregateReceipts(nil, 500)

	assert.False(t, result.IsValid)
	assert.Equal(t, 0.0, result.TotalAmount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, KindInsufficientAggregateAmount, result.Errors[0].Kind)
}
