package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	before := testutil.ToFloat64(DocumentDecisions.WithLabelValues("receipt", "rejected"))
	beforeKind := testutil.ToFloat64(RejectionReasons.WithLabelValues("receipt", "MISSING_REFERENCE"))

	RecordDecision("receipt", "rejected", []string{"MISSING_REFERENCE", "INVALID_AMOUNT"})

	assert.Equal(t, before+1, testutil.ToFloat64(DocumentDecisions.WithLabelValues("receipt", "rejected")))
	assert.Equal(t, beforeKind+1, testutil.ToFloat64(RejectionReasons.WithLabelValues("receipt", "MISSING_REFERENCE")))
}
