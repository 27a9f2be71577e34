package admission

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"admission-workers/internal/models"
)

// DefaultSalesReceiptPattern matches university receipt numbers such as
// "SR-10234" or "0012345".
const DefaultSalesReceiptPattern = `(?i)^(?:SR|RCPT|RCT|REC)?[\s#/-]*\d{4,}$`

// ReceiptPolicy holds the institution-specific names a payment must carry.
type ReceiptPolicy struct {
	InstitutionName     string
	BeneficiaryNames    []string
	IssuerNames         []string
	SalesReceiptPattern *regexp.Regexp
}

// DefaultReceiptPolicy returns the policy for payments to Limkokwing.
func DefaultReceiptPolicy() ReceiptPolicy {
	names := []string{
		"Limkokwing University of Creative Technology",
		"Limkokwing University",
		"Limkokwing",
		"LUCT",
	}
	return ReceiptPolicy{
		InstitutionName:     "Limkokwing University of Creative Technology",
		BeneficiaryNames:    names,
		IssuerNames:         append([]string(nil), names...),
		SalesReceiptPattern: regexp.MustCompile(DefaultSalesReceiptPattern),
	}
}

// NewReceiptPolicy builds a policy from configuration, falling back to the
// defaults for anything left empty.
func NewReceiptPolicy(institution string, beneficiaries, issuers []string, pattern string) (ReceiptPolicy, error) {
	p := DefaultReceiptPolicy()
	if institution != "" {
		p.InstitutionName = institution
	}
	if len(beneficiaries) > 0 {
		p.BeneficiaryNames = append([]string(nil), beneficiaries...)
	}
	if len(issuers) > 0 {
		p.IssuerNames = append([]string(nil), issuers...)
	}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return ReceiptPolicy{}, fmt.Errorf("invalid sales receipt pattern: %w", err)
		}
		p.SalesReceiptPattern = re
	}
	return p, nil
}

// ClassifyReceipt decides the receipt type from the extractor's indicators.
// The deposit flag wins. A receipt number or reference in the sales receipt
// format, or the extractor's own sales_receipt label, makes a sales receipt;
// the sales rules then decide whether it carries enough to be accepted.
func ClassifyReceipt(c models.ReceiptCandidate, p ReceiptPolicy) models.ReceiptType {
	if c.IsBankDeposit {
		return models.ReceiptBankDeposit
	}
	if p.matchesSalesNumber(c.ReceiptNumber) || p.matchesSalesNumber(c.Reference) {
		return models.ReceiptSalesReceipt
	}
	if c.ReceiptType == models.ReceiptSalesReceipt {
		return models.ReceiptSalesReceipt
	}
	return models.ReceiptUnknown
}

func (p ReceiptPolicy) matchesSalesNumber(v *string) bool {
	return models.Present(v) && p.SalesReceiptPattern != nil &&
		p.SalesReceiptPattern.MatchString(strings.TrimSpace(*v))
}

// ValidateReceipt classifies one receipt and checks it. Unlike the academic
// cascade every failing rule is reported.
func ValidateReceipt(c models.ReceiptCandidate, p ReceiptPolicy) Result[models.ReceiptCandidate] {
	c.ReceiptType = ClassifyReceipt(c, p)

	var issues []Issue
	switch c.ReceiptType {
	case models.ReceiptBankDeposit:
		issues = append(issues, bankDepositIssues(c, p)...)
	case models.ReceiptSalesReceipt:
		issues = append(issues, salesReceiptIssues(c, p)...)
	default:
		return reject[models.ReceiptCandidate](Issue{
			Kind:    KindNotRecognizedDocument,
			Message: "The uploaded document is not a recognised proof of payment. Please upload a bank deposit slip or an official university sales receipt.",
		})
	}

	if !positiveAmount(c.AmountDeposited) {
		issues = append(issues, Issue{
			Kind:    KindInvalidAmount,
			Message: "The amount paid could not be read or is not a positive amount.",
			Fields:  []string{"amountDeposited"},
		})
	}

	if len(issues) > 0 {
		return reject[models.ReceiptCandidate](issues...)
	}
	return accept(c)
}

func bankDepositIssues(c models.ReceiptCandidate, p ReceiptPolicy) []Issue {
	var issues []Issue
	if !models.Present(c.BeneficiaryName) {
		issues = append(issues, Issue{
			Kind:    KindBeneficiaryMismatch,
			Message: fmt.Sprintf("The deposit slip does not show a beneficiary. Payments must be made to %s.", p.InstitutionName),
			Fields:  []string{"beneficiaryName"},
		})
	} else if !matchesAny(*c.BeneficiaryName, p.BeneficiaryNames) {
		issues = append(issues, Issue{
			Kind: KindBeneficiaryMismatch,
			Message: fmt.Sprintf("The deposit was made to %q. Payments must be made to %s.",
				strings.TrimSpace(*c.BeneficiaryName), p.InstitutionName),
			Fields: []string{"beneficiaryName"},
		})
	}
	if !models.Present(c.Reference) {
		issues = append(issues, Issue{
			Kind:    KindMissingReference,
			Message: "The deposit slip has no reference. Please upload a slip showing the deposit reference.",
			Fields:  []string{"reference"},
		})
	}
	return issues
}

func salesReceiptIssues(c models.ReceiptCandidate, p ReceiptPolicy) []Issue {
	var issues []Issue

	issuer := c.BeneficiaryName
	if !models.Present(issuer) {
		issuer = c.IssuerName
	}
	if !models.Present(issuer) || !matchesAny(*issuer, p.IssuerNames) {
		shown := "an unknown issuer"
		if models.Present(issuer) {
			shown = fmt.Sprintf("%q", strings.TrimSpace(*issuer))
		}
		issues = append(issues, Issue{
			Kind:    KindIssuerMismatch,
			Message: fmt.Sprintf("The receipt was issued by %s. Only receipts issued by %s are accepted.", shown, p.InstitutionName),
			Fields:  []string{"beneficiaryName"},
		})
	}
	if !models.Present(c.ReceiptNumber) && !models.Present(c.Reference) {
		issues = append(issues, Issue{
			Kind:    KindMissingReceiptNumber,
			Message: "The receipt has no receipt number or reference.",
			Fields:  []string{"receiptNumber", "reference"},
		})
	}
	return issues
}

func positiveAmount(a *float64) bool {
	return a != nil && !math.IsNaN(*a) && !math.IsInf(*a, 0) && *a > 0
}
