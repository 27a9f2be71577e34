// Package admission turns extracted document candidates into accept/reject
// decisions. Validators are pure: they never log, never call out except
// through the registry interface, and always return a Result.
package admission

import "slices"

// Kind classifies a validation issue.
type Kind string

const (
	KindLowConfidence                Kind = "LOW_CONFIDENCE"
	KindMissingFields                Kind = "MISSING_FIELDS"
	KindNotRecognizedDocument        Kind = "NOT_RECOGNIZED_DOCUMENT"
	KindUnreadableGrades             Kind = "UNREADABLE_GRADES"
	KindLowConfidenceSubjects        Kind = "LOW_CONFIDENCE_SUBJECTS"
	KindMissingUnreadableDeclaration Kind = "MISSING_UNREADABLE_DECLARATION"
	KindInvalidCertificateType       Kind = "INVALID_CERTIFICATE_TYPE"
	KindGradeAlphabetMismatch        Kind = "GRADE_ALPHABET_MISMATCH"
	KindUncertifiedDocument          Kind = "UNCERTIFIED_DOCUMENT"
	KindNameMismatch                 Kind = "NAME_MISMATCH"
	KindUnregisteredCertificateType  Kind = "UNREGISTERED_CERTIFICATE_TYPE"
	KindInsufficientQualification    Kind = "INSUFFICIENT_QUALIFICATION_LEVEL"
	KindIssuingAuthorityRequirement  Kind = "ISSUING_AUTHORITY_REQUIREMENT"
	KindBeneficiaryMismatch          Kind = "BENEFICIARY_MISMATCH"
	KindIssuerMismatch               Kind = "ISSUER_MISMATCH"
	KindMissingReference             Kind = "MISSING_REFERENCE"
	KindMissingReceiptNumber         Kind = "MISSING_RECEIPT_NUMBER"
	KindInvalidAmount                Kind = "INVALID_AMOUNT"
	KindInsufficientAggregateAmount  Kind = "INSUFFICIENT_AGGREGATE_AMOUNT"
	KindExtractionFailed             Kind = "EXTRACTION_FAILED"
	KindRegistryUnavailable          Kind = "REGISTRY_UNAVAILABLE"
)

// Issue is one reason a document was rejected. Message is shown to the
// applicant as is.
type Issue struct {
	Kind    Kind     `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Result is produced once per validation call and never modified after.
type Result[T any] struct {
	IsValid bool    `json:"isValid"`
	Errors  []Issue `json:"errors"`
	Data    *T      `json:"data"`
}

// Messages returns the display text of every issue in order.
func (r Result[T]) Messages() []string {
	return issueMessages(r.Errors)
}

// Kinds returns the kind of every issue in order.
func (r Result[T]) Kinds() []Kind {
	kinds := make([]Kind, len(r.Errors))
	for i, e := range r.Errors {
		kinds[i] = e.Kind
	}
	return kinds
}

// KindNames returns kinds as plain strings, for metrics labels and logs.
func KindNames(kinds []Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// HasKind reports whether any issue has the given kind.
func (r Result[T]) HasKind(kind Kind) bool {
	return slices.Contains(r.Kinds(), kind)
}

func accept[T any](data T) Result[T] {
	return Result[T]{IsValid: true, Errors: []Issue{}, Data: &data}
}

func reject[T any](issues ...Issue) Result[T] {
	return Result[T]{IsValid: false, Errors: cloneIssues(issues)}
}

// Accept wraps data produced outside the validators, such as an extracted
// candidate, in a valid result.
func Accept[T any](data T) Result[T] {
	return accept(data)
}

// Reject builds an invalid result from the given issues.
func Reject[T any](issues ...Issue) Result[T] {
	return reject[T](issues...)
}

// Failed builds an invalid result for a collaborator failure, such as an
// extraction error, so callers always see the same shape.
func Failed[T any](kind Kind, message string) Result[T] {
	return reject[T](Issue{Kind: kind, Message: message})
}

func cloneIssues(issues []Issue) []Issue {
	out := make([]Issue, len(issues))
	for i, is := range issues {
		out[i] = Issue{Kind: is.Kind, Message: is.Message, Fields: slices.Clone(is.Fields)}
	}
	return out
}

func issueMessages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}
