// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business rejections (an invalid document) are not errors and never appear
// here; they complete the job with an invalid result.
const (
	ErrCodeInputParsingFailed    ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeInvalidCandidate      ErrorCode = "INVALID_CANDIDATE"

	ErrCodeDocumentFetchFailed ErrorCode = "DOCUMENT_FETCH_FAILED"
	ErrCodeDocumentTooLarge    ErrorCode = "DOCUMENT_TOO_LARGE"
	ErrCodeExtractionFailed    ErrorCode = "EXTRACTION_FAILED"
	ErrCodeExtractionTimeout   ErrorCode = "EXTRACTION_TIMEOUT"

	ErrCodeRegistryUnavailable ErrorCode = "REGISTRY_UNAVAILABLE"
	ErrCodeFeeNotFound         ErrorCode = "FEE_NOT_FOUND"
	ErrCodeFeeResolutionFailed ErrorCode = "FEE_RESOLUTION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeDecisionIndexFailed           ErrorCode = "DECISION_INDEX_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationDisabled   ErrorCode = "NOTIFICATION_DISABLED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var knownCodes = map[ErrorCode]bool{
	ErrCodeInputParsingFailed:            true,
	ErrCodeInputValidationFailed:         true,
	ErrCodeInvalidCandidate:              true,
	ErrCodeDocumentFetchFailed:           true,
	ErrCodeDocumentTooLarge:              true,
	ErrCodeExtractionFailed:              true,
	ErrCodeExtractionTimeout:             true,
	ErrCodeRegistryUnavailable:           true,
	ErrCodeFeeNotFound:                   true,
	ErrCodeFeeResolutionFailed:           true,
	ErrCodeDatabaseConnectionFailed:      true,
	ErrCodeQueryExecutionFailed:          true,
	ErrCodeQueryTimeout:                  true,
	ErrCodeElasticsearchConnectionFailed: true,
	ErrCodeDecisionIndexFailed:           true,
	ErrCodeNotificationSendFailed:        true,
	ErrCodeNotificationDisabled:          true,
	ErrCodeInternal:                      true,
}

// IsKnownCode reports whether code is one of the codes above.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}

// StandardError is the internal error representation
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata returns a copy of the error carrying an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	out := *e
	out.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

// ==========================
// 2. BPMN Error Type
// ==========================

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

func NewInvalidCandidateError(err error) *StandardError {
	return newError(ErrCodeInvalidCandidate, "Document candidate is malformed", err.Error(), false)
}

func NewDocumentFetchFailedError(url string, err error) *StandardError {
	return newError(ErrCodeDocumentFetchFailed, "Failed to download document",
		fmt.Sprintf("url: %s, error: %s", url, err.Error()), true)
}

// NewDocumentTooLargeError reports an oversized document. A size of zero
// means the download was cut off at the limit.
func NewDocumentTooLargeError(size, limit int64) *StandardError {
	details := fmt.Sprintf("limit: %d bytes", limit)
	if size > 0 {
		details = fmt.Sprintf("size: %d bytes, limit: %d bytes", size, limit)
	}
	return newError(ErrCodeDocumentTooLarge, "Document exceeds the size limit", details, false)
}

func NewExtractionFailedError(err error) *StandardError {
	return newError(ErrCodeExtractionFailed, "Document extraction failed", err.Error(), true)
}

func NewExtractionTimeoutError() *StandardError {
	return newError(ErrCodeExtractionTimeout, "Document extraction timed out",
		"extraction call exceeded timeout threshold", true)
}

func NewRegistryUnavailableError(err error) *StandardError {
	return newError(ErrCodeRegistryUnavailable, "Certificate type registry unavailable", err.Error(), true)
}

func NewFeeNotFoundError(applicationID string) *StandardError {
	return newError(ErrCodeFeeNotFound, "No fee configured for application",
		fmt.Sprintf("applicationId: %s", applicationID), false)
}

func NewFeeResolutionFailedError(err error) *StandardError {
	return newError(ErrCodeFeeResolutionFailed, "Failed to resolve required fee", err.Error(), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout",
		fmt.Sprintf("queryType: %s", queryType), true)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewDecisionIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeDecisionIndexFailed, "Failed to index document decision",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewNotificationDisabledError(channel string) *StandardError {
	return newError(ErrCodeNotificationDisabled, "Notification channel disabled",
		fmt.Sprintf("channel: %s", channel), false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Mapping & Retry Logic
// ==========================

// GetRetryCount returns the number of retries a failed job gets for code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDocumentFetchFailed,
		ErrCodeExtractionFailed,
		ErrCodeRegistryUnavailable,
		ErrCodeFeeResolutionFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeDecisionIndexFailed,
		ErrCodeNotificationSendFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeExtractionTimeout,
		"TIMEOUT_ERROR":
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError onto the error thrown to the process.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorCategory":     GetErrorCategory(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for logging and dashboards.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INPUT") || strings.Contains(codeStr, "CANDIDATE"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "DOCUMENT") || strings.HasPrefix(codeStr, "EXTRACTION"):
		return "EXTRACTION"
	case strings.HasPrefix(codeStr, "REGISTRY") || strings.HasPrefix(codeStr, "FEE"):
		return "REFERENCE_DATA"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

// AsStandardError returns err as a StandardError, wrapping unknown errors as
// internal ones.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
