// internal/workers/documents/analyze-document/handler.go
package analyzedocument

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admission-workers/internal/admission"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/errors"
	httpclient "admission-workers/internal/common/http"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/extraction"
	"admission-workers/internal/models"
)

const (
	TaskType = "analyze-document"
)

const unreadableMessage = "We could not read this document. Please upload a clear, complete scan or photo."

// DocumentFetcher downloads uploaded files.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string, maxBytes int64) (*httpclient.Document, error)
}

type Handler struct {
	config       *Config
	fetcher      DocumentFetcher
	extractor    extraction.Extractor
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
}

func NewHandler(config *Config, fetcher DocumentFetcher, extractor extraction.Extractor, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		fetcher:      fetcher,
		extractor:    extractor,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		tracker:      camunda.NewJobTracker(TaskType, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	done := h.tracker.Begin(ctx)

	input, err := parseInput(job.Variables)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		done(string(errors.AsStandardError(err).Code))
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		done(string(errors.AsStandardError(err).Code))
		return
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		done("COMPLETE_FAILED")
		return
	}
	done("")
}

func parseInput(variables string) (*Input, error) {
	if result := inputSchema.ValidateJSON([]byte(variables)); !result.Valid {
		return nil, errors.NewInputValidationFailedError(result.Summary())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

// Execute reads the document and reports what the model found. An answer
// the model cannot give completes with an EXTRACTION_FAILED result; outages
// and timeouts are returned as errors so the job is retried.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	file, mediaType, err := h.loadDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	candidate, err := h.extractor.Analyze(ctx, file, mediaType)
	if err != nil {
		return h.extractionFailure(ctx, input, mediaType, err)
	}

	result := checkCandidate(*candidate, input.ExpectedCategory)
	h.logger.Info("document analyzed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentId":    input.DocumentID,
		"category":      string(candidate.Category),
		"usable":        result.IsValid,
	})

	return &Output{
		Candidate:  candidate,
		Category:   candidate.Category,
		MediaType:  mediaType,
		Extraction: result,
	}, nil
}

func (h *Handler) loadDocument(ctx context.Context, input *Input) ([]byte, string, error) {
	limit := h.config.MaxDocumentBytes

	if input.FileBase64 != "" {
		if input.MediaType == "" {
			return nil, "", errors.NewInputValidationFailedError("mediaType is required with fileBase64")
		}
		data, err := base64.StdEncoding.DecodeString(input.FileBase64)
		if err != nil {
			return nil, "", errors.NewInputValidationFailedError(fmt.Sprintf("fileBase64: %v", err))
		}
		if int64(len(data)) > limit {
			return nil, "", errors.NewDocumentTooLargeError(int64(len(data)), limit)
		}
		return data, input.MediaType, nil
	}

	doc, err := h.fetcher.FetchDocument(ctx, input.DocumentURL, limit)
	if err != nil {
		if stderrors.Is(err, httpclient.ErrTooLarge) {
			return nil, "", errors.NewDocumentTooLargeError(0, limit)
		}
		fetchErr := errors.NewDocumentFetchFailedError(input.DocumentURL, err)
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) && !statusErr.Retryable() {
			fetchErr.Retryable = false
		}
		return nil, "", fetchErr
	}

	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = doc.MediaType
	}
	return doc.Data, mediaType, nil
}

func (h *Handler) extractionFailure(ctx context.Context, input *Input, mediaType string, err error) (*Output, error) {
	if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return nil, errors.NewExtractionTimeoutError()
	}

	var outputErr *extraction.OutputError
	if !stderrors.As(err, &outputErr) &&
		!stderrors.Is(err, extraction.ErrEmptyDocument) &&
		!stderrors.Is(err, extraction.ErrEmptyResponse) &&
		!stderrors.Is(err, extraction.ErrUnsupportedMediaType) {
		return nil, errors.NewExtractionFailedError(err)
	}

	h.logger.Warn("document could not be read", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentId":    input.DocumentID,
		"mediaType":     mediaType,
		"error":         err.Error(),
	})
	return &Output{
		Category:   models.CategoryOther,
		MediaType:  mediaType,
		Extraction: admission.Failed[models.DocumentCandidate](admission.KindExtractionFailed, unreadableMessage),
	}, nil
}

// checkCandidate rejects a candidate of the wrong category and one whose
// low-confidence grades were not declared unreadable.
func checkCandidate(c models.DocumentCandidate, expected models.DocumentCategory) admission.Result[models.DocumentCandidate] {
	if expected != "" && c.Category != expected {
		return admission.Reject[models.DocumentCandidate](admission.Issue{
			Kind:    admission.KindNotRecognizedDocument,
			Message: fmt.Sprintf("This file does not look like %s. Please upload the correct document.", describe(expected)),
		})
	}

	if c.Academic != nil {
		err := admission.ReconcileConfidence(c.Academic.Subjects, c.Academic.UnreadableGrades)
		var missing *admission.MissingUnreadableDeclarationError
		if stderrors.As(err, &missing) {
			return admission.Reject[models.DocumentCandidate](missing.Issue())
		}
	}

	return admission.Accept(c)
}

func describe(category models.DocumentCategory) string {
	switch category {
	case models.CategoryIdentity:
		return "an identity document"
	case models.CategoryAcademic:
		return "an academic certificate or transcript"
	case models.CategoryReceipt:
		return "a payment receipt"
	default:
		return "the requested document"
	}
}
