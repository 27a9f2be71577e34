// internal/workers/documents/validate-receipt/handler.go
package validatereceipt

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admission-workers/internal/admission"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/errors"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/models"
)

const (
	TaskType = "validate-receipt"
)

type Handler struct {
	config       *Config
	policy       admission.ReceiptPolicy
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
}

func NewHandler(config *Config, policy admission.ReceiptPolicy, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		policy:       policy,
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

	var output *Output
	input, err := parseInput(job.Variables)
	if err == nil {
		output, err = h.Execute(ctx, input)
	}
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result := ValidateCandidate(input.Candidate, h.policy)

	outcome := "accepted"
	if !result.IsValid {
		outcome = "rejected"
	}
	kinds := admission.KindNames(result.Kinds())
	h.tracker.Decision(ctx, string(models.CategoryReceipt), outcome, result.IsValid, kinds)

	receiptType := models.ReceiptUnknown
	if input.Candidate.Receipt != nil {
		receiptType = admission.ClassifyReceipt(*input.Candidate.Receipt, h.policy)
	}

	h.logger.Info("receipt validated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentId":    input.DocumentID,
		"receiptType":   string(receiptType),
		"isValid":       result.IsValid,
		"kinds":         kinds,
	})

	return &Output{
		ReceiptResult: result,
		ReceiptType:   receiptType,
		IsValid:       result.IsValid,
		Messages:      result.Messages(),
	}, nil
}

// ValidateCandidate validates a receipt candidate, rejecting candidates of
// any other category.
func ValidateCandidate(c models.DocumentCandidate, policy admission.ReceiptPolicy) admission.Result[models.ReceiptCandidate] {
	if c.Category != models.CategoryReceipt || c.Receipt == nil {
		return admission.Failed[models.ReceiptCandidate](admission.KindNotRecognizedDocument,
			"The uploaded document is not a proof of payment. Please upload a bank deposit slip or an official university sales receipt.")
	}
	return admission.ValidateReceipt(*c.Receipt, policy)
}
