// internal/workers/documents/aggregate-receipts/handler.go
package aggregatereceipts

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"

	"admission-workers/internal/admission"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/errors"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/fees"
	"admission-workers/internal/models"
	validatereceipt "admission-workers/internal/workers/documents/validate-receipt"
)

const (
	TaskType = "aggregate-receipts"
)

type Handler struct {
	config       *Config
	policy       admission.ReceiptPolicy
	fees         fees.Resolver
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
}

func NewHandler(config *Config, policy admission.ReceiptPolicy, resolver fees.Resolver, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		policy:       policy,
		fees:         resolver,
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

// Execute validates every receipt concurrently and checks their sum against
// the required fee.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	required, err := h.requiredAmount(ctx, input)
	if err != nil {
		return nil, err
	}

	results, err := h.validateAll(ctx, input.Receipts)
	if err != nil {
		return nil, errors.NewTimeoutError("receipt validation", err)
	}

	aggregate := admission.AggregateReceipts(results, required)

	outcome := "accepted"
	if !aggregate.IsValid {
		outcome = "rejected"
	}
	kinds := make([]string, len(aggregate.Errors))
	for i, is := range aggregate.Errors {
		kinds[i] = string(is.Kind)
	}
	h.tracker.Decision(ctx, "receipt_aggregate", outcome, aggregate.IsValid, kinds)

	h.logger.Info("receipts aggregated", map[string]interface{}{
		"applicationId":  input.ApplicationID,
		"receipts":       len(input.Receipts),
		"validReceipts":  aggregate.ValidReceipts,
		"totalAmount":    aggregate.TotalAmount,
		"requiredAmount": aggregate.RequiredAmount,
		"isValid":        aggregate.IsValid,
	})

	return &Output{
		AggregateResult: aggregate,
		ReceiptResults:  results,
		IsValid:         aggregate.IsValid,
		Messages:        aggregate.Messages(),
	}, nil
}

func (h *Handler) requiredAmount(ctx context.Context, input *Input) (float64, error) {
	if input.RequiredAmount != nil {
		return *input.RequiredAmount, nil
	}
	if h.fees == nil {
		return 0, errors.NewFeeNotFoundError(input.ApplicationID)
	}

	amount, err := h.fees.RequiredAmount(ctx, input.ApplicationID)
	if err != nil {
		if stderrors.Is(err, fees.ErrFeeNotFound) {
			return 0, errors.NewFeeNotFoundError(input.ApplicationID)
		}
		return 0, errors.NewFeeResolutionFailedError(err)
	}
	return amount, nil
}

// validateAll keeps results in input order.
func (h *Handler) validateAll(ctx context.Context, receipts []models.DocumentCandidate) ([]admission.Result[models.ReceiptCandidate], error) {
	results := make([]admission.Result[models.ReceiptCandidate], len(receipts))

	g, gctx := errgroup.WithContext(ctx)
	if h.config.MaxParallel > 0 {
		g.SetLimit(h.config.MaxParallel)
	}
	for i, receipt := range receipts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = validatereceipt.ValidateCandidate(receipt, h.policy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
