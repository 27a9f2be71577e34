// internal/workers/documents/record-document-decision/handler.go
package recorddocumentdecision

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/errors"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/models"
)

const (
	TaskType = "record-document-decision"
)

// DecisionRecorder stores a decision and returns it with its id and time set.
type DecisionRecorder interface {
	Record(ctx context.Context, decision models.DocumentDecision) (*models.DocumentDecision, error)
	Index() string
}

type Handler struct {
	config       *Config
	recorder     DecisionRecorder
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
}

func NewHandler(config *Config, recorder DecisionRecorder, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recorder:     recorder,
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
	decision := models.DocumentDecision{
		ApplicationID: input.ApplicationID,
		DocumentID:    input.DocumentID,
		Category:      input.Category,
		IsValid:       input.IsValid,
		Outcome:       input.Outcome,
	}
	for _, is := range input.Errors {
		decision.ErrorKinds = append(decision.ErrorKinds, string(is.Kind))
		decision.Messages = append(decision.Messages, is.Message)
	}

	stored, err := h.recorder.Record(ctx, decision)
	if err != nil {
		return nil, errors.NewDecisionIndexFailedError(h.recorder.Index(), err)
	}

	h.logger.Info("document decision recorded", map[string]interface{}{
		"applicationId": stored.ApplicationID,
		"documentId":    stored.DocumentID,
		"decisionId":    stored.ID,
		"isValid":       stored.IsValid,
	})

	return &Output{DecisionID: stored.ID, DecidedAt: stored.DecidedAt}, nil
}
