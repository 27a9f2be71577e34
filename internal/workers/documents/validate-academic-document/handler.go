// internal/workers/documents/validate-academic-document/handler.go
package validateacademicdocument

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

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
	TaskType = "validate-academic-document"
)

type Handler struct {
	config       *Config
	registry     admission.CertificateTypeRegistry
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
}

func NewHandler(config *Config, registry admission.CertificateTypeRegistry, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		registry:     registry,
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

// Execute runs the academic cascade. A registry outage is returned as a
// retryable error instead of rejecting the applicant.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Candidate.Category != models.CategoryAcademic || input.Candidate.Academic == nil {
		return h.decide(ctx, input, admission.AcademicResult{
			Result: admission.Failed[admission.NormalizedAcademic](admission.KindNotRecognizedDocument,
				"The uploaded document is not an academic certificate or transcript."),
			Outcome: admission.RejectedNotAcademic,
		}), nil
	}

	registry := &recordingRegistry{next: h.registry}
	result := admission.ValidateAcademic(ctx, *input.Candidate.Academic, admission.AcademicContext{
		ExpectedName:  input.ExpectedName,
		AcceptedTypes: h.config.AcceptedCertificateTypes,
		Registry:      registry,
	})

	if result.HasKind(admission.KindRegistryUnavailable) {
		return nil, errors.NewRegistryUnavailableError(registry.failure())
	}

	return h.decide(ctx, input, result), nil
}

func (h *Handler) decide(ctx context.Context, input *Input, result admission.AcademicResult) *Output {
	kinds := admission.KindNames(result.Kinds())
	h.tracker.Decision(ctx, string(models.CategoryAcademic), string(result.Outcome), result.IsValid, kinds)

	h.logger.Info("academic document validated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"documentId":    input.DocumentID,
		"outcome":       string(result.Outcome),
		"kinds":         kinds,
	})

	return &Output{
		AcademicResult: result,
		Outcome:        result.Outcome,
		IsValid:        result.IsValid,
		Messages:       result.Messages(),
	}
}

// recordingRegistry keeps the last lookup error so an outage can be reported
// with its cause.
type recordingRegistry struct {
	next admission.CertificateTypeRegistry

	mu  sync.Mutex
	err error
}

func (r *recordingRegistry) LookupByName(ctx context.Context, name string) (*models.CertificateTypeDescriptor, error) {
	var descriptor *models.CertificateTypeDescriptor
	err := fmt.Errorf("certificate type registry not configured")
	if r.next != nil {
		descriptor, err = r.next.LookupByName(ctx, name)
	}
	if err != nil {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
	}
	return descriptor, err
}

func (r *recordingRegistry) failure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
