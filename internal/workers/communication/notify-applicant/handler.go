// internal/workers/communication/notify-applicant/handler.go
package notifyapplicant

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"admission-workers/internal/applications"
	"admission-workers/internal/common/aws"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/errors"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/models"
)

const (
	TaskType = "notify-applicant"

	channelEmail = "email"
	channelSMS   = "sms"

	statusSent     = "sent"
	statusFailed   = "failed"
	statusDisabled = "disabled"
)

type ApplicationLookup interface {
	Get(ctx context.Context, id string) (*models.Application, error)
}

type Emailer interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	applications ApplicationLookup
	email        Emailer
	sms          SMSSender
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	tracker      *camunda.JobTracker
	now          func() time.Time
}

func NewHandler(config *Config, applications ApplicationLookup, email Emailer, sms SMSSender, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		applications: applications,
		email:        email,
		sms:          sms,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		tracker:      camunda.NewJobTracker(TaskType, obs),
		now:          time.Now,
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
	emailOn := h.config.EmailEnabled && h.email != nil
	smsOn := h.config.SMSEnabled && h.sms != nil
	if !emailOn && !smsOn {
		return nil, errors.NewNotificationDisabledError("email,sms")
	}

	if h.applications == nil {
		return nil, errors.NewInternalError(stderrors.New("application store not configured"))
	}
	app, err := h.applications.Get(ctx, input.ApplicationID)
	if stderrors.Is(err, applications.ErrNotFound) {
		return nil, errors.NewInputValidationFailedError("application " + input.ApplicationID + " not found")
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("applications", err)
	}

	msg, err := render(input, app, h.config.InstitutionName)
	if err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}

	output := &Output{Notifications: make([]models.Notification, 0, 2)}

	if emailOn {
		id, err := h.email.Send(ctx, aws.Email{
			To:       app.Email,
			Subject:  msg.Subject,
			TextBody: msg.Text,
			HTMLBody: msg.HTML,
		})
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(channelEmail, err)
		}
		output.Notifications = append(output.Notifications, h.notification(input, channelEmail, statusSent, map[string]interface{}{
			"messageId": id,
			"to":        app.Email,
			"subject":   msg.Subject,
			"template":  msg.Template,
		}))
		output.Delivered = true
	}

	switch {
	case !smsOn:
	case app.Phone == "":
		output.Notifications = append(output.Notifications, h.notification(input, channelSMS, statusDisabled, map[string]interface{}{
			"reason": "no phone number on application",
		}))
	default:
		id, err := h.sms.SendSMS(ctx, app.Phone, msg.SMS)
		if err != nil {
			if !output.Delivered {
				return nil, errors.NewNotificationSendFailedError(channelSMS, err)
			}
			h.logger.Warn("sms delivery failed", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"error":         err.Error(),
			})
			output.Notifications = append(output.Notifications, h.notification(input, channelSMS, statusFailed, map[string]interface{}{
				"error": err.Error(),
			}))
			break
		}
		output.Notifications = append(output.Notifications, h.notification(input, channelSMS, statusSent, map[string]interface{}{
			"messageId": id,
			"to":        app.Phone,
		}))
		output.Delivered = true
	}

	h.logger.Info("applicant notified", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"type":          input.Type,
		"notifications": len(output.Notifications),
		"delivered":     output.Delivered,
	})
	return output, nil
}

func (h *Handler) notification(input *Input, channel, status string, payload map[string]interface{}) models.Notification {
	return models.Notification{
		ID:            uuid.NewString(),
		ApplicationID: input.ApplicationID,
		Type:          input.Type,
		Channel:       channel,
		Status:        status,
		Payload:       payload,
		SentAt:        h.now().UTC().Format(time.RFC3339),
	}
}
