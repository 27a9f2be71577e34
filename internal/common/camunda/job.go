package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admission-workers/internal/common/metrics"
	"admission-workers/internal/common/observability"
)

// JobTracker records Prometheus and OpenTelemetry metrics for one task type.
// A nil Observability records Prometheus metrics only.
type JobTracker struct {
	taskType string
	obs      *observability.Observability
}

func NewJobTracker(taskType string, obs *observability.Observability) *JobTracker {
	return &JobTracker{taskType: taskType, obs: obs}
}

// Begin marks a job active. The returned function records the outcome; an
// empty error code means the job completed.
func (t *JobTracker) Begin(ctx context.Context) func(errorCode string) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(t.taskType).Inc()

	return func(errorCode string) {
		elapsed := time.Since(start)
		metrics.WorkerJobsActive.WithLabelValues(t.taskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())

		status := "completed"
		if errorCode == "" {
			metrics.WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
		} else {
			status = "failed"
			metrics.WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
		}
		t.obs.RecordJobProcessed(ctx, t.taskType, status)
		t.obs.RecordJobDuration(ctx, t.taskType, elapsed, status)
	}
}

// Decision counts one validation decision and the issue kinds behind it.
func (t *JobTracker) Decision(ctx context.Context, category, outcome string, valid bool, kinds []string) {
	metrics.RecordDecision(category, outcome, kinds)
	t.obs.RecordDecision(ctx, category, outcome, valid)
}

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}
