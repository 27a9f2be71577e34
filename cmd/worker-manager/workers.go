// cmd/worker-manager/workers.go
package main

import (
	"context"
	"fmt"
	"time"

	"admission-workers/internal/admission"
	"admission-workers/internal/applications"
	"admission-workers/internal/audit"
	"admission-workers/internal/common/aws"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/config"
	httpclient "admission-workers/internal/common/http"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/common/observability"
	"admission-workers/internal/extraction"
	"admission-workers/internal/fees"
	"admission-workers/internal/registry"
	activity "admission-workers/pkg/registry"

	na "admission-workers/internal/workers/communication/notify-applicant"
	ar "admission-workers/internal/workers/documents/aggregate-receipts"
	ad "admission-workers/internal/workers/documents/analyze-document"
	rdd "admission-workers/internal/workers/documents/record-document-decision"
	vad "admission-workers/internal/workers/documents/validate-academic-document"
	vid "admission-workers/internal/workers/documents/validate-identity-document"
	vr "admission-workers/internal/workers/documents/validate-receipt"
)

// overlay applies the shared worker settings from config onto a worker's
// own defaults.
func overlay(wcfg config.WorkerConfig, enabled *bool, maxJobs *int, timeout *time.Duration) {
	*enabled = wcfg.Enabled
	if wcfg.MaxJobsActive > 0 {
		*maxJobs = wcfg.MaxJobsActive
	}
	if wcfg.Timeout > 0 {
		*timeout = config.GetDuration(wcfg.Timeout)
	}
}

func registerWorkers(ctx context.Context, cfg *config.Config, deps *dependencies, manager *camunda.WorkerManager, obs *observability.Observability, log logger.Logger) error {
	policy, err := admission.NewReceiptPolicy(
		cfg.Admission.InstitutionName,
		cfg.Admission.BeneficiaryNames,
		cfg.Admission.IssuerNames,
		cfg.Admission.SalesReceiptPattern,
	)
	if err != nil {
		return err
	}

	var certificates admission.CertificateTypeRegistry = registry.NewPostgresRegistry(deps.postgres.DB)
	if cfg.Registry.CacheEnabled {
		certificates = registry.NewCachedRegistry(certificates, deps.redis.Client,
			time.Duration(cfg.Registry.CacheTTL)*time.Second, cfg.Registry.CachePrefix, log)
	}

	// --- analyze-document ---
	if wcfg := config.GetWorkerConfig(cfg, ad.TaskType); wcfg.Enabled {
		extractor, err := extraction.NewGenAIExtractor(ctx, extraction.GenAIConfig{
			APIKey:      cfg.Extraction.GenAI.APIKey,
			Model:       cfg.Extraction.GenAI.Model,
			Timeout:     config.GetDuration(cfg.Extraction.GenAI.Timeout),
			Temperature: cfg.Extraction.GenAI.Temperature,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", ad.TaskType, err)
		}
		fetcher := httpclient.NewClient(config.GetDuration(cfg.HTTP.Timeout)).
			WithRetries(cfg.HTTP.MaxRetries, 500*time.Millisecond)

		c := ad.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if cfg.Extraction.MaxDocumentBytes > 0 {
			c.MaxDocumentBytes = cfg.Extraction.MaxDocumentBytes
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", ad.TaskType, err)
		}
		manager.Start(ad.TaskType, wcfg, ad.NewHandler(c, fetcher, extractor, obs, log).Handle)
	}

	// --- validate-identity-document ---
	{
		wcfg := config.GetWorkerConfig(cfg, vid.TaskType)
		c := vid.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", vid.TaskType, err)
		}
		manager.Start(vid.TaskType, wcfg, vid.NewHandler(c, obs, log).Handle)
	}

	// --- validate-academic-document ---
	{
		wcfg := config.GetWorkerConfig(cfg, vad.TaskType)
		c := vad.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if len(cfg.Admission.AcceptedCertificateTypes) > 0 {
			c.AcceptedCertificateTypes = cfg.Admission.AcceptedCertificateTypes
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", vad.TaskType, err)
		}
		manager.Start(vad.TaskType, wcfg, vad.NewHandler(c, certificates, obs, log).Handle)
	}

	// --- validate-receipt ---
	{
		wcfg := config.GetWorkerConfig(cfg, vr.TaskType)
		c := vr.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", vr.TaskType, err)
		}
		manager.Start(vr.TaskType, wcfg, vr.NewHandler(c, policy, obs, log).Handle)
	}

	// --- aggregate-receipts ---
	{
		wcfg := config.GetWorkerConfig(cfg, ar.TaskType)
		c := ar.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", ar.TaskType, err)
		}
		resolver := fees.NewPostgresResolver(deps.postgres.DB)
		manager.Start(ar.TaskType, wcfg, ar.NewHandler(c, policy, resolver, obs, log).Handle)
	}

	// --- record-document-decision ---
	{
		wcfg := config.GetWorkerConfig(cfg, rdd.TaskType)
		c := rdd.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", rdd.TaskType, err)
		}
		indexer := audit.NewDecisionIndexer(deps.elasticsearch.Client, cfg.Audit.Index)
		manager.Start(rdd.TaskType, wcfg, rdd.NewHandler(c, indexer, obs, log).Handle)
	}

	// --- notify-applicant ---
	if wcfg := config.GetWorkerConfig(cfg, na.TaskType); wcfg.Enabled {
		c := na.DefaultConfig()
		overlay(wcfg, &c.Enabled, &c.MaxJobsActive, &c.Timeout)
		c.EmailEnabled = cfg.Notifications.Email.Enabled
		c.SMSEnabled = cfg.Notifications.SMS.Enabled
		if cfg.Admission.InstitutionName != "" {
			c.InstitutionName = cfg.Admission.InstitutionName
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", na.TaskType, err)
		}

		var emailer na.Emailer
		if c.EmailEnabled {
			ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
			if err != nil {
				return fmt.Errorf("%s: %w", na.TaskType, err)
			}
			emailer = ses
		}
		var sms na.SMSSender
		if c.SMSEnabled {
			sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SMS.SenderID)
			if err != nil {
				return fmt.Errorf("%s: %w", na.TaskType, err)
			}
			sms = sns
		}

		apps := applications.NewRepository(deps.postgres.DB)
		manager.Start(na.TaskType, wcfg, na.NewHandler(c, apps, emailer, sms, obs, log).Handle)
	}

	return nil
}

// checkActivities warns about running workers that the activity registry
// does not describe.
func checkActivities(path string, running []string, log logger.Logger) {
	reg, err := activity.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	for _, taskType := range running {
		if _, ok := reg.Find(taskType); !ok {
			log.Warn("worker missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
	}
}
