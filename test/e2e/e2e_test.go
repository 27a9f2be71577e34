//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-workers/internal/admission"
	"admission-workers/internal/applications"
	"admission-workers/internal/audit"
	"admission-workers/internal/common/aws"
	"admission-workers/internal/common/camunda"
	"admission-workers/internal/common/config"
	"admission-workers/internal/common/database"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/fees"
	"admission-workers/internal/models"
	"admission-workers/internal/registry"

	notifyapplicant "admission-workers/internal/workers/communication/notify-applicant"
	aggregatereceipts "admission-workers/internal/workers/documents/aggregate-receipts"
	recorddocumentdecision "admission-workers/internal/workers/documents/record-document-decision"
	validateacademicdocument "admission-workers/internal/workers/documents/validate-academic-document"
)

const e2eApplicationID = "e2e-app-1"

type services struct {
	zeebe    *camunda.Client
	postgres *database.PostgresClient
	es       *database.ElasticsearchClient
	redis    *database.RedisClient
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	// 1. Check all external services are available
	svc := connectServices(ctx, t, cfg)

	// 2. Create DB tables if needed and insert test data
	createDatabaseTables(ctx, t, svc.postgres.DB)

	// 3. Run the document workers against real backing services
	log := logger.NewTestLogger(t)
	t.Run("aggregate-receipts", func(t *testing.T) { testAggregateReceipts(ctx, t, svc, log) })
	t.Run("validate-academic-document", func(t *testing.T) { testValidateAcademic(ctx, t, svc, cfg, log) })
	t.Run("record-document-decision", func(t *testing.T) { testRecordDecision(ctx, t, svc, cfg, log) })
	t.Run("notify-applicant", func(t *testing.T) { testNotifyApplicant(ctx, t, svc, log) })
}

func connectServices(ctx context.Context, t *testing.T, cfg *config.Config) *services {
	t.Helper()
	svc := &services{}

	var err error
	svc.zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
	require.NoError(t, err, "Zeebe connection failed")
	t.Cleanup(func() { svc.zeebe.Close() })

	svc.postgres, err = database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { svc.postgres.Close() })

	svc.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)

	svc.redis = database.NewRedis(cfg.Database.Redis)
	t.Cleanup(func() { svc.redis.Close() })

	failures := database.CheckAll(ctx, 5*time.Second, svc.zeebe, svc.postgres, svc.es, svc.redis)
	require.Empty(t, failures, "backing services unreachable")
	return svc
}

func createDatabaseTables(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS certificate_types (
			name TEXT PRIMARY KEY,
			lqf_level INT
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			applicant_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			program_code TEXT NOT NULL,
			intake_id TEXT,
			status TEXT NOT NULL DEFAULT 'submitted',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS program_fees (
			program_code TEXT NOT NULL,
			intake_id TEXT,
			amount NUMERIC(12,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'LSL',
			PRIMARY KEY (program_code, intake_id)
		)`,
		`INSERT INTO certificate_types (name, lqf_level) VALUES ('LGCSE', 4), ('IGCSE', 4)
			ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO applications (id, applicant_name, email, phone, program_code, intake_id)
			VALUES ('` + e2eApplicationID + `', 'Retselisitsoe Mofolo', 'e2e@example.com', NULL, 'BSCSE', '2026-08')
			ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO program_fees (program_code, intake_id, amount) VALUES ('BSCSE', '2026-08', 500.00)
			ON CONFLICT (program_code, intake_id) DO NOTHING`,
	}
	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
}

func deposit(amount float64, reference string) models.DocumentCandidate {
	return models.DocumentCandidate{
		Category: models.CategoryReceipt,
		Receipt: &models.ReceiptCandidate{
			IsBankDeposit:   true,
			BeneficiaryName: models.StringPtr("Limkokwing University of Creative Technology"),
			Reference:       models.StringPtr(reference),
			AmountDeposited: models.Float64Ptr(amount),
		},
	}
}

func testAggregateReceipts(ctx context.Context, t *testing.T, svc *services, log logger.Logger) {
	h := aggregatereceipts.NewHandler(aggregatereceipts.DefaultConfig(), admission.DefaultReceiptPolicy(),
		fees.NewPostgresResolver(svc.postgres.DB), nil, log)

	out, err := h.Execute(ctx, &aggregatereceipts.Input{
		ApplicationID: e2eApplicationID,
		Receipts:      []models.DocumentCandidate{deposit(300, "E2E-1"), deposit(200, "E2E-2")},
	})
	require.NoError(t, err)
	assert.True(t, out.IsValid, out.Messages)
	assert.Equal(t, 500.0, out.AggregateResult.RequiredAmount)
}

func testValidateAcademic(ctx context.Context, t *testing.T, svc *services, cfg *config.Config, log logger.Logger) {
	reg := registry.NewCachedRegistry(registry.NewPostgresRegistry(svc.postgres.DB), svc.redis.Client,
		time.Minute, "e2e:"+cfg.Registry.CachePrefix, log)

	h := validateacademicdocument.NewHandler(validateacademicdocument.DefaultConfig(), reg, nil, log)
	out, err := h.Execute(ctx, &validateacademicdocument.Input{
		ApplicationID: e2eApplicationID,
		ExpectedName:  "Retselisitsoe Mofolo",
		Candidate: models.DocumentCandidate{
			Category: models.CategoryAcademic,
			Academic: &models.AcademicCandidate{
				DocumentType:        models.AcademicCertificate,
				StudentName:         models.StringPtr("Retselisitsoe Mofolo"),
				CertificateType:     models.StringPtr("LGCSE"),
				NameMatchConfidence: models.IntPtr(97),
				Subjects: []models.Subject{
					{Name: "English Language", Grade: "B", Confidence: 100},
					{Name: "Mathematics", Grade: "C", Confidence: 98},
				},
				Certification: models.Certification{IsCertified: true},
				IsEcol:        true,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, admission.Accepted, out.Outcome, out.Messages)
}

func testRecordDecision(ctx context.Context, t *testing.T, svc *services, cfg *config.Config, log logger.Logger) {
	indexer := audit.NewDecisionIndexer(svc.es.Client, cfg.Audit.Index)
	h := recorddocumentdecision.NewHandler(recorddocumentdecision.DefaultConfig(), indexer, nil, log)

	out, err := h.Execute(ctx, &recorddocumentdecision.Input{
		ApplicationID: e2eApplicationID,
		DocumentID:    "doc-e2e",
		Category:      models.CategoryReceipt,
		IsValid:       true,
		Outcome:       "accepted",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.DecisionID)
}

type loggingEmailer struct {
	t *testing.T
}

func (e loggingEmailer) Send(_ context.Context, email aws.Email) (string, error) {
	e.t.Logf("email to %s: %s", email.To, email.Subject)
	return "e2e-message", nil
}

func testNotifyApplicant(ctx context.Context, t *testing.T, svc *services, log logger.Logger) {
	h := notifyapplicant.NewHandler(notifyapplicant.DefaultConfig(), applications.NewRepository(svc.postgres.DB),
		loggingEmailer{t: t}, nil, nil, log)

	out, err := h.Execute(ctx, &notifyapplicant.Input{
		ApplicationID: e2eApplicationID,
		Type:          notifyapplicant.TypeDocumentsVerified,
	})
	require.NoError(t, err)
	assert.True(t, out.Delivered)
}
