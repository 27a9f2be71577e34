// internal/workers/documents/validate-academic-document/handler_test.go
package validateacademicdocument

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-workers/internal/admission"
	"admission-workers/internal/common/errors"
	"admission-workers/internal/common/logger"
	"admission-workers/internal/models"
	"admission-workers/internal/registry"
)

// ==========================
// Test Helper Functions
// ==========================

type failingRegistry struct{}

func (failingRegistry) LookupByName(context.Context, string) (*models.CertificateTypeDescriptor, error) {
	return nil, stderrors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
}

func createTestConfig() *Config {
	return &Config{
		Enabled:                  true,
		MaxJobsActive:            1,
		Timeout:                  time.Second,
		AcceptedCertificateTypes: []string{"LGCSE", "IGCSE", "Edexcel IGCSE", "Certificate"},
	}
}

func createTestRegistry() admission.CertificateTypeRegistry {
	return registry.NewStaticRegistry(
		models.CertificateTypeDescriptor{Name: "LGCSE", LQFLevel: models.IntPtr(4)},
		models.CertificateTypeDescriptor{Name: "IGCSE", LQFLevel: models.IntPtr(4)},
		models.CertificateTypeDescriptor{Name: "Certificate", LQFLevel: models.IntPtr(3)},
	)
}

func lgcseCertificate() *models.AcademicCandidate {
	return &models.AcademicCandidate{
		DocumentType:        models.AcademicCertificate,
		StudentName:         models.StringPtr("Retselisitsoe Mofolo"),
		CertificateType:     models.StringPtr("lgcse"),
		NameMatchConfidence: models.IntPtr(95),
		Subjects: []models.Subject{
			{Name: "English Language", Grade: "B", Confidence: 100},
			{Name: "Mathematics", Grade: "C", Confidence: 99},
			{Name: "Physical Science", Grade: "A*", Confidence: 100},
		},
		Certification: models.Certification{IsCertified: true},
		IsEcol:        true,
	}
}

func executeWith(t *testing.T, reg admission.CertificateTypeRegistry, input *Input) (*Output, error) {
	h := NewHandler(createTestConfig(), reg, nil, logger.NewTestLogger(t))
	return h.Execute(context.Background(), input)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Accepted(t *testing.T) {
	output, err := executeWith(t, createTestRegistry(), &Input{
		ApplicationID: "app-3",
		ExpectedName:  "Retselisitsoe Mofolo",
		Candidate:     models.DocumentCandidate{Category: models.CategoryAcademic, Academic: lgcseCertificate()},
	})

	require.NoError(t, err)
	assert.True(t, output.IsValid)
	assert.Equal(t, admission.Accepted, output.Outcome)
	assert.Empty(t, output.Messages)
	require.NotNil(t, output.AcademicResult.Data)
	assert.Equal(t, "LGCSE", output.AcademicResult.Data.CertificateType)
	assert.Equal(t, 4, *output.AcademicResult.Data.Descriptor.LQFLevel)
}

func TestHandler_Execute_Rejected(t *testing.T) {
	nameMismatch := lgcseCertificate()
	nameMismatch.NameMatchConfidence = models.IntPtr(60)

	lowLevel := lgcseCertificate()
	lowLevel.CertificateType = models.StringPtr("Certificate")

	noAuthority := lgcseCertificate()
	noAuthority.IsEcol = false

	unreadable := lgcseCertificate()
	unreadable.Subjects[1].Confidence = 70
	unreadable.UnreadableGrades = []string{"Mathematics"}

	tests := []struct {
		name      string
		candidate models.DocumentCandidate
		outcome   admission.Outcome
		kind      admission.Kind
	}{
		{
			name:      "name mismatch",
			candidate: models.DocumentCandidate{Category: models.CategoryAcademic, Academic: nameMismatch},
			outcome:   admission.RejectedNameMismatch,
			kind:      admission.KindNameMismatch,
		},
		{
			name:      "below minimum level",
			candidate: models.DocumentCandidate{Category: models.CategoryAcademic, Academic: lowLevel},
			outcome:   admission.RejectedAuthorityRequirement,
			kind:      admission.KindInsufficientQualification,
		},
		{
			name:      "no recognised authority",
			candidate: models.DocumentCandidate{Category: models.CategoryAcademic, Academic: noAuthority},
			outcome:   admission.RejectedAuthorityRequirement,
			kind:      admission.KindIssuingAuthorityRequirement,
		},
		{
			name:      "unreadable grades",
			candidate: models.DocumentCandidate{Category: models.CategoryAcademic, Academic: unreadable},
			outcome:   admission.RejectedUnreadable,
			kind:      admission.KindUnreadableGrades,
		},
		{
			name:      "identity uploaded instead",
			candidate: models.DocumentCandidate{Category: models.CategoryIdentity, Identity: &models.IdentityCandidate{}},
			outcome:   admission.RejectedNotAcademic,
			kind:      admission.KindNotRecognizedDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeWith(t, createTestRegistry(), &Input{
				ApplicationID: "app-3",
				ExpectedName:  "Retselisitsoe Mofolo",
				Candidate:     tt.candidate,
			})

			require.NoError(t, err)
			assert.False(t, output.IsValid)
			assert.Equal(t, tt.outcome, output.Outcome)
			assert.Equal(t, tt.kind, output.AcademicResult.Errors[0].Kind)
			assert.NotEmpty(t, output.Messages)
		})
	}
}

// ==========================
// Failure Handling Tests
// ==========================

func TestHandler_Execute_RegistryUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		reg     admission.CertificateTypeRegistry
		details string
	}{
		{name: "backend down", reg: failingRegistry{}, details: "connection refused"},
		{name: "no registry", reg: nil, details: "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeWith(t, tt.reg, &Input{
				ApplicationID: "app-3",
				Candidate:     models.DocumentCandidate{Category: models.CategoryAcademic, Academic: lgcseCertificate()},
			})

			assert.Nil(t, output)
			stdErr := errors.AsStandardError(err)
			assert.Equal(t, errors.ErrCodeRegistryUnavailable, stdErr.Code)
			assert.True(t, stdErr.Retryable)
			assert.Contains(t, stdErr.Details, tt.details)
		})
	}
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{
		"applicationId": "app-3",
		"expectedName": "Retselisitsoe Mofolo",
		"candidate": {"category": "academic", "academic": {"documentType": "certificate", "subjects": [{"name": "English", "grade": "B", "confidence": 100}]}}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Retselisitsoe Mofolo", input.ExpectedName)
	assert.Len(t, input.Candidate.Academic.Subjects, 1)

	_, err = parseInput(`{"applicationId": "app-3", "candidate": {"category": "academic", "academic": {"documentType": "certificate", "subjects": [{"name": "English"}]}}}`)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1, Timeout: time.Second}).Validate())
}
