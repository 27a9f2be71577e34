package admission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type stubRegistry struct {
	types   map[string]*models.CertificateTypeDescriptor
	err     error
	lookups []string
}

func (s *stubRegistry) LookupByName(_ context.Context, name string) (*models.CertificateTypeDescriptor, error) {
	s.lookups = append(s.lookups, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.types[name], nil
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{types: map[string]*models.CertificateTypeDescriptor{
		"lgcse":         {Name: "LGCSE", LQFLevel: models.IntPtr(4)},
		"igcse":         {Name: "IGCSE", LQFLevel: models.IntPtr(4)},
		"edexcel igcse": {Name: "Edexcel IGCSE", LQFLevel: models.IntPtr(4)},
		"cosc":          {Name: "COSC", LQFLevel: models.IntPtr(4)},
		"nsc":           {Name: "NSC", LQFLevel: models.IntPtr(4)},
		"certificate":   {Name: "Certificate", LQFLevel: models.IntPtr(3)},
		"diploma":       {Name: "Diploma", LQFLevel: models.IntPtr(6)},
		"degree":        {Name: "Degree"},
	}}
}

var acceptedTypes = []string{
	"LGCSE", "COSC", "IGCSE", "Edexcel IGCSE", "NSC",
	"GCE O-Level", "GCE AS-Level", "GCE A-Level",
	"Certificate", "Diploma", "Degree", "Unregistered Award",
}

func academicContext(reg CertificateTypeRegistry) AcademicContext {
	return AcademicContext{AcceptedTypes: acceptedTypes, Registry: reg}
}

func lgcseCertificate() models.AcademicCandidate {
	return models.AcademicCandidate{
		DocumentType:    models.AcademicCertificate,
		StudentName:     models.StringPtr("Thabo Lebese"),
		CertificateType: models.StringPtr("LGCSE"),
		Subjects: []models.Subject{
			{Name: "English", Grade: "B", Confidence: 100},
			{Name: "Mathematics", Grade: "C", Confidence: 99},
			{Name: "Sesotho", Grade: "A*", Confidence: 100},
		},
		Certification: models.Certification{IsCertified: true},
		IsEcol:        true,
	}
}

func requireRejected(t *testing.T, result AcademicResult, outcome Outcome, kind Kind) {
	t.Helper()
	assert.False(t, result.IsValid)
	assert.Nil(t, result.Data)
	assert.Equal(t, outcome, result.Outcome)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, kind, result.Errors[0].Kind)
}

// ==========================
// Acceptance
// ==========================

func TestValidateAcademic_EndToEndLGCSE(t *testing.T) {
	reg := &stubRegistry{types: map[string]*models.CertificateTypeDescriptor{
		"lgcse": {Name: "LGCSE", LQFLevel: models.IntPtr(4)},
	}}
	candidate := models.AcademicCandidate{
		DocumentType:    models.AcademicCertificate,
		CertificateType: models.StringPtr("LGCSE"),
		Subjects:        []models.Subject{{Name: "English", Grade: "B", Confidence: 100}},
		Certification:   models.Certification{IsCertified: true},
		IsEcol:          true,
	}

	result := ValidateAcademic(context.Background(), candidate, academicContext(reg))

	assert.True(t, result.IsValid)
	assert.Equal(t, Accepted, result.Outcome)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Data)
	assert.Equal(t, FamilyLGCSEIGCSE, result.Data.Family)
	assert.Equal(t, "LGCSE", result.Data.CertificateType)
	require.NotNil(t, result.Data.Descriptor)
	assert.Equal(t, 4, *result.Data.Descriptor.LQFLevel)
	assert.Equal(t, []string{"lgcse"}, reg.lookups)
}

func TestValidateAcademic_CanonicalTypeName(t *testing.T) {
	reg := newStubRegistry()
	candidate := lgcseCertificate()
	candidate.CertificateType = models.StringPtr("  lgcse ")

	result := ValidateAcademic(context.Background(), candidate, academicContext(reg))

	require.True(t, result.IsValid)
	assert.Equal(t, "LGCSE", result.Data.CertificateType)
	assert.Equal(t, "  lgcse ", *result.Data.Candidate.CertificateType)
	assert.Equal(t, []string{"lgcse"}, reg.lookups)
}

func TestValidateAcademic_TranscriptSkipsCertificateChecks(t *testing.T) {
	reg := newStubRegistry()
	candidate := models.AcademicCandidate{
		DocumentType:  models.AcademicTranscript,
		Subjects:      []models.Subject{{Name: "Accounting", Grade: "Merit", Confidence: 100}},
		Certification: models.Certification{IsCertified: true},
	}

	result := ValidateAcademic(context.Background(), candidate, academicContext(reg))

	assert.True(t, result.IsValid)
	assert.Equal(t, FamilyOther, result.Data.Family)
	assert.Empty(t, reg.lookups)
}

// ==========================
// Cascade order
// ==========================

func TestValidateAcademic_Cascade(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *models.AcademicCandidate)
		outcome Outcome
		kind    Kind
	}{
		{
			name:    "not an academic document",
			mutate:  func(c *models.AcademicCandidate) { c.DocumentType = models.AcademicOther },
			outcome: RejectedNotAcademic,
			kind:    KindNotRecognizedDocument,
		},
		{
			name: "other wins over unreadable grades",
			mutate: func(c *models.AcademicCandidate) {
				c.DocumentType = models.AcademicOther
				c.UnreadableGrades = []string{"English"}
			},
			outcome: RejectedNotAcademic,
			kind:    KindNotRecognizedDocument,
		},
		{
			name: "declared unreadable grade",
			mutate: func(c *models.AcademicCandidate) {
				c.Subjects[1].Confidence = 50
				c.UnreadableGrades = []string{"Mathematics"}
			},
			outcome: RejectedUnreadable,
			kind:    KindUnreadableGrades,
		},
		{
			name:    "unreadable list alone rejects",
			mutate:  func(c *models.AcademicCandidate) { c.UnreadableGrades = []string{"English"} },
			outcome: RejectedUnreadable,
			kind:    KindUnreadableGrades,
		},
		{
			name: "unreadable wins over invalid type",
			mutate: func(c *models.AcademicCandidate) {
				c.UnreadableGrades = []string{"English"}
				c.CertificateType = models.StringPtr("Testimonial")
			},
			outcome: RejectedUnreadable,
			kind:    KindUnreadableGrades,
		},
		{
			name:    "undeclared low confidence subject",
			mutate:  func(c *models.AcademicCandidate) { c.Subjects[0].Confidence = 98 },
			outcome: RejectedLowConfidenceSubjects,
			kind:    KindLowConfidenceSubjects,
		},
		{
			name:    "missing certificate type",
			mutate:  func(c *models.AcademicCandidate) { c.CertificateType = nil },
			outcome: RejectedInvalidCertificateType,
			kind:    KindInvalidCertificateType,
		},
		{
			name:    "certificate type not accepted",
			mutate:  func(c *models.AcademicCandidate) { c.CertificateType = models.StringPtr("Testimonial") },
			outcome: RejectedInvalidCertificateType,
			kind:    KindInvalidCertificateType,
		},
		{
			name:    "grade outside family alphabet",
			mutate:  func(c *models.AcademicCandidate) { c.Subjects[0].Grade = "9" },
			outcome: RejectedInvalidCertificateType,
			kind:    KindGradeAlphabetMismatch,
		},
		{
			name:    "not certified",
			mutate:  func(c *models.AcademicCandidate) { c.Certification.IsCertified = false },
			outcome: RejectedUncertifiedDocument,
			kind:    KindUncertifiedDocument,
		},
		{
			name: "alphabet mismatch wins over missing certification",
			mutate: func(c *models.AcademicCandidate) {
				c.Subjects[0].Grade = "7"
				c.Certification.IsCertified = false
			},
			outcome: RejectedInvalidCertificateType,
			kind:    KindGradeAlphabetMismatch,
		},
		{
			name:    "registered below minimum level",
			mutate:  func(c *models.AcademicCandidate) { c.CertificateType = models.StringPtr("Certificate") },
			outcome: RejectedAuthorityRequirement,
			kind:    KindInsufficientQualification,
		},
		{
			name:    "accepted but not registered",
			mutate:  func(c *models.AcademicCandidate) { c.CertificateType = models.StringPtr("Unregistered Award") },
			outcome: RejectedInvalidCertificateType,
			kind:    KindUnregisteredCertificateType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := lgcseCertificate()
			tt.mutate(&candidate)

			result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

			requireRejected(t, result, tt.outcome, tt.kind)
		})
	}
}

func TestValidateAcademic_UnreadableMessage(t *testing.T) {
	candidate := lgcseCertificate()
	candidate.Subjects[1].Confidence = 40
	candidate.UnreadableGrades = []string{"Mathematics"}

	result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Unable to read grades for: Mathematics. Please upload a clearer image.", result.Errors[0].Message)
	assert.Equal(t, []string{"Mathematics"}, result.Errors[0].Fields)
}

// ==========================
// Grade alphabet
// ==========================

func TestValidateAcademic_GradeAlphabet(t *testing.T) {
	tests := []struct {
		name            string
		certificateType string
		grades          []string
		wantMismatches  []string
	}{
		{"edexcel rejects letter grade", "Edexcel IGCSE", []string{"9", "B"}, []string{"Mathematics"}},
		{"edexcel accepts numeric grades", "Edexcel IGCSE", []string{"9", "4"}, nil},
		{"lgcse rejects numeric grade", "LGCSE", []string{"9", "C"}, []string{"English"}},
		{"igcse with pearson flag still uses letters", "IGCSE", []string{"7", "6"}, []string{"English", "Mathematics"}},
		{"cosc has no fixed alphabet", "COSC", []string{"1", "Merit"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := lgcseCertificate()
			candidate.CertificateType = models.StringPtr(tt.certificateType)
			candidate.IsPearson = true
			candidate.Subjects = []models.Subject{
				{Name: "English", Grade: tt.grades[0], Confidence: 100},
				{Name: "Mathematics", Grade: tt.grades[1], Confidence: 100},
			}

			result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

			if tt.wantMismatches == nil {
				assert.True(t, result.IsValid, "unexpected errors: %v", result.Messages())
				return
			}
			assert.Equal(t, RejectedInvalidCertificateType, result.Outcome)
			require.Len(t, result.Errors, len(tt.wantMismatches))
			for i, subject := range tt.wantMismatches {
				assert.Equal(t, KindGradeAlphabetMismatch, result.Errors[i].Kind)
				assert.Equal(t, []string{subject}, result.Errors[i].Fields)
				assert.Contains(t, result.Errors[i].Message, subject)
			}
		})
	}
}

// ==========================
// Name match
// ==========================

func TestValidateAcademic_NameMatch(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		confidence *int
		wantValid  bool
	}{
		{"reordered name at 92", "Lebese Thabo", models.IntPtr(92), true},
		{"boundary at 80", "Lebese Thabo", models.IntPtr(80), true},
		{"reordered name at 60", "Lebese Thabo", models.IntPtr(60), false},
		{"no expected name skips check", "", models.IntPtr(10), true},
		{"no score skips check", "Lebese Thabo", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := lgcseCertificate()
			candidate.NameMatchConfidence = tt.confidence
			ac := academicContext(newStubRegistry())
			ac.ExpectedName = tt.expected

			result := ValidateAcademic(context.Background(), candidate, ac)

			assert.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				requireRejected(t, result, RejectedNameMismatch, KindNameMismatch)
				assert.Contains(t, result.Errors[0].Message, "Thabo Lebese")
				assert.Contains(t, result.Errors[0].Message, "Lebese Thabo")
			}
		})
	}
}

// ==========================
// Registry and authority
// ==========================

func TestValidateAcademic_AuthorityGate(t *testing.T) {
	tests := []struct {
		name            string
		certificateType string
		ecol            bool
		cambridge       bool
		pearson         bool
		wantValid       bool
	}{
		{"lgcse issued by ecol", "LGCSE", true, false, false, true},
		{"lgcse without authority", "LGCSE", false, false, false, false},
		{"igcse issued by cambridge", "IGCSE", false, true, false, true},
		{"igcse issued by pearson", "IGCSE", false, false, true, true},
		{"edexcel issued by pearson", "Edexcel IGCSE", false, false, true, true},
		{"cosc with cambridge flag is not igcse", "COSC", false, true, false, false},
		{"nsc issued by ecol", "NSC", true, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := lgcseCertificate()
			candidate.CertificateType = models.StringPtr(tt.certificateType)
			candidate.IsEcol = tt.ecol
			candidate.IsCambridge = tt.cambridge
			candidate.IsPearson = tt.pearson
			if tt.certificateType == "Edexcel IGCSE" {
				for i := range candidate.Subjects {
					candidate.Subjects[i].Grade = "8"
				}
			}

			result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

			if tt.wantValid {
				assert.True(t, result.IsValid, "unexpected errors: %v", result.Messages())
				return
			}
			requireRejected(t, result, RejectedAuthorityRequirement, KindIssuingAuthorityRequirement)
			assert.Contains(t, result.Errors[0].Message, "ECoL, Cambridge, or Pearson/Edexcel")
		})
	}
}

func TestValidateAcademic_AuthorityGateIgnoresConfidence(t *testing.T) {
	candidate := lgcseCertificate()
	candidate.IsEcol = false
	for i := range candidate.Subjects {
		candidate.Subjects[i].Confidence = 100
	}

	result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

	requireRejected(t, result, RejectedAuthorityRequirement, KindIssuingAuthorityRequirement)
}

func TestValidateAcademic_RegistryLevels(t *testing.T) {
	t.Run("unknown level passes", func(t *testing.T) {
		candidate := lgcseCertificate()
		candidate.CertificateType = models.StringPtr("Degree")
		candidate.IsEcol = false

		result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

		assert.True(t, result.IsValid)
		assert.Nil(t, result.Data.Descriptor.LQFLevel)
	})

	t.Run("above minimum needs no authority", func(t *testing.T) {
		candidate := lgcseCertificate()
		candidate.CertificateType = models.StringPtr("Diploma")
		candidate.IsEcol = false

		result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

		assert.True(t, result.IsValid)
	})

	t.Run("below minimum states the floor", func(t *testing.T) {
		candidate := lgcseCertificate()
		candidate.CertificateType = models.StringPtr("Certificate")

		result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

		requireRejected(t, result, RejectedAuthorityRequirement, KindInsufficientQualification)
		assert.Contains(t, result.Errors[0].Message, "LQF level 4")
	})
}

func TestValidateAcademic_RegistryUnavailable(t *testing.T) {
	reg := newStubRegistry()
	reg.err = errors.New("connection refused")

	result := ValidateAcademic(context.Background(), lgcseCertificate(), academicContext(reg))

	requireRejected(t, result, RejectedInvalidCertificateType, KindRegistryUnavailable)
	assert.NotContains(t, result.Errors[0].Message, "connection refused")
}

func TestValidateAcademic_NilRegistry(t *testing.T) {
	result := ValidateAcademic(context.Background(), lgcseCertificate(), academicContext(nil))

	requireRejected(t, result, RejectedInvalidCertificateType, KindRegistryUnavailable)
}

// ==========================
// Properties
// ==========================

func TestValidateAcademic_Idempotent(t *testing.T) {
	candidates := []models.AcademicCandidate{lgcseCertificate()}
	rejected := lgcseCertificate()
	rejected.UnreadableGrades = []string{"English"}
	candidates = append(candidates, rejected)

	for _, c := range candidates {
		first := ValidateAcademic(context.Background(), c, academicContext(newStubRegistry()))
		second := ValidateAcademic(context.Background(), c, academicContext(newStubRegistry()))
		assert.Equal(t, first, second)
	}
}

func TestValidateAcademic_DoesNotShareInput(t *testing.T) {
	candidate := lgcseCertificate()

	result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))
	require.True(t, result.IsValid)

	result.Data.Candidate.Subjects[0].Grade = "U"
	assert.Equal(t, "B", candidate.Subjects[0].Grade)
}

func TestValidateAcademic_LoweringConfidenceNeverAccepts(t *testing.T) {
	base := lgcseCertificate()
	require.True(t, ValidateAcademic(context.Background(), base, academicContext(newStubRegistry())).IsValid)

	for i := range base.Subjects {
		for _, declared := range []bool{false, true} {
			candidate := lgcseCertificate()
			candidate.Subjects[i].Confidence = GradeConfidenceMin - 1
			if declared {
				candidate.UnreadableGrades = []string{candidate.Subjects[i].Name}
			}

			result := ValidateAcademic(context.Background(), candidate, academicContext(newStubRegistry()))

			assert.False(t, result.IsValid)
			if declared {
				assert.Equal(t, RejectedUnreadable, result.Outcome)
			} else {
				assert.Equal(t, RejectedLowConfidenceSubjects, result.Outcome)
			}
		}
	}
}

func TestValidateAcademic_AcceptedSatisfiesInvariants(t *testing.T) {
	result := ValidateAcademic(context.Background(), lgcseCertificate(), academicContext(newStubRegistry()))
	require.True(t, result.IsValid)

	data := result.Data
	assert.Empty(t, data.Candidate.UnreadableGrades)
	assert.Empty(t, LowConfidenceSubjects(data.Candidate.Subjects))
	assert.Contains(t, acceptedTypes, data.CertificateType)
	for _, s := range data.Candidate.Subjects {
		assert.True(t, IsValidGrade(data.Family, s.Grade))
	}
}
