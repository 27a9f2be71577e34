package admission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"admission-workers/internal/models"
)

const (
	// NameMatchConfidenceMin is the name match confidence below which the
	// document is taken to belong to someone else.
	NameMatchConfidenceMin = 80
	// MinLQFLevel is the lowest accepted LQF level. Certificates at exactly
	// this level must also come from a recognised issuing authority.
	MinLQFLevel = 4
)

// CertificateTypeRegistry resolves a lowercased certificate type name. A nil
// descriptor with a nil error means the type is not registered.
type CertificateTypeRegistry interface {
	LookupByName(ctx context.Context, name string) (*models.CertificateTypeDescriptor, error)
}

// Outcome is the terminal state of the academic cascade.
type Outcome string

const (
	Accepted                       Outcome = "Accepted"
	RejectedUnreadable             Outcome = "RejectedUnreadable"
	RejectedLowConfidenceSubjects  Outcome = "RejectedLowConfidenceSubjects"
	RejectedInvalidCertificateType Outcome = "RejectedInvalidCertificateType"
	RejectedUncertifiedDocument    Outcome = "RejectedUncertifiedDocument"
	RejectedNameMismatch           Outcome = "RejectedNameMismatch"
	RejectedAuthorityRequirement   Outcome = "RejectedAuthorityRequirement"
	RejectedNotAcademic            Outcome = "RejectedNotAcademic"
)

// AcademicContext carries what the cascade needs beyond the candidate.
type AcademicContext struct {
	// ExpectedName is the applicant's name; empty skips the name check.
	ExpectedName  string
	AcceptedTypes []string
	Registry      CertificateTypeRegistry
}

// NormalizedAcademic is an accepted academic document with its certificate
// type resolved to the accepted spelling.
type NormalizedAcademic struct {
	Candidate       models.AcademicCandidate          `json:"candidate"`
	CertificateType string                            `json:"certificateType,omitempty"`
	Family          Family                            `json:"family"`
	Descriptor      *models.CertificateTypeDescriptor `json:"descriptor,omitempty"`
}

// AcademicResult is the validation result with the terminal outcome.
type AcademicResult struct {
	Result[NormalizedAcademic]
	Outcome Outcome `json:"outcome"`
}

type academicCheck struct {
	ctx       context.Context
	candidate models.AcademicCandidate
	ac        AcademicContext

	certificateType string
	family          Family
	descriptor      *models.CertificateTypeDescriptor
}

// academicStep returns an empty outcome when the document passes.
type academicStep func(*academicCheck) (Outcome, []Issue)

var academicSteps = []academicStep{
	checkAcademicDocumentType,
	checkUnreadableGrades,
	checkSubjectConfidence,
	checkCertificateType,
	checkGradeAlphabet,
	checkCertification,
	checkNameMatch,
	checkCertificateRegistry,
}

// ValidateAcademic runs the ordered acceptance cascade. The first failing
// step decides the outcome.
func ValidateAcademic(ctx context.Context, c models.AcademicCandidate, ac AcademicContext) AcademicResult {
	check := &academicCheck{
		ctx:       ctx,
		candidate: cloneAcademic(c),
		ac:        ac,
		family:    FamilyOther,
	}
	if models.Present(c.CertificateType) {
		check.family = ResolveFamily(*c.CertificateType)
	}

	for _, step := range academicSteps {
		if outcome, issues := step(check); outcome != "" {
			return AcademicResult{
				Result:  reject[NormalizedAcademic](issues...),
				Outcome: outcome,
			}
		}
	}

	return AcademicResult{
		Result: accept(NormalizedAcademic{
			Candidate:       check.candidate,
			CertificateType: check.certificateType,
			Family:          check.family,
			Descriptor:      check.descriptor,
		}),
		Outcome: Accepted,
	}
}

func checkAcademicDocumentType(a *academicCheck) (Outcome, []Issue) {
	if a.candidate.DocumentType != models.AcademicOther {
		return "", nil
	}
	return RejectedNotAcademic, []Issue{{
		Kind:    KindNotRecognizedDocument,
		Message: "The uploaded document is not an academic document. Please upload a certificate, transcript or academic record.",
	}}
}

func checkUnreadableGrades(a *academicCheck) (Outcome, []Issue) {
	unreadable := a.candidate.UnreadableGrades
	if len(unreadable) == 0 {
		return "", nil
	}
	return RejectedUnreadable, []Issue{{
		Kind:    KindUnreadableGrades,
		Message: fmt.Sprintf("Unable to read grades for: %s. Please upload a clearer image.", strings.Join(unreadable, ", ")),
		Fields:  slices.Clone(unreadable),
	}}
}

// checkSubjectConfidence only fires when the unreadable list is empty, so
// every low subject here is one the extractor failed to declare.
func checkSubjectConfidence(a *academicCheck) (Outcome, []Issue) {
	var missing *MissingUnreadableDeclarationError
	if err := ReconcileConfidence(a.candidate.Subjects, a.candidate.UnreadableGrades); !errors.As(err, &missing) {
		return "", nil
	}
	return RejectedLowConfidenceSubjects, []Issue{{
		Kind: KindLowConfidenceSubjects,
		Message: fmt.Sprintf("Grades for %s could not be read with enough confidence. Please upload a clearer image.",
			strings.Join(missing.Subjects, ", ")),
		Fields: missing.Subjects,
	}}
}

func checkCertificateType(a *academicCheck) (Outcome, []Issue) {
	if a.candidate.DocumentType != models.AcademicCertificate {
		return "", nil
	}

	if !models.Present(a.candidate.CertificateType) {
		return RejectedInvalidCertificateType, []Issue{{
			Kind:    KindInvalidCertificateType,
			Message: "The certificate type could not be determined. Please upload a clearer image of the certificate.",
			Fields:  []string{"certificateType"},
		}}
	}

	claimed := strings.TrimSpace(*a.candidate.CertificateType)
	for _, accepted := range a.ac.AcceptedTypes {
		if strings.EqualFold(strings.TrimSpace(accepted), claimed) {
			a.certificateType = strings.TrimSpace(accepted)
			return "", nil
		}
	}

	return RejectedInvalidCertificateType, []Issue{{
		Kind: KindInvalidCertificateType,
		Message: fmt.Sprintf("%q is not an accepted certificate type. Accepted types are: %s.",
			claimed, strings.Join(a.ac.AcceptedTypes, ", ")),
		Fields: []string{"certificateType"},
	}}
}

func checkGradeAlphabet(a *academicCheck) (Outcome, []Issue) {
	if _, ok := Grades(a.family); !ok {
		return "", nil
	}

	var issues []Issue
	for _, s := range a.candidate.Subjects {
		if IsValidGrade(a.family, s.Grade) {
			continue
		}
		issues = append(issues, Issue{
			Kind: KindGradeAlphabetMismatch,
			Message: fmt.Sprintf("Grade %q for %s does not belong to the %s grading system used by %s.",
				strings.TrimSpace(s.Grade), s.Name, a.family.DisplayName(), models.Value(a.candidate.CertificateType)),
			Fields: []string{s.Name},
		})
	}
	if len(issues) > 0 {
		return RejectedInvalidCertificateType, issues
	}
	return "", nil
}

func checkCertification(a *academicCheck) (Outcome, []Issue) {
	if a.candidate.Certification.IsCertified {
		return "", nil
	}
	return RejectedUncertifiedDocument, []Issue{{
		Kind:    KindUncertifiedDocument,
		Message: "The document is not a certified copy. Please upload a copy certified by a commissioner of oaths or the issuing school.",
	}}
}

func checkNameMatch(a *academicCheck) (Outcome, []Issue) {
	expected := strings.TrimSpace(a.ac.ExpectedName)
	score := a.candidate.NameMatchConfidence
	if expected == "" || score == nil || *score >= NameMatchConfidenceMin {
		return "", nil
	}

	onDocument := "unknown"
	if models.Present(a.candidate.StudentName) {
		onDocument = strings.TrimSpace(*a.candidate.StudentName)
	}
	return RejectedNameMismatch, []Issue{{
		Kind: KindNameMismatch,
		Message: fmt.Sprintf("The name on the document (%s) does not match the applicant name (%s).",
			onDocument, expected),
		Fields: []string{"studentName"},
	}}
}

func checkCertificateRegistry(a *academicCheck) (Outcome, []Issue) {
	if a.candidate.DocumentType != models.AcademicCertificate || a.certificateType == "" {
		return "", nil
	}

	if a.ac.Registry == nil {
		return RejectedInvalidCertificateType, []Issue{registryUnavailable()}
	}
	descriptor, err := a.ac.Registry.LookupByName(a.ctx, strings.ToLower(a.certificateType))
	if err != nil {
		return RejectedInvalidCertificateType, []Issue{registryUnavailable()}
	}
	if descriptor == nil {
		return RejectedInvalidCertificateType, []Issue{{
			Kind:    KindUnregisteredCertificateType,
			Message: fmt.Sprintf("Certificate type %q is not registered.", a.certificateType),
			Fields:  []string{"certificateType"},
		}}
	}
	a.descriptor = &models.CertificateTypeDescriptor{Name: descriptor.Name, LQFLevel: descriptor.LQFLevel}

	if descriptor.LQFLevel == nil {
		return "", nil
	}
	level := *descriptor.LQFLevel
	if level < MinLQFLevel {
		return RejectedAuthorityRequirement, []Issue{{
			Kind: KindInsufficientQualification,
			Message: fmt.Sprintf("%s is at LQF level %d. The minimum qualification level for admission is LQF level %d.",
				a.certificateType, level, MinLQFLevel),
			Fields: []string{"certificateType"},
		}}
	}
	if level == MinLQFLevel {
		c := a.candidate
		igcseAuthority := a.family.IsIGCSE() && (c.IsCambridge || c.IsPearson)
		if !c.IsEcol && !igcseAuthority {
			return RejectedAuthorityRequirement, []Issue{{
				Kind: KindIssuingAuthorityRequirement,
				Message: fmt.Sprintf("%s certificates must be issued by ECoL, Cambridge, or Pearson/Edexcel.",
					a.certificateType),
				Fields: []string{"isEcol", "isCambridge", "isPearson"},
			}}
		}
	}
	return "", nil
}

func registryUnavailable() Issue {
	return Issue{
		Kind:    KindRegistryUnavailable,
		Message: "The certificate type could not be verified right now. Please try again later.",
	}
}

func cloneAcademic(c models.AcademicCandidate) models.AcademicCandidate {
	c.Subjects = slices.Clone(c.Subjects)
	c.UnreadableGrades = slices.Clone(c.UnreadableGrades)
	return c
}
