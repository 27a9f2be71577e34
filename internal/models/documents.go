package models

import (
	"fmt"
	"strings"
)

type DocumentCategory string

const (
	CategoryIdentity DocumentCategory = "identity"
	CategoryAcademic DocumentCategory = "academic"
	CategoryReceipt  DocumentCategory = "receipt"
	CategoryOther    DocumentCategory = "other"
)

// DocumentCandidate is what the extraction model returns for one uploaded
// file. Exactly one variant is set and it must agree with Category; an
// "other" candidate carries no variant.
type DocumentCandidate struct {
	Category DocumentCategory   `json:"category"`
	Identity *IdentityCandidate `json:"identity,omitempty"`
	Academic *AcademicCandidate `json:"academic,omitempty"`
	Receipt  *ReceiptCandidate  `json:"receipt,omitempty"`
}

// Variant checks that the populated variant matches the category tag.
func (d DocumentCandidate) Variant() error {
	set := 0
	for _, ok := range []bool{d.Identity != nil, d.Academic != nil, d.Receipt != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("candidate carries %d variants, expected at most one", set)
	}

	switch d.Category {
	case CategoryIdentity:
		if d.Identity == nil {
			return fmt.Errorf("identity candidate without identity fields")
		}
	case CategoryAcademic:
		if d.Academic == nil {
			return fmt.Errorf("academic candidate without academic fields")
		}
	case CategoryReceipt:
		if d.Receipt == nil {
			return fmt.Errorf("receipt candidate without receipt fields")
		}
	case CategoryOther:
		if set != 0 {
			return fmt.Errorf("other candidate must not carry variant fields")
		}
	default:
		return fmt.Errorf("unknown document category %q", d.Category)
	}
	return nil
}

type IdentityDocumentType string

const (
	IdentityNationalID       IdentityDocumentType = "national_id"
	IdentityPassport         IdentityDocumentType = "passport"
	IdentityBirthCertificate IdentityDocumentType = "birth_certificate"
	IdentityOther            IdentityDocumentType = "other"
)

type IdentityCandidate struct {
	DocumentType IdentityDocumentType `json:"documentType"`
	Confidence   int                  `json:"confidence"` // 0..100
	FullName     *string              `json:"fullName,omitempty"`
	NationalID   *string              `json:"nationalId,omitempty"`
	DateOfBirth  *string              `json:"dateOfBirth,omitempty"`
	Gender       *string              `json:"gender,omitempty"`
	Nationality  *string              `json:"nationality,omitempty"`
	BirthPlace   *string              `json:"birthPlace,omitempty"`
	Address      *string              `json:"address,omitempty"`
}

type AcademicDocumentType string

const (
	AcademicCertificate AcademicDocumentType = "certificate"
	AcademicTranscript  AcademicDocumentType = "transcript"
	AcademicRecord      AcademicDocumentType = "academic_record"
	AcademicOther       AcademicDocumentType = "other"
)

type Subject struct {
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	Confidence int    `json:"confidence"` // 0..100
}

type Certification struct {
	IsCertified   bool    `json:"isCertified"`
	CertifiedBy   *string `json:"certifiedBy,omitempty"`
	CertifiedDate *string `json:"certifiedDate,omitempty"`
}

type AcademicCandidate struct {
	DocumentType        AcademicDocumentType `json:"documentType"`
	StudentName         *string              `json:"studentName,omitempty"`
	InstitutionName     *string              `json:"institutionName,omitempty"`
	CertificateType     *string              `json:"certificateType,omitempty"`
	ExaminationYear     *string              `json:"examinationYear,omitempty"`
	Subjects            []Subject            `json:"subjects"`
	UnreadableGrades    []string             `json:"unreadableGrades"`
	Certification       Certification        `json:"certification"`
	NameMatchConfidence *int                 `json:"nameMatchConfidence,omitempty"`
	IsEcol              bool                 `json:"isEcol"`
	IsCambridge         bool                 `json:"isCambridge"`
	IsPearson           bool                 `json:"isPearson"`
}

type ReceiptType string

const (
	ReceiptBankDeposit  ReceiptType = "bank_deposit"
	ReceiptSalesReceipt ReceiptType = "sales_receipt"
	ReceiptUnknown      ReceiptType = "unknown"
)

type ReceiptCandidate struct {
	ReceiptType     ReceiptType `json:"receiptType"`
	IsBankDeposit   bool        `json:"isBankDeposit"`
	BeneficiaryName *string     `json:"beneficiaryName,omitempty"`
	IssuerName      *string     `json:"issuerName,omitempty"`
	Reference       *string     `json:"reference,omitempty"`
	ReceiptNumber   *string     `json:"receiptNumber,omitempty"`
	AmountDeposited *float64    `json:"amountDeposited,omitempty"`
	Currency        *string     `json:"currency,omitempty"`
	DateDeposited   *string     `json:"dateDeposited,omitempty"`
	DepositorName   *string     `json:"depositorName,omitempty"`
	BankName        *string     `json:"bankName,omitempty"`
	PaymentMode     *string     `json:"paymentMode,omitempty"`
}

type CertificateTypeDescriptor struct {
	Name     string `json:"name"`
	LQFLevel *int   `json:"lqfLevel,omitempty"`
}

// Present reports whether an optional text field carries a non-blank value.
func Present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// Value returns the optional text or "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func Float64Ptr(f float64) *float64 { return &f }
