package models

type Application struct {
	ID            string `json:"id"`
	ApplicantName string `json:"applicantName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	ProgramCode   string `json:"programCode"`
	IntakeID      string `json:"intakeId,omitempty"`
	Status        string `json:"status"` // "draft", "submitted", "documents_verified", "rejected"
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type ProgramFee struct {
	ProgramCode string  `json:"programCode"`
	IntakeID    string  `json:"intakeId,omitempty"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"` // "LSL", "ZAR"
}

// DocumentDecision is the audit record kept for every validated upload.
type DocumentDecision struct {
	ID            string           `json:"id"`
	ApplicationID string           `json:"applicationId"`
	DocumentID    string           `json:"documentId,omitempty"`
	Category      DocumentCategory `json:"category"`
	IsValid       bool             `json:"isValid"`
	Outcome       string           `json:"outcome,omitempty"`
	ErrorKinds    []string         `json:"errorKinds,omitempty"`
	Messages      []string         `json:"messages,omitempty"`
	DecidedAt     string           `json:"decidedAt"`
}
