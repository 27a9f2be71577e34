// internal/workers/communication/notify-applicant/models.go
package notifyapplicant

import "admission-workers/internal/models"

const (
	TypeDocumentRejected  = "document_rejected"
	TypeDocumentsVerified = "documents_verified"
)

type Input struct {
	ApplicationID    string                  `json:"applicationId"`
	Type             string                  `json:"type"`
	DocumentCategory models.DocumentCategory `json:"documentCategory,omitempty"`
	Messages         []string                `json:"messages,omitempty"`
}

type Output struct {
	Notifications []models.Notification `json:"notifications"`
	Delivered     bool                  `json:"delivered"`
}
