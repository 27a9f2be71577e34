// internal/workers/communication/notify-applicant/schema.go
package notifyapplicant

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "type"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "type": {"type": "string", "enum": ["document_rejected", "documents_verified"]},
    "documentCategory": {"type": "string", "enum": ["", "identity", "academic", "receipt", "other"]},
    "messages": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`)
