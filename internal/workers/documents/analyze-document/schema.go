// internal/workers/documents/analyze-document/schema.go
package analyzedocument

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "documentId"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "documentId": {"type": "string", "minLength": 1},
    "documentUrl": {"type": "string", "pattern": "^https?://"},
    "fileBase64": {"type": "string", "minLength": 1},
    "mediaType": {"type": "string"},
    "expectedCategory": {"type": "string", "enum": ["", "identity", "academic", "receipt"]}
  },
  "anyOf": [
    {"required": ["documentUrl"]},
    {"required": ["fileBase64"]}
  ]
}`)
