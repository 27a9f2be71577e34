// internal/workers/documents/record-document-decision/schema.go
package recorddocumentdecision

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "category", "isValid"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "documentId": {"type": "string"},
    "category": {"type": "string", "enum": ["identity", "academic", "receipt", "other"]},
    "isValid": {"type": "boolean"},
    "outcome": {"type": "string"},
    "errors": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["kind", "message"],
        "properties": {
          "kind": {"type": "string", "minLength": 1},
          "message": {"type": "string"}
        }
      }
    }
  }
}`)
