// internal/workers/documents/validate-identity-document/schema.go
package validateidentitydocument

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "candidate"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "documentId": {"type": "string"},
    "candidate": {
      "type": "object",
      "required": ["category"],
      "properties": {
        "category": {"type": "string", "enum": ["identity", "academic", "receipt", "other"]},
        "identity": {
          "type": ["object", "null"],
          "required": ["documentType", "confidence"],
          "properties": {
            "documentType": {"type": "string"},
            "confidence": {"type": "integer", "minimum": 0, "maximum": 100}
          }
        }
      }
    }
  }
}`)
