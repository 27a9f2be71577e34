// internal/workers/documents/validate-academic-document/schema.go
package validateacademicdocument

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "candidate"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "documentId": {"type": "string"},
    "expectedName": {"type": "string"},
    "candidate": {
      "type": "object",
      "required": ["category"],
      "properties": {
        "category": {"type": "string", "enum": ["identity", "academic", "receipt", "other"]},
        "academic": {
          "type": ["object", "null"],
          "required": ["documentType"],
          "properties": {
            "documentType": {"type": "string"},
            "subjects": {
              "type": ["array", "null"],
              "items": {
                "type": "object",
                "required": ["name", "grade", "confidence"],
                "properties": {
                  "confidence": {"type": "integer", "minimum": 0, "maximum": 100}
                }
              }
            },
            "unreadableGrades": {"type": ["array", "null"], "items": {"type": "string"}}
          }
        }
      }
    }
  }
}`)
