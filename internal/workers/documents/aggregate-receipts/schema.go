// internal/workers/documents/aggregate-receipts/schema.go
package aggregatereceipts

import "admission-workers/internal/common/validation"

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["applicationId", "receipts"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "requiredAmount": {"type": ["number", "null"], "exclusiveMinimum": 0},
    "receipts": {
      "type": "array",
      "maxItems": 20,
      "items": {
        "type": "object",
        "required": ["category"],
        "properties": {
          "category": {"type": "string", "enum": ["identity", "academic", "receipt", "other"]}
        }
      }
    }
  }
}`)
