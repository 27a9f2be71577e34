// internal/workers/documents/validate-receipt/schema.go
package validatereceipt

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
        "receipt": {
          "type": ["object", "null"],
          "properties": {
            "isBankDeposit": {"type": "boolean"},
            "amountDeposited": {"type": ["number", "null"]}
          }
        }
      }
    }
  }
}`)
