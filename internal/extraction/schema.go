package extraction

import "admission-workers/internal/common/validation"

var candidateSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["category"],
  "properties": {
    "category": {"type": "string", "enum": ["identity", "academic", "receipt", "other"]},
    "identity": {
      "type": ["object", "null"],
      "required": ["documentType", "confidence"],
      "properties": {
        "documentType": {"type": "string", "enum": ["national_id", "passport", "birth_certificate", "other"]},
        "confidence": {"type": "integer", "minimum": 0, "maximum": 100},
        "fullName": {"type": ["string", "null"]},
        "nationalId": {"type": ["string", "null"]},
        "dateOfBirth": {"type": ["string", "null"]},
        "gender": {"type": ["string", "null"]},
        "nationality": {"type": ["string", "null"]},
        "birthPlace": {"type": ["string", "null"]},
        "address": {"type": ["string", "null"]}
      }
    },
    "academic": {
      "type": ["object", "null"],
      "required": ["documentType", "subjects", "certification"],
      "properties": {
        "documentType": {"type": "string", "enum": ["certificate", "transcript", "academic_record", "other"]},
        "studentName": {"type": ["string", "null"]},
        "institutionName": {"type": ["string", "null"]},
        "certificateType": {"type": ["string", "null"]},
        "examinationYear": {"type": ["string", "null"]},
        "subjects": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "grade", "confidence"],
            "properties": {
              "name": {"type": "string"},
              "grade": {"type": "string"},
              "confidence": {"type": "integer", "minimum": 0, "maximum": 100}
            }
          }
        },
        "unreadableGrades": {"type": ["array", "null"], "items": {"type": "string"}},
        "certification": {
          "type": "object",
          "required": ["isCertified"],
          "properties": {
            "isCertified": {"type": "boolean"},
            "certifiedBy": {"type": ["string", "null"]},
            "certifiedDate": {"type": ["string", "null"]}
          }
        },
        "nameMatchConfidence": {"type": ["integer", "null"], "minimum": 0, "maximum": 100},
        "isEcol": {"type": "boolean"},
        "isCambridge": {"type": "boolean"},
        "isPearson": {"type": "boolean"}
      }
    },
    "receipt": {
      "type": ["object", "null"],
      "required": ["isBankDeposit"],
      "properties": {
        "receiptType": {"type": "string", "enum": ["bank_deposit", "sales_receipt", "unknown"]},
        "isBankDeposit": {"type": "boolean"},
        "beneficiaryName": {"type": ["string", "null"]},
        "issuerName": {"type": ["string", "null"]},
        "reference": {"type": ["string", "null"]},
        "receiptNumber": {"type": ["string", "null"]},
        "amountDeposited": {"type": ["number", "null"]},
        "currency": {"type": ["string", "null"]},
        "dateDeposited": {"type": ["string", "null"]},
        "depositorName": {"type": ["string", "null"]},
        "bankName": {"type": ["string", "null"]},
        "paymentMode": {"type": ["string", "null"]}
      }
    }
  }
}`)
