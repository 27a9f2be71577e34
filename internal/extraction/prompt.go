package extraction

const analyzePrompt = `You are reading a document uploaded with a university admission application.
Classify it and extract its fields. Answer with a single JSON object and nothing else.

{"category": "identity" | "academic" | "receipt" | "other", "identity": {...} | null, "academic": {...} | null, "receipt": {...} | null}

Populate exactly the object named by "category"; use null for the others. Use null for any field you cannot read.

identity: documentType ("national_id", "passport", "birth_certificate", "other"), confidence (0-100, how sure you are the document is a genuine identity document), fullName, nationalId, dateOfBirth, gender, nationality, birthPlace, address.

academic: documentType ("certificate", "transcript", "academic_record", "other"), studentName, institutionName, certificateType (as printed, e.g. "LGCSE", "IGCSE", "Edexcel International GCSE"), examinationYear, subjects (list of {name, grade, confidence 0-100} with the grade exactly as printed), unreadableGrades (names of every subject whose grade you read with confidence below 99), certification {isCertified, certifiedBy, certifiedDate} (a stamp or signature certifying a true copy), nameMatchConfidence (0-100), isEcol, isCambridge, isPearson (true when the document shows that examination body).

receipt: receiptType ("bank_deposit", "sales_receipt", "unknown"), isBankDeposit, beneficiaryName, issuerName, reference, receiptNumber, amountDeposited (number without currency symbols), currency, dateDeposited, depositorName, bankName, paymentMode.

Any subject with confidence below 99 MUST be listed in unreadableGrades.`
