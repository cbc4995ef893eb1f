// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package strategies

import "regexp"

var (
	phiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		regexp.MustCompile(`\b(mrn|medical record number):\s*\d+`),
		regexp.MustCompile(`\bdob:\s*\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b(patient|name):\s*[a-z\s,]+`),
		regexp.MustCompile(`\b(address|phone|email):\s*.+`),
	}
	labPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(test|lab)\s+results?`),
		regexp.MustCompile(`reference\s+range`),
		regexp.MustCompile(`specimen\s+(collected|type)`),
		regexp.MustCompile(`normal\s+range`),
		regexp.MustCompile(`\b(high|low)\b.*\b(value|result)\b`),
		regexp.MustCompile(`laboratory\s+report`),
		regexp.MustCompile(`collection\s+date`),
		regexp.MustCompile(`test\s+performed`),
	}
	prescriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\brx\b`),
		regexp.MustCompile(`take\s+\d+\s+(tablet|capsule)`),
		regexp.MustCompile(`refills?:\s*\d+`),
		regexp.MustCompile(`sig:`),
		regexp.MustCompile(`dispense:\s*\d+`),
		regexp.MustCompile(`prescribed\s+by`),
		regexp.MustCompile(`pharmacy`),
		regexp.MustCompile(`medication\s+order`),
	}
	imagingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(radiology|imaging)\s+report`),
		regexp.MustCompile(`(mri|ct|x-ray|ultrasound)\s+findings`),
		regexp.MustCompile(`impression:`),
		regexp.MustCompile(`technique:`),
		regexp.MustCompile(`contrast(\s+material)?:`),
		regexp.MustCompile(`comparison:`),
		regexp.MustCompile(`anatomic\s+region`),
	}
	dischargePatterns = []*regexp.Regexp{
		regexp.MustCompile(`discharge\s+summary`),
		regexp.MustCompile(`admission\s+date`),
		regexp.MustCompile(`discharge\s+date`),
		regexp.MustCompile(`hospital\s+course`),
		regexp.MustCompile(`follow\s+up`),
		regexp.MustCompile(`discharge\s+medications`),
		regexp.MustCompile(`discharge\s+diagnosis`),
		regexp.MustCompile(`discharge\s+instructions`),
	}
	vaccinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`vaccine\s+record`),
		regexp.MustCompile(`immunization\s+history`),
		regexp.MustCompile(`(vaccine|immunization)\s+administered`),
		regexp.MustCompile(`lot\s+number`),
		regexp.MustCompile(`next\s+dose\s+due`),
		regexp.MustCompile(`vaccination\s+site`),
		regexp.MustCompile(`dose\s+(\d+|series)`),
	}
	medicalBillingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`bill(ing)?\s+statement`),
		regexp.MustCompile(`amount\s+due`),
		regexp.MustCompile(`payment\s+due\s+date`),
		regexp.MustCompile(`insurance\s+claim`),
		regexp.MustCompile(`cpt\s+code`),
		regexp.MustCompile(`total\s+charges`),
		regexp.MustCompile(`patient\s+responsibility`),
	}

	labHeaders = map[string]struct{}{
		"test": {}, "result": {}, "value": {}, "range": {}, "units": {},
		"reference": {}, "normal": {}, "specimen": {}, "collection": {},
	}
	vitalSignsHeaders = map[string]struct{}{
		"temperature": {}, "pulse": {}, "blood pressure": {},
		"respiration": {}, "height": {}, "weight": {}, "bmi": {},
		"oxygen": {}, "pain": {},
	}
	medicalBillingHeaders = map[string]struct{}{
		"code": {}, "description": {}, "charge": {}, "amount": {},
		"date": {}, "service": {}, "payment": {}, "adjustment": {},
		"balance": {},
	}
)

var _ Strategy = (*healthcare)(nil)

type healthcare struct{}

// NewHealthcare returns the healthcare industry classification strategy.
func NewHealthcare() Strategy {
	return &healthcare{}
}

func (s *healthcare) Industry() string {
	return "healthcare"
}

func (s *healthcare) DocumentTypes() []string {
	return []string{
		"medical_record",
		"prescription",
		"lab_report",
		"medical_bill",
		"insurance_claim",
		"medical_imaging",
		"discharge_summary",
		"vaccination_record",
	}
}

func (s *healthcare) Keywords() map[string][]string {
	return map[string][]string{
		"medical_record": {
			"patient history",
			"vital signs",
			"medical record number",
			"chief complaint",
			"diagnosis",
			"treatment plan",
			"allergies",
			"medications",
			"physical examination",
			"medical history",
			"family history",
			"social history",
		},
		"prescription": {
			"rx",
			"prescribe",
			"dosage",
			"refill",
			"pharmacy",
			"sig",
			"dispense",
			"prescription",
			"medication",
			"take as directed",
			"tablets",
			"capsules",
		},
		"lab_report": {
			"lab results",
			"test date",
			"reference range",
			"specimen",
			"laboratory",
			"collected",
			"test name",
			"values",
			"units",
			"normal range",
			"analysis",
			"methodology",
		},
		"medical_bill": {
			"amount due",
			"service date",
			"billing code",
			"charges",
			"insurance",
			"payment",
			"cpt code",
			"provider",
			"itemized charges",
			"adjustment",
			"balance",
			"due date",
		},
		"insurance_claim": {
			"claim number",
			"policy number",
			"coverage",
			"insured",
			"benefits",
			"authorization",
			"provider",
			"diagnosis code",
			"icd code",
			"subscriber",
			"group number",
			"pre-authorization",
		},
		"medical_imaging": {
			"radiology",
			"imaging",
			"scan",
			"x-ray",
			"mri",
			"ct scan",
			"ultrasound",
			"impression",
			"technique",
			"contrast",
			"findings",
			"comparison",
		},
		"discharge_summary": {
			"discharge date",
			"admission date",
			"hospital course",
			"follow up",
			"discharge diagnosis",
			"medications",
			"condition",
			"disposition",
			"follow-up care",
			"discharge instructions",
			"admission diagnosis",
			"hospital stay",
		},
		"vaccination_record": {
			"vaccine",
			"immunization",
			"dose",
			"vaccination date",
			"lot number",
			"administered",
			"next due date",
			"manufacturer",
			"injection site",
			"vaccine type",
			"immunity",
			"booster",
		},
	}
}

func (s *healthcare) CustomRules(text string, tables [][][]string) string {
	if matchAny(phiPatterns, text) {
		if matchAny(labPatterns, text) {
			return "lab_report"
		}
		if matchAny(prescriptionPatterns, text) {
			return "prescription"
		}
		if matchAny(imagingPatterns, text) {
			return "medical_imaging"
		}
	}

	if matchAny(dischargePatterns, text) {
		return "discharge_summary"
	}
	if matchAny(vaccinationPatterns, text) {
		return "vaccination_record"
	}
	if matchAny(medicalBillingPatterns, text) {
		return "medical_bill"
	}

	for _, table := range tables {
		if headerOverlap(table, labHeaders) >= 3 {
			return "lab_report"
		}
		if headerOverlap(table, vitalSignsHeaders) >= 3 {
			return "medical_record"
		}
		if headerOverlap(table, medicalBillingHeaders) >= 3 {
			return "medical_bill"
		}
	}

	return ""
}
