// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package strategies

import "regexp"

var (
	accountNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{10,12}\b`),
		regexp.MustCompile(`\b\d{4}[\s-]\d{4}[\s-]\d{4}\b`),
		regexp.MustCompile(`account\s*#?\s*:\s*\d+`),
	}
	creditCardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:\d{4}[\s-]){3}\d{4}\b`),
		regexp.MustCompile(`credit\s+card`),
		regexp.MustCompile(`card\s+member`),
		regexp.MustCompile(`minimum\s+payment`),
		regexp.MustCompile(`\bapr\b`),
	}
	bankPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(opening|closing)\s+balance`),
		regexp.MustCompile(`\b(deposit|withdrawal)`),
		regexp.MustCompile(`transaction\s+history`),
		regexp.MustCompile(`statement\s+period`),
		regexp.MustCompile(`available\s+balance`),
	}
	invoicePatterns = []*regexp.Regexp{
		regexp.MustCompile(`invoice\s+number`),
		regexp.MustCompile(`bill\s+to`),
		regexp.MustCompile(`payment\s+terms`),
		regexp.MustCompile(`due\s+date`),
		regexp.MustCompile(`total\s+amount`),
	}
	taxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`form\s+1040`),
		regexp.MustCompile(`tax\s+return`),
		regexp.MustCompile(`taxable\s+income`),
		regexp.MustCompile(`\birs\b`),
		regexp.MustCompile(`tax\s+year`),
	}

	financialStatementHeaders = map[string]struct{}{
		"assets": {}, "liabilities": {}, "equity": {}, "revenue": {},
		"expenses": {}, "income": {}, "balance": {}, "cash flow": {},
		"profit": {}, "loss": {},
	}
	payrollHeaders = map[string]struct{}{
		"salary": {}, "wages": {}, "deductions": {}, "net pay": {},
		"gross pay": {}, "employee": {}, "hours": {}, "overtime": {},
		"taxes": {},
	}
)

var _ Strategy = (*financial)(nil)

type financial struct{}

// NewFinancial returns the financial industry classification strategy.
func NewFinancial() Strategy {
	return &financial{}
}

func (s *financial) Industry() string {
	return "financial"
}

func (s *financial) DocumentTypes() []string {
	return []string{
		"bank_statement",
		"credit_card_statement",
		"invoice",
		"tax_return",
		"payroll",
		"loan_application",
		"financial_report",
	}
}

func (s *financial) Keywords() map[string][]string {
	return map[string][]string{
		"bank_statement": {
			"account balance",
			"transaction history",
			"deposit",
			"withdrawal",
			"account number",
			"statement period",
			"opening balance",
			"closing balance",
		},
		"credit_card_statement": {
			"credit limit",
			"minimum payment",
			"statement balance",
			"apr",
			"credit card",
			"card number",
			"payment due date",
			"interest charges",
		},
		"invoice": {
			"invoice number",
			"bill to",
			"payment terms",
			"due date",
			"subtotal",
			"total amount",
			"tax",
			"invoice date",
		},
		"tax_return": {
			"tax year",
			"taxable income",
			"deductions",
			"tax paid",
			"tax return",
			"social security",
			"filing status",
			"irs",
		},
		"payroll": {
			"salary",
			"wages",
			"deductions",
			"net pay",
			"gross pay",
			"pay period",
			"employee id",
			"payroll date",
		},
		"loan_application": {
			"loan amount",
			"interest rate",
			"term",
			"collateral",
			"borrower",
			"credit score",
			"monthly payment",
			"application date",
		},
		"financial_report": {
			"balance sheet",
			"income statement",
			"cash flow",
			"assets",
			"liabilities",
			"equity",
			"profit",
			"loss",
		},
	}
}

func (s *financial) CustomRules(text string, tables [][][]string) string {
	if matchAny(accountNumberPatterns, text) {
		if matchAny(creditCardPatterns, text) {
			return "credit_card_statement"
		}
		if matchAny(bankPatterns, text) {
			return "bank_statement"
		}
	}

	if matchAny(invoicePatterns, text) {
		return "invoice"
	}

	if matchAny(taxPatterns, text) {
		return "tax_return"
	}

	for _, table := range tables {
		if headerOverlap(table, financialStatementHeaders) >= 2 {
			return "financial_report"
		}
		if headerOverlap(table, payrollHeaders) >= 3 {
			return "payroll"
		}
	}

	return ""
}
