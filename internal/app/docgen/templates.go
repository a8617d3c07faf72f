/*
Package docgen renders legal documents from templates and manages the
generated-document lifecycle: token accounting, artifact storage, and history.
*/
package docgen

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"lexdraft/internal/pkg/errs"
)

// Supported document types.
const (
	TypeContract = "contract"
	TypeNDA      = "nda"
	TypeLoan     = "loan"
)

// TypeInfo describes one document type for the generation menu.
type TypeInfo struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

// docTemplate binds a document type to its template and required fields.
type docTemplate struct {
	info TypeInfo
	tmpl *template.Template
}

const contractBody = `SERVICE CONTRACT AGREEMENT

This Service Contract Agreement is entered into on {{.effective_date}} between:

Provider: {{.party_a}}
Client: {{.party_b}}

1. SERVICES
The Provider agrees to perform the following services:
{{.service_description}}

2. COMPENSATION
{{.payment_terms}}

3. TERM
This Agreement takes effect on {{.effective_date}} and remains in force until
the services are completed or the Agreement is terminated in writing by either
party.

4. ENTIRE AGREEMENT
This document constitutes the entire agreement between the parties and
supersedes all prior negotiations and understandings.

Signed:

_______________________          _______________________
{{.party_a}}                     {{.party_b}}
`

const ndaBody = `NON-DISCLOSURE AGREEMENT

This Non-Disclosure Agreement is entered into on {{.effective_date}} between:

Disclosing Party: {{.disclosing_party}}
Receiving Party: {{.receiving_party}}

1. PURPOSE
The parties wish to explore the following opportunity:
{{.purpose}}

2. CONFIDENTIAL INFORMATION
Confidential Information means any information disclosed by the Disclosing
Party, whether oral, written, or electronic, that is designated as confidential
or that reasonably should be understood to be confidential.

3. OBLIGATIONS
The Receiving Party shall hold the Confidential Information in strict
confidence, use it solely for the stated purpose, and disclose it only to
representatives with a need to know.

4. TERM
The confidentiality obligations of this Agreement remain in effect for
{{.duration}} from the date of disclosure.

Signed:

_______________________          _______________________
{{.disclosing_party}}            {{.receiving_party}}
`

const loanBody = `LOAN AGREEMENT

This Loan Agreement is entered into on {{.effective_date}} between:

Lender: {{.lender}}
Borrower: {{.borrower}}

1. LOAN AMOUNT
The Lender agrees to lend the Borrower the principal sum of {{.amount}}.

2. INTEREST
The outstanding principal bears interest at a rate of {{.interest_rate}} per
annum.

3. REPAYMENT
{{.repayment_terms}}

4. DEFAULT
If the Borrower fails to make a payment when due, the entire unpaid balance
becomes immediately due and payable at the Lender's option.

Signed:

_______________________          _______________________
{{.lender}}                      {{.borrower}}
`

// catalog holds the parsed templates keyed by document type, in menu order.
var catalog = buildCatalog()

func buildCatalog() map[string]docTemplate {
	entries := []struct {
		info TypeInfo
		body string
	}{
		{
			info: TypeInfo{
				Type:        TypeContract,
				Title:       "Contract Agreement",
				Description: "Generate professional contracts for your business needs.",
				Fields:      []string{"party_a", "party_b", "service_description", "payment_terms", "effective_date"},
			},
			body: contractBody,
		},
		{
			info: TypeInfo{
				Type:        TypeNDA,
				Title:       "Non-Disclosure Agreement",
				Description: "Protect your confidential information with a custom NDA.",
				Fields:      []string{"disclosing_party", "receiving_party", "purpose", "duration", "effective_date"},
			},
			body: ndaBody,
		},
		{
			info: TypeInfo{
				Type:        TypeLoan,
				Title:       "Loan Agreement",
				Description: "Create clear loan agreements with proper legal structure.",
				Fields:      []string{"lender", "borrower", "amount", "interest_rate", "repayment_terms", "effective_date"},
			},
			body: loanBody,
		},
	}

	m := make(map[string]docTemplate, len(entries))
	for _, e := range entries {
		m[e.info.Type] = docTemplate{
			info: e.info,
			tmpl: template.Must(template.New(e.info.Type).Option("missingkey=error").Parse(e.body)),
		}
	}
	return m
}

// Types returns the document type catalog in menu order.
func Types() []TypeInfo {
	return []TypeInfo{
		catalog[TypeContract].info,
		catalog[TypeNDA].info,
		catalog[TypeLoan].info,
	}
}

// Render produces the document text for the given type and field values.
// Every field the type declares must be present and non-blank.
func Render(docType string, fields map[string]string) (string, error) {
	entry, ok := catalog[docType]
	if !ok {
		return "", errs.NewError(errs.ErrDocumentTypeInvalid)
	}

	for _, name := range entry.info.Fields {
		if strings.TrimSpace(fields[name]) == "" {
			return "", errs.NewError(errs.ErrDocumentFieldMissing, name)
		}
	}

	var sb strings.Builder
	if err := entry.tmpl.Execute(&sb, fields); err != nil {
		return "", errs.NewError(errs.ErrUnknown, fmt.Errorf("failed to render document template: %w", err))
	}

	return sb.String(), nil
}

// documentTitle derives the stored title for a generated document.
func documentTitle(docType string, generatedAt time.Time) string {
	return fmt.Sprintf("%s - %s", catalog[docType].info.Title, generatedAt.Format("Jan 2, 2006"))
}
