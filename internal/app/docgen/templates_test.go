package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdraft/internal/pkg/errs"
)

func contractFields() map[string]string {
	return map[string]string{
		"party_a":             "Acme Corp",
		"party_b":             "Jane Smith",
		"service_description": "Monthly bookkeeping services",
		"payment_terms":       "USD 1,500 per month, net 30",
		"effective_date":      "2025-07-01",
	}
}

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 3)
	assert.Equal(t, TypeContract, types[0].Type)
	assert.Equal(t, TypeNDA, types[1].Type)
	assert.Equal(t, TypeLoan, types[2].Type)

	for _, info := range types {
		assert.NotEmpty(t, info.Title)
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Fields)
	}
}

func TestRender(t *testing.T) {
	t.Run("contract renders with all field values", func(t *testing.T) {
		body, err := Render(TypeContract, contractFields())
		require.NoError(t, err)

		assert.Contains(t, body, "SERVICE CONTRACT AGREEMENT")
		for _, v := range contractFields() {
			assert.Contains(t, body, v)
		}
	})

	t.Run("nda renders", func(t *testing.T) {
		body, err := Render(TypeNDA, map[string]string{
			"disclosing_party": "Acme Corp",
			"receiving_party":  "Jane Smith",
			"purpose":          "Evaluating a joint venture",
			"duration":         "two years",
			"effective_date":   "2025-07-01",
		})
		require.NoError(t, err)
		assert.Contains(t, body, "NON-DISCLOSURE AGREEMENT")
		assert.Contains(t, body, "two years")
	})

	t.Run("loan renders", func(t *testing.T) {
		body, err := Render(TypeLoan, map[string]string{
			"lender":          "Acme Bank",
			"borrower":        "Jane Smith",
			"amount":          "USD 10,000",
			"interest_rate":   "5%",
			"repayment_terms": "12 equal monthly installments",
			"effective_date":  "2025-07-01",
		})
		require.NoError(t, err)
		assert.Contains(t, body, "LOAN AGREEMENT")
		assert.Contains(t, body, "USD 10,000")
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := Render("will", nil)
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrDocumentTypeInvalid))
	})

	t.Run("missing field is rejected and named", func(t *testing.T) {
		fields := contractFields()
		delete(fields, "payment_terms")

		_, err := Render(TypeContract, fields)
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrDocumentFieldMissing))
		assert.Contains(t, err.Error(), "payment_terms")
	})

	t.Run("blank field counts as missing", func(t *testing.T) {
		fields := contractFields()
		fields["party_b"] = "   "

		_, err := Render(TypeContract, fields)
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrDocumentFieldMissing))
	})
}
