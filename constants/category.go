package constants

// TaxStatus is the canonical category for rows of the production dataset.
type TaxStatus string

// Stable values (these exact strings appear in exported datasets).
const (
	Taxable         TaxStatus = "Taxable"
	SubTotalTaxable TaxStatus = "Sub Total Taxable"
	TaxFree         TaxStatus = "Tax Free"
	SubTotalTaxFree TaxStatus = "Sub Total Tax-Free"
	Totals          TaxStatus = "Totals"
)

var allTaxStatuses = []TaxStatus{
	Taxable,
	SubTotalTaxable,
	TaxFree,
	SubTotalTaxFree,
	Totals,
}

// Material-type buckets for the materials-used dataset. Total rows are
// self-describing and carry their own label instead of a bucket.
const (
	GrainProducts    = "Grain Products"
	NonGrainProducts = "Non-Grain Products"
)

func TaxStatusStrings() []string {
	result := make([]string, len(allTaxStatuses))
	for i, s := range allTaxStatuses {
		result[i] = string(s)
	}
	return result
}
