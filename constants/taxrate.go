package constants

// Federal excise tax rates per barrel. The Craft Beverage Modernization Act
// lowered the reduced/full rates starting with calendar year 2018; reports
// before that carry the old rates. Static reference data, not read from the
// documents.
const (
	TaxRateThrough2017 = "$7/$18 per barrel"
	TaxRateFrom2018    = "$3.50/$16 per barrel"
)

// TaxRateForYear returns the excise rate string in force for a report year.
func TaxRateForYear(year int) string {
	if year <= 2017 {
		return TaxRateThrough2017
	}
	return TaxRateFrom2018
}
