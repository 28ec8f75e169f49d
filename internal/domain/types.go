package domain

import "fmt"

// Date is a date-only field value. Solr has no date type without a time
// component, so a Date serializes with a synthetic midnight: YYYY-MM-DDT00:00:00Z.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// TermCount is one (term, count) pair from a term-suggestion response.
type TermCount struct {
	Term  string
	Count int
}
