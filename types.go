package solrdex

import "github.com/kailas-cloud/solrdex/internal/domain"

// Document is an ordered set of fields for one add request. Fields emit
// in insertion order; a field named "boost" becomes the document-level
// boost attribute rather than an indexed field.
type Document = domain.Document

// Field is one named value inside a Document.
type Field = domain.Field

// NewDocument creates an empty document.
func NewDocument() *Document {
	return domain.NewDocument()
}

// Date is a date-only field value, serialized with a synthetic midnight
// time component (YYYY-MM-DDT00:00:00Z).
type Date = domain.Date

// TermCount is one (term, count) pair returned by SuggestTerms.
type TermCount = domain.TermCount
