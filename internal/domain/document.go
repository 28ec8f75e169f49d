package domain

// Field is one named value inside a Document. A slice value ([]any,
// []string, ...) marks the field as multi-valued.
type Field struct {
	Name  string
	Value any
}

// Document is an ordered mapping from field name to value, built by the
// caller for one add request. Order is preserved because the update
// envelope emits fields in insertion order.
type Document struct {
	fields []Field
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Set stores a field value. Setting an existing name replaces the value
// in place, keeping the field's original position.
func (d *Document) Set(name string, value any) *Document {
	for i := range d.fields {
		if d.fields[i].Name == name {
			d.fields[i].Value = value
			return d
		}
	}
	d.fields = append(d.fields, Field{Name: name, Value: value})
	return d
}

// Fields returns the fields in insertion order. The slice is shared with
// the document; callers must not mutate it.
func (d *Document) Fields() []Field {
	return d.fields
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.fields)
}
