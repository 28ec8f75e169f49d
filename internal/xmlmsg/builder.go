// Package xmlmsg assembles the XML update envelopes Solr accepts on its
// update handler: add, delete, commit and optimize messages.
package xmlmsg

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strconv"

	"github.com/kailas-cloud/solrdex/internal/codec"
	"github.com/kailas-cloud/solrdex/internal/domain"
)

type fieldElem struct {
	XMLName xml.Name `xml:"field"`
	Name    string   `xml:"name,attr"`
	Update  string   `xml:"update,attr,omitempty"`
	Boost   string   `xml:"boost,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type docElem struct {
	XMLName xml.Name `xml:"doc"`
	Boost   string   `xml:"boost,attr,omitempty"`
	Fields  []fieldElem
}

type addElem struct {
	XMLName      xml.Name `xml:"add"`
	CommitWithin string   `xml:"commitWithin,attr,omitempty"`
	Docs         []docElem
}

type deleteElem struct {
	XMLName xml.Name `xml:"delete"`
	ID      string   `xml:"id,omitempty"`
	Query   string   `xml:"query,omitempty"`
}

type commitElem struct {
	XMLName        xml.Name `xml:"commit"`
	ExpungeDeletes string   `xml:"expungeDeletes,attr,omitempty"`
}

type optimizeElem struct {
	XMLName     xml.Name `xml:"optimize"`
	MaxSegments string   `xml:"maxSegments,attr,omitempty"`
}

// BuildAdd serializes documents into an <add> envelope. commitWithin is in
// milliseconds; zero omits the attribute. boosts and updates apply
// per-field attributes by field name.
func BuildAdd(
	docs []*domain.Document,
	boosts map[string]float64,
	updates map[string]string,
	commitWithin int,
) (string, error) {
	msg := addElem{}
	if commitWithin > 0 {
		msg.CommitWithin = strconv.Itoa(commitWithin)
	}
	for _, doc := range docs {
		msg.Docs = append(msg.Docs, buildDoc(doc, boosts, updates))
	}
	out, err := xml.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal add envelope: %w", err)
	}
	return string(out), nil
}

// buildDoc turns one document into a <doc> element. A field literally
// named "boost" sets the document boost attribute instead of emitting a
// field element. Null and empty-string values are silently omitted.
func buildDoc(doc *domain.Document, boosts map[string]float64, updates map[string]string) docElem {
	elem := docElem{}
	for _, f := range doc.Fields() {
		if f.Name == "boost" {
			elem.Boost = fmt.Sprintf("%v", f.Value)
			continue
		}
		for _, v := range expand(f.Value) {
			if isNullValue(v) {
				continue
			}
			fe := fieldElem{Name: f.Name, Text: codec.Encode(v)}
			if u, ok := updates[f.Name]; ok && u != "" {
				fe.Update = u
			}
			if b, ok := boosts[f.Name]; ok {
				fe.Boost = strconv.FormatFloat(b, 'g', -1, 64)
			}
			elem.Fields = append(elem.Fields, fe)
		}
	}
	return elem
}

// expand treats every value as a sequence so single- and multi-valued
// fields share one code path. Strings and byte slices stay scalar.
func expand(value any) []any {
	switch value.(type) {
	case nil, string, []byte:
		return []any{value}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// isNullValue reports whether a value must be dropped from the add
// request entirely: nils and zero-length strings.
func isNullValue(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && len(s) == 0 {
		return true
	}
	return false
}

// BuildDelete serializes a delete directive for exactly one of id or
// query. Argument validation is the facade's job.
func BuildDelete(id, query string) (string, error) {
	out, err := xml.Marshal(deleteElem{ID: id, Query: query})
	if err != nil {
		return "", fmt.Errorf("marshal delete envelope: %w", err)
	}
	return string(out), nil
}

// BuildCommit serializes a <commit> directive. expungeDeletes is
// tri-state: nil omits the attribute.
func BuildCommit(expungeDeletes *bool) (string, error) {
	msg := commitElem{}
	if expungeDeletes != nil {
		msg.ExpungeDeletes = strconv.FormatBool(*expungeDeletes)
	}
	out, err := xml.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal commit envelope: %w", err)
	}
	return string(out), nil
}

// BuildOptimize serializes an <optimize> directive. maxSegments of zero
// omits the attribute.
func BuildOptimize(maxSegments int) (string, error) {
	msg := optimizeElem{}
	if maxSegments > 0 {
		msg.MaxSegments = strconv.Itoa(maxSegments)
	}
	out, err := xml.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal optimize envelope: %w", err)
	}
	return string(out), nil
}
