package solrdex

import "encoding/json"

// Decoder turns a raw JSON response body into a generic mapping.
// Replaceable to plug in an alternate JSON implementation.
type Decoder interface {
	Decode(data []byte) (map[string]any, error)
}

type jsonDecoder struct{}

func (jsonDecoder) Decode(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResultsFactory builds the results view from a decoded response.
// Injectable via WithResultsFactory for callers that want to surface
// response keys NewResults does not cover.
type ResultsFactory func(decoded map[string]any) *Results

// Results is a read-only view over a decoded Solr search response.
//
// Docs holds the matched documents and Hits the total match count
// (numFound). The remaining fields expose the optional response sections
// verbatim; absent sections come back as empty maps. Raw keeps the whole
// decoded response for anything else.
type Results struct {
	Docs           []map[string]any
	Hits           int
	Debug          map[string]any
	Highlighting   map[string]any
	Facets         map[string]any
	Spellcheck     map[string]any
	Stats          map[string]any
	QTime          int
	Grouped        map[string]any
	NextCursorMark string
	Raw            map[string]any
}

// NewResults is the default ResultsFactory.
func NewResults(decoded map[string]any) *Results {
	response := mapValue(decoded, "response")
	r := &Results{
		Hits:         intValue(response, "numFound"),
		Debug:        mapValue(decoded, "debug"),
		Highlighting: mapValue(decoded, "highlighting"),
		Facets:       mapValue(decoded, "facet_counts"),
		Spellcheck:   mapValue(decoded, "spellcheck"),
		Stats:        mapValue(decoded, "stats"),
		QTime:        intValue(mapValue(decoded, "responseHeader"), "QTime"),
		Grouped:      mapValue(decoded, "grouped"),
		Raw:          decoded,
	}
	if cursor, ok := decoded["nextCursorMark"].(string); ok {
		r.NextCursorMark = cursor
	}
	if docs, ok := response["docs"].([]any); ok {
		r.Docs = make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			if m, ok := d.(map[string]any); ok {
				r.Docs = append(r.Docs, m)
			}
		}
	}
	return r
}

// Len returns the number of returned documents (not the total hit count).
func (r *Results) Len() int {
	return len(r.Docs)
}

func mapValue(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// intValue reads a numeric key. encoding/json decodes numbers as
// float64; other decoders may produce ints or json.Number.
func intValue(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}
