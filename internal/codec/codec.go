package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/kailas-cloud/solrdex/internal/domain"
)

// solrTimeLayout is the wire format for date-times: UTC, second precision,
// no fractional part.
const solrTimeLayout = "2006-01-02T15:04:05Z"

var datetimeRegex = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?Z$`)

// Encode converts a native value to Solr XML field text.
//
// Date-times serialize as YYYY-MM-DDThh:mm:ssZ (UTC, seconds truncated),
// date-only values get a synthetic midnight, booleans become the literals
// true/false, and everything else takes its natural text form filtered
// through CleanXMLString. Raw bytes are decoded as UTF-8 first, replacing
// invalid sequences.
func Encode(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Truncate(time.Second).Format(solrTimeLayout)
	case domain.Date:
		return fmt.Sprintf("%sT00:00:00Z", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []byte:
		return CleanXMLString(forceValidUTF8(v))
	case string:
		return CleanXMLString(v)
	default:
		return CleanXMLString(fmt.Sprintf("%v", v))
	}
}

// Decode recovers a best-guess native value from Solr output. The wire
// format is untyped text, so typing is an ordered chain of attempts:
// already-typed numbers pass through, sequences collapse to their first
// element, then boolean literal, then the ISO-8601-with-Z date pattern,
// then a safe literal parse, and finally the text itself unchanged.
//
// The boolean and date checks must run before the literal parse: "true"
// and ISO date strings are also syntactically valid literals.
func Decode(value any) any {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case json.Number:
		return v
	case []any:
		if len(v) == 0 {
			return v
		}
		value = v[0]
	}

	s, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			s = forceValidUTF8(b)
		} else {
			return value
		}
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if m := datetimeRegex.FindStringSubmatch(s); m != nil {
		// Fractional seconds, when matched, are discarded.
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		second, _ := strconv.Atoi(m[6])
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	}

	if v, err := parseLiteral(s); err == nil {
		return v
	}

	return s
}
