// Package scrape extracts a best-effort (reason, detail) pair from failed
// Solr responses. There is no single error format to parse: Solr may
// return its own structured XML error, or the servlet container (Jetty,
// Tomcat, others) may return an HTML page in a vendor-specific shape. The
// scraper is an ordered pipeline of cheap fallbacks whose last stage is
// total, so it degrades to "whole body as detail" and never fails outward.
package scrape

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

type container int

const (
	containerGeneric container = iota
	containerJetty
	containerTomcat
)

var tomcatHeadingRegex = regexp.MustCompile(`(?is)<h1[^>]*>\s*(.+?)\s*</h1>`)

// Scrape inspects a failed response and returns a short reason and the
// full detail text, either of which may be empty.
func Scrape(header http.Header, body []byte) (reason, detail string) {
	text := string(body)

	// A body opening with an XML declaration is likely Solr's own
	// structured error. A strict parse hit returns immediately and skips
	// the whitespace normalization below, matching the structured text
	// as-is. Malformed XML just falls through to the container heuristics.
	if strings.HasPrefix(text, "<?xml") {
		if msg, trace, ok := parseSolrError(body); ok {
			return msg, trace
		}
	}

	switch identifyContainer(header) {
	case containerTomcat:
		// Tomcat error pages are neither valid XML nor consistent HTML;
		// the first heading carries the status line.
		if m := tomcatHeadingRegex.FindStringSubmatch(text); m != nil {
			reason = m[1]
		} else {
			detail = text
		}
	case containerJetty:
		reason, detail = parseErrorPage(body, "body", "pre")
	default:
		reason, detail = parseErrorPage(body, "head", "title")
	}

	detail = normalizeDetail(detail)
	return reason, detail
}

// identifyContainer sniffs the servlet container from the server
// identification header. Coyote is Tomcat's HTTP connector.
func identifyContainer(header http.Header) container {
	server := strings.ToLower(header.Get("Server"))
	switch {
	case strings.Contains(server, "jetty"):
		return containerJetty
	case strings.Contains(server, "coyote"):
		return containerTomcat
	default:
		return containerGeneric
	}
}

// parseSolrError walks the XML token stream looking for Solr's error
// list: lst[name="error"] containing str[name="msg"] and optionally
// str[name="trace"]. Returns ok only when a message was found.
func parseSolrError(body []byte) (msg, trace string, ok bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	inError := false
	depth := 0
	errorDepth := 0
	capture := "" // "msg" or "trace" while inside the matching <str>

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Strict parse only: a malformed body falls through to the
			// container heuristics instead of yielding a partial harvest.
			return "", "", false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			name := attrValue(t, "name")
			if t.Name.Local == "lst" && name == "error" {
				inError = true
				errorDepth = depth
			} else if inError && t.Name.Local == "str" {
				if name == "msg" || name == "trace" {
					capture = name
				}
			}
		case xml.EndElement:
			if inError && depth == errorDepth {
				inError = false
			}
			capture = ""
			depth--
		case xml.CharData:
			switch capture {
			case "msg":
				msg += string(t)
			case "trace":
				trace += string(t)
			}
		}
	}

	msg = strings.TrimSpace(msg)
	trace = strings.TrimSpace(trace)
	if msg == "" {
		// A trace with no message still beats the container heuristics.
		msg = trace
	}
	if trace == "" {
		trace = msg
	}
	return msg, trace, msg != ""
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseErrorPage runs a lenient HTML parse and reads the text of the
// first child element (pre for Jetty, title for generic containers)
// under the given parent. With no such node the re-rendered tree becomes
// the detail; with an unreadable body the raw text does.
func parseErrorPage(body []byte, parent, child string) (reason, detail string) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", string(body)
	}
	if node := findPath(doc, parent, child); node != nil {
		return nodeText(node), ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", string(body)
	}
	return "", buf.String()
}

// findPath locates the first child-named element under the first
// parent-named element.
func findPath(root *html.Node, parent, child string) *html.Node {
	p := findElement(root, parent)
	if p == nil {
		return nil
	}
	return findElement(p, child)
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// normalizeDetail strips line breaks and literal <br/> tags, then trims.
func normalizeDetail(s string) string {
	r := strings.NewReplacer("\n", "", "\r", "", "<br/>", "", "<br />", "")
	return strings.TrimSpace(r.Replace(s))
}
