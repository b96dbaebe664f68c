// Package nfe turns uploaded NF-e XML into a generic document tree and reads
// the fiscal fields the ingestion pipeline needs from it.
package nfe

import (
	"bytes"
	"strings"

	"github.com/clbanning/mxj/v2"
	"golang.org/x/net/html/charset"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	// Older emitters still declare ISO-8859-1 or windows-1252.
	mxj.XmlCharsetReader = charset.NewReaderLabel
}

// Document is a parsed XML document: nested maps keyed by element name, with
// attributes under "-name" and mixed text under "#text".
type Document struct {
	root map[string]interface{}
}

// Decode parses raw XML into a Document. Anything that is not a well-formed
// XML document is reported as a validation error on the upload.
func Decode(raw []byte) (Document, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, domain.NewValidationError("file", "document is empty")
	}

	m, err := mxj.NewMapXml(raw)
	if err != nil || len(m) == 0 {
		return Document{}, domain.NewValidationError("file", "not a well-formed XML document")
	}
	return Document{root: m}, nil
}

// Lookup walks path from the root and returns the trimmed text found there.
// Repeated elements resolve to their first occurrence. Empty text counts as
// absent.
func (d Document) Lookup(path ...string) (string, bool) {
	var node interface{} = d.root
	for _, key := range path {
		m, ok := asMap(first(node))
		if !ok {
			return "", false
		}
		if node, ok = m[key]; !ok {
			return "", false
		}
	}

	var text string
	switch v := first(node).(type) {
	case string:
		text = v
	case map[string]interface{}, mxj.Map:
		m, _ := asMap(v)
		s, ok := m["#text"].(string)
		if !ok {
			return "", false
		}
		text = s
	default:
		return "", false
	}

	text = strings.TrimSpace(text)
	return text, text != ""
}

func first(node interface{}) interface{} {
	if list, ok := node.([]interface{}); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return node
}

func asMap(node interface{}) (map[string]interface{}, bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		return v, true
	case mxj.Map:
		return v, true
	}
	return nil, false
}
