package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is a parsed JSON document that preserves object member order.
// encoding/json decodes objects into unordered maps, so the tree is built
// from the decoder's token stream instead.
type Document struct {
	kind    docKind
	members []member // kindObject, in document order
	elems   []*Document
	value   Value // kindScalar
}

type docKind int

const (
	kindScalar docKind = iota
	kindObject
	kindArray
)

type member struct {
	key string
	doc *Document
}

// Parse decodes data into an ordered Document.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := parseValue(dec)
	if err != nil {
		return nil, err
	}

	// Reject trailing garbage after the top-level value
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}

	return doc, nil
}

// parseValue consumes one complete JSON value from the decoder.
func parseValue(dec *json.Decoder) (*Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Document, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return &Document{value: Text(t)}, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", t.String(), err)
		}
		return &Document{value: Value{Kind: KindNumber, Text: t.String(), Number: f}}, nil
	case bool:
		return &Document{value: Bool(t)}, nil
	case nil:
		return &Document{value: Null()}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (*Document, error) {
	doc := &Document{kind: kindObject}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode JSON object: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return doc, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		doc.members = append(doc.members, member{key: key, doc: val})
	}
}

func parseArray(dec *json.Decoder) (*Document, error) {
	doc := &Document{kind: kindArray}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode JSON array: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return doc, nil
		}
		val, err := parseToken(dec, tok)
		if err != nil {
			return nil, err
		}
		doc.elems = append(doc.elems, val)
	}
}

// Lookup walks a dotted path of object keys (e.g. "response.meta.hits")
// and returns the subdocument it names.
func (d *Document) Lookup(path string) (*Document, bool) {
	cur := d
	for _, seg := range strings.Split(path, ".") {
		if cur.kind != kindObject {
			return nil, false
		}
		var next *Document
		for _, m := range cur.members {
			if m.key == seg {
				next = m.doc
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Int returns the document as an integer if it is a scalar number.
func (d *Document) Int() (int, bool) {
	if d.kind != kindScalar || d.value.Kind != KindNumber {
		return 0, false
	}
	return int(d.value.Number), true
}

// IsArray reports whether the document is a JSON array.
func (d *Document) IsArray() bool {
	return d.kind == kindArray
}

// Len returns the number of elements for arrays, 0 otherwise.
func (d *Document) Len() int {
	return len(d.elems)
}
