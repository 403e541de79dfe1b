// Package record implements the flat table model produced by harvesting:
// open, ordered field-name to value mappings with a small tagged union for
// scalar values, plus JSON flattening and dotted-path lookup.
package record

import "strconv"

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	// KindNull represents a JSON null.
	KindNull Kind = iota

	// KindText represents a JSON string.
	KindText

	// KindNumber represents a JSON number.
	KindNumber

	// KindBool represents a JSON boolean.
	KindBool
)

// Value is a scalar leaf value. Exactly one of the payload fields is
// meaningful, selected by Kind. For numbers the original literal is kept
// alongside the parsed float so rendering is lossless.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
}

// Text creates a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Number creates a number value.
func Number(f float64) Value {
	return Value{
		Kind:   KindNumber,
		Text:   strconv.FormatFloat(f, 'g', -1, 64),
		Number: f,
	}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Null creates a null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// String renders the value for tabular output. Nulls render as the empty
// string, numbers as their original document literal.
func (v Value) String() string {
	switch v.Kind {
	case KindText, KindNumber:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Field is a single named cell of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is one flat row: an ordered sequence of fields. Field order
// matches leaf order in the source document.
type Record []Field

// Get returns the value of the named field and whether it exists.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}
