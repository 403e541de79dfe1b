package record

import "strconv"

// Flatten collapses the document into flat Records. An array yields one
// Record per element, an object yields a single Record. Nested structure
// disappears into dot-joined field names; array positions become numeric
// path segments ("topics.0.name"). Leaf order follows document order and
// no leaf value is dropped.
//
// Flattening is idempotent on already-flat input: a document without
// nesting comes back with its fields unchanged.
func (d *Document) Flatten() []Record {
	if d.kind == kindArray {
		records := make([]Record, 0, len(d.elems))
		for _, elem := range d.elems {
			records = append(records, flattenOne(elem))
		}
		return records
	}
	return []Record{flattenOne(d)}
}

// flattenOne flattens a single document into one Record.
func flattenOne(d *Document) Record {
	var rec Record
	appendLeaves(&rec, "", d)
	return rec
}

func appendLeaves(rec *Record, prefix string, d *Document) {
	switch d.kind {
	case kindObject:
		for _, m := range d.members {
			appendLeaves(rec, joinPath(prefix, m.key), m.doc)
		}
	case kindArray:
		for i, elem := range d.elems {
			appendLeaves(rec, joinPath(prefix, strconv.Itoa(i)), elem)
		}
	default:
		name := prefix
		if name == "" {
			// A bare scalar has no path to derive a name from.
			name = "value"
		}
		*rec = append(*rec, Field{Name: name, Value: d.value})
	}
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}
