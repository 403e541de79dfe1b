package main

import (
	"encoding/csv"
	"io"

	"newsharvest/pkg/record"
)

// writeCSV renders records as one CSV table. The header is the union of
// all field names in first-seen order; records missing a field get an
// empty cell. Schemas vary per source and per query, so nothing is
// assumed about which fields exist.
func writeCSV(w io.Writer, records []record.Record) error {
	if len(records) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)

	var header []string
	seen := map[string]bool{}
	for _, rec := range records {
		for _, f := range rec {
			if !seen[f.Name] {
				seen[f.Name] = true
				header = append(header, f.Name)
			}
		}
	}

	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, name := range header {
			row[i] = ""
			if v, ok := rec.Get(name); ok {
				row[i] = v.String()
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
