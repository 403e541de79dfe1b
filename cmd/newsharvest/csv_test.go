package main

import (
	"bytes"
	"strings"
	"testing"

	"newsharvest/pkg/record"
)

func TestWriteCSV(t *testing.T) {
	records := []record.Record{
		{
			{Name: "title", Value: record.Text("gold strike")},
			{Name: "year", Value: record.Number(1898)},
		},
		{
			{Name: "title", Value: record.Text("rail opens")},
			{Name: "paper.state", Value: record.Text("Utah")},
		},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, records); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}

	// Union header in first-seen order
	if lines[0] != "title,year,paper.state" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "gold strike,1898," {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "rail opens,,Utah" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, nil); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "" {
		t.Errorf("output = %q, want empty", got)
	}
}

func TestMergeParams(t *testing.T) {
	params, err := mergeParams(
		map[string]string{"format": "json", "andtext": "old"},
		[]string{"andtext=gold rush", "state=Nevada"},
	)
	if err != nil {
		t.Fatalf("mergeParams() error = %v", err)
	}

	if params["format"] != "json" {
		t.Errorf("format = %q", params["format"])
	}
	// Flag values override catalog values
	if params["andtext"] != "gold rush" {
		t.Errorf("andtext = %q", params["andtext"])
	}
	if params["state"] != "Nevada" {
		t.Errorf("state = %q", params["state"])
	}

	if _, err := mergeParams(nil, []string{"no-equals"}); err == nil {
		t.Error("mergeParams() should reject malformed pairs")
	}
}
