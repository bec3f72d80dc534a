package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/maruel/instantdb"
	"github.com/olekukonko/tablewriter"
)

// parseValue decodes s as JSON, falling back to the string itself.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func parseValues(args []string) []any {
	out := make([]any, len(args))
	for i, s := range args {
		out[i] = parseValue(s)
	}
	return out
}

// parsePattern decodes s as a JSON object used to match records.
func parsePattern(s string) (instantdb.Pattern[any], error) {
	m, ok := parseValue(s).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pattern must be a JSON object, got %q", s)
	}
	return instantdb.Pattern[any](m), nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// compact returns v as single line JSON for table cells and record listings.
func compact(v any) string {
	data, err := instantdb.Encode(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}

func printEntries(w io.Writer, entries []instantdb.Entry) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{"KEY", "VALUE"})
	for _, e := range entries {
		tw.Append([]string{e.ID, compact(e.Data)})
	}
	tw.Render()
	fmt.Fprintf(w, "(%d entries)\n", len(entries))
}

func printRecords(w io.Writer, records []any) {
	var buf bytes.Buffer
	for _, r := range records {
		buf.WriteString(compact(r))
		buf.WriteByte('\n')
	}
	_, _ = w.Write(buf.Bytes())
}
