// Package source discovers and parses invoice, claim and payment event files.
//
// It is the only place that knows about field naming in the inputs; the
// engine only ever sees normalized model.Event values.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashcal/internal/model"
)

// ParseFile reads one discovered file into events. Records that cannot be
// decoded are counted in ParseErrors and skipped; only I/O failures or an
// unreadable document structure set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	switch df.Format {
	case FormatCSV:
		return parseCSV(f)
	case FormatJSONL:
		return parseJSONL(f)
	}
	return parseJSON(f)
}

// ReadFile parses a single path, choosing the format from its extension and
// falling back to JSON.
func ReadFile(path string) ParseResult {
	df, ok := classify(path)
	if !ok {
		df = DiscoveredFile{Path: path, Format: FormatJSON}
	}
	return ParseFile(df)
}

func parseJSONL(r io.Reader) ParseResult {
	var result ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, ok := decodeRecord(line)
		if !ok {
			result.ParseErrors++
			continue
		}
		result.Events = append(result.Events, ev)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}
	return result
}

func parseJSON(r io.Reader) ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ParseResult{}
	}

	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding json array: %w", err)}
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding json object: %w", err)}
		}
		list, ok := lookup(normalizeKeys(obj), listAliases)
		if !ok {
			return ParseResult{Err: errors.New("json object has no event list")}
		}
		if err := json.Unmarshal(list, &items); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding event list: %w", err)}
		}
	default:
		return ParseResult{Err: errors.New("not a json array or object")}
	}

	var result ParseResult
	for _, raw := range items {
		ev, ok := decodeRecord(raw)
		if !ok {
			result.ParseErrors++
			continue
		}
		result.Events = append(result.Events, ev)
	}
	return result
}

func parseCSV(r io.Reader) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ParseResult{}
	}
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		k := normalizeKey(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[k]; !dup {
			cols[k] = i
		}
	}
	dateCol := column(cols, dateAliases)
	if dateCol < 0 {
		return ParseResult{Err: errors.New("csv header has no date column")}
	}
	valueCol := column(cols, valueAliases)
	prioCol := column(cols, priorityAliases)
	vendorCol := column(cols, vendorAliases)

	var result ParseResult
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				result.ParseErrors++
				continue
			}
			return ParseResult{Err: err}
		}
		if dateCol >= len(rec) {
			result.ParseErrors++
			continue
		}

		ev := model.Event{Date: strings.TrimSpace(rec[dateCol])}
		if valueCol >= 0 && valueCol < len(rec) {
			ev.Value = model.Amount(model.ParseAmount(rec[valueCol]))
		}
		if prioCol >= 0 && prioCol < len(rec) {
			ev.Priority = parseFlag(rec[prioCol])
		}
		if vendorCol >= 0 && vendorCol < len(rec) {
			ev.Vendor = strings.TrimSpace(rec[vendorCol])
		}
		result.Events = append(result.Events, ev)
	}
	return result
}

// decodeRecord maps one JSON object onto an Event. Only a record that is not
// a JSON object fails; missing fields are left zero for the engine to judge.
func decodeRecord(raw []byte) (model.Event, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return model.Event{}, false
	}
	fields := normalizeKeys(obj)

	var ev model.Event
	if v, ok := lookup(fields, dateAliases); ok {
		ev.Date = jsonString(v)
	}
	if v, ok := lookup(fields, valueAliases); ok {
		var a model.Amount
		_ = json.Unmarshal(v, &a) // Amount never fails; garbage decodes as 0
		ev.Value = a
	}
	if v, ok := lookup(fields, priorityAliases); ok {
		ev.Priority = jsonBool(v)
	}
	if v, ok := lookup(fields, vendorAliases); ok {
		ev.Vendor = strings.TrimSpace(jsonString(v))
	}
	return ev, true
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

func normalizeKeys(obj map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		nk := normalizeKey(k)
		if _, dup := out[nk]; !dup {
			out[nk] = v
		}
	}
	return out
}

func lookup(fields map[string]json.RawMessage, aliases []string) (json.RawMessage, bool) {
	for _, a := range aliases {
		v, ok := fields[a]
		if ok && string(bytes.TrimSpace(v)) != "null" {
			return v, true
		}
	}
	return nil, false
}

func column(cols map[string]int, aliases []string) int {
	for _, a := range aliases {
		if i, ok := cols[a]; ok {
			return i
		}
	}
	return -1
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func jsonBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseFlag(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f != 0
	}
	return false
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f != 0
	}
	return false
}
