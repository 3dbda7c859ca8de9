package source

import "github.com/theirongolddev/cashcal/internal/model"

// Format is the encoding of a discovered input file.
type Format int

const (
	FormatJSON Format = iota
	FormatJSONL
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	}
	return "json"
}

// DiscoveredFile is an event file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}

// ParseResult holds the output of parsing a single file.
type ParseResult struct {
	Events      []model.Event
	ParseErrors int // malformed lines, records or rows that were skipped
	Err         error
}

// Field aliases, checked in order. Keys are compared lowercased with
// underscores removed, so created_at, createdAt and CreatedAt all match.
var (
	dateAliases = []string{
		"date", "duedate", "paydate", "createdat", "timestamp", "day", "period",
	}
	valueAliases = []string{
		"value", "amount", "total", "count",
	}
	priorityAliases = []string{
		"priority",
	}
	vendorAliases = []string{
		"vendor", "vendorname", "supplier", "payee",
	}
	// Wrapper keys of a JSON object holding the record list.
	listAliases = []string{
		"events", "invoices", "claims", "payments", "baseline", "data", "heatmap",
	}
)
