package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Event is one raw dated quantity: an invoice amount, a claim upload, or a
// payment. Date is kept as supplied (ISO 8601 date or datetime) and parsed by
// the engine, which skips anything unparsable.
type Event struct {
	Date     string `json:"date"`
	Value    Amount `json:"value"`
	Priority bool   `json:"priority,omitempty"` // priority payments are never delayed
	Vendor   string `json:"vendor,omitempty"`
}

// Amount is a money or count value that decodes leniently: numbers, numeric
// strings, null and garbage are all accepted, anything non-numeric or
// non-finite becomes 0.
type Amount float64

// Float returns a as a finite float64.
func (a Amount) Float() float64 {
	return Finite(float64(a))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*a = 0
		return nil
	}
	*a = Amount(ParseAmount(strings.Trim(s, `"`)))
	return nil
}

// ParseAmount parses s as a number, tolerating a leading currency sign and
// thousands separators. Unparsable input yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Finite(f)
}

// Finite maps NaN and ±Inf to 0.
func Finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
