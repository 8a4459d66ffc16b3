// Package shared holds value conversions used by several source connectors.
package shared

import (
	"encoding/hex"
	"time"

	"cloud.google.com/go/civil"

	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	stringpool "github.com/ajitpratap0/synthdata/pkg/strings"
)

// JSONText renders nested documents and arrays as compact JSON so they are
// modelled as strings. Other values are returned unchanged.
func JSONText(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		b, err := jsonpool.Marshal(v)
		if err != nil {
			return stringpool.ValueToString(v)
		}
		return string(b)
	}
	return v
}

// DateOf returns the calendar date of a driver timestamp for a DATE column.
// Drivers return DATE as midnight in the connection location, so the wall
// clock date is used without conversion.
func DateOf(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// UUIDString formats 16 raw bytes in canonical UUID form.
func UUIDString(b [16]byte) string {
	buf := make([]byte, 36)
	hex.Encode(buf[0:8], b[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], b[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], b[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], b[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], b[10:])
	return string(buf)
}
