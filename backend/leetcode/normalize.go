package leetcode

import (
	"bytes"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var errNotAnObject = errors.New("calendar payload is not a JSON object")

// decodeCalendarPayload accepts either a JSON object or a JSON string that
// itself encodes an object; the upstream has served both. Empty input,
// null and the empty string decode to an empty map.
func decodeCalendarPayload(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		data = bytes.TrimSpace([]byte(inner))
	}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return map[string]json.RawMessage{}, nil
	}
	if data[0] != '{' {
		return nil, errNotAnObject
	}

	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeCalendar drops keys that are not integer timestamps and coerces
// every value to a count. The result is sorted by timestamp.
func normalizeCalendar(raw map[string]json.RawMessage) []RawCalendarEntry {
	entries := make([]RawCalendarEntry, 0, len(raw))
	for key, value := range raw {
		ts, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, RawCalendarEntry{Timestamp: ts, Count: coerceCount(value)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})
	return entries
}

// coerceCount maps a JSON value to a non-negative int. Numbers truncate
// toward zero, numeric strings are parsed, negatives clamp to 0 and
// anything else (null, booleans, objects, garbage) counts as 0.
func coerceCount(value json.RawMessage) int {
	n, ok := parseNumber(value)
	if !ok || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func parseNumber(value json.RawMessage) (float64, bool) {
	text := strings.TrimSpace(string(value))
	if text == "" || text == "null" {
		return 0, false
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Trunc(f), true
}
