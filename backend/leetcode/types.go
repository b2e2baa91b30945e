package leetcode

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by FetchStats when the upstream has no such user.
var ErrNotFound = errors.New("leetcode: user not found")

// UpstreamError covers transport failures, timeouts, non-2xx statuses and
// undecodable payloads. Callers are not expected to tell them apart.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatsSummary is the aggregate profile snapshot.
type StatsSummary struct {
	Username    string `json:"username"`
	Ranking     *int   `json:"ranking"`
	TotalSolved int    `json:"totalSolved"`
	Easy        int    `json:"easy"`
	Medium      int    `json:"medium"`
	Hard        int    `json:"hard"`
}

// RawCalendarEntry is one validated upstream data point: a unix timestamp
// (seconds) and a non-negative submission count.
type RawCalendarEntry struct {
	Timestamp int64
	Count     int
}
