package leetcode

import (
	"context"

	"dsatracker/backend/metrics"

	"github.com/goccy/go-json"
)

const statsQuery = `
query userProfile($username: String!) {
  matchedUser(username: $username) {
    username
    profile { ranking }
    submitStats: submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
  }
}`

type statsResponse struct {
	Data *struct {
		MatchedUser *struct {
			Username string `json:"username"`
			Profile  *struct {
				Ranking json.RawMessage `json:"ranking"`
			} `json:"profile"`
			SubmitStats *struct {
				AcSubmissionNum []struct {
					Difficulty string          `json:"difficulty"`
					Count      json.RawMessage `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// FetchStats returns ranking and accepted-submission counts per difficulty.
// It fails with ErrNotFound when the upstream reports no matching user and
// with *UpstreamError for everything else.
func (c *Client) FetchStats(ctx context.Context, username string) (*StatsSummary, error) {
	body, err := c.postGraphQL(ctx, SourceStats, username, statsQuery, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(SourceStats, metrics.OutcomeFailure).Inc()
		return nil, err
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.UpstreamRequests.WithLabelValues(SourceStats, metrics.OutcomeFailure).Inc()
		return nil, &UpstreamError{Op: SourceStats, Err: err}
	}
	if resp.Data == nil || resp.Data.MatchedUser == nil {
		metrics.UpstreamRequests.WithLabelValues(SourceStats, metrics.OutcomeMissing).Inc()
		return nil, ErrNotFound
	}
	metrics.UpstreamRequests.WithLabelValues(SourceStats, metrics.OutcomeSuccess).Inc()

	mu := resp.Data.MatchedUser
	summary := &StatsSummary{Username: mu.Username}
	if summary.Username == "" {
		summary.Username = username
	}
	if mu.Profile != nil {
		if n, ok := parseNumber(mu.Profile.Ranking); ok {
			ranking := int(n)
			summary.Ranking = &ranking
		}
	}

	buckets := map[string]int{}
	if mu.SubmitStats != nil {
		for _, row := range mu.SubmitStats.AcSubmissionNum {
			buckets[row.Difficulty] = coerceCount(row.Count)
		}
	}
	summary.TotalSolved = buckets["All"]
	summary.Easy = buckets["Easy"]
	summary.Medium = buckets["Medium"]
	summary.Hard = buckets["Hard"]

	return summary, nil
}
