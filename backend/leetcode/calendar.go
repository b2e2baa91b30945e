package leetcode

import (
	"context"
	"net/url"
	"time"

	"dsatracker/backend/metrics"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const calendarQuery = `
query userCalendar($username: String!, $year: Int!) {
  userCalendar(username: $username, year: $year) {
    submissionCalendar
  }
}`

// calendarLookbackDays is how far back the display window reaches; the
// year of today minus this many days is also queried.
const calendarLookbackDays = 180

type calendarResponse struct {
	Data *struct {
		UserCalendar *struct {
			SubmissionCalendar *string `json:"submissionCalendar"`
		} `json:"userCalendar"`
	} `json:"data"`
}

// calendarStrategy fetches a raw timestamp->count map from one upstream
// shape. An error or an empty map hands over to the next strategy.
type calendarStrategy struct {
	name  string
	fetch func(ctx context.Context, username string) (map[string]json.RawMessage, error)
}

func (c *Client) calendarStrategies() []calendarStrategy {
	return []calendarStrategy{
		{name: SourceGraphQL, fetch: c.graphQLCalendar},
		{name: SourceRESTPath, fetch: c.restPathCalendar},
		{name: SourceRESTQuery, fetch: c.restQueryCalendar},
	}
}

// FetchCalendar returns the user's submission calendar. It never fails:
// strategies are tried in order until one yields at least one valid entry,
// and when none does the calendar is empty.
func (c *Client) FetchCalendar(ctx context.Context, username string) []RawCalendarEntry {
	for _, strategy := range c.calendarStrategies() {
		if ctx.Err() != nil {
			break
		}

		raw, err := strategy.fetch(ctx, username)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues(strategy.name, metrics.OutcomeFailure).Inc()
			log.Warn().Err(err).Str("source", strategy.name).Str("username", username).Msg("calendar source failed")
			continue
		}

		entries := normalizeCalendar(raw)
		if len(entries) == 0 {
			metrics.UpstreamRequests.WithLabelValues(strategy.name, metrics.OutcomeEmpty).Inc()
			log.Debug().Str("source", strategy.name).Str("username", username).Msg("calendar source empty")
			continue
		}

		metrics.UpstreamRequests.WithLabelValues(strategy.name, metrics.OutcomeSuccess).Inc()
		metrics.CalendarSource.WithLabelValues(strategy.name).Inc()
		return entries
	}

	metrics.CalendarSource.WithLabelValues("none").Inc()
	return []RawCalendarEntry{}
}

// CandidateYears lists the UTC years touched by the display window,
// ascending so that later years overwrite earlier ones on merge.
func CandidateYears(now time.Time) []int {
	today := now.UTC()
	current := today.Year()
	earliest := today.AddDate(0, 0, -calendarLookbackDays).Year()
	if earliest == current {
		return []int{current}
	}
	return []int{earliest, current}
}

// graphQLCalendar merges every candidate year. A failure in any year fails
// the whole strategy; its partial result is discarded.
func (c *Client) graphQLCalendar(ctx context.Context, username string) (map[string]json.RawMessage, error) {
	merged := map[string]json.RawMessage{}
	for _, year := range CandidateYears(c.now()) {
		part, err := c.graphQLCalendarYear(ctx, username, year)
		if err != nil {
			return nil, err
		}
		for k, v := range part {
			merged[k] = v
		}
	}
	return merged, nil
}

func (c *Client) graphQLCalendarYear(ctx context.Context, username string, year int) (map[string]json.RawMessage, error) {
	body, err := c.postGraphQL(ctx, SourceGraphQL, username, calendarQuery, map[string]interface{}{
		"username": username,
		"year":     year,
	})
	if err != nil {
		return nil, err
	}

	var resp calendarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamError{Op: SourceGraphQL, Err: err}
	}
	if resp.Data == nil || resp.Data.UserCalendar == nil || resp.Data.UserCalendar.SubmissionCalendar == nil {
		return map[string]json.RawMessage{}, nil
	}

	// An unreadable calendar string counts as an empty year.
	part, err := decodeCalendarPayload([]byte(*resp.Data.UserCalendar.SubmissionCalendar))
	if err != nil {
		log.Debug().Err(err).Int("year", year).Str("username", username).Msg("unreadable submission calendar")
		return map[string]json.RawMessage{}, nil
	}
	return part, nil
}

func (c *Client) restPathCalendar(ctx context.Context, username string) (map[string]json.RawMessage, error) {
	endpoint := c.baseURL + "/api/user_submission_calendars/" + url.PathEscape(username) + "/"
	return c.restCalendar(ctx, SourceRESTPath, username, endpoint)
}

func (c *Client) restQueryCalendar(ctx context.Context, username string) (map[string]json.RawMessage, error) {
	endpoint := c.baseURL + "/api/user_submission_calendar/?" + url.Values{"username": {username}}.Encode()
	return c.restCalendar(ctx, SourceRESTQuery, username, endpoint)
}

func (c *Client) restCalendar(ctx context.Context, source, username, endpoint string) (map[string]json.RawMessage, error) {
	body, err := c.get(ctx, source, username, endpoint)
	if err != nil {
		return nil, err
	}
	raw, err := decodeCalendarPayload(body)
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}
	return raw, nil
}
