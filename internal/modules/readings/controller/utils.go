package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sensorapi/internal/modules/readings/types"
)

const dateLayout = "2006-01-02"

func parsePastReadingsQuery(r *http.Request, maxLimit int) (types.RangeQuery, error) {
	q := r.URL.Query()
	out := types.RangeQuery{Limit: types.DefaultLimit}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return types.RangeQuery{}, errors.New("invalid 'limit' (expected integer)")
		}
		if n <= 0 {
			return types.RangeQuery{}, errors.New("'limit' must be > 0")
		}
		if n > maxLimit {
			return types.RangeQuery{}, fmt.Errorf("'limit' must be <= %d", maxLimit)
		}
		out.Limit = n
	}

	var start, end time.Time
	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return types.RangeQuery{}, errors.New("invalid 'start_date' (expected YYYY-MM-DD)")
		}
		start = t
		out.StartDate = t.Format(dateLayout)
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return types.RangeQuery{}, errors.New("invalid 'end_date' (expected YYYY-MM-DD)")
		}
		end = t
		out.EndDate = t.Format(dateLayout)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return types.RangeQuery{}, errors.New("'start_date' must be <= 'end_date'")
	}

	return out, nil
}
