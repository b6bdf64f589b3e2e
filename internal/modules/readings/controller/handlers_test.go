package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authservice "sensorapi/internal/modules/auth/service"
	"sensorapi/internal/modules/readings/repository"
	"sensorapi/internal/modules/readings/service"
	"sensorapi/internal/modules/readings/types"
)

type mockRepo struct {
	latest    *types.Reading
	latestErr error
	readings  []types.Reading
	rangeErr  error
	gotQuery  types.RangeQuery
	calls     int
}

func (m *mockRepo) GetLatest(ctx context.Context) (*types.Reading, error) {
	m.calls++
	return m.latest, m.latestErr
}

func (m *mockRepo) GetRange(ctx context.Context, q types.RangeQuery) ([]types.Reading, error) {
	m.calls++
	m.gotQuery = q
	return m.readings, m.rangeErr
}

func ptr[T any](v T) *T { return &v }

func at(h, m, s int) types.TimeOfDay {
	return types.TimeOfDay{
		Span:  time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second,
		Valid: true,
	}
}

func newTestMux(repo repository.ReadingRepository) *http.ServeMux {
	mux := http.NewServeMux()
	gate := authservice.NewGate("admin", "s3cret", nil)
	NewReadingsController(repo, service.NewNormalizer(nil), gate, 1000).RegisterRoutes(mux)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetBasicAuth("admin", "s3cret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func Test_handleLatest(t *testing.T) {
	t.Run("returns single normalized reading in a list", func(t *testing.T) {
		repo := &mockRepo{latest: &types.Reading{
			ID:               42,
			Temperature:      ptr(23.4),
			Humidity:         ptr(51.0),
			Date:             "2024-03-01",
			Clock:            at(14, 5, 30),
			AlertTemperature: ptr(false),
			AlertHumidity:    ptr(true),
		}}
		rec := get(newTestMux(repo), "/latest")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		var got []types.NormalizedReading
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("len = %d; want 1", len(got))
		}
		if got[0].ID != 42 || got[0].Date != "2024-03-01" || got[0].Time != "14:05:30" {
			t.Errorf("reading = %+v", got[0])
		}
		if got[0].AlertHumidity == nil || !*got[0].AlertHumidity {
			t.Errorf("alert_humidity = %v; want true", got[0].AlertHumidity)
		}
	})

	t.Run("keeps field order in the body", func(t *testing.T) {
		repo := &mockRepo{latest: &types.Reading{ID: 1, Date: "2024-03-01"}}
		rec := get(newTestMux(repo), "/latest")

		want := `[{"reading_id":1,"temperature":null,"humidity":null,"date":"2024-03-01","time":"00:00:00","alert_temperature":null,"alert_humidity":null}]`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Errorf("body = %s\nwant   %s", got, want)
		}
	})

	t.Run("returns empty list when there are no readings", func(t *testing.T) {
		rec := get(newTestMux(&mockRepo{}), "/latest")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("body = %q; want []", got)
		}
	})

	t.Run("returns 500 with store message", func(t *testing.T) {
		repo := &mockRepo{latestErr: &repository.StoreError{Op: "latest", Err: errors.New("connection refused")}}
		rec := get(newTestMux(repo), "/latest")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != "connection refused" {
			t.Errorf("error = %q; want %q", body["error"], "connection refused")
		}
	})

	t.Run("returns 500 when the reading cannot be normalized", func(t *testing.T) {
		repo := &mockRepo{latest: &types.Reading{ID: 3, Date: "2024-13-45", Clock: at(1, 0, 0)}}
		rec := get(newTestMux(repo), "/latest")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), "Time conversion failed") {
			t.Errorf("body = %q; want time conversion error", rec.Body.String())
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		repo := &mockRepo{}
		req := httptest.NewRequest(http.MethodGet, "/latest", nil)
		rec := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
		}
		if repo.calls != 0 {
			t.Errorf("repository called %d times before authentication", repo.calls)
		}
	})
}

func Test_handlePastReadings(t *testing.T) {
	t.Run("returns normalized readings in store order", func(t *testing.T) {
		repo := &mockRepo{readings: []types.Reading{
			{ID: 9, Date: "2024-01-31", Clock: at(23, 59, 59)},
			{ID: 8, Date: "2024-01-15", Clock: at(9, 0, 0)},
			{ID: 2, Date: "2024-01-01"},
		}}
		rec := get(newTestMux(repo), "/past-readings?limit=3&start_date=2024-01-01&end_date=2024-01-31")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		want := types.RangeQuery{Limit: 3, StartDate: "2024-01-01", EndDate: "2024-01-31"}
		if repo.gotQuery != want {
			t.Errorf("query = %+v; want %+v", repo.gotQuery, want)
		}
		var got []types.NormalizedReading
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d; want 3", len(got))
		}
		if got[0].ID != 9 || got[1].Time != "09:00:00" || got[2].Time != "00:00:00" {
			t.Errorf("readings = %+v", got)
		}
	})

	t.Run("uses default limit", func(t *testing.T) {
		repo := &mockRepo{readings: []types.Reading{{ID: 1, Date: "2024-01-01"}}}
		get(newTestMux(repo), "/past-readings")

		if repo.gotQuery.Limit != types.DefaultLimit {
			t.Errorf("limit = %d; want %d", repo.gotQuery.Limit, types.DefaultLimit)
		}
	})

	t.Run("returns message when nothing matches", func(t *testing.T) {
		rec := get(newTestMux(&mockRepo{}), "/past-readings?start_date=2030-01-01")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["message"] != "No data found" {
			t.Errorf("message = %q; want %q", body["message"], "No data found")
		}
	})

	t.Run("returns 400 for bad params without querying", func(t *testing.T) {
		repo := &mockRepo{}
		rec := get(newTestMux(repo), "/past-readings?limit=abc")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusBadRequest)
		}
		if repo.calls != 0 {
			t.Errorf("repository called %d times; want 0", repo.calls)
		}
	})

	t.Run("returns 500 with store message", func(t *testing.T) {
		repo := &mockRepo{rangeErr: &repository.StoreError{Op: "range", Err: errors.New("no such table: readings")}}
		rec := get(newTestMux(repo), "/past-readings")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), "no such table: readings") {
			t.Errorf("body = %q; want store message", rec.Body.String())
		}
	})

	t.Run("one bad reading fails the whole response", func(t *testing.T) {
		repo := &mockRepo{readings: []types.Reading{
			{ID: 2, Date: "2024-01-02", Clock: at(1, 0, 0)},
			{ID: 1, Date: "2024-01-01", Clock: at(25, 0, 0)},
		}}
		rec := get(newTestMux(repo), "/past-readings")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if strings.Contains(rec.Body.String(), "reading_id") {
			t.Errorf("body = %q; want no partial results", rec.Body.String())
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		repo := &mockRepo{}
		req := httptest.NewRequest(http.MethodGet, "/past-readings", nil)
		req.SetBasicAuth("admin", "wrong")
		rec := httptest.NewRecorder()
		newTestMux(repo).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
		}
		if repo.calls != 0 {
			t.Errorf("repository called %d times before authentication", repo.calls)
		}
	})
}
