package dwd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	c := NewClient(baseURL, baseURL+"/stations.cfg", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.retries = 0
	return c
}

func TestClient_FetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather/local_forecasts/mos/MOSMIX_L/single_stations/10865/kml/MOSMIX_L_LATEST_10865.kmz", r.URL.Path)
		_, _ = w.Write([]byte("PK\x03\x04kmz"))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL).FetchForecast(context.Background(), "10865")
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04kmz"), body)
}

func TestClient_FetchReport_PadsStation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather/weather_reports/poi/P0___-BEOB.csv", r.URL.Path)
		_, _ = w.Write([]byte("header"))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL).FetchReport(context.Background(), "P0")
	require.NoError(t, err)
	assert.Equal(t, "header", string(body))
}

func TestClient_FetchStationCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stations.cfg", r.URL.Path)
		_, _ = w.Write([]byte("TABLE"))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).FetchStationCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TABLE", text)
}

func TestClient_NonSuccessIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	ctx := context.Background()

	_, err := c.FetchForecast(ctx, "10865")
	assert.ErrorIs(t, err, domain.ErrNoForecast)
	assert.Contains(t, err.Error(), "status 404")

	_, err = c.FetchReport(ctx, "10865")
	assert.ErrorIs(t, err, domain.ErrNoReport)

	_, err = c.FetchStationCatalog(ctx)
	assert.ErrorIs(t, err, domain.ErrNoStationListing)
}

func TestClient_ServerErrorIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchForecast(context.Background(), "10865")
	assert.True(t, domain.IsNotFound(err))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url).FetchReport(context.Background(), "10865")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoReport)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchForecast(context.Background(), "10865")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoForecast)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FetchForecast(ctx, "10865")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrNoForecast)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("TABLE"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.retries = 2

	text, err := c.FetchStationCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TABLE", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.retries = 2

	_, err := c.FetchReport(context.Background(), "10865")
	assert.ErrorIs(t, err, domain.ErrNoReport)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.retries = 1

	_, err := c.FetchForecast(context.Background(), "10865")
	assert.ErrorIs(t, err, domain.ErrNoForecast)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, nextBackoff(200*time.Millisecond, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(1500*time.Millisecond, maxBackoff))
}

func TestPadStationID(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", "_____"},
		{"P0", "P0___"},
		{"1086", "1086_"},
		{"10865", "10865"},
		{"123456", "123456"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, PadStationID(tt.in))
		})
	}
}
