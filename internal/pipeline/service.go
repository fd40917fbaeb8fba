package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
	"github.com/couchcryptid/dwd-weather-api/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher retrieves raw upstream documents.
type Fetcher interface {
	FetchStationCatalog(ctx context.Context) (string, error)
	FetchForecast(ctx context.Context, station string) ([]byte, error)
	FetchReport(ctx context.Context, station string) ([]byte, error)
}

// Publisher receives freshly decoded forecasts and reports.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Options tunes the Service. Zero values fall back to the defaults below.
type Options struct {
	Workers        int
	CacheSize      int
	StationsTTL    time.Duration
	ForecastTTL    time.Duration
	ReportTTL      time.Duration
	PublishTimeout time.Duration
	Clock          clockwork.Clock
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 500
	}
	if o.StationsTTL <= 0 {
		o.StationsTTL = 7 * 24 * time.Hour
	}
	if o.ForecastTTL <= 0 {
		o.ForecastTTL = 1000 * time.Second
	}
	if o.ReportTTL <= 0 {
		o.ReportTTL = time.Minute
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 10 * time.Second
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return o
}

// Service fetches, decodes, and caches DWD documents.
type Service struct {
	fetcher   Fetcher
	publisher Publisher // nil disables publishing
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	pool      *decodePool

	stations  *Cache[[]domain.StationRecord]
	forecasts *Cache[domain.ForecastDocument]
	reports   *Cache[domain.WeatherReport]

	closed     atomic.Bool
	publishing sync.WaitGroup
}

// New creates a Service. publisher may be nil.
func New(fetcher Fetcher, publisher Publisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	opts = opts.withDefaults()
	return &Service{
		fetcher:   fetcher,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		pool:      newDecodePool(opts.Workers, metrics.DecodeInflight),
		stations:  NewCache[[]domain.StationRecord](1, opts.Clock),
		forecasts: NewCache[domain.ForecastDocument](opts.CacheSize, opts.Clock),
		reports:   NewCache[domain.WeatherReport](opts.CacheSize, opts.Clock),
	}
}

// Stations returns the decoded MOSMIX station catalog.
func (s *Service) Stations(ctx context.Context) ([]domain.StationRecord, error) {
	return resolve(ctx, s, request[[]domain.StationRecord]{
		resource: domain.ResourceStations,
		cache:    s.stations,
		ttl:      s.opts.StationsTTL,
		fetch: func(ctx context.Context) ([]byte, error) {
			text, err := s.fetcher.FetchStationCatalog(ctx)
			return []byte(text), err
		},
		decode: func(raw []byte) ([]domain.StationRecord, error) {
			return domain.DecodeStationCatalog(string(raw)), nil
		},
	})
}

// Forecast returns the decoded MOSMIX_L forecast for a station.
func (s *Service) Forecast(ctx context.Context, station string) (domain.ForecastDocument, error) {
	return resolve(ctx, s, request[domain.ForecastDocument]{
		resource: domain.ResourceForecast,
		station:  station,
		cache:    s.forecasts,
		ttl:      s.opts.ForecastTTL,
		fetch: func(ctx context.Context) ([]byte, error) {
			return s.fetcher.FetchForecast(ctx, station)
		},
		decode:  domain.DecodeKMZ,
		dropped: func(doc domain.ForecastDocument) int { return doc.DroppedElements },
		publish: true,
	})
}

// Report returns the decoded POI observation report for a station.
func (s *Service) Report(ctx context.Context, station string) (domain.WeatherReport, error) {
	return resolve(ctx, s, request[domain.WeatherReport]{
		resource: domain.ResourceReport,
		station:  station,
		cache:    s.reports,
		ttl:      s.opts.ReportTTL,
		fetch: func(ctx context.Context) ([]byte, error) {
			return s.fetcher.FetchReport(ctx, station)
		},
		decode: func(raw []byte) (domain.WeatherReport, error) {
			return domain.DecodeWeatherReport(bytes.NewReader(raw))
		},
		dropped: func(r domain.WeatherReport) int { return r.DroppedRows },
		publish: true,
	})
}

// CheckReadiness returns nil while the service accepts work, and an error
// once Close has been called.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.closed.Load() {
		return errors.New("service is shutting down")
	}
	return nil
}

// Close marks the service as draining and waits for in-flight publishes.
func (s *Service) Close(ctx context.Context) error {
	s.closed.Store(true)

	done := make(chan struct{})
	go func() {
		s.publishing.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for publishes: %w", ctx.Err())
	}
}

type request[T any] struct {
	resource string
	station  string
	cache    *Cache[T]
	ttl      time.Duration
	fetch    func(context.Context) ([]byte, error)
	decode   func([]byte) (T, error)
	dropped  func(T) int
	publish  bool
}

func resolve[T any](ctx context.Context, s *Service, req request[T]) (T, error) {
	var zero T
	log := s.logger.With("resource", req.resource)
	if req.station != "" {
		log = log.With("station", req.station)
	}

	key := req.station
	if v, ok := req.cache.Get(key); ok {
		s.metrics.Cache.WithLabelValues(req.resource, "hit").Inc()
		s.metrics.Requests.WithLabelValues(req.resource, "success").Inc()
		return v, nil
	}
	s.metrics.Cache.WithLabelValues(req.resource, "miss").Inc()

	start := s.opts.Clock.Now()
	raw, err := req.fetch(ctx)
	s.metrics.UpstreamDuration.WithLabelValues(req.resource).Observe(s.opts.Clock.Since(start).Seconds())
	if err != nil {
		s.metrics.Requests.WithLabelValues(req.resource, outcome(err)).Inc()
		log.Warn("upstream fetch failed", "error", err)
		return zero, fmt.Errorf("fetch %s: %w", req.resource, err)
	}

	start = s.opts.Clock.Now()
	v, err := runInPool(ctx, s.pool, func() (T, error) { return req.decode(raw) })
	s.metrics.DecodeDuration.WithLabelValues(req.resource).Observe(s.opts.Clock.Since(start).Seconds())
	if err != nil {
		s.metrics.Requests.WithLabelValues(req.resource, outcome(err)).Inc()
		if errors.Is(err, domain.ErrInternal) {
			log.Warn("decode abandoned", "error", err)
		} else {
			s.metrics.DecodeErrors.WithLabelValues(req.resource, domain.KindOf(err).String()).Inc()
			log.Error("decode failed", "kind", domain.KindOf(err).String(), "error", err)
		}
		return zero, fmt.Errorf("decode %s: %w", req.resource, err)
	}

	if req.dropped != nil {
		if n := req.dropped(v); n > 0 {
			s.metrics.DroppedRecords.WithLabelValues(req.resource).Add(float64(n))
			log.Debug("dropped malformed records", "count", n)
		}
	}

	req.cache.Put(key, v, req.ttl)
	s.metrics.Requests.WithLabelValues(req.resource, "success").Inc()

	if req.publish {
		s.publish(ctx, domain.Snapshot{
			Resource:  req.resource,
			Station:   req.station,
			Payload:   v,
			DecodedAt: s.opts.Clock.Now(),
		})
	}
	return v, nil
}

// publish hands snap to the publisher without blocking the caller. Failures
// are logged and counted, never returned.
func (s *Service) publish(ctx context.Context, snap domain.Snapshot) {
	if s.publisher == nil {
		return
	}
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PublishTimeout)
		defer cancel()

		if err := s.publisher.Publish(pctx, snap); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Warn("publish failed", "resource", snap.Resource, "station", snap.Station, "error", err)
			return
		}
		s.metrics.Published.Inc()
	}()
}

func outcome(err error) string {
	if domain.IsNotFound(err) {
		return "not_found"
	}
	return "error"
}
