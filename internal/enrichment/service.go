// Package enrichment resolves a human-readable address and terrain
// elevation for the current map center without flooding the lookup
// providers on every pixel of panning.
//
// Each location change re-arms a debounce timer; when it fires, two
// independent lookups run, stamped with the generation that scheduled
// them. A lookup whose generation is no longer current commits nothing:
// cancellation poisons the eventual response rather than merely skipping
// the schedule.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/georisk-console/internal/domain"
	"github.com/couchcryptid/georisk-console/internal/observability"
)

// Status describes the lifecycle of one lookup.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// AddressState is the address lookup's current state.
type AddressState struct {
	Status  Status `json:"status"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// ElevationState is the elevation lookup's current state.
type ElevationState struct {
	Status  Status `json:"status"`
	Value   int    `json:"value"`
	Message string `json:"message,omitempty"`
}

// Enrichment is the displayed enrichment for the current map location. The
// two lookups carry independent statuses so they can complete (or fail)
// separately.
type Enrichment struct {
	Location  domain.MapLocation `json:"location"`
	Address   AddressState       `json:"address"`
	Elevation ElevationState     `json:"elevation"`
}

// Service debounces location changes and resolves enrichment lookups. A nil
// geocoder or elevation provider means the credential or endpoint is not
// configured; the corresponding lookup resolves immediately with a
// deterministic fallback and status ready, because missing configuration is
// a degraded outcome, not a failure.
type Service struct {
	geocoder  domain.Geocoder
	elevation domain.ElevationProvider
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	delay     time.Duration
	timeout   time.Duration

	mu         sync.Mutex
	generation uint64
	timer      clockwork.Timer
	current    Enrichment
}

// NewService creates an enrichment service. Either provider may be nil.
func NewService(
	geocoder domain.Geocoder,
	elevation domain.ElevationProvider,
	clock clockwork.Clock,
	delay, timeout time.Duration,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		geocoder:  geocoder,
		elevation: elevation,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		delay:     delay,
		timeout:   timeout,
	}
}

// SetLocation registers a new map center. Any pending timer from a
// previous, now-superseded location is cancelled before the new one is
// armed, and responses from already-fired lookups of older locations are
// rejected at commit time.
func (s *Service) SetLocation(loc domain.MapLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	gen := s.generation

	if s.timer != nil {
		if s.timer.Stop() {
			s.metrics.DebounceCancellations.Inc()
		}
	}

	s.current = Enrichment{
		Location:  loc,
		Address:   AddressState{Status: StatusLoading},
		Elevation: ElevationState{Status: StatusLoading},
	}

	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.lookup(gen, loc)
	})
}

// Current returns a snapshot of the displayed enrichment.
func (s *Service) Current() Enrichment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// lookup resolves address and elevation for loc. Both lookups run within
// the firing goroutine; each commits its own state independently so one
// failing never hides the other's result.
func (s *Service) lookup(gen uint64, loc domain.MapLocation) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.commitAddress(gen, s.resolveAddress(ctx, loc))
	s.commitElevation(gen, s.resolveElevation(ctx, loc))
}

func (s *Service) resolveAddress(ctx context.Context, loc domain.MapLocation) AddressState {
	if s.geocoder == nil {
		s.metrics.EnrichmentLookups.WithLabelValues("address", "fallback").Inc()
		return AddressState{Status: StatusReady, Value: FallbackAddress(loc.Lat, loc.Lng)}
	}

	result, err := s.geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lng)
	if err != nil {
		s.metrics.EnrichmentLookups.WithLabelValues("address", "error").Inc()
		s.logger.Warn("reverse geocode failed", "lat", loc.Lat, "lng", loc.Lng, "error", err)
		return AddressState{Status: StatusError, Message: "Location unavailable"}
	}
	if result.FormattedAddress == "" {
		// Provider had no match; degrade like the unconfigured case.
		s.metrics.EnrichmentLookups.WithLabelValues("address", "fallback").Inc()
		return AddressState{Status: StatusReady, Value: FallbackAddress(loc.Lat, loc.Lng)}
	}

	s.metrics.EnrichmentLookups.WithLabelValues("address", "success").Inc()
	return AddressState{Status: StatusReady, Value: result.FormattedAddress}
}

func (s *Service) resolveElevation(ctx context.Context, loc domain.MapLocation) ElevationState {
	if s.elevation == nil {
		s.metrics.EnrichmentLookups.WithLabelValues("elevation", "fallback").Inc()
		return ElevationState{Status: StatusReady, Value: FallbackElevation}
	}

	meters, err := s.elevation.ElevationAt(ctx, loc.Lat, loc.Lng)
	if err != nil {
		s.metrics.EnrichmentLookups.WithLabelValues("elevation", "error").Inc()
		s.logger.Warn("elevation lookup failed", "lat", loc.Lat, "lng", loc.Lng, "error", err)
		return ElevationState{Status: StatusError, Message: "Elevation unavailable"}
	}

	s.metrics.EnrichmentLookups.WithLabelValues("elevation", "success").Inc()
	return ElevationState{Status: StatusReady, Value: meters}
}

// commitAddress applies st unless the scheduling generation has been
// superseded. Stale responses are dropped silently; they are not errors.
func (s *Service) commitAddress(gen uint64, st AddressState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.metrics.StaleResultsDiscarded.WithLabelValues("address").Inc()
		return
	}
	s.current.Address = st
}

func (s *Service) commitElevation(gen uint64, st ElevationState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.metrics.StaleResultsDiscarded.WithLabelValues("elevation").Inc()
		return
	}
	s.current.Elevation = st
}

// FallbackElevation is the deterministic elevation shown when no provider
// is configured.
const FallbackElevation = 0

// FallbackAddress is the deterministic address shown when no geocoding
// credential is configured or the provider has no match.
func FallbackAddress(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}
