// Package session glues the selection machine, parameter store, layer
// store, enrichment service, and scoring client into one console session.
// It is the single owner of mutable assessment state; the rendering
// collaborator reads snapshots and calls mutators, nothing more.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/georisk-console/internal/domain"
	"github.com/couchcryptid/georisk-console/internal/enrichment"
	"github.com/couchcryptid/georisk-console/internal/observability"
)

// Calculator submits factor inputs to the scoring backend.
type Calculator interface {
	CalculateRisk(ctx context.Context, in domain.RiskFactorInputs) (domain.RiskCalculationResult, error)
}

// HealthChecker probes the scoring backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// AuditPublisher records completed assessments on the audit stream.
type AuditPublisher interface {
	Publish(ctx context.Context, rec domain.AssessmentRecord) error
}

// auditTimeout bounds the fire-and-forget audit publish.
const auditTimeout = 5 * time.Second

// Session is one operator's assessment session.
type Session struct {
	id         string
	calculator Calculator
	health     HealthChecker
	audit      AuditPublisher // nil when the audit stream is disabled
	enrichment *enrichment.Service
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics

	// fencing rejects a response from an older calculate call once a newer
	// call's response has been applied. Off by default: the displayed
	// result is then whichever response arrives last regardless of send
	// order.
	fencing bool

	mu          sync.Mutex
	selection   domain.AreaSelection
	params      domain.ScenarioParameters
	layers      domain.LayerVisibility
	location    domain.MapLocation
	result      *domain.RiskCalculationResult
	calcSeq     uint64
	appliedSeq  uint64
	calcsInWork int
}

// Options configures optional session collaborators.
type Options struct {
	Health  HealthChecker
	Audit   AuditPublisher
	Fencing bool
}

// New creates a session with default state.
func New(
	calculator Calculator,
	enrich *enrichment.Service,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
	opts Options,
) *Session {
	return &Session{
		id:         uuid.NewString(),
		calculator: calculator,
		health:     opts.Health,
		audit:      opts.Audit,
		enrichment: enrich,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		fencing:    opts.Fencing,
		selection:  domain.NewAreaSelection(),
		params:     domain.DefaultScenarioParameters(),
		layers:     domain.DefaultLayerVisibility(),
	}
}

// ID returns the session identifier used on audit records.
func (s *Session) ID() string {
	return s.id
}

// SetMode arms or disarms area selection.
func (s *Session) SetMode(value string) error {
	mode, err := domain.ParseSelectionMode(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection.SetMode(mode)
	return nil
}

// HandleMapClick consumes one click from the rendering collaborator.
func (s *Session) HandleMapClick(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection.HandleMapClick(lat, lng)
}

// SetLocation records a pan/zoom and schedules enrichment for the new
// center. The mutex stays held across the enrichment call so the session
// location and the enrichment generation always advance in the same order;
// the enrichment service never locks back into the session, so there is no
// cycle.
func (s *Session) SetLocation(loc domain.MapLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = loc
	s.enrichment.SetLocation(loc)
}

// SetParameter clamps and stores one scenario input.
func (s *Session) SetParameter(field string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := s.params.Set(domain.ScenarioField(field), value)
	if err != nil {
		return err
	}
	s.params = params
	return nil
}

// ToggleLayer flips one overlay flag.
func (s *Session) ToggleLayer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers, err := s.layers.Toggle(domain.Layer(name))
	if err != nil {
		return err
	}
	s.layers = layers
	return nil
}

// Calculate submits the (defensively clamped) inputs to the scoring
// backend and applies the response to the displayed result. Concurrent
// calls are permitted: without fencing the displayed result is the
// last-received response, with fencing responses older than the applied
// one are discarded.
func (s *Session) Calculate(ctx context.Context, in domain.RiskFactorInputs) (domain.RiskCalculationResult, error) {
	in = in.Clamped()

	s.mu.Lock()
	s.calcSeq++
	seq := s.calcSeq
	s.calcsInWork++
	s.mu.Unlock()

	result, err := s.calculator.CalculateRisk(ctx, in)

	s.mu.Lock()
	s.calcsInWork--
	if err != nil {
		s.mu.Unlock()
		s.metrics.RiskErrors.Inc()
		return domain.RiskCalculationResult{}, err
	}

	if s.fencing && seq < s.appliedSeq {
		s.mu.Unlock()
		s.metrics.StaleResultsDiscarded.WithLabelValues("risk").Inc()
		s.logger.Debug("discarded risk response from superseded call", "seq", seq)
		return result, nil
	}
	s.appliedSeq = seq
	s.result = &result
	s.mu.Unlock()

	s.metrics.RiskCalculations.Inc()
	if !result.GatePassed {
		s.metrics.GateFailures.Inc()
	}

	s.publishAudit(in, result)
	return result, nil
}

// publishAudit records the assessment on the audit stream, best effort.
func (s *Session) publishAudit(in domain.RiskFactorInputs, result domain.RiskCalculationResult) {
	if s.audit == nil {
		return
	}

	rec := domain.AssessmentRecord{
		SessionID:  s.id,
		AssessedAt: s.clock.Now().UTC(),
		Inputs:     in,
		Result:     result,
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if err := s.audit.Publish(ctx, rec); err != nil {
		s.metrics.AuditPublishErrors.Inc()
		s.logger.Warn("audit publish failed", "session_id", s.id, "error", err)
		return
	}
	s.metrics.AuditPublished.Inc()
}

// CheckReadiness reports whether the scoring backend is reachable.
func (s *Session) CheckReadiness(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health.Health(ctx)
}

// State is a consistent snapshot of everything the rendering collaborator
// displays.
type State struct {
	SessionID  string                        `json:"session_id"`
	Location   domain.MapLocation            `json:"location"`
	Selection  domain.AreaSelection          `json:"selection"`
	Parameters domain.ScenarioParameters     `json:"parameters"`
	Layers     domain.LayerVisibility        `json:"layers"`
	Enrichment enrichment.Enrichment         `json:"enrichment"`
	Result     *domain.RiskCalculationResult `json:"result,omitempty"`

	// DisplayScore and DisplayLevel are derived from the factor scores on
	// this side, a display fallback kept alongside the backend's R_score
	// and risk_level.
	DisplayScore float64 `json:"display_score,omitempty"`
	DisplayLevel string  `json:"display_level,omitempty"`

	// Qualified mirrors Result.GatePassed == false so a low-confidence
	// result is surfaced distinctly from a plain low score.
	Qualified bool `json:"qualified,omitempty"`

	// Calculating is true while at least one calculate call is in flight.
	Calculating bool `json:"calculating,omitempty"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID:   s.id,
		Location:    s.location,
		Selection:   s.selection,
		Parameters:  s.params,
		Layers:      s.layers,
		Enrichment:  s.enrichment.Current(),
		Calculating: s.calcsInWork > 0,
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
		st.Qualified = !r.GatePassed

		composite := domain.CompositeScore(r.HScore, r.LScore, r.VScore)
		st.DisplayScore = domain.DisplayScore(composite)
		st.DisplayLevel = domain.RiskLevelFor(composite)
	}
	return st
}
