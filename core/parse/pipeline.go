package parse

import (
	"context"
	"errors"

	"github.com/leofalp/pseudoscribe/internal/utils"
	"github.com/leofalp/pseudoscribe/providers/observability"
)

// Tier names one strategy of the recovery cascade.
type Tier string

const (
	TierStrict     Tier = "strict"
	TierHeuristic  Tier = "heuristic"
	TierLenient    Tier = "lenient"
	TierAggressive Tier = "aggressive"
)

// Attempt is the outcome of one tier: the text it parsed and, when it
// failed, why. Attempts exist for diagnostics only.
type Attempt struct {
	Tier Tier
	Text string
	Err  error
}

// Result is a successful recovery.
type Result struct {
	// Record is owned by the caller.
	Record Record

	// Tier is the tier that produced Record.
	Tier Tier

	// Attempts lists every tier that ran, in order; the last one succeeded.
	Attempts []Attempt
}

// TiersAttempted returns the tiers that ran, in order.
func (r *Result) TiersAttempted() []Tier {
	return tiersOf(r.Attempts)
}

// strategy is one tier of the cascade. run returns the record, the text it
// actually parsed, and a *RecoveryError on failure.
type strategy struct {
	tier Tier
	run  func(span string) (Record, string, error)
}

var (
	strictStrategy = strategy{tier: TierStrict, run: func(span string) (Record, string, error) {
		rec, err := ParseStrict(span)
		return rec, span, err
	}}
	heuristicStrategy  = strategy{tier: TierHeuristic, run: ParseHeuristic}
	lenientStrategy    = strategy{tier: TierLenient, run: ParseLenient}
	aggressiveStrategy = strategy{tier: TierAggressive, run: func(span string) (Record, string, error) {
		rec, err := Reconstruct(span)
		return rec, span, err
	}}
)

// firstSuccess runs strategies in order against the same span and stops at
// the first one that returns a record. It returns every attempt made and, if
// none succeeded, the last failure.
func firstSuccess(span string, strategies []strategy) (Record, []Attempt, error) {
	attempts := make([]Attempt, 0, len(strategies))
	var lastErr error
	for _, s := range strategies {
		rec, text, err := s.run(span)
		attempts = append(attempts, Attempt{Tier: s.tier, Text: text, Err: err})
		if err == nil {
			return rec, attempts, nil
		}
		lastErr = err
	}
	return nil, attempts, lastErr
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	lenient  bool
	observer observability.Provider
}

// WithLenientRepair inserts the jsonrepair-based tier between the heuristic
// and aggressive tiers. It recovers inputs with unquoted keys or missing
// commas that would otherwise fall through to the flat reconstruction.
func WithLenientRepair() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithObserver sets the observability provider used for logs and metrics.
// Without it, the provider found in the Recover context (if any) is used.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Pipeline recovers records from model output. A Pipeline holds only
// immutable configuration and is safe for concurrent use.
type Pipeline struct {
	strategies []strategy
	observer   observability.Provider
}

// New builds a Pipeline running strict, heuristic and aggressive tiers, in
// that order, plus any tiers enabled by opts.
func New(opts ...Option) *Pipeline {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	strategies := []strategy{strictStrategy, heuristicStrategy}
	if cfg.lenient {
		strategies = append(strategies, lenientStrategy)
	}
	strategies = append(strategies, aggressiveStrategy)

	return &Pipeline{strategies: strategies, observer: cfg.observer}
}

// Tiers returns the tiers this pipeline runs, in order.
func (p *Pipeline) Tiers() []Tier {
	tiers := make([]Tier, len(p.strategies))
	for i, s := range p.strategies {
		tiers[i] = s.tier
	}
	return tiers
}

var defaultPipeline = New()

// Recover runs the default three-tier pipeline over raw and validates the
// result against schema.
func Recover(raw string, schema Schema) (*Result, error) {
	return defaultPipeline.Recover(context.Background(), raw, schema)
}

// Recover strips fences from raw, locates the candidate object and runs the
// tiers until one yields a record, which is then validated against schema.
// ctx is only consulted for the observer and span; Recover never blocks.
//
// The returned error is always a *RecoveryError. When no '{' exists, no tier
// runs and the error has kind NoJSONFound with no tiers attempted.
func (p *Pipeline) Recover(ctx context.Context, raw string, schema Schema) (*Result, error) {
	observer := p.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	timer := utils.NewTimer()

	if observer != nil {
		var span observability.Span
		ctx, span = observer.StartSpan(ctx, observability.SpanRecovery,
			observability.Int(observability.AttrRecoveryInputSize, len(raw)),
		)
		defer span.End()
	}

	candidate, err := LocateObject(StripFences(raw))
	if err != nil {
		var recErr *RecoveryError
		errors.As(err, &recErr)
		p.reportFailure(ctx, observer, timer, recErr)
		return nil, recErr
	}

	rec, attempts, err := firstSuccess(candidate, p.strategies)
	p.reportAttempts(ctx, observer, attempts)
	if err != nil {
		var recErr *RecoveryError
		if !errors.As(err, &recErr) {
			recErr = newRecoveryError(ReconstructionFailed, candidate, err)
		}
		recErr.Tiers = tiersOf(attempts)
		recErr.Attempts = attempts
		p.reportFailure(ctx, observer, timer, recErr)
		return nil, recErr
	}

	winner := attempts[len(attempts)-1]
	if err := schema.Validate(rec); err != nil {
		var recErr *RecoveryError
		errors.As(err, &recErr)
		recErr.Tiers = tiersOf(attempts)
		recErr.Attempts = attempts
		recErr.Text = winner.Text
		p.reportFailure(ctx, observer, timer, recErr)
		return nil, recErr
	}

	p.reportSuccess(ctx, observer, timer, winner.Tier, attempts)
	return &Result{Record: rec, Tier: winner.Tier, Attempts: attempts}, nil
}

// Values of observability.AttrRecoveryOutcome.
const (
	outcomeRecovered = "recovered"
	outcomeFailed    = "failed"
)

func (p *Pipeline) reportAttempts(ctx context.Context, observer observability.Provider, attempts []Attempt) {
	if observer == nil {
		return
	}
	span := observability.SpanFromContext(ctx)
	for _, a := range attempts {
		if a.Err == nil {
			continue
		}
		observer.Debug(ctx, "recovery tier failed",
			observability.String(observability.AttrRecoveryTier, string(a.Tier)),
			observability.Error(a.Err),
			observability.String(observability.AttrRecoveryText, utils.TruncateStringDefault(a.Text)),
		)
		if span != nil {
			span.AddEvent(observability.EventTierFailed,
				observability.String(observability.AttrRecoveryTier, string(a.Tier)),
			)
		}
	}
}

func (p *Pipeline) reportSuccess(ctx context.Context, observer observability.Provider, timer *utils.Timer, tier Tier, attempts []Attempt) {
	if observer == nil {
		return
	}
	timer.Stop()
	elapsed := timer.GetDuration()

	observer.Debug(ctx, "recovered structured response",
		observability.String(observability.AttrRecoveryTier, string(tier)),
		observability.Strings(observability.AttrRecoveryTiersAttempted, tierNames(tiersOf(attempts))),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	observer.Counter(observability.MetricRecoveryRuns).Add(ctx, 1,
		observability.String(observability.AttrRecoveryOutcome, outcomeRecovered),
		observability.String(observability.AttrRecoveryTier, string(tier)),
	)
	observer.Histogram(observability.MetricRecoveryDuration).Record(ctx, float64(elapsed.Microseconds())/1000)

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(observability.String(observability.AttrRecoveryTier, string(tier)))
		span.SetStatus(observability.StatusOK, "")
	}
}

func (p *Pipeline) reportFailure(ctx context.Context, observer observability.Provider, timer *utils.Timer, recErr *RecoveryError) {
	if observer == nil {
		return
	}
	timer.Stop()
	elapsed := timer.GetDuration()

	attrs := []observability.Attribute{
		observability.String(observability.AttrRecoveryFailureKind, string(recErr.Kind)),
		observability.Strings(observability.AttrRecoveryTiersAttempted, tierNames(recErr.Tiers)),
		observability.Duration(observability.AttrDuration, elapsed),
	}
	if recErr.Field != "" {
		attrs = append(attrs, observability.String(observability.AttrRecoveryField, recErr.Field))
	}
	observer.Warn(ctx, "structured response recovery failed", attrs...)
	observer.Counter(observability.MetricRecoveryRuns).Add(ctx, 1,
		observability.String(observability.AttrRecoveryOutcome, outcomeFailed),
	)
	observer.Counter(observability.MetricRecoveryFailures).Add(ctx, 1,
		observability.String(observability.AttrRecoveryFailureKind, string(recErr.Kind)),
	)
	observer.Histogram(observability.MetricRecoveryDuration).Record(ctx, float64(elapsed.Microseconds())/1000)

	if span := observability.SpanFromContext(ctx); span != nil {
		span.RecordError(recErr)
		span.SetStatus(observability.StatusError, string(recErr.Kind))
	}
}

func tiersOf(attempts []Attempt) []Tier {
	tiers := make([]Tier, len(attempts))
	for i, a := range attempts {
		tiers[i] = a.Tier
	}
	return tiers
}

func tierNames(tiers []Tier) []string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = string(t)
	}
	return names
}

func joinTiers(tiers []Tier) string {
	out := ""
	for i, t := range tiers {
		if i > 0 {
			out += " -> "
		}
		out += string(t)
	}
	return out
}
