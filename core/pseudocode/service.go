package pseudocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/leofalp/pseudoscribe/core/middleware"
	"github.com/leofalp/pseudoscribe/core/parse"
	"github.com/leofalp/pseudoscribe/providers/ai"
	"github.com/leofalp/pseudoscribe/providers/observability"
)

// Outcome is a decoded result together with how it was obtained.
type Outcome[T any] struct {
	Value     T
	RequestID string

	// Tier is the recovery tier that produced Value; Tiers lists every tier
	// that ran.
	Tier  parse.Tier
	Tiers []parse.Tier
	Usage *ai.Usage

	// Truncated reports that the model hit its output limit, so Value came
	// from a cut-off reply.
	Truncated bool
}

// Report is the result of TranslateAndAnalyze.
type Report struct {
	Translation *Outcome[TranslationResult]
	Analysis    *Outcome[PerformanceAnalysis]

	// Usage sums the token usage of both requests.
	Usage ai.Usage
}

// Option configures a Service.
type Option func(*Service)

// WithModel sets the model name sent with every request. Empty means the
// provider's default.
func WithModel(model string) Option {
	return func(s *Service) {
		s.model = model
	}
}

// WithJSONMode asks the provider for a JSON response body. Replies still go
// through full recovery.
func WithJSONMode(enabled bool) Option {
	return func(s *Service) {
		s.jsonMode = enabled
	}
}

// WithGenerationConfig sets sampling parameters sent with every request.
// Nil leaves them to the provider.
func WithGenerationConfig(cfg *ai.GenerationConfig) Option {
	return func(s *Service) {
		s.generation = cfg
	}
}

// WithRequestsPerMinute paces outgoing requests client-side. Zero or a
// negative value disables pacing. Requests are never retried.
func WithRequestsPerMinute(rpm int) Option {
	return func(s *Service) {
		if rpm <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), min(rpm, 2))
	}
}

// WithPipeline replaces the recovery pipeline, e.g. to enable the lenient tier.
func WithPipeline(pipeline *parse.Pipeline) Option {
	return func(s *Service) {
		s.pipeline = pipeline
	}
}

// WithObserver sets the observability provider. Without it, the one found in
// the request context (if any) is used.
func WithObserver(observer observability.Provider) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

// WithMiddleware wraps every model call, outermost first.
func WithMiddleware(middlewares ...middleware.Middleware) Option {
	return func(s *Service) {
		s.middlewares = append(s.middlewares, middlewares...)
	}
}

// Service turns pseudocode into translations and performance analyses by
// prompting a model and recovering its structured reply. A Service is safe
// for concurrent use.
type Service struct {
	provider    ai.Provider
	send        middleware.SendFunc
	middlewares []middleware.Middleware
	pipeline    *parse.Pipeline
	limiter     *rate.Limiter
	observer    observability.Provider
	generation  *ai.GenerationConfig
	model       string
	jsonMode    bool
}

// New creates a Service sending requests through provider.
func New(provider ai.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		pipeline: parse.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.send = middleware.Chain(provider, s.middlewares...)
	return s
}

// Translate converts pseudocode into Python, JavaScript, Java, C# and C++.
func (s *Service) Translate(ctx context.Context, pseudocode string) (*Outcome[TranslationResult], error) {
	return run[TranslationResult](ctx, s, OpTranslate, TranslatePrompt, TranslationSchema, pseudocode)
}

// AnalyzePerformance estimates the complexity of pseudocode and suggests
// optimizations.
func (s *Service) AnalyzePerformance(ctx context.Context, pseudocode string) (*Outcome[PerformanceAnalysis], error) {
	return run[PerformanceAnalysis](ctx, s, OpAnalyze, AnalyzePrompt, AnalysisSchema, pseudocode)
}

// TranslateAndAnalyze runs both requests concurrently. The first failure
// cancels the other request and is returned.
func (s *Service) TranslateAndAnalyze(ctx context.Context, pseudocode string) (*Report, error) {
	if strings.TrimSpace(pseudocode) == "" {
		return nil, ErrEmptyPseudocode
	}

	report := &Report{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.Translate(gctx, pseudocode)
		report.Translation = out
		return err
	})
	g.Go(func() error {
		out, err := s.AnalyzePerformance(gctx, pseudocode)
		report.Analysis = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Usage.Add(report.Translation.Usage)
	report.Usage.Add(report.Analysis.Usage)
	return report, nil
}

func run[T any](ctx context.Context, s *Service, op Operation, prompt func(string) Prompt, schema parse.Schema, pseudocode string) (*Outcome[T], error) {
	if strings.TrimSpace(pseudocode) == "" {
		return nil, ErrEmptyPseudocode
	}

	requestID := uuid.NewString()
	observer := s.observer
	if observer == nil {
		observer = observability.ObserverFromContext(ctx)
	}
	if observer != nil {
		ctx = observability.ContextWithObserver(ctx, observer)
		var span observability.Span
		ctx, span = observer.StartSpan(ctx, spanName(op),
			observability.String(observability.AttrRequestID, requestID),
			observability.String(observability.AttrRequestKind, string(op)),
			observability.Int(observability.AttrRequestPseudocodeSize, len(pseudocode)),
		)
		defer span.End()
	}

	fail := func(err error) (*Outcome[T], error) {
		reqErr := &RequestError{Op: op, RequestID: requestID, Err: err}
		if observer != nil {
			observer.Error(ctx, "pseudocode request failed",
				observability.String(observability.AttrRequestID, requestID),
				observability.String(observability.AttrRequestKind, string(op)),
				observability.Error(err),
			)
			if span := observability.SpanFromContext(ctx); span != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, err.Error())
			}
		}
		return nil, reqErr
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrProviderCall, err))
		}
	}

	p := prompt(pseudocode)
	request := ai.ChatRequest{
		Model:            s.model,
		SystemPrompt:     p.System,
		Messages:         []ai.Message{{Role: ai.RoleUser, Content: p.User}},
		GenerationConfig: s.generation,
	}
	if s.jsonMode {
		request.ResponseFormat = &ai.ResponseFormat{Type: ai.ResponseFormatJSONObject}
	}

	response, err := s.send(ctx, request)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrProviderCall, err))
	}

	truncated := response.FinishReason == ai.FinishReasonLength
	if truncated && observer != nil {
		observer.Warn(ctx, "model reply truncated before recovery",
			observability.String(observability.AttrRequestID, requestID),
			observability.String(observability.AttrRequestKind, string(op)),
			observability.Int(observability.AttrRecoveryInputSize, len(response.Content)),
		)
		if span := observability.SpanFromContext(ctx); span != nil {
			span.SetAttributes(observability.Bool(observability.AttrLLMTruncated, true))
		}
	}

	value, result, err := parse.RecoverAs[T](ctx, s.pipeline, response.Content, schema)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrParseResponse, err))
	}

	if observer != nil {
		observer.Info(ctx, "pseudocode request completed",
			observability.String(observability.AttrRequestID, requestID),
			observability.String(observability.AttrRequestKind, string(op)),
			observability.String(observability.AttrRecoveryTier, string(result.Tier)),
		)
		if span := observability.SpanFromContext(ctx); span != nil {
			span.SetStatus(observability.StatusOK, "")
		}
	}

	return &Outcome[T]{
		Value:     value,
		RequestID: requestID,
		Tier:      result.Tier,
		Tiers:     result.TiersAttempted(),
		Usage:     response.Usage,
		Truncated: truncated,
	}, nil
}

func spanName(op Operation) string {
	if op == OpAnalyze {
		return observability.SpanAnalyze
	}
	return observability.SpanTranslate
}
