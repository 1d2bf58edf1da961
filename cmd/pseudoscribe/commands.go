package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leofalp/pseudoscribe/core/middleware"
	"github.com/leofalp/pseudoscribe/core/parse"
	"github.com/leofalp/pseudoscribe/core/pseudocode"
	"github.com/leofalp/pseudoscribe/internal/config"
	"github.com/leofalp/pseudoscribe/internal/source"
	"github.com/leofalp/pseudoscribe/internal/utils"
	"github.com/leofalp/pseudoscribe/providers/ai"
	"github.com/leofalp/pseudoscribe/providers/ai/gemini"
	"github.com/leofalp/pseudoscribe/providers/observability"
	"github.com/leofalp/pseudoscribe/providers/observability/slogobs"
)

type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *environment) printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// commonFlags are shared by every command that reads input.
type commonFlags struct {
	configPath string
	lenient    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&c.lenient, "lenient", false, "enable the lenient repair tier")
}

// session is what every command needs once flags and config are loaded.
type session struct {
	cfg      *config.Config
	observer *slogobs.Observer
	level    slog.Level
	ref      string
}

// setup parses args, loads configuration and installs the observer in the
// returned context. A non-negative code means the command should exit with it.
func (e *environment) setup(ctx context.Context, fs *flag.FlagSet, common *commonFlags, args []string) (context.Context, *session, int) {
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ctx, nil, 0
		}
		return ctx, nil, 2
	}

	ref := source.Stdin
	switch fs.NArg() {
	case 0:
	case 1:
		ref = fs.Arg(0)
	default:
		e.printf(e.stderr, "expected one input, got %d\n", fs.NArg())
		return ctx, nil, 2
	}

	cfg, err := config.Load(common.configPath, ".env")
	if err != nil {
		e.printf(e.stderr, "Failed to load config: %v\n", err)
		return ctx, nil, 1
	}
	if common.lenient {
		cfg.Recovery.Lenient = true
	}

	level, _ := slogobs.ParseLevel(cfg.Log.Level)
	observer := slogobs.New(
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)),
		slogobs.WithLevel(level),
		slogobs.WithOutput(e.stderr),
	)
	return observability.ContextWithObserver(ctx, observer), &session{
		cfg:      cfg,
		observer: observer,
		level:    level,
		ref:      ref,
	}, -1
}

func pipelineFor(cfg *config.Config) *parse.Pipeline {
	if cfg.Recovery.Lenient {
		return parse.New(parse.WithLenientRepair())
	}
	return parse.New()
}

func (e *environment) runModel(ctx context.Context, command string, args []string) int {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	var common commonFlags
	common.register(fs)

	ctx, sess, code := e.setup(ctx, fs, &common, args)
	if code >= 0 {
		return code
	}
	cfg := sess.cfg

	doc, err := source.Load(ctx, sess.ref, source.WithStdin(e.stdin), source.WithTimeout(cfg.Provider.Timeout))
	if err != nil {
		e.printf(e.stderr, "Failed to load pseudocode: %v\n", err)
		return 1
	}

	provider := gemini.New().
		WithAPIKey(cfg.Provider.APIKey).
		WithBaseURL(cfg.Provider.BaseURL).
		WithHttpClient(&http.Client{Timeout: cfg.Provider.Timeout})

	service := pseudocode.New(provider,
		pseudocode.WithModel(cfg.Provider.Model),
		pseudocode.WithJSONMode(cfg.Provider.JSONMode),
		pseudocode.WithGenerationConfig(generationConfig(cfg)),
		pseudocode.WithRequestsPerMinute(cfg.Limits.RequestsPerMinute),
		pseudocode.WithPipeline(pipelineFor(cfg)),
		pseudocode.WithMiddleware(
			middleware.NewTimeoutMiddleware(cfg.Provider.Timeout),
			middleware.NewLoggingMiddleware(sess.observer.Logger(), callLogLevel(sess.level)),
		),
	)

	var out any
	switch command {
	case "translate":
		outcome, err := service.Translate(ctx, doc.Text)
		if err != nil {
			return e.fail(ctx, err)
		}
		out = outcomeView(outcome)
	case "analyze":
		outcome, err := service.AnalyzePerformance(ctx, doc.Text)
		if err != nil {
			return e.fail(ctx, err)
		}
		out = analysisView(outcome)
	default:
		report, err := service.TranslateAndAnalyze(ctx, doc.Text)
		if err != nil {
			return e.fail(ctx, err)
		}
		out = reportView{
			Translation: outcomeView(report.Translation),
			Analysis:    analysisView(report.Analysis),
			Usage:       report.Usage,
		}
	}

	e.printf(e.stdout, "%s\n", utils.JSONToString(out, true))
	return 0
}

// generationConfig returns nil when no sampling setting is configured, so the
// model keeps its own defaults.
func generationConfig(cfg *config.Config) *ai.GenerationConfig {
	if cfg.Provider.Temperature == 0 && cfg.Provider.MaxOutputTokens == 0 {
		return nil
	}
	return &ai.GenerationConfig{
		Temperature:     cfg.Provider.Temperature,
		MaxOutputTokens: cfg.Provider.MaxOutputTokens,
	}
}

// callLogLevel logs prompts and replies only when tracing.
func callLogLevel(level slog.Level) middleware.LogLevel {
	if level <= slogobs.LevelTrace {
		return middleware.LogLevelVerbose
	}
	return middleware.LogLevelStandard
}

// fail prints the user-facing message for err and logs the details.
func (e *environment) fail(ctx context.Context, err error) int {
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "command failed", observability.Error(err))
	}
	e.printf(e.stderr, "%s\n", pseudocode.UserMessage(err))
	if errors.Is(err, gemini.ErrMissingAPIKey) {
		e.printf(e.stderr, "Set GEMINI_API_KEY or provider.api_key in the config file.\n")
	}
	return 1
}

type resultView[T any] struct {
	RequestID string       `json:"request_id"`
	Tier      parse.Tier   `json:"tier"`
	Tiers     []parse.Tier `json:"tiers_attempted"`
	Truncated bool         `json:"truncated,omitempty"`
	Stars     int          `json:"stars,omitempty"`
	Result    T            `json:"result"`
	Usage     *ai.Usage    `json:"usage,omitempty"`
}

func outcomeView[T any](o *pseudocode.Outcome[T]) resultView[T] {
	return resultView[T]{
		RequestID: o.RequestID,
		Tier:      o.Tier,
		Tiers:     o.Tiers,
		Truncated: o.Truncated,
		Result:    o.Value,
		Usage:     o.Usage,
	}
}

// analysisView adds the whole-star rating shown to users.
func analysisView(o *pseudocode.Outcome[pseudocode.PerformanceAnalysis]) resultView[pseudocode.PerformanceAnalysis] {
	view := outcomeView(o)
	view.Stars = o.Value.Rating.Stars()
	return view
}

type reportView struct {
	Translation resultView[pseudocode.TranslationResult]   `json:"translation"`
	Analysis    resultView[pseudocode.PerformanceAnalysis] `json:"analysis"`
	Usage       ai.Usage                                   `json:"usage"`
}

type recoverView struct {
	Tier   parse.Tier   `json:"tier"`
	Tiers  []parse.Tier `json:"tiers_attempted"`
	Record parse.Record `json:"record"`
}

func (e *environment) runRecover(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("recover", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	required := fs.String("require", "", "required fields as name:kind pairs, e.g. python:string,rating:number")

	ctx, sess, code := e.setup(ctx, fs, &common, args)
	if code >= 0 {
		return code
	}
	cfg := sess.cfg

	schema, err := parseSchema(*required)
	if err != nil {
		e.printf(e.stderr, "Invalid -require: %v\n", err)
		return 2
	}

	// Saved model output is read verbatim; HTML conversion would mangle it.
	raw, err := source.LoadRaw(ctx, sess.ref, source.WithStdin(e.stdin))
	if err != nil {
		e.printf(e.stderr, "Failed to read model output: %v\n", err)
		return 1
	}

	result, err := pipelineFor(cfg).Recover(ctx, raw, schema)
	if err != nil {
		e.printf(e.stderr, "%v\n", err)
		return 1
	}

	e.printf(e.stdout, "%s\n", utils.JSONToString(recoverView{
		Tier:   result.Tier,
		Tiers:  result.TiersAttempted(),
		Record: result.Record,
	}, true))
	return 0
}

// parseSchema turns "python:string,rating:number" into a Schema. A name
// without a kind is a string field.
func parseSchema(spec string) (parse.Schema, error) {
	var schema parse.Schema
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, kindName, found := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("empty field name in %q", item)
		}
		kind := parse.KindString
		if found {
			k, err := parse.ParseKind(kindName)
			if err != nil {
				return nil, err
			}
			kind = k
		}
		schema = append(schema, parse.Field{Name: name, Kind: kind})
	}
	return schema, nil
}
