package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/tidwall/gjson"

	"github.com/leofalp/pseudoscribe/internal/utils"
	"github.com/leofalp/pseudoscribe/providers/ai"
	"github.com/leofalp/pseudoscribe/providers/observability"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash-exp"
)

// ErrMissingAPIKey is returned by SendMessage when no API key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// APIError is a non-2xx reply from the Gemini API.
type APIError struct {
	StatusCode int
	Status     string // e.g. "RESOURCE_EXHAUSTED"
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini API error %d: %s", e.StatusCode, e.Message)
}

// GeminiProvider implements ai.Provider for Google's Gemini API.
type GeminiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*GeminiProvider)(nil)

// New creates a provider configured from the environment:
//   - GEMINI_API_KEY: API key for authentication
//   - GEMINI_API_BASE_URL: optional base URL override
func New() *GeminiProvider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiProvider{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (p *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL. An empty value is ignored.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	if baseURL != "" {
		p.baseURL = baseURL
	}
	return p
}

func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage calls generateContent and returns the first candidate's text.
func (p *GeminiProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	model := request.Model
	if model == "" {
		model = DefaultModel
	}

	observer := observability.ObserverFromContext(ctx)
	if observer != nil {
		var span observability.Span
		ctx, span = observer.StartSpan(ctx, observability.SpanLLMRequest,
			observability.String(observability.AttrLLMProvider, "gemini"),
			observability.String(observability.AttrLLMModel, model),
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
		)
		defer span.End()
		observer.Counter(observability.MetricLLMRequests).Add(ctx, 1,
			observability.String(observability.AttrLLMModel, model),
		)
	}
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
	}

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	httpResponse, resp, err := utils.DoPostSync[generateContentResponse](
		ctx,
		p.client,
		url,
		"", // Gemini authenticates with its own header, not Bearer
		requestToGemini(request),
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey},
	)
	if err != nil {
		err = apiError(err)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "request failed")
		}
		if observer != nil {
			observer.Debug(ctx, "gemini request failed", observability.Error(err))
		}
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response from Gemini API: %s", httpResponse.Status)
	}

	result := geminiToGeneric(*resp)
	if result.Model == "" {
		result.Model = model
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
			observability.Int(observability.AttrHTTPStatusCode, httpResponse.StatusCode),
		)
		if result.Usage != nil {
			span.AddEvent(observability.EventTokensReceived,
				observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
			)
		}
		span.AddEvent(observability.EventLLMRequestEnd)
		span.SetStatus(observability.StatusOK, "")
	}

	return result, nil
}

// apiError turns a non-2xx transport error into an *APIError, reading the
// Google error envelope {"error":{"code","message","status"}} when present.
func apiError(err error) error {
	var httpErr *utils.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	apiErr := &APIError{StatusCode: httpErr.StatusCode}
	body := gjson.ParseBytes(httpErr.Body)
	if msg := body.Get("error.message"); msg.Exists() {
		apiErr.Message = msg.String()
		apiErr.Status = body.Get("error.status").String()
	} else {
		apiErr.Message = utils.TruncateStringDefault(string(httpErr.Body))
	}
	return apiErr
}
