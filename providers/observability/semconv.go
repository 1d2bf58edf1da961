package observability

// Semantic conventions for observability attributes, span names, events and
// metrics, shared by every component so log lines stay greppable.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "gemini")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTruncated marks a reply cut off by the output token limit
	AttrLLMTruncated = "llm.response.truncated"

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Recovery Attributes ---

const (
	// AttrRecoveryTier is the tier that produced (or failed to produce) a record
	AttrRecoveryTier = "recovery.tier"

	// AttrRecoveryTiersAttempted is the ordered list of tiers run
	AttrRecoveryTiersAttempted = "recovery.tiers_attempted"

	// AttrRecoveryOutcome is "recovered" or "failed"
	AttrRecoveryOutcome = "recovery.outcome"

	// AttrRecoveryFailureKind is the ErrorKind of a failed recovery
	AttrRecoveryFailureKind = "recovery.failure_kind"

	// AttrRecoveryField is the schema field a validation failure names
	AttrRecoveryField = "recovery.field"

	// AttrRecoveryInputSize is the raw response size in bytes
	AttrRecoveryInputSize = "recovery.input.size"

	// AttrRecoveryText is the (truncated) text of a failed attempt
	AttrRecoveryText = "recovery.text"
)

// --- Request Attributes ---

const (
	// AttrRequestID identifies one translate/analyze request end to end
	AttrRequestID = "request.id"

	// AttrRequestKind is "translate" or "analyze"
	AttrRequestKind = "request.kind"

	// AttrRequestPseudocodeSize is the pseudocode length in bytes
	AttrRequestPseudocodeSize = "request.pseudocode.size"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"

	// SpanRecovery is the span name for one recovery pipeline run
	SpanRecovery = "recovery.run"

	// SpanTranslate and SpanAnalyze wrap a whole service call
	SpanTranslate = "pseudocode.translate"
	SpanAnalyze   = "pseudocode.analyze"
)

// --- Event Names ---

const (
	EventLLMRequestStart = "llm.request.start"
	EventLLMRequestEnd   = "llm.request.end"
	EventTokensReceived  = "llm.tokens.received" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// EventTierFailed is emitted once per failed recovery tier
	EventTierFailed = "recovery.tier.failed"
)

// --- Metric Names ---

const (
	// MetricRecoveryRuns counts every pipeline run, labelled by outcome
	MetricRecoveryRuns = "recovery.runs"

	// MetricRecoveryFailures counts runs that ended in a RecoveryError
	MetricRecoveryFailures = "recovery.failures"

	// MetricRecoveryDuration is the pipeline run time in milliseconds
	MetricRecoveryDuration = "recovery.duration_ms"

	// MetricLLMRequests counts provider calls
	MetricLLMRequests = "llm.requests"
)
