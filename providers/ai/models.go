package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is a single-turn or multi-turn request to a model.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`
	Messages         []Message         `json:"messages"`
	SystemPrompt     string            `json:"system_prompt,omitempty"`
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

type GenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`       // Sampling temperature [0..2]
	TopP            float32 `json:"top_p,omitempty"`             // Nucleus sampling [0..1]
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"` // Cap on generated tokens
}

// ResponseFormat asks the provider to constrain its output. Only the JSON
// object mode is used: model output is still recovered defensively, since
// providers honour the hint unevenly.
type ResponseFormat struct {
	Type string `json:"type,omitempty"` // "text" or "json_object"
}

const (
	ResponseFormatText       = "text"
	ResponseFormatJSONObject = "json_object"
)

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse is the provider-neutral form of a model reply.
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	// Refusal carries the provider's block reason when the prompt was rejected.
	Refusal string `json:"refusal,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Finish reasons shared by all providers.
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
	FinishReasonError         = "error"
)
