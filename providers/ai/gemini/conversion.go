package gemini

import (
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/pseudoscribe/internal/utils"
	"github.com/leofalp/pseudoscribe/providers/ai"
)

// requestToGemini converts an ai.ChatRequest to a generateContent body.
// Assistant turns become "model" turns; system messages inside Messages are
// folded into the system instruction after SystemPrompt.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	req := generateContentRequest{}

	var system []part
	if request.SystemPrompt != "" {
		system = append(system, part{Text: request.SystemPrompt})
	}

	for _, msg := range request.Messages {
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, part{Text: msg.Content})
		case ai.RoleAssistant:
			req.Contents = append(req.Contents, content{Role: "model", Parts: []part{{Text: msg.Content}}})
		default:
			req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: msg.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &systemInstruction{Parts: system}
	}

	req.GenerationConfig = buildGenerationConfig(request.GenerationConfig, request.ResponseFormat)
	return req
}

func buildGenerationConfig(cfg *ai.GenerationConfig, respFmt *ai.ResponseFormat) *generationConfig {
	jsonMode := respFmt != nil && respFmt.Type == ai.ResponseFormatJSONObject
	if cfg == nil && !jsonMode {
		return nil
	}

	gc := &generationConfig{}
	if cfg != nil {
		if cfg.Temperature > 0 {
			gc.Temperature = utils.Ptr(float64(cfg.Temperature))
		}
		if cfg.TopP > 0 {
			gc.TopP = utils.Ptr(float64(cfg.TopP))
		}
		if cfg.MaxOutputTokens > 0 {
			gc.MaxOutputTokens = utils.Ptr(cfg.MaxOutputTokens)
		}
	}
	if jsonMode {
		gc.ResponseMimeType = "application/json"
	}
	return gc
}

// geminiToGeneric maps the first candidate of resp to an ai.ChatResponse.
// Thought parts are dropped and text parts are concatenated in order.
func geminiToGeneric(resp generateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ResponseID,
		Model: resp.ModelVersion,
	}
	if result.Id == "" {
		result.Id = fmt.Sprintf("gemini-%d", time.Now().UnixNano())
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		result.FinishReason = ai.FinishReasonError
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = ai.FinishReasonContentFilter
			result.Refusal = resp.PromptFeedback.BlockReason
		}
		return result
	}

	candidate := resp.Candidates[0]
	result.FinishReason = mapFinishReason(candidate.FinishReason)

	if candidate.Content != nil {
		var text strings.Builder
		for _, p := range candidate.Content.Parts {
			if p.Thought {
				continue
			}
			text.WriteString(p.Text)
		}
		result.Content = text.String()
	}

	return result
}

func mapFinishReason(geminiReason string) string {
	switch geminiReason {
	case "MAX_TOKENS":
		return ai.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return ai.FinishReasonContentFilter
	default:
		return ai.FinishReasonStop
	}
}
