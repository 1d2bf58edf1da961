// Package gemini implements [ai.Provider] for Google's Gemini generateContent
// endpoint.
//
// [New] reads GEMINI_API_KEY and GEMINI_API_BASE_URL from the environment;
// [GeminiProvider.WithAPIKey], [GeminiProvider.WithBaseURL] and
// [GeminiProvider.WithHttpClient] override them. A json_object response format
// sets responseMimeType to application/json. Non-2xx replies surface as
// [*APIError] carrying Google's error status and message.
package gemini
