package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/pseudoscribe/core/parse"
)

const translationReply = "Here you go:\n```json\n{\n" +
	`"python": "print(1)", "javascript": "console.log(1)", "java": "System.out.println(1);",` +
	`"csharp": "Console.WriteLine(1);", "cpp": "std::cout << 1;"` +
	"\n}\n```"

const analysisReply = `{"timeComplexity": "O(n)", "spaceComplexity": "O(1)", "rating": 4,
"ratingText": "Good", "optimizations": [{"type": "loop", "description": "cache length", "color": "green"}],
"tldrSummary": "Linear scan."}`

// isolate clears the environment the CLI reads and points it at baseURL.
func isolate(t *testing.T, baseURL string) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_API_BASE_URL", "PSEUDOSCRIBE_MODEL", "PSEUDOSCRIBE_TIMEOUT",
		"PSEUDOSCRIBE_JSON_MODE", "PSEUDOSCRIBE_REQUESTS_PER_MINUTE", "PSEUDOSCRIBE_LENIENT",
		"PSEUDOSCRIBE_LOG_FORMAT", "PSEUDOSCRIBE_TEMPERATURE", "PSEUDOSCRIBE_MAX_OUTPUT_TOKENS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("PSEUDOSCRIBE_LOG_LEVEL", "error")
	if baseURL != "" {
		t.Setenv("GEMINI_API_KEY", "test-key")
		t.Setenv("GEMINI_API_BASE_URL", baseURL)
	}
}

func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		reply := translationReply
		if bytes.Contains(body, []byte("timeComplexity")) {
			reply = analysisReply
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": reply}}},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{"totalTokenCount": 10},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: pseudoscribe")

	code, _, stderr = runCLI(t, "", "explain")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Unknown command: explain")

	code, stdout, _ := runCLI(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "pseudoscribe dev\n", stdout)
}

func TestRunTranslate(t *testing.T) {
	isolate(t, fakeGemini(t).URL)

	code, stdout, stderr := runCLI(t, "SET x TO 1\nPRINT x\n", "translate", "-")
	require.Equal(t, 0, code, stderr)

	var out struct {
		Tier   string            `json:"tier"`
		Tiers  []string          `json:"tiers_attempted"`
		Result map[string]string `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "strict", out.Tier)
	assert.Equal(t, []string{"strict"}, out.Tiers)
	assert.Equal(t, "print(1)", out.Result["python"])
	assert.Equal(t, "std::cout << 1;", out.Result["cpp"])
}

func TestRunAll(t *testing.T) {
	isolate(t, fakeGemini(t).URL)

	code, stdout, stderr := runCLI(t, "FOR i FROM 1 TO n\n  PRINT i\n", "all")
	require.Equal(t, 0, code, stderr)

	var out struct {
		Translation struct {
			Result map[string]string `json:"result"`
		} `json:"translation"`
		Analysis struct {
			Stars  int `json:"stars"`
			Result struct {
				TimeComplexity string  `json:"timeComplexity"`
				Rating         float64 `json:"rating"`
			} `json:"result"`
		} `json:"analysis"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "console.log(1)", out.Translation.Result["javascript"])
	assert.Equal(t, "O(n)", out.Analysis.Result.TimeComplexity)
	assert.Equal(t, 4.0, out.Analysis.Result.Rating)
	assert.Equal(t, 4, out.Analysis.Stars)
	assert.Equal(t, 20, out.Usage.TotalTokens)
}

func TestRunSendsGenerationConfig(t *testing.T) {
	var captured struct {
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			Temperature     float64 `json:"temperature"`
			MaxOutputTokens int     `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": translationReply}}},
				"finishReason": "MAX_TOKENS",
			}},
		})
	}))
	t.Cleanup(server.Close)
	isolate(t, server.URL)
	t.Setenv("PSEUDOSCRIBE_TEMPERATURE", "0.5")
	t.Setenv("PSEUDOSCRIBE_MAX_OUTPUT_TOKENS", "512")

	code, stdout, stderr := runCLI(t, "PRINT 1\n", "translate")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, 0.5, captured.GenerationConfig.Temperature)
	assert.Equal(t, 512, captured.GenerationConfig.MaxOutputTokens)
	require.NotEmpty(t, captured.SystemInstruction.Parts)
	assert.Contains(t, captured.SystemInstruction.Parts[0].Text, "translator")
	require.Len(t, captured.Contents, 1)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "PSEUDOCODE:\nPRINT 1")

	var out struct {
		Truncated bool `json:"truncated"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Truncated)
}

func TestRunModelFailures(t *testing.T) {
	t.Run("empty pseudocode", func(t *testing.T) {
		isolate(t, fakeGemini(t).URL)
		code, stdout, stderr := runCLI(t, "   \n", "translate")
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Please enter some pseudocode first.")
	})

	t.Run("missing api key", func(t *testing.T) {
		isolate(t, "")
		code, _, stderr := runCLI(t, "PRINT 1", "analyze")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Failed to analyze performance.")
		assert.Contains(t, stderr, "Set GEMINI_API_KEY")
	})

	t.Run("missing input file", func(t *testing.T) {
		isolate(t, fakeGemini(t).URL)
		code, _, stderr := runCLI(t, "", "translate", filepath.Join(t.TempDir(), "nope.txt"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Failed to load pseudocode")
	})

	t.Run("invalid config", func(t *testing.T) {
		isolate(t, "")
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600))
		code, _, stderr := runCLI(t, "PRINT 1", "translate", "-config", path)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Failed to load config")
	})
}

func TestRunRecover(t *testing.T) {
	isolate(t, "")
	saved := filepath.Join(t.TempDir(), "reply.txt")
	require.NoError(t, os.WriteFile(saved, []byte("```json\n{\"python\": \"print(\"hi\")\n\", \"rating\": \"3\",}\n```"), 0o600))

	code, stdout, stderr := runCLI(t, "", "recover", "-require", "python:string,rating:number", saved)
	require.Equal(t, 0, code, stderr)

	var out struct {
		Tier   string         `json:"tier"`
		Tiers  []string       `json:"tiers_attempted"`
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "aggressive", out.Tier)
	assert.Equal(t, []string{"strict", "heuristic", "aggressive"}, out.Tiers)
	assert.Equal(t, "print(", out.Record["python"])
	assert.Equal(t, "3", out.Record["rating"])
}

func TestRunRecoverFailures(t *testing.T) {
	isolate(t, "")

	code, _, stderr := runCLI(t, "no json here", "recover")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no JSON object found")

	code, _, stderr = runCLI(t, `{"python": "print(1)"}`, "recover", "-require", "python,java")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `missing required field "java"`)

	code, _, stderr = runCLI(t, `{}`, "recover", "-require", "x:matrix")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Invalid -require")
}

func TestParseSchema(t *testing.T) {
	testCases := []struct {
		name    string
		spec    string
		want    parse.Schema
		wantErr bool
	}{
		{name: "empty", spec: "", want: nil},
		{name: "bare names", spec: "python, java", want: parse.Strings("python", "java")},
		{
			name: "kinds",
			spec: "rating:number,optimizations:records,tldrSummary:string",
			want: parse.Schema{
				{Name: "rating", Kind: parse.KindNumber},
				{Name: "optimizations", Kind: parse.KindRecords},
				{Name: "tldrSummary", Kind: parse.KindString},
			},
		},
		{name: "unknown kind", spec: "x:matrix", wantErr: true},
		{name: "empty name", spec: ":string", wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := parseSchema(testCase.spec)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}
