package pseudocode

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/pseudoscribe/core/parse"
)

func TestRatingUnmarshal(t *testing.T) {
	testCases := []struct {
		in      string
		want    Rating
		wantErr bool
	}{
		{in: `4`, want: 4},
		{in: `4.5`, want: 4.5},
		{in: `"3"`, want: 3},
		{in: `" 2 "`, want: 2},
		{in: `"four"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.in, func(t *testing.T) {
			var r Rating
			err := json.Unmarshal([]byte(testCase.in), &r)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, r)
		})
	}
}

func TestRatingStars(t *testing.T) {
	assert.Equal(t, 1, Rating(0).Stars())
	assert.Equal(t, 4, Rating(3.5).Stars())
	assert.Equal(t, 5, Rating(9).Stars())
}

func TestSchemasMatchDecodedTypes(t *testing.T) {
	rec := parse.Record{
		"timeComplexity":  "O(n log n)",
		"spaceComplexity": "O(n)",
		"rating":          3.0,
		"ratingText":      "Good",
		"optimizations":   []parse.Record{{"type": "Scalability", "description": "d", "color": "purple"}},
		"tldrSummary":     "Sorting dominates.",
	}
	require.NoError(t, AnalysisSchema.Validate(rec))

	analysis, err := parse.Decode[PerformanceAnalysis](rec)
	require.NoError(t, err)
	assert.Equal(t, "O(n log n)", analysis.TimeComplexity)
	assert.Equal(t, []Optimization{{Type: "Scalability", Description: "d", Color: "purple"}}, analysis.Optimizations)

	err = TranslationSchema.Validate(parse.Record{"python": "x", "javascript": "", "java": "x", "csharp": "x", "cpp": "x"})
	assert.ErrorIs(t, err, parse.ErrMissingRequiredField)
}

func TestPrompts(t *testing.T) {
	translate := TranslatePrompt("SET total TO 0")
	assert.Equal(t, "PSEUDOCODE:\nSET total TO 0\n", translate.User)
	assert.Contains(t, translate.System, "keys: python, javascript, java, csharp, cpp")
	assert.NotContains(t, translate.System, "SET total TO 0")

	analyze := AnalyzePrompt("SET total TO 0")
	assert.Equal(t, translate.User, analyze.User)
	assert.True(t, strings.HasPrefix(analyze.System, "You are a performance analysis expert."))
	assert.Contains(t, analyze.System, `"tldrSummary": "Concise 2-3 sentence summary"`)
	assert.True(t, strings.HasSuffix(analyze.System, "Return ONLY the JSON object, no additional text or formatting."))
}
