package pseudocode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/leofalp/pseudoscribe/core/parse"
)

// TranslationResult holds one runnable translation per target language.
type TranslationResult struct {
	Python     string `json:"python"`
	JavaScript string `json:"javascript"`
	Java       string `json:"java"`
	CSharp     string `json:"csharp"`
	Cpp        string `json:"cpp"`
}

// PerformanceAnalysis is the complexity review of a piece of pseudocode.
type PerformanceAnalysis struct {
	TimeComplexity         string         `json:"timeComplexity"`
	SpaceComplexity        string         `json:"spaceComplexity"`
	Rating                 Rating         `json:"rating"`
	RatingText             string         `json:"ratingText"`
	Optimizations          []Optimization `json:"optimizations"`
	AlternativeCode        string         `json:"alternativeCode,omitempty"`
	AlternativeDescription string         `json:"alternativeDescription,omitempty"`
	TLDRSummary            string         `json:"tldrSummary"`
}

// Optimization is one improvement suggestion. Color is a display hint
// ("green", "blue", "purple").
type Optimization struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Rating is the 1-5 star performance score. Models sometimes quote it, so it
// decodes from either a JSON number or a numeric string.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("rating %q is not a number", s)
		}
		*r = Rating(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Rating(f)
	return nil
}

// Stars returns the rating rounded and clamped to 1..5.
func (r Rating) Stars() int {
	stars := int(float64(r) + 0.5)
	switch {
	case stars < 1:
		return 1
	case stars > 5:
		return 5
	}
	return stars
}

// TranslationSchema requires every target language.
var TranslationSchema = parse.Strings("python", "javascript", "java", "csharp", "cpp")

// AnalysisSchema requires the fields a usable analysis cannot do without.
// alternativeCode and alternativeDescription are optional.
var AnalysisSchema = parse.Schema{
	{Name: "timeComplexity", Kind: parse.KindString},
	{Name: "spaceComplexity", Kind: parse.KindString},
	{Name: "rating", Kind: parse.KindNumber},
	{Name: "ratingText", Kind: parse.KindString},
	{Name: "optimizations", Kind: parse.KindRecords},
	{Name: "tldrSummary", Kind: parse.KindString},
}
