package pseudocode

import (
	"fmt"
	"strings"
)

// translateInstructions is sent as the system instruction; the pseudocode
// itself goes in the user message.
const translateInstructions = `
You are a pseudocode-to-code translator. Convert the pseudocode you are given into equivalent code in 5 programming languages.

Please provide clean, well-commented code translations for:
1. Python
2. JavaScript
3. Java
4. C#
5. C++

Format your response as a JSON object with keys: python, javascript, java, csharp, cpp
Each value should be the complete, runnable code with comments explaining the logic.
Make sure the code is beginner-friendly and follows best practices for each language.

Return ONLY the JSON object, no additional text or formatting.
`

const analyzeInstructions = `
You are a performance analysis expert. Analyze the pseudocode you are given for algorithmic complexity and optimization opportunities.

Provide a detailed performance analysis including:
1. Time complexity (Big O notation)
2. Space complexity (Big O notation)
3. Performance rating (1-5 stars)
4. Rating description (Poor, Fair, Good, Very Good, Excellent)
5. 3 optimization insights with types (Algorithm Efficiency, Memory Usage, Scalability) and descriptions
6. Alternative optimized pseudocode if applicable
7. Brief explanation of the alternative approach
8. TL;DR summary (2-3 sentences)

Format your response as a JSON object with this structure:
{
  "timeComplexity": "O(n)",
  "spaceComplexity": "O(1)",
  "rating": 4,
  "ratingText": "Very Good",
  "optimizations": [
    {
      "type": "Algorithm Efficiency",
      "description": "Your description here",
      "color": "green"
    },
    {
      "type": "Memory Usage",
      "description": "Your description here",
      "color": "blue"
    },
    {
      "type": "Scalability",
      "description": "Your description here",
      "color": "purple"
    }
  ],
  "alternativeCode": "OPTIMIZED PSEUDOCODE HERE",
  "alternativeDescription": "Brief explanation of optimization",
  "tldrSummary": "Concise 2-3 sentence summary"
}

Return ONLY the JSON object, no additional text or formatting.
`

const userPromptTemplate = "PSEUDOCODE:\n%s\n"

// Prompt is one request's text: fixed instructions for the system
// instruction and the pseudocode for the user message.
type Prompt struct {
	System string
	User   string
}

// TranslatePrompt asks for the five translations of pseudocode.
func TranslatePrompt(pseudocode string) Prompt {
	return Prompt{
		System: strings.TrimSpace(translateInstructions),
		User:   fmt.Sprintf(userPromptTemplate, pseudocode),
	}
}

// AnalyzePrompt asks for a performance analysis of pseudocode.
func AnalyzePrompt(pseudocode string) Prompt {
	return Prompt{
		System: strings.TrimSpace(analyzeInstructions),
		User:   fmt.Sprintf(userPromptTemplate, pseudocode),
	}
}
