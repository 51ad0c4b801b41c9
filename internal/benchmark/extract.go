package benchmark

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Extraction cascade for numeric answers, most specific first. The first
// pattern that matches wins.
var answerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:the answer is|answer is|answer:)\s*([+-]?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*(?:is the answer|is the final answer)`),
	regexp.MustCompile(`final answer[:\s]*([+-]?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*$`),
}

var anyNumber = regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)`)

// extractNumericAnswer pulls a candidate numeric answer out of free-form
// response text. If no pattern matches, it falls back to the last number
// appearing anywhere in the text, and to "" when there is none.
func extractNumericAnswer(response string) string {
	lowered := strings.ToLower(response)

	for _, p := range answerPatterns {
		if m := p.FindStringSubmatch(lowered); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if numbers := anyNumber.FindAllString(response, -1); len(numbers) > 0 {
		return numbers[len(numbers)-1]
	}

	return ""
}

// numericTolerance is the absolute tolerance for numeric answer equality.
const numericTolerance = 1e-6

// checkNumericAnswer compares a predicted answer against the expected one.
// Both are parsed as floats and compared within numericTolerance; if either
// fails to parse, the comparison falls back to case-insensitive trimmed
// string equality.
func checkNumericAnswer(predicted, expected string) bool {
	pred, errPred := strconv.ParseFloat(strings.TrimSpace(predicted), 64)
	exp, errExp := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if errPred == nil && errExp == nil {
		return math.Abs(pred-exp) < numericTolerance
	}

	return strings.EqualFold(strings.TrimSpace(predicted), strings.TrimSpace(expected))
}

// wordCount returns the number of whitespace-separated words in s.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
