package service

import (
	"strings"
	"unicode"
)

// listingKeywords are labels every listing printout carries. They are matched
// with whitespace removed because the text layer often spaces them out.
var listingKeywords = []string{
	"감정가", "최저가", "매각기일", "타경", "소재지", "건물면적", "말소기준", "유찰",
}

// evaluateTextQuality scores extracted text from 0-100: up to 40 points for
// length and the rest for listing labels found.
func evaluateTextQuality(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	score := 0.0
	switch n := len([]rune(trimmed)); {
	case n > 500:
		score += 40
	case n > 100:
		score += 20
	case n > 20:
		score += 10
	}

	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
	perKeyword := 60.0 / float64(len(listingKeywords))
	for _, kw := range listingKeywords {
		if strings.Contains(compact, kw) {
			score += perKeyword
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
