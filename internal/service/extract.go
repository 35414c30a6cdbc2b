package service

import (
	"regexp"
	"strconv"
	"strings"
)

var propertyIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`property\s+id\s+(\d+)`),
	regexp.MustCompile(`property\s+(\d+)`),
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`\bid\s+(\d+)`),
}

var offerAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:dollars?|usd)`),
	regexp.MustCompile(`offer\s+(\d+(?:,\d{3})*)`),
	regexp.MustCompile(`bid\s+(\d+(?:,\d{3})*)`),
}

// ExtractPropertyID pulls a property identifier out of free text.
// Returns false when no pattern matches.
func ExtractPropertyID(text string) (int64, bool) {
	lower := strings.ToLower(text)

	for _, pattern := range propertyIDPatterns {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			id, err := strconv.ParseInt(match[1], 10, 64)
			if err != nil {
				continue
			}
			return id, true
		}
	}

	return 0, false
}

// ExtractOfferAmount pulls a monetary amount out of free text, stripping
// thousands separators. Returns false when no pattern matches.
func ExtractOfferAmount(text string) (float64, bool) {
	lower := strings.ToLower(text)

	for _, pattern := range offerAmountPatterns {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
			if err != nil {
				continue
			}
			return amount, true
		}
	}

	return 0, false
}
