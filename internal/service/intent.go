package service

import (
	"regexp"
	"strings"
)

// Intent is the discrete category of request a query falls into
type Intent string

// Request categories
const (
	IntentSearch      Intent = "search"
	IntentAmenities   Intent = "amenities"
	IntentNegotiation Intent = "negotiation"
	IntentClosing     Intent = "closing"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Rules are evaluated in order and the first match wins. Specific categories
// outrank the generic search patterns: a query like "show amenities for
// property 3" matches both, and must route to amenities.
var intentRules = []intentRule{
	{
		intent: IntentAmenities,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(amenities|facilities|features)\b`),
			regexp.MustCompile(`\bproperty\s+\d+.*\b(amenities|facilities)\b`),
			regexp.MustCompile(`\b(gym|pool|parking|garden|security)\b`),
		},
	},
	{
		intent: IntentNegotiation,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(offer|negotiate|bid|price)\b`),
			regexp.MustCompile(`\$\d+.*\b(offer|bid)\b`),
			regexp.MustCompile(`\b(counter|deal|bargain)\b`),
		},
	},
	{
		intent: IntentClosing,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(close|finalize|complete|buy|purchase)\b.*\bdeal\b`),
			regexp.MustCompile(`\b(closing|paperwork|contract|agreement)\b`),
		},
	},
	{
		intent: IntentSearch,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(find|search|looking|want|need|show)\b.*\b(property|properties|apartment|condo|house|home)\b`),
			regexp.MustCompile(`\b\d+\s*(bhk|bedroom|br)\b`),
			regexp.MustCompile(`\$\d+|budget.*\d+`),
			regexp.MustCompile(`\b(rent|buy|purchase)\b`),
		},
	},
}

// ClassifyIntent classifies a query into a request category. It never fails;
// queries matching no pattern default to search.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(query)

	for _, rule := range intentRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(q) {
				return rule.intent
			}
		}
	}

	return IntentSearch
}
