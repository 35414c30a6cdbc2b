package model

// OfferStrength classifies how competitive an offer is relative to list price
type OfferStrength string

// Offer strength buckets, keyed by percentage below asking
const (
	StrengthAboveAsking OfferStrength = "above_asking"
	StrengthVeryStrong  OfferStrength = "very_strong"
	StrengthStrong      OfferStrength = "strong"
	StrengthReasonable  OfferStrength = "reasonable"
	StrengthLow         OfferStrength = "low"
	StrengthVeryLow     OfferStrength = "very_low"
)

// Negotiation statuses
const (
	NegotiationAccepted    = "accepted"
	NegotiationCountered   = "countered"
	NegotiationRejected    = "rejected"
	NegotiationUnderReview = "under_review"
)

// MarketFactors holds simulated market context for a negotiation
type MarketFactors struct {
	Condition      string `json:"condition"`
	DaysOnMarket   int    `json:"days_on_market"`
	PriceTrend     string `json:"price_trend"`
	InventoryLevel string `json:"inventory_level"`
	Season         string `json:"season"`
}

// OfferAnalysis captures the deterministic analysis of an offer against a listing
type OfferAnalysis struct {
	ListPrice        float64       `json:"list_price"`
	OfferAmount      float64       `json:"offer_amount"`
	Difference       float64       `json:"difference"`
	PercentageBelow  float64       `json:"percentage_below"`
	Strength         OfferStrength `json:"strength"`
	MarketFactors    MarketFactors `json:"market_factors"`
	PropertyAge      int           `json:"property_age"`
	CompetitionLevel string        `json:"competition_level"`
}

// SellerResponse is the negotiation decision for one offer. If Status is
// "countered", CounterOffer is set and lies within [offer, list price];
// accepted and rejected responses carry no counter.
type SellerResponse struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	CounterOffer *float64 `json:"counter_offer"`
	Reasoning    string   `json:"reasoning"`
	Urgency      string   `json:"urgency"`
	Flexibility  string   `json:"flexibility"`
}

// MarketInsights helps the buyer understand the negotiation context
type MarketInsights struct {
	MarketCondition  string `json:"market_condition"`
	CompetitionLevel string `json:"competition_level"`
	PriceTrend       string `json:"price_trend"`
	DaysOnMarket     int    `json:"days_on_market"`
	NegotiationTip   string `json:"negotiation_tip"`
}
