package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"estateagent/internal/genai"
	"estateagent/internal/model"

	"go.uber.org/zap"
)

// NegotiationService handles property price negotiations. Each call analyzes
// one offer against one listing; no state persists across calls.
type NegotiationService struct {
	catalog Catalog
	gen     genai.Generator
	logger  *zap.Logger
}

// NewNegotiationService creates a new negotiation service
func NewNegotiationService(catalog Catalog, gen genai.Generator, logger *zap.Logger) *NegotiationService {
	return &NegotiationService{catalog: catalog, gen: gen, logger: logger}
}

// NegotiationResult is the outcome of one negotiation round
type NegotiationResult struct {
	PropertyID    int64                `json:"property_id"`
	OriginalPrice float64              `json:"original_price"`
	OfferAmount   float64              `json:"offer_amount"`
	Analysis      model.OfferAnalysis  `json:"offer_analysis"`
	Response      model.SellerResponse `json:"seller_response"`
	NextSteps     []string             `json:"next_steps"`
	Insights      model.MarketInsights `json:"market_insights"`
	Timeline      map[string]string    `json:"timeline"`
}

// ErrPropertyNotFound reports an unknown property identifier
type ErrPropertyNotFound struct {
	PropertyID int64
}

func (e ErrPropertyNotFound) Error() string {
	return fmt.Sprintf("property %d not found", e.PropertyID)
}

// Negotiate runs one negotiation round for an offer on a property
func (s *NegotiationService) Negotiate(ctx context.Context, propertyID int64, offerAmount float64) (*NegotiationResult, error) {
	s.logger.Info("processing negotiation",
		zap.Int64("property_id", propertyID),
		zap.Float64("offer", offerAmount))

	property, err := s.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound{PropertyID: propertyID}
	}

	analysis := s.analyzeOffer(property, offerAmount)
	response := s.sellerResponse(ctx, property, offerAmount, analysis)

	return &NegotiationResult{
		PropertyID:    propertyID,
		OriginalPrice: property.Price,
		OfferAmount:   offerAmount,
		Analysis:      analysis,
		Response:      response,
		NextSteps:     nextSteps(analysis.Strength),
		Insights:      marketInsights(analysis),
		Timeline:      negotiationTimeline(response.Status),
	}, nil
}

// ClassifyOfferStrength maps percentage-below-asking to a strength bucket.
// Pure and total; boundaries are inclusive on the upper edge of each bucket.
func ClassifyOfferStrength(percentageBelow float64) model.OfferStrength {
	switch {
	case percentageBelow < 0:
		return model.StrengthAboveAsking
	case percentageBelow <= 2:
		return model.StrengthVeryStrong
	case percentageBelow <= 5:
		return model.StrengthStrong
	case percentageBelow <= 10:
		return model.StrengthReasonable
	case percentageBelow <= 15:
		return model.StrengthLow
	default:
		return model.StrengthVeryLow
	}
}

func (s *NegotiationService) analyzeOffer(property *model.Property, offerAmount float64) model.OfferAnalysis {
	difference := property.Price - offerAmount
	percentageBelow := (difference / property.Price) * 100

	return model.OfferAnalysis{
		ListPrice:        property.Price,
		OfferAmount:      offerAmount,
		Difference:       difference,
		PercentageBelow:  math.Round(percentageBelow*100) / 100,
		Strength:         ClassifyOfferStrength(percentageBelow),
		MarketFactors:    marketFactors(property.City),
		PropertyAge:      time.Now().Year() - property.YearBuilt,
		CompetitionLevel: assessCompetition(property.City, property.Price),
	}
}

// sellerResponse asks the generation layer for a seller decision and
// validates it against the analysis. A failed or malformed generation
// degrades to the canonical default for the computed strength.
func (s *NegotiationService) sellerResponse(ctx context.Context, property *model.Property, offerAmount float64, analysis model.OfferAnalysis) model.SellerResponse {
	prompt := fmt.Sprintf(`Generate a realistic seller response to this real estate offer:

Property: %s at %s
List Price: $%.2f
Offer: $%.2f
Difference: %.1f%% below asking
Offer Strength: %s
Market Conditions: %s
Days on Market: %d
Competition: %s

Return JSON with a realistic seller response:
{
  "status": "accepted|countered|rejected|under_review",
  "message": "detailed seller response message",
  "counter_offer": number or null,
  "reasoning": "explanation of decision",
  "urgency": "high|medium|low",
  "flexibility": "high|medium|low"
}

Guidelines:
- Above asking or <2%% below: likely accepted
- 2-5%% below: strong offers, might accept or small counter
- 5-10%% below: reasonable, expect counter-offer
- 10-15%% below: low offers, significant counter or rejection
- >15%% below: very low, likely rejection
- Consider market conditions and competition`,
		property.PropertyType, property.Address,
		analysis.ListPrice, offerAmount, analysis.PercentageBelow, analysis.Strength,
		analysis.MarketFactors.Condition, analysis.MarketFactors.DaysOnMarket,
		analysis.CompetitionLevel)

	defaults := DefaultSellerResponse(analysis.Strength, analysis.ListPrice, offerAmount)
	outcome := genai.GenerateStructured(ctx, s.gen, prompt, defaults)
	if outcome.Fallback {
		s.logger.Warn("seller response fell back to canonical default",
			zap.String("strength", string(analysis.Strength)))
	}

	return ValidateSellerResponse(outcome.Value, analysis)
}

// DefaultSellerResponse is the canonical response for each offer strength.
// Counter values are rounded to the nearest thousand.
func DefaultSellerResponse(strength model.OfferStrength, listPrice, offerAmount float64) model.SellerResponse {
	counter := func(v float64) *float64 {
		rounded := math.Round(v/1000) * 1000
		return &rounded
	}

	switch strength {
	case model.StrengthAboveAsking:
		return model.SellerResponse{
			Status:      model.NegotiationAccepted,
			Message:     "Excellent! Your above-asking offer has been accepted.",
			Reasoning:   "Strong offer above asking price",
			Urgency:     "high",
			Flexibility: "low",
		}
	case model.StrengthVeryStrong:
		return model.SellerResponse{
			Status:      model.NegotiationAccepted,
			Message:     "Great offer! The seller has accepted your proposal.",
			Reasoning:   "Very competitive offer",
			Urgency:     "high",
			Flexibility: "low",
		}
	case model.StrengthStrong:
		return model.SellerResponse{
			Status:       model.NegotiationCountered,
			Message:      "Strong offer! The seller would like to counter.",
			CounterOffer: counter(listPrice - (listPrice-offerAmount)*0.5),
			Reasoning:    "Good offer, minor adjustment requested",
			Urgency:      "medium",
			Flexibility:  "medium",
		}
	case model.StrengthLow:
		return model.SellerResponse{
			Status:       model.NegotiationCountered,
			Message:      "The seller appreciates your interest but feels the offer is below market value.",
			CounterOffer: counter(listPrice * 0.92),
			Reasoning:    "Significant counter-offer due to low initial offer",
			Urgency:      "low",
			Flexibility:  "high",
		}
	case model.StrengthVeryLow:
		return model.SellerResponse{
			Status:      model.NegotiationRejected,
			Message:     "Unfortunately, the seller cannot accept this offer as it's significantly below market value.",
			Reasoning:   "Offer too far below asking price",
			Urgency:     "low",
			Flexibility: "low",
		}
	default: // reasonable
		return model.SellerResponse{
			Status:       model.NegotiationCountered,
			Message:      "Reasonable offer. The seller is interested but would like to negotiate.",
			CounterOffer: counter(listPrice * 0.95),
			Reasoning:    "Fair offer, counter-proposal made",
			Urgency:      "medium",
			Flexibility:  "medium",
		}
	}
}

// ValidateSellerResponse corrects a generated response in place: unknown
// status tags coerce to under_review, countered responses get their counter
// clamped into [offer, list price], and terminal responses drop the counter.
func ValidateSellerResponse(response model.SellerResponse, analysis model.OfferAnalysis) model.SellerResponse {
	switch response.Status {
	case model.NegotiationAccepted, model.NegotiationCountered,
		model.NegotiationRejected, model.NegotiationUnderReview:
	case "counter_offered": // common model phrasing for the same state
		response.Status = model.NegotiationCountered
	default:
		response.Status = model.NegotiationUnderReview
	}

	if response.Status == model.NegotiationCountered {
		if response.CounterOffer == nil {
			fallback := DefaultSellerResponse(analysis.Strength, analysis.ListPrice, analysis.OfferAmount)
			if fallback.CounterOffer != nil {
				response.CounterOffer = fallback.CounterOffer
			} else {
				mid := math.Round((analysis.OfferAmount+analysis.ListPrice)/2000) * 1000
				response.CounterOffer = &mid
			}
		}
		clamped := math.Max(analysis.OfferAmount, math.Min(*response.CounterOffer, analysis.ListPrice))
		response.CounterOffer = &clamped
	} else {
		response.CounterOffer = nil
	}

	return response
}

// cityMarkets simulates market conditions by city; unknown cities get a
// balanced market.
var cityMarkets = map[string]struct {
	condition  string
	avgDays    int
	priceTrend string
}{
	"San Francisco": {"hot", 15, "rising"},
	"New York City": {"competitive", 25, "stable"},
	"Los Angeles":   {"warm", 20, "rising"},
	"Chicago":       {"balanced", 35, "stable"},
	"Miami":         {"hot", 18, "rising"},
	"Austin":        {"warm", 22, "rising"},
	"Houston":       {"balanced", 30, "stable"},
}

func marketFactors(city string) model.MarketFactors {
	market, ok := cityMarkets[city]
	if !ok {
		market = struct {
			condition  string
			avgDays    int
			priceTrend string
		}{"balanced", 30, "stable"}
	}

	minDays := market.avgDays - 10
	if minDays < 1 {
		minDays = 1
	}

	inventories := []string{"low", "normal", "high"}

	return model.MarketFactors{
		Condition:      market.condition,
		DaysOnMarket:   minDays + rand.Intn(market.avgDays+10-minDays+1),
		PriceTrend:     market.priceTrend,
		InventoryLevel: inventories[rand.Intn(len(inventories))],
		Season:         marketSeason(time.Now().Month()),
	}
}

func marketSeason(month time.Month) string {
	switch {
	case month >= time.March && month <= time.May:
		return "spring_peak"
	case month >= time.June && month <= time.August:
		return "summer_active"
	case month == time.September || month == time.October:
		return "fall_moderate"
	default:
		return "winter_slow"
	}
}

func assessCompetition(city string, price float64) string {
	pick := func(options ...string) string {
		return options[rand.Intn(len(options))]
	}

	switch {
	case (city == "San Francisco" || city == "New York City") && price > 1000000:
		return pick("very_high", "high")
	case city == "San Francisco" || city == "New York City" || city == "Los Angeles":
		return pick("high", "medium")
	default:
		return pick("medium", "low")
	}
}

func nextSteps(strength model.OfferStrength) []string {
	switch strength {
	case model.StrengthAboveAsking, model.StrengthVeryStrong:
		return []string{
			"Congratulations! Proceed with contract preparation",
			"Schedule property inspection within 7-10 days",
			"Begin mortgage/financing paperwork",
			"Review closing timeline with your agent",
		}
	case model.StrengthStrong:
		return []string{
			"Consider the counter-offer carefully",
			"Review your budget and financing options",
			"You may counter-offer again if needed",
			"Act quickly as this is a competitive offer",
		}
	case model.StrengthReasonable:
		return []string{
			"Review the seller's counter-offer",
			"Consider market conditions in your response",
			"You have room to negotiate further",
			"Consult with your real estate agent",
		}
	case model.StrengthLow:
		return []string{
			"Consider increasing your offer significantly",
			"Review comparable sales in the area",
			"Assess if this property fits your budget",
			"Explore other similar properties",
		}
	default:
		return []string{
			"Consider a substantially higher offer",
			"Review your budget constraints",
			"Look for similar properties in your price range",
			"Reassess your target criteria",
		}
	}
}

func marketInsights(analysis model.OfferAnalysis) model.MarketInsights {
	return model.MarketInsights{
		MarketCondition:  analysis.MarketFactors.Condition,
		CompetitionLevel: analysis.CompetitionLevel,
		PriceTrend:       analysis.MarketFactors.PriceTrend,
		DaysOnMarket:     analysis.MarketFactors.DaysOnMarket,
		NegotiationTip:   negotiationTip(analysis),
	}
}

func negotiationTip(analysis model.OfferAnalysis) string {
	condition := analysis.MarketFactors.Condition
	strength := analysis.Strength

	switch {
	case condition == "hot" && (strength == model.StrengthLow || strength == model.StrengthVeryLow):
		return "In this hot market, consider a more competitive offer to avoid losing the property."
	case condition == "balanced" && strength == model.StrengthReasonable:
		return "This balanced market gives you some negotiating power. Your offer is fair."
	case strength == model.StrengthStrong || strength == model.StrengthVeryStrong:
		return "Your strong offer puts you in an excellent position."
	default:
		return "Consider market conditions and comparable sales when making your next move."
	}
}

// negotiationTimeline is a fixed lookup by response status
func negotiationTimeline(status string) map[string]string {
	switch status {
	case model.NegotiationAccepted:
		return map[string]string{
			"contract_preparation": "1-2 days",
			"inspection_period":    "7-10 days",
			"financing_approval":   "14-21 days",
			"closing":              "30-45 days",
		}
	case model.NegotiationCountered:
		return map[string]string{
			"response_expected":    "24-48 hours",
			"final_negotiation":    "3-7 days",
			"contract_preparation": "1-2 days after acceptance",
		}
	case model.NegotiationUnderReview:
		return map[string]string{
			"seller_response":   "24-72 hours",
			"potential_counter": "3-5 days",
		}
	case model.NegotiationRejected:
		return map[string]string{
			"new_offer_consideration": "Consider immediately",
			"alternative_properties":  "Begin searching now",
		}
	default:
		return map[string]string{"next_step": "24-48 hours"}
	}
}
