package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"estateagent/internal/model"

	"go.uber.org/zap"
)

// Orchestrator routes user queries to the specialized services and wraps
// every outcome in a response envelope. It is the single entry point the
// transport layer talks to.
type Orchestrator struct {
	catalog     Catalog
	search      *SearchService
	amenities   *AmenitiesService
	negotiation *NegotiationService
	closing     *ClosingService
	logger      *zap.Logger
}

// NewOrchestrator creates the orchestrator over already-built services
func NewOrchestrator(
	catalog Catalog,
	search *SearchService,
	amenities *AmenitiesService,
	negotiation *NegotiationService,
	closing *ClosingService,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		catalog:     catalog,
		search:      search,
		amenities:   amenities,
		negotiation: negotiation,
		closing:     closing,
		logger:      logger,
	}
}

// HandleQuery classifies a free-text query and dispatches it. It always
// returns an envelope; internal failures surface as generic error envelopes.
func (o *Orchestrator) HandleQuery(ctx context.Context, query string) model.Envelope {
	intent := ClassifyIntent(query)
	o.logger.Info("handling query",
		zap.String("query", query),
		zap.String("intent", string(intent)))

	switch intent {
	case IntentAmenities:
		return o.handleAmenitiesQuery(ctx, query)
	case IntentNegotiation:
		return o.handleNegotiationQuery(ctx, query)
	case IntentClosing:
		return o.handleClosingQuery(ctx, query)
	default:
		return o.handleSearchQuery(ctx, query)
	}
}

func (o *Orchestrator) handleSearchQuery(ctx context.Context, query string) model.Envelope {
	result, err := o.search.Search(ctx, query)
	if err != nil {
		o.logger.Error("search failed", zap.Error(err))
		return model.Error("Failed to search properties")
	}

	message := "I couldn't find properties matching your exact criteria. " +
		"Let me suggest some alternatives or you can modify your search parameters. " +
		"What's most important to you - location, price, or specific features?"
	if result.TotalDisplayed > 0 {
		message = fmt.Sprintf(
			"Found %d properties matching your criteria! "+
				"I've analyzed your requirements and here are the best matches. "+
				"Would you like more details about any property or help with amenities or negotiations?",
			result.TotalFound)
	}

	return model.Success(message, asMap(result))
}

func (o *Orchestrator) handleAmenitiesQuery(ctx context.Context, query string) model.Envelope {
	propertyID, ok := ExtractPropertyID(query)
	if !ok {
		return model.Info("I'd be happy to tell you about amenities! " +
			"Please specify which property you're interested in by mentioning the property ID, " +
			"or search for properties first.")
	}
	return o.PropertyAmenities(ctx, propertyID)
}

func (o *Orchestrator) handleNegotiationQuery(ctx context.Context, query string) model.Envelope {
	propertyID, hasID := ExtractPropertyID(query)
	offerAmount, hasOffer := ExtractOfferAmount(query)
	if !hasID || !hasOffer {
		return model.Info("I can help you negotiate! " +
			"Please specify the property ID and your offer amount. " +
			"For example: 'I want to offer $450,000 for property 123'")
	}
	return o.Negotiate(ctx, propertyID, offerAmount)
}

func (o *Orchestrator) handleClosingQuery(ctx context.Context, query string) model.Envelope {
	propertyID, ok := ExtractPropertyID(query)
	if !ok {
		return model.Info("Ready to close a deal? " +
			"Please specify which property you'd like to finalize. " +
			"For example: 'Close deal for property 123'")
	}
	return o.CloseDeal(ctx, propertyID, nil)
}

// Property returns the catalog record for one listing
func (o *Orchestrator) Property(ctx context.Context, propertyID int64) model.Envelope {
	property, err := o.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		o.logger.Error("property lookup failed",
			zap.Int64("property_id", propertyID), zap.Error(err))
		return model.Error("Failed to retrieve property")
	}
	if property == nil {
		return model.Error(fmt.Sprintf("Property %d not found", propertyID))
	}
	return model.Success(
		fmt.Sprintf("%s at %s", property.PropertyType, property.Address),
		map[string]any{"property": property})
}

// PropertyAmenities returns the synthesized amenity report for a listing
func (o *Orchestrator) PropertyAmenities(ctx context.Context, propertyID int64) model.Envelope {
	result, err := o.amenities.PropertyAmenities(ctx, propertyID)
	if err != nil {
		var notFound ErrPropertyNotFound
		if errors.As(err, &notFound) {
			return model.Error(fmt.Sprintf("Property %d not found", propertyID))
		}
		o.logger.Error("amenities lookup failed",
			zap.Int64("property_id", propertyID), zap.Error(err))
		return model.Error("Failed to retrieve amenities")
	}

	message := fmt.Sprintf(
		"Here are the amenities for the %s at %s. "+
			"Amenity rating %.1f/5.0 with %d total amenities.",
		result.PropertyInfo.Type, result.PropertyInfo.Address,
		result.Report.Score.Rating, result.AmenityCount)

	return model.Success(message, asMap(result))
}

// Negotiate runs one negotiation round and annotates the response with a
// competitiveness note.
func (o *Orchestrator) Negotiate(ctx context.Context, propertyID int64, offerAmount float64) model.Envelope {
	result, err := o.negotiation.Negotiate(ctx, propertyID, offerAmount)
	if err != nil {
		var notFound ErrPropertyNotFound
		if errors.As(err, &notFound) {
			return model.Error(fmt.Sprintf("Property %d not found", propertyID))
		}
		o.logger.Error("negotiation failed",
			zap.Int64("property_id", propertyID), zap.Error(err))
		return model.Error("Failed to process negotiation")
	}

	message := result.Response.Message
	below := result.Analysis.PercentageBelow
	switch {
	case below > 10:
		message += fmt.Sprintf(
			" Your offer is %.1f%% below asking price. Consider a competitive offer to increase acceptance chances.",
			below)
	case below < 5:
		message += " Your offer is very competitive! You have a great chance of acceptance."
	}

	return model.Success(message, asMap(result))
}

// CloseDeal initiates the closing workflow and immediately records the sale
func (o *Orchestrator) CloseDeal(ctx context.Context, propertyID int64, dealDetails map[string]any) model.Envelope {
	result, err := o.closing.ProcessDeal(ctx, propertyID, dealDetails)
	if err != nil {
		var notFound ErrPropertyNotFound
		switch {
		case errors.As(err, &notFound):
			return model.Error(fmt.Sprintf("Property %d not found", propertyID))
		case errors.Is(err, ErrPropertyUnavailable):
			return model.Error("This property is no longer available for purchase")
		default:
			o.logger.Error("deal closing failed",
				zap.Int64("property_id", propertyID), zap.Error(err))
			return model.Error("Failed to close deal")
		}
	}

	data := asMap(result)

	updated, err := o.catalog.UpdateAvailability(ctx, propertyID, false)
	if err != nil || !updated {
		if err != nil {
			o.logger.Error("availability update failed",
				zap.Int64("property_id", propertyID), zap.Error(err))
		}
		data["database_updated"] = false
		return model.Success(result.Message+" (Note: Property status update pending)", data)
	}

	data["database_updated"] = true
	message := "Congratulations! Your deal has been successfully closed. " +
		"The property is now marked as sold and removed from available listings. " +
		"You'll receive closing documents and next steps via email."
	return model.Success(message, data)
}

// ProcessDeal assembles the closing package without recording the sale
func (o *Orchestrator) ProcessDeal(ctx context.Context, propertyID int64, dealDetails map[string]any) model.Envelope {
	result, err := o.closing.ProcessDeal(ctx, propertyID, dealDetails)
	if err != nil {
		var notFound ErrPropertyNotFound
		switch {
		case errors.As(err, &notFound):
			return model.Error(fmt.Sprintf("Property %d not found", propertyID))
		case errors.Is(err, ErrPropertyUnavailable):
			return model.Error("This property is no longer available for purchase")
		default:
			o.logger.Error("deal processing failed",
				zap.Int64("property_id", propertyID), zap.Error(err))
			return model.Error("Failed to process deal closure")
		}
	}
	return model.Success(result.Message, asMap(result))
}

// FinalizeDeal records the sale and returns the completion package
func (o *Orchestrator) FinalizeDeal(ctx context.Context, propertyID int64) model.Envelope {
	result, err := o.closing.FinalizeDeal(ctx, propertyID)
	if err != nil {
		var notFound ErrPropertyNotFound
		if errors.As(err, &notFound) {
			return model.Error("Deal completion successful, but database update failed")
		}
		o.logger.Error("deal finalization failed",
			zap.Int64("property_id", propertyID), zap.Error(err))
		return model.Error("Failed to finalize deal")
	}
	return model.Success(
		"Congratulations! Your property purchase has been completed successfully!",
		asMap(result))
}

// asMap flattens a result struct into the envelope data shape via its JSON
// tags. Results are always marshalable, so failures only happen on exotic
// values and degrade to an empty map.
func asMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
