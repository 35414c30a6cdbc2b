package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"estateagent/internal/genai"
	"estateagent/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPropertyUnavailable reports an attempt to close on a sold property
var ErrPropertyUnavailable = errors.New("property is no longer available for purchase")

// ClosingService walks a buyer through deal closure and marks the listing
// sold when the purchase completes.
type ClosingService struct {
	catalog Catalog
	gen     genai.Generator
	logger  *zap.Logger
}

// NewClosingService creates a new closing service
func NewClosingService(catalog Catalog, gen genai.Generator, logger *zap.Logger) *ClosingService {
	return &ClosingService{catalog: catalog, gen: gen, logger: logger}
}

// ClosingPhase is one stage of the closing workflow
type ClosingPhase struct {
	Name               string   `json:"name"`
	Duration           string   `json:"duration"`
	Tasks              []string `json:"tasks"`
	ResponsibleParties []string `json:"responsible_parties"`
	Deliverables       []string `json:"deliverables"`
}

// Milestone is a deadline the closing depends on
type Milestone struct {
	Milestone  string `json:"milestone"`
	Deadline   string `json:"deadline"`
	Importance string `json:"importance"`
}

// ClosingRisk pairs a risk with its mitigation
type ClosingRisk struct {
	Risk        string `json:"risk"`
	Mitigation  string `json:"mitigation"`
	Probability string `json:"probability"`
}

// ClosingPlan is the phased plan for one deal
type ClosingPlan struct {
	Phases             []ClosingPhase `json:"phases"`
	CriticalMilestones []Milestone    `json:"critical_milestones"`
	PotentialRisks     []ClosingRisk  `json:"potential_risks"`
}

// ClosingCosts is the itemized cost estimate for one deal
type ClosingCosts struct {
	DetailedCosts     map[string]map[string]float64 `json:"detailed_costs"`
	CategoryTotals    map[string]float64            `json:"category_totals"`
	EstimatedTotal    float64                       `json:"estimated_total"`
	PercentageOfPrice float64                       `json:"percentage_of_price"`
	CashNeeded        float64                       `json:"cash_needed"`
	Disclaimer        string                        `json:"disclaimer"`
}

// TimelineWindow is one dated span in the closing timeline
type TimelineWindow struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Target    string `json:"target_date,omitempty"`
	Estimated string `json:"estimated_time,omitempty"`
	Status    string `json:"status"`
}

// ClosingTimeline lays out the dated windows and key deadlines of a deal
type ClosingTimeline struct {
	Windows       map[string]TimelineWindow `json:"timeline"`
	TotalDuration string                    `json:"total_duration"`
	KeyDeadlines  []map[string]string       `json:"key_deadlines"`
}

// ImmediateStep is one action the buyer owes right after deal initiation
type ImmediateStep struct {
	Step        string `json:"step"`
	Timeline    string `json:"timeline"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// TeamContact is one member of the simulated closing team
type TeamContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DealResult is the full deal initiation package
type DealResult struct {
	PropertyID     int64                  `json:"property_id"`
	PropertyInfo   PropertyInfo           `json:"property_info"`
	Plan           ClosingPlan            `json:"closing_plan"`
	Costs          ClosingCosts           `json:"closing_costs"`
	Timeline       ClosingTimeline        `json:"timeline"`
	Documentation  map[string]any         `json:"documentation"`
	ImmediateSteps []ImmediateStep        `json:"next_immediate_steps"`
	TeamContacts   map[string]TeamContact `json:"team_contacts"`
	Status         string                 `json:"status"`
	Message        string                 `json:"-"`
}

// FinalizeResult is the completion package after the sale is recorded
type FinalizeResult struct {
	PropertyID       int64            `json:"property_id"`
	CompletionDate   string           `json:"completion_date"`
	Status           string           `json:"status"`
	DatabaseUpdated  bool             `json:"database_updated"`
	CompletionDocs   map[string]any   `json:"completion_documentation"`
	PostClosingSteps []map[string]any `json:"post_closing_steps"`
}

// ProcessDeal validates the listing and assembles the closing package
func (s *ClosingService) ProcessDeal(ctx context.Context, propertyID int64, dealDetails map[string]any) (*DealResult, error) {
	s.logger.Info("processing deal closure", zap.Int64("property_id", propertyID))

	property, err := s.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound{PropertyID: propertyID}
	}
	if !property.IsAvailable {
		return nil, ErrPropertyUnavailable
	}

	plan := s.closingPlan(ctx, property, dealDetails)

	return &DealResult{
		PropertyID: propertyID,
		PropertyInfo: PropertyInfo{
			Address: property.Address,
			Type:    property.PropertyType,
			Price:   property.Price,
		},
		Plan:           plan,
		Costs:          estimateClosingCosts(property.Price, property.State),
		Timeline:       closingTimeline(time.Now()),
		Documentation:  documentationChecklist(),
		ImmediateSteps: immediateSteps(),
		TeamContacts:   teamContacts(),
		Status:         "initiated",
		Message:        closingMessage(property, plan),
	}, nil
}

// FinalizeDeal records the sale and returns the completion package
func (s *ClosingService) FinalizeDeal(ctx context.Context, propertyID int64) (*FinalizeResult, error) {
	s.logger.Info("finalizing deal", zap.Int64("property_id", propertyID))

	updated, err := s.catalog.UpdateAvailability(ctx, propertyID, false)
	if err != nil {
		return nil, fmt.Errorf("availability update failed: %w", err)
	}
	if !updated {
		return &FinalizeResult{
			PropertyID:      propertyID,
			Status:          "failed",
			DatabaseUpdated: false,
		}, ErrPropertyNotFound{PropertyID: propertyID}
	}

	now := time.Now()
	return &FinalizeResult{
		PropertyID:       propertyID,
		CompletionDate:   now.Format(time.RFC3339),
		Status:           "completed",
		DatabaseUpdated:  true,
		CompletionDocs:   completionDocumentation(propertyID, now),
		PostClosingSteps: postClosingSteps(),
	}, nil
}

func (s *ClosingService) closingPlan(ctx context.Context, property *model.Property, dealDetails map[string]any) ClosingPlan {
	prompt := fmt.Sprintf(`Generate a detailed real estate closing plan for:

Property: %s at %s, %s, %s
Purchase Price: $%.2f
Deal Details: %v

Return JSON with comprehensive closing plan:
{
  "phases": [
    {
      "name": "phase name",
      "duration": "X days",
      "tasks": ["task1", "task2"],
      "responsible_parties": ["buyer", "seller", "agent", "lender"],
      "deliverables": ["document1", "document2"]
    }
  ],
  "critical_milestones": [
    {"milestone": "milestone name", "deadline": "relative date", "importance": "high|medium|low"}
  ],
  "potential_risks": [
    {"risk": "risk description", "mitigation": "mitigation strategy", "probability": "high|medium|low"}
  ]
}`,
		property.PropertyType, property.Address, property.City, property.State,
		property.Price, dealDetails)

	outcome := genai.GenerateStructured(ctx, s.gen, prompt, defaultClosingPlan())
	if outcome.Fallback {
		s.logger.Warn("closing plan fell back to default",
			zap.Int64("property_id", property.ID))
	}
	return outcome.Value
}

func defaultClosingPlan() ClosingPlan {
	return ClosingPlan{
		Phases: []ClosingPhase{
			{
				Name:               "Contract Execution",
				Duration:           "1-2 days",
				Tasks:              []string{"Sign purchase agreement", "Submit earnest money", "Review terms"},
				ResponsibleParties: []string{"buyer", "seller", "agents"},
				Deliverables:       []string{"Signed contract", "Earnest money receipt"},
			},
			{
				Name:               "Due Diligence",
				Duration:           "7-14 days",
				Tasks:              []string{"Property inspection", "Appraisal", "Title search", "HOA review"},
				ResponsibleParties: []string{"buyer", "inspector", "appraiser", "title company"},
				Deliverables:       []string{"Inspection report", "Appraisal report", "Title commitment"},
			},
			{
				Name:               "Financing",
				Duration:           "14-21 days",
				Tasks:              []string{"Loan application", "Underwriting", "Final approval"},
				ResponsibleParties: []string{"buyer", "lender", "underwriter"},
				Deliverables:       []string{"Loan commitment", "Closing disclosure"},
			},
			{
				Name:               "Pre-Closing",
				Duration:           "3-5 days",
				Tasks:              []string{"Final walkthrough", "Wire transfer setup", "Closing preparation"},
				ResponsibleParties: []string{"buyer", "seller", "agents", "title company"},
				Deliverables:       []string{"Walkthrough checklist", "Wire instructions"},
			},
			{
				Name:               "Closing",
				Duration:           "1 day",
				Tasks:              []string{"Document signing", "Fund transfer", "Key handover"},
				ResponsibleParties: []string{"buyer", "seller", "title agent", "agents"},
				Deliverables:       []string{"Deed", "Keys", "Closing statement"},
			},
		},
		CriticalMilestones: []Milestone{
			{Milestone: "Inspection completion", Deadline: "10 days", Importance: "high"},
			{Milestone: "Loan approval", Deadline: "21 days", Importance: "high"},
			{Milestone: "Final walkthrough", Deadline: "1 day before closing", Importance: "medium"},
		},
		PotentialRisks: []ClosingRisk{
			{Risk: "Inspection issues", Mitigation: "Negotiate repairs or credits", Probability: "medium"},
			{Risk: "Appraisal low", Mitigation: "Renegotiate price or bring cash", Probability: "low"},
			{Risk: "Financing delays", Mitigation: "Have backup lender ready", Probability: "medium"},
		},
	}
}

// stateClosingRates holds simplified per-state transfer tax and recording
// fees; unknown states use the CA schedule.
var stateClosingRates = map[string]struct {
	transferTax  float64
	recordingFee float64
}{
	"CA": {0.0011, 150},
	"NY": {0.004, 200},
	"TX": {0.0, 100},
	"FL": {0.007, 125},
	"IL": {0.001, 175},
}

func randBetween(lo, hi int) float64 {
	return float64(lo + rand.Intn(hi-lo+1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func estimateClosingCosts(purchasePrice float64, state string) ClosingCosts {
	rates, ok := stateClosingRates[state]
	if !ok {
		rates = stateClosingRates["CA"]
	}

	detailed := map[string]map[string]float64{
		"lender_fees": {
			"origination_fee":  round2(purchasePrice * 0.005),
			"appraisal_fee":    randBetween(400, 600),
			"credit_report":    randBetween(25, 50),
			"underwriting_fee": randBetween(400, 800),
		},
		"title_insurance": {
			"owners_policy":  round2(purchasePrice * 0.005),
			"lenders_policy": round2(purchasePrice * 0.0025),
			"title_search":   randBetween(200, 400),
		},
		"government_fees": {
			"transfer_tax":    round2(purchasePrice * rates.transferTax),
			"recording_fee":   rates.recordingFee,
			"document_stamps": randBetween(50, 150),
		},
		"third_party_services": {
			"inspection":      randBetween(300, 600),
			"survey":          randBetween(400, 800),
			"pest_inspection": randBetween(75, 150),
		},
		"prepaid_items": {
			"homeowners_insurance": round2(purchasePrice * 0.003),
			"property_taxes":       round2(purchasePrice * 0.012 / 12 * 2),
			"hoa_fees":             randBetween(0, 500),
		},
		"escrow_reserves": {
			"insurance_reserve": round2(purchasePrice * 0.003 / 12 * 2),
			"tax_reserve":       round2(purchasePrice * 0.012 / 12 * 2),
		},
	}

	categoryTotals := make(map[string]float64, len(detailed))
	var grandTotal float64
	for category, items := range detailed {
		var sum float64
		for _, v := range items {
			sum += v
		}
		categoryTotals[category] = round2(sum)
		grandTotal += sum
	}

	return ClosingCosts{
		DetailedCosts:     detailed,
		CategoryTotals:    categoryTotals,
		EstimatedTotal:    round2(grandTotal),
		PercentageOfPrice: round2(grandTotal / purchasePrice * 100),
		CashNeeded:        round2(grandTotal + purchasePrice*0.2),
		Disclaimer:        "Costs are estimates and may vary based on specific lender and service providers",
	}
}

func closingTimeline(today time.Time) ClosingTimeline {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	return ClosingTimeline{
		Windows: map[string]TimelineWindow{
			"contract_execution": {
				StartDate: day(0), EndDate: day(2), Status: "pending",
			},
			"due_diligence_period": {
				StartDate: day(1), EndDate: day(14), Status: "upcoming",
			},
			"financing_approval": {
				StartDate: day(3), EndDate: day(24), Status: "upcoming",
			},
			"final_walkthrough": {
				StartDate: day(28), EndDate: day(29), Status: "scheduled",
			},
			"closing_day": {
				Target: day(30), Estimated: "2-3 hours", Status: "scheduled",
			},
		},
		TotalDuration: "30-35 days",
		KeyDeadlines: []map[string]string{
			{"task": "Inspection", "deadline": day(10)},
			{"task": "Loan approval", "deadline": day(21)},
			{"task": "Final walkthrough", "deadline": day(29)},
		},
	}
}

func documentationChecklist() map[string]any {
	return map[string]any{
		"buyer_documents": map[string]any{
			"financial": []string{
				"Pre-approval letter",
				"Bank statements (2-3 months)",
				"Pay stubs (recent)",
				"Tax returns (2 years)",
				"Employment verification letter",
			},
			"personal": []string{
				"Government-issued ID",
				"Social Security card",
				"Proof of homeowner's insurance",
				"Cashier's check for closing costs",
			},
		},
		"seller_documents": []string{
			"Property deed",
			"Property disclosures",
			"HOA documents (if applicable)",
			"Warranty information",
			"Utility bills and transfer forms",
		},
		"transaction_documents": []string{
			"Purchase agreement",
			"Inspection reports",
			"Appraisal report",
			"Title commitment",
			"Loan documents",
			"Closing disclosure",
		},
		"post_closing_documents": []string{
			"Recorded deed",
			"Title insurance policy",
			"Final closing statement",
			"Keys and garage door openers",
			"Warranty documents",
		},
	}
}

func immediateSteps() []ImmediateStep {
	return []ImmediateStep{
		{
			Step:        "Sign purchase agreement",
			Timeline:    "Within 24 hours",
			Priority:    "high",
			Description: "Review and sign the purchase agreement with your real estate agent",
		},
		{
			Step:        "Submit earnest money",
			Timeline:    "Within 48 hours",
			Priority:    "high",
			Description: "Transfer earnest money to escrow account as specified in contract",
		},
		{
			Step:        "Schedule inspection",
			Timeline:    "Within 3-5 days",
			Priority:    "high",
			Description: "Book professional property inspection during contingency period",
		},
		{
			Step:        "Finalize financing",
			Timeline:    "Within 1 week",
			Priority:    "medium",
			Description: "Submit final loan application documents to your lender",
		},
	}
}

func teamContacts() map[string]TeamContact {
	return map[string]TeamContact{
		"real_estate_agent": {
			Name: "Sarah Johnson", Phone: "(555) 123-4567",
			Email: "sarah.johnson@realestate.com", Role: "Buyer's Agent",
		},
		"lender": {
			Name: "Michael Chen", Phone: "(555) 234-5678",
			Email: "mchen@mortgage.com", Role: "Loan Officer",
		},
		"title_company": {
			Name: "Premier Title Services", Phone: "(555) 345-6789",
			Email: "info@premiertitle.com", Role: "Title & Escrow",
		},
		"inspector": {
			Name: "Expert Home Inspections", Phone: "(555) 456-7890",
			Email: "info@experthome.com", Role: "Property Inspector",
		},
	}
}

func completionDocumentation(propertyID int64, completedAt time.Time) map[string]any {
	return map[string]any{
		"completion_certificate": map[string]any{
			"property_id":      propertyID,
			"completion_date":  completedAt.Format(time.RFC3339),
			"status":           "completed",
			"reference_number": fmt.Sprintf("TXN-%d-%s", propertyID, uuid.NewString()[:8]),
		},
		"next_deliverables": []string{
			"Recorded deed (7-10 business days)",
			"Title insurance policy (14 days)",
			"Property tax assessment update (30-60 days)",
		},
		"digital_assets": []string{
			"Electronic copy of all signed documents",
			"Property photos and virtual tour access",
			"Warranty and manual documents",
			"Home maintenance schedule",
		},
	}
}

func postClosingSteps() []map[string]any {
	return []map[string]any{
		{
			"category": "immediate",
			"tasks": []string{
				"Change locks and security codes",
				"Set up utilities in your name",
				"Update address with bank, employer, IRS",
				"Purchase homeowner's insurance",
			},
		},
		{
			"category": "first_week",
			"tasks": []string{
				"Meet neighbors and get emergency contacts",
				"Locate and test main water/gas shutoffs",
				"Register with local waste management",
				"Update voter registration",
			},
		},
		{
			"category": "first_month",
			"tasks": []string{
				"Schedule HVAC maintenance",
				"Review and organize warranty documents",
				"Plan any immediate repairs or improvements",
				"Research local contractors and services",
			},
		},
	}
}

func closingMessage(property *model.Property, plan ClosingPlan) string {
	return fmt.Sprintf(
		"Excellent! Let's close on your %s at %s. Purchase price $%.2f, %d phases over 30-35 days. Your closing team will guide you through every step.",
		property.PropertyType, property.Address, property.Price, len(plan.Phases))
}
