package dto

import "time"

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Listing       ExtractedListing `json:"listing"`
	ReviewSnippet string           `json:"review_snippet"`
	RoundEstimate *RoundEstimate   `json:"round_estimate,omitempty"`
	Links         []ListingLink    `json:"links,omitempty"`

	ComparableCount int             `json:"comparable_count"`
	Estimate        PriceEstimate   `json:"estimate"`
	Comparables     ComparablesView `json:"comparables"`

	Input    ScenarioInput  `json:"input"`
	Scenario ScenarioResult `json:"scenario"`
	Taxes    *AuctionTaxes  `json:"taxes,omitempty"`
	Verdict  Verdict        `json:"verdict"`
}

// AnalysisSummary is the list view of a stored analysis.
type AnalysisSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	CaseNo         string    `json:"case_no,omitempty"`
	Address        string    `json:"address,omitempty"`
	MinimumBid     *int64    `json:"minimum_bid"`
	ZeroLossMaxBid *int64    `json:"zero_loss_max_bid"`
	Decision       Decision  `json:"decision"`
}

// Summary builds the list view of a result.
func (r *AnalysisResult) Summary() AnalysisSummary {
	s := AnalysisSummary{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		MinimumBid:     r.Listing.MinimumBid,
		ZeroLossMaxBid: r.Scenario.ZeroLossMaxBid,
		Decision:       r.Verdict.Decision,
	}
	if r.Listing.CaseNo != nil {
		s.CaseNo = *r.Listing.CaseNo
	}
	if r.Listing.Address != nil {
		s.Address = *r.Listing.Address
	}
	return s
}
