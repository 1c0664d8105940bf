package dto

// RightsClass is the register section a rights row belongs to.
type RightsClass string

const (
	RightsClassGap RightsClass = "갑" // ownership section
	RightsClassEul RightsClass = "을" // other-rights section
)

// RightsStatus tells what happens to a registered right after the sale.
type RightsStatus string

const (
	RightsExtinguished RightsStatus = "소멸"
	RightsAssumed      RightsStatus = "인수"
	RightsContinuing   RightsStatus = "존속"
	RightsUnknown      RightsStatus = ""
)

// RightsRow is one row of the lien/registration table.
type RightsRow struct {
	Seq    int          `json:"seq"`
	Class  RightsClass  `json:"class"`
	Date   string       `json:"date"`
	Kind   string       `json:"kind"`
	Holder string       `json:"holder"`
	Amount int64        `json:"amount"`
	IsBase bool         `json:"is_base"`
	Status RightsStatus `json:"status"`
}

// RoundStatus is the outcome recorded next to a scheduled round.
type RoundStatus string

const (
	RoundFailed      RoundStatus = "유찰"
	RoundRescheduled RoundStatus = "변경"
	RoundUnspecified RoundStatus = ""
)

// AuctionRound is one row of the bidding schedule.
type AuctionRound struct {
	Round  int         `json:"round"`
	Date   string      `json:"date"`
	Price  int64       `json:"price"`
	Status RoundStatus `json:"status"`
}

// MinBidSource names the rule that produced the minimum bid.
type MinBidSource string

const (
	MinBidLabeled80   MinBidSource = "labeled_80"
	MinBidSecondRound MinBidSource = "second_round"
	MinBidAnnotated80 MinBidSource = "annotated_80"
	MinBidLabelWindow MinBidSource = "label_window"
	MinBidManual      MinBidSource = "manual"
)

// ExtractedListing is the structured result of parsing one auction listing.
// Every pointer field is optional; nil means "needs manual input".
type ExtractedListing struct {
	CaseNo        *string `json:"case_no"`
	RelatedCaseNo *string `json:"related_case_no"`
	Address       *string `json:"address"`

	AppraisalValue *int64   `json:"appraisal_value"`
	MinimumBid     *int64   `json:"minimum_bid"`
	MinimumBidPct  *float64 `json:"minimum_bid_pct"`
	// MinimumBidSource is empty when no minimum bid was found.
	MinimumBidSource MinBidSource `json:"minimum_bid_source,omitempty"`
	// MinimumBidLowConfidence marks a value taken from the loose label window.
	MinimumBidLowConfidence bool `json:"minimum_bid_low_confidence"`

	AreaM2        *float64 `json:"area_m2"`
	AuctionDate   *string  `json:"auction_date"`
	BaseRightDate *string  `json:"base_right_date"`

	OccupancyHint *string `json:"occupancy_hint"`
	SpecialHint   *string `json:"special_hint"`

	Rights        []RightsRow `json:"rights"`
	RightsSummary *string     `json:"rights_summary"`

	Rounds           []AuctionRound `json:"rounds"`
	CurrentRound     *int           `json:"current_round"`
	CurrentStatus    *RoundStatus   `json:"current_status"`
	PriorFailedCount *int           `json:"prior_failed_count"`

	Links []string `json:"links,omitempty"`

	RawTextSnippet string `json:"raw_text_snippet"`
}

// RoundEstimate is the round guessed from the minimum-bid ratio alone.
type RoundEstimate struct {
	Round       int     `json:"round"`
	PriorFailed int     `json:"prior_failed"`
	Pct         float64 `json:"pct"`
	DiscountPct float64 `json:"discount_pct"`
}

// GeoPoint is a coordinate pulled out of a map link.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ListingLink is a link found in the listing together with its coordinate, if any.
type ListingLink struct {
	URL   string    `json:"url"`
	Point *GeoPoint `json:"point,omitempty"`
}

// ParseListingResponse is returned by the listing parse endpoint.
type ParseListingResponse struct {
	Listing       ExtractedListing `json:"listing"`
	ReviewSnippet string           `json:"review_snippet"`
	RoundEstimate *RoundEstimate   `json:"round_estimate,omitempty"`
	Links         []ListingLink    `json:"links,omitempty"`
	TextSource    string           `json:"text_source"`
}
