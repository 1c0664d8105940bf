package dto

// Assumptions are the financial knobs of a scenario. The core never fills in
// defaults; callers pass a complete value.
type Assumptions struct {
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate"`
	InterestRate      float64 `json:"interest_rate" yaml:"interest_rate"`
	HoldingDays       int     `json:"holding_days" yaml:"holding_days"`
	RepairCost        int64   `json:"repair_cost" yaml:"repair_cost"`
	EvictionCost      int64   `json:"eviction_cost" yaml:"eviction_cost"`
	EarlyRepayFeeRate float64 `json:"early_repay_fee_rate" yaml:"early_repay_fee_rate"`
	BidStep           int64   `json:"bid_step" yaml:"bid_step"`
}

// Validate rejects values no scenario can use.
func (a Assumptions) Validate() error {
	switch {
	case a.TaxRate < 0, a.InterestRate < 0, a.EarlyRepayFeeRate < 0:
		return ErrInvalidAssumptions
	case a.HoldingDays < 0, a.RepairCost < 0, a.EvictionCost < 0, a.BidStep < 0:
		return ErrInvalidAssumptions
	}
	return nil
}

// ScenarioInput is everything the profit matrix needs.
type ScenarioInput struct {
	Assumptions
	SalePrices []int64 `json:"sale_prices"`
	BidStart   int64   `json:"bid_start"`
	BidEnd     int64   `json:"bid_end"`
	LoanAmount int64   `json:"loan_amount"`
}

// BidBand is an inclusive range of suggested bids.
type BidBand struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// CostBreakdown holds the costs that do not depend on bid or sale price.
type CostBreakdown struct {
	InterestCost  int64 `json:"interest_cost"`
	EarlyRepayFee int64 `json:"early_repay_fee"`
}

// ScenarioResult is the profit matrix. Matrix[i][j] is the profit of
// Bids[i] against SalePrices[j].
type ScenarioResult struct {
	Bids            []int64       `json:"bids"`
	SalePrices      []int64       `json:"sale_prices"`
	Matrix          [][]int64     `json:"matrix"`
	ZeroLossMaxBid  *int64        `json:"zero_loss_max_bid"`
	RecommendedBand *BidBand      `json:"recommended_band"`
	Costs           CostBreakdown `json:"costs"`
}

// AuctionTaxes is the simplified tax bill due on a winning bid.
type AuctionTaxes struct {
	WinningBid          int64 `json:"winning_bid"`
	AcquisitionTax      int64 `json:"acquisition_tax"`
	BondCertificate     int64 `json:"bond_certificate"`
	BondDiscount        int64 `json:"bond_discount"`
	RegistrationLicense int64 `json:"registration_license"`
	Total               int64 `json:"total"`
}

// Decision is the one-line outcome of an analysis.
type Decision string

const (
	DecisionHold               Decision = "보류"
	DecisionProceedConditional Decision = "진행 가능(조건부)"
	DecisionNotRecommended     Decision = "보류/비추천"
)

// Verdict is the decision together with the reasons behind it.
type Verdict struct {
	Decision Decision `json:"decision"`
	Reasons  []string `json:"reasons"`
}
