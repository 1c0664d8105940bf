package service

import (
	"math"

	"github.com/Aashish23092/auction-analyzer/dto"
)

const (
	daysPerYear        = 365.0
	bandLowRatio       = 0.97
	bandHighRatio      = 0.99
	acquisitionTaxRate = 0.01
	bondCertRate       = 0.10
	bondDiscountFee    = 100_000
	registrationFee    = 100_000
)

// BuildProfitMatrix computes the net profit of every (bid, sale price) pair:
//
//	profit = sale - bid - bid*tax - repair - eviction - interest - earlyFee
//
// interest and earlyFee depend only on the loan, so they are computed once.
// Cells are rounded half to even. Degenerate inputs still produce a grid.
func BuildProfitMatrix(in dto.ScenarioInput) dto.ScenarioResult {
	interest := float64(in.LoanAmount) * in.InterestRate * (float64(in.HoldingDays) / daysPerYear)
	earlyFee := float64(in.LoanAmount) * in.EarlyRepayFeeRate
	repair, eviction := float64(in.RepairCost), float64(in.EvictionCost)

	bids := BidGrid(in.BidStart, in.BidEnd, in.BidStep)
	matrix := make([][]int64, len(bids))
	for i, bid := range bids {
		row := make([]int64, len(in.SalePrices))
		b := float64(bid)
		for j, sale := range in.SalePrices {
			profit := float64(sale) - b - b*in.TaxRate - repair - eviction - interest - earlyFee
			row[j] = int64(math.RoundToEven(profit))
		}
		matrix[i] = row
	}

	res := dto.ScenarioResult{
		Bids:       bids,
		SalePrices: append([]int64(nil), in.SalePrices...),
		Matrix:     matrix,
		Costs: dto.CostBreakdown{
			InterestCost:  int64(math.RoundToEven(interest)),
			EarlyRepayFee: int64(math.RoundToEven(earlyFee)),
		},
	}
	if z, ok := ZeroLossMaxBid(res); ok {
		res.ZeroLossMaxBid = &z
		band := RecommendedBand(z, in.BidStep)
		res.RecommendedBand = &band
	}
	return res
}

// BidGrid lists start..end inclusive by step. A non-positive step yields just
// start; end below start yields nothing.
func BidGrid(start, end, step int64) []int64 {
	if end < start {
		return nil
	}
	if step <= 0 {
		return []int64{start}
	}
	bids := make([]int64, 0, (end-start)/step+1)
	for b := start; b <= end; b += step {
		bids = append(bids, b)
	}
	return bids
}

// ZeroLossMaxBid is the largest bid whose profit against the middle sale
// price is not negative.
func ZeroLossMaxBid(res dto.ScenarioResult) (int64, bool) {
	if len(res.SalePrices) == 0 {
		return 0, false
	}
	mid := len(res.SalePrices) / 2

	var best int64
	found := false
	for i, bid := range res.Bids {
		if res.Matrix[i][mid] >= 0 && (!found || bid > best) {
			best, found = bid, true
		}
	}
	return best, found
}

// RecommendedBand is 97%..99% of the zero-loss bid, each end rounded to the
// nearest multiple of step.
func RecommendedBand(zeroLoss, step int64) dto.BidBand {
	lo := int64(float64(zeroLoss) * bandLowRatio)
	hi := int64(float64(zeroLoss) * bandHighRatio)
	return dto.BidBand{Low: roundToStep(lo, step), High: roundToStep(hi, step)}
}

func roundToStep(v, step int64) int64 {
	if step <= 0 {
		return v
	}
	return int64(math.RoundToEven(float64(v)/float64(step)) * float64(step))
}

// CalcAuctionTaxes is the simplified tax bill on a winning bid: 1%
// acquisition tax, a bond certificate at 10% of that, and two flat fees.
func CalcAuctionTaxes(winningBid int64) dto.AuctionTaxes {
	acq := int64(math.RoundToEven(float64(winningBid) * acquisitionTaxRate))
	cert := int64(math.RoundToEven(float64(acq) * bondCertRate))
	return dto.AuctionTaxes{
		WinningBid:          winningBid,
		AcquisitionTax:      acq,
		BondCertificate:     cert,
		BondDiscount:        bondDiscountFee,
		RegistrationLicense: registrationFee,
		Total:               acq + cert + bondDiscountFee + registrationFee,
	}
}
