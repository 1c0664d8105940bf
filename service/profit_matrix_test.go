package service

import (
	"math"
	"testing"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultAssumptions() dto.Assumptions {
	return dto.Assumptions{
		TaxRate:           0.011,
		InterestRate:      0.05,
		HoldingDays:       90,
		RepairCost:        3_000_000,
		EvictionCost:      2_000_000,
		EarlyRepayFeeRate: 0.012,
		BidStep:           1_000_000,
	}
}

func TestBuildProfitMatrix_SingleCell(t *testing.T) {
	res := BuildProfitMatrix(dto.ScenarioInput{
		Assumptions: defaultAssumptions(),
		SalePrices:  []int64{350_000_000},
		BidStart:    300_000_000,
		BidEnd:      300_000_000,
		LoanAmount:  180_000_000,
	})

	require.Len(t, res.Bids, 1)
	require.Len(t, res.Matrix, 1)
	assert.Equal(t, int64(37_320_822), res.Matrix[0][0])
	assert.Equal(t, int64(2_219_178), res.Costs.InterestCost)
	assert.Equal(t, int64(2_160_000), res.Costs.EarlyRepayFee)
	require.NotNil(t, res.ZeroLossMaxBid)
	assert.Equal(t, int64(300_000_000), *res.ZeroLossMaxBid)
}

func TestBuildProfitMatrix_SubtractsCostsInFormulaOrder(t *testing.T) {
	a := dto.Assumptions{
		TaxRate:           0.0137,
		InterestRate:      0.0493,
		HoldingDays:       97,
		RepairCost:        3_333_333,
		EvictionCost:      1_777_777,
		EarlyRepayFeeRate: 0.0117,
		BidStep:           777_777,
	}
	loan := int64(183_456_789)
	sales := []int64{301_234_567, 352_345_678, 399_999_999}
	res := BuildProfitMatrix(dto.ScenarioInput{
		Assumptions: a,
		SalePrices:  sales,
		BidStart:    250_000_001,
		BidEnd:      260_000_000,
		LoanAmount:  loan,
	})

	interest := float64(loan) * a.InterestRate * (float64(a.HoldingDays) / 365)
	fee := float64(loan) * a.EarlyRepayFeeRate
	require.Len(t, res.Matrix, len(res.Bids))
	for i, bid := range res.Bids {
		b := float64(bid)
		for j, sale := range sales {
			profit := float64(sale) - b - b*a.TaxRate - float64(a.RepairCost) - float64(a.EvictionCost) - interest - fee
			assert.Equal(t, int64(math.RoundToEven(profit)), res.Matrix[i][j], "bid %d sale %d", bid, sale)
		}
	}
}

func TestBuildProfitMatrix_ZeroLossUsesMiddleColumn(t *testing.T) {
	res := BuildProfitMatrix(dto.ScenarioInput{
		Assumptions: dto.Assumptions{BidStep: 10_000_000},
		SalePrices:  []int64{280_000_000, 320_000_000, 360_000_000},
		BidStart:    300_000_000,
		BidEnd:      340_000_000,
	})

	assert.Equal(t, []int64{300_000_000, 310_000_000, 320_000_000, 330_000_000, 340_000_000}, res.Bids)
	assert.Equal(t, []int64{-20_000_000, 20_000_000, 60_000_000}, res.Matrix[0])
	require.NotNil(t, res.ZeroLossMaxBid)
	assert.Equal(t, int64(320_000_000), *res.ZeroLossMaxBid)
	require.NotNil(t, res.RecommendedBand)
	assert.Equal(t, dto.BidBand{Low: 310_000_000, High: 320_000_000}, *res.RecommendedBand)
}

func TestBuildProfitMatrix_NoZeroLossBid(t *testing.T) {
	res := BuildProfitMatrix(dto.ScenarioInput{
		Assumptions: defaultAssumptions(),
		SalePrices:  []int64{200_000_000, 250_000_000, 300_000_000},
		BidStart:    300_000_000,
		BidEnd:      310_000_000,
		LoanAmount:  180_000_000,
	})

	assert.Len(t, res.Bids, 11)
	assert.Nil(t, res.ZeroLossMaxBid)
	assert.Nil(t, res.RecommendedBand)
}

func TestBuildProfitMatrix_Degenerate(t *testing.T) {
	res := BuildProfitMatrix(dto.ScenarioInput{
		Assumptions: defaultAssumptions(),
		BidStart:    0,
		BidEnd:      2_000_000,
	})

	assert.Len(t, res.Bids, 3)
	assert.Len(t, res.Matrix, 3)
	assert.Empty(t, res.Matrix[0])
	assert.Nil(t, res.ZeroLossMaxBid)
}

func TestBidGrid(t *testing.T) {
	assert.Equal(t, []int64{10, 15, 20}, BidGrid(10, 20, 5))
	assert.Equal(t, []int64{10, 15}, BidGrid(10, 19, 5))
	assert.Equal(t, []int64{10}, BidGrid(10, 10, 5))
	assert.Equal(t, []int64{10}, BidGrid(10, 20, 0))
	assert.Empty(t, BidGrid(20, 10, 5))
}

func TestRecommendedBand(t *testing.T) {
	band := RecommendedBand(310_000_000, 1_000_000)
	assert.Equal(t, dto.BidBand{Low: 301_000_000, High: 307_000_000}, band)

	unrounded := RecommendedBand(310_000_000, 0)
	assert.InDelta(t, 306_900_000, float64(unrounded.High), 1)
}

func TestCalcAuctionTaxes(t *testing.T) {
	taxes := CalcAuctionTaxes(307_000_000)
	assert.Equal(t, int64(3_070_000), taxes.AcquisitionTax)
	assert.Equal(t, int64(307_000), taxes.BondCertificate)
	assert.Equal(t, int64(100_000), taxes.BondDiscount)
	assert.Equal(t, int64(100_000), taxes.RegistrationLicense)
	assert.Equal(t, int64(3_577_000), taxes.Total)
}
