package utils

import (
	"testing"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRounds(t *testing.T) {
	flat := "1차 2024-11-05 300,000,000 유찰 2차 2024-12-10 240,000,000 변경 3차 2025.01.14 240,000,000 4차 2025.02.18 192,000,000"
	rounds := ParseRounds(flat)

	require.Len(t, rounds, 4)
	assert.Equal(t, dto.AuctionRound{Round: 1, Date: "2024.11.05", Price: 300000000, Status: dto.RoundFailed}, rounds[0])
	assert.Equal(t, dto.RoundRescheduled, rounds[1].Status)
	assert.Equal(t, dto.RoundUnspecified, rounds[2].Status)
	assert.Equal(t, int64(192000000), rounds[3].Price)
}

func TestResolveCurrentRoundByDate(t *testing.T) {
	rounds := []dto.AuctionRound{
		{Round: 1, Date: "2025.01.01", Price: 100000000, Status: dto.RoundFailed},
		{Round: 2, Date: "2025.02.01", Price: 80000000, Status: dto.RoundFailed},
		{Round: 3, Date: "2025.03.01", Price: 64000000, Status: dto.RoundRescheduled},
	}
	date := "2025.03.01"

	cur, ok := ResolveCurrentRound(rounds, &date, nil)
	require.True(t, ok)
	assert.Equal(t, CurrentRound{Round: 3, Status: dto.RoundRescheduled, PriorFailed: 2}, cur)
}

func TestResolveCurrentRoundByPrice(t *testing.T) {
	rounds := []dto.AuctionRound{
		{Round: 3, Date: "2025.03.01", Price: 64000000},
		{Round: 1, Date: "2025.01.01", Price: 100000000, Status: dto.RoundFailed},
		{Round: 2, Date: "2025.02.01", Price: 64000000, Status: dto.RoundRescheduled},
	}
	date := "2025.09.09"
	minBid := int64(64000000)

	cur, ok := ResolveCurrentRound(rounds, &date, &minBid)
	require.True(t, ok)
	assert.Equal(t, 2, cur.Round)
	assert.Equal(t, 1, cur.PriorFailed)
}

func TestResolveCurrentRoundMiss(t *testing.T) {
	minBid := int64(1)
	_, ok := ResolveCurrentRound([]dto.AuctionRound{{Round: 1, Date: "2025.01.01", Price: 5}}, nil, &minBid)
	assert.False(t, ok)

	_, ok = ResolveCurrentRound(nil, nil, nil)
	assert.False(t, ok)
}

func TestMinimumBidPct(t *testing.T) {
	appraisal, minBid := int64(342000000), int64(218880000)

	pct, ok := MinimumBidPct("최저가(64%) 218,880,000", &appraisal, &minBid)
	require.True(t, ok)
	assert.Equal(t, 64.0, pct)

	pct, ok = MinimumBidPct("최저가 218,880,000", &appraisal, &minBid)
	require.True(t, ok)
	assert.Equal(t, 64.0, pct)

	_, ok = MinimumBidPct("최저가 218,880,000", nil, &minBid)
	assert.False(t, ok)
}

func TestInferRoundFromRatio(t *testing.T) {
	est, ok := InferRoundFromRatio(100000000, 64000000)
	require.True(t, ok)
	assert.Equal(t, dto.RoundEstimate{Round: 3, PriorFailed: 2, Pct: 64.0, DiscountPct: 36.0}, est)

	est, ok = InferRoundFromRatio(342000000, 342000000)
	require.True(t, ok)
	assert.Equal(t, 1, est.Round)
	assert.Equal(t, 0, est.PriorFailed)

	est, ok = InferRoundFromRatio(100000000, 50000000)
	require.True(t, ok)
	assert.Equal(t, 4, est.Round)
	assert.Equal(t, 50.0, est.Pct)

	_, ok = InferRoundFromRatio(0, 50000000)
	assert.False(t, ok)
}
