package utils

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
)

var (
	reRoundRow    = regexp.MustCompile(`(\d)차\s*(\d{4}[.-]\d{2}[.-]\d{2})\s*(` + moneyPattern + `)`)
	reExplicitPct = regexp.MustCompile(`최\s*저\s*가\s*\(\s*([0-9]{2,3})\s*%\s*\)`)
)

const (
	roundStatusWindow = 20
	roundDiscount     = 0.8 // each failed round lowers the minimum bid to 80%
	maxLadderRound    = 8
)

// ParseRounds scans the text for "N차 date price" rows. The status comes from
// the few runes after each row.
func ParseRounds(flat string) []dto.AuctionRound {
	var rounds []dto.AuctionRound
	for _, loc := range reRoundRow.FindAllStringSubmatchIndex(flat, -1) {
		no, err := strconv.Atoi(flat[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		price, ok := ParseMoney(flat[loc[6]:loc[7]])
		if !ok {
			continue
		}
		tail := runeSlice(flat, loc[1], roundStatusWindow)
		status := dto.RoundUnspecified
		switch {
		case strings.Contains(tail, string(dto.RoundFailed)):
			status = dto.RoundFailed
		case strings.Contains(tail, string(dto.RoundRescheduled)):
			status = dto.RoundRescheduled
		}
		rounds = append(rounds, dto.AuctionRound{
			Round:  no,
			Date:   normalizeDate(flat[loc[4]:loc[5]]),
			Price:  price,
			Status: status,
		})
	}
	return rounds
}

// CurrentRound is the round a listing is being sold in.
type CurrentRound struct {
	Round       int
	Status      dto.RoundStatus
	PriorFailed int
}

// ResolveCurrentRound picks the round whose date equals the auction date, or
// failing that the lowest-numbered round priced at the minimum bid. Prior
// failures are the earlier rounds marked as failed.
func ResolveCurrentRound(rounds []dto.AuctionRound, auctionDate *string, minBid *int64) (CurrentRound, bool) {
	if len(rounds) == 0 {
		return CurrentRound{}, false
	}

	var cur *dto.AuctionRound
	if auctionDate != nil {
		for i := range rounds {
			if rounds[i].Date == *auctionDate {
				cur = &rounds[i]
				break
			}
		}
	}
	if cur == nil && minBid != nil && *minBid > 0 {
		var same []dto.AuctionRound
		for _, r := range rounds {
			if r.Price == *minBid {
				same = append(same, r)
			}
		}
		if len(same) > 0 {
			sort.SliceStable(same, func(i, j int) bool { return same[i].Round < same[j].Round })
			cur = &same[0]
		}
	}
	if cur == nil || cur.Round == 0 {
		return CurrentRound{}, false
	}

	failed := 0
	for _, r := range rounds {
		if r.Round < cur.Round && r.Status == dto.RoundFailed {
			failed++
		}
	}
	return CurrentRound{Round: cur.Round, Status: cur.Status, PriorFailed: failed}, true
}

// MinimumBidPct returns the explicit "최저가(NN%)" annotation when present,
// otherwise minBid/appraisal*100 rounded to one decimal.
func MinimumBidPct(flat string, appraisal, minBid *int64) (float64, bool) {
	if m := reExplicitPct.FindStringSubmatch(flat); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return float64(v), true
		}
	}
	if appraisal == nil || minBid == nil || *appraisal == 0 || *minBid == 0 {
		return 0, false
	}
	return RoundFloat(float64(*minBid)/float64(*appraisal)*100, 1), true
}

// InferRoundFromRatio guesses the round from the minimum-bid ratio alone,
// using a ladder that starts at 100% and drops 20% per round. It is meant for
// listings without a parseable schedule.
func InferRoundFromRatio(appraisal, minBid int64) (dto.RoundEstimate, bool) {
	if appraisal <= 0 || minBid <= 0 {
		return dto.RoundEstimate{}, false
	}
	pct := float64(minBid) / float64(appraisal) * 100

	best, bestDiff := 1, math.Inf(1)
	ratio := 100.0
	for round := 1; round <= maxLadderRound; round++ {
		if d := math.Abs(ratio - pct); d < bestDiff {
			best, bestDiff = round, d
		}
		ratio *= roundDiscount
	}
	return dto.RoundEstimate{
		Round:       best,
		PriorFailed: best - 1,
		Pct:         RoundFloat(pct, 1),
		DiscountPct: RoundFloat(100-pct, 1),
	}, true
}

func normalizeDate(s string) string {
	return strings.NewReplacer("-", ".", "/", ".").Replace(s)
}
