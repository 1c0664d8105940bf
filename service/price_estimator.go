package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/Aashish23092/auction-analyzer/dto"
)

const (
	narrowWindowM2   = 3.0
	wideWindowM2     = 5.0
	minNarrowSample  = 8
	minFilteredCount = 5
	outlierLowRatio  = 0.5
	outlierHighRatio = 1.7
)

const (
	noteMissingInput = "실거래 데이터 컬럼 인식 실패 또는 대상면적 없음"
	noteNoSimilar    = "유사면적 표본이 부족합니다(±5㎡ 내 거래 없음)"
)

// EstimateSalePriceRange turns comparables into a low/mid/high resale
// estimate using the 25th/50th/75th percentiles of sales with a similar area.
// It never fails; an unusable input yields nil prices and an explanatory note.
func EstimateSalePriceRange(comps []dto.ComparableSale, subjectArea *float64) dto.PriceEstimate {
	if subjectArea == nil {
		return dto.PriceEstimate{Note: noteMissingInput}
	}
	area := *subjectArea

	window := narrowWindowM2
	selected := pricesWithin(comps, area, window)
	if len(selected) < minNarrowSample {
		window = wideWindowM2
		selected = pricesWithin(comps, area, window)
	}
	if len(selected) == 0 {
		return dto.PriceEstimate{WindowM2: window, Note: noteNoSimilar}
	}

	sort.Float64s(selected)
	filtered := false
	med := median(selected)
	var kept []float64
	for _, p := range selected {
		if p >= med*outlierLowRatio && p <= med*outlierHighRatio {
			kept = append(kept, p)
		}
	}
	if len(kept) >= minFilteredCount {
		selected = kept
		filtered = true
	}

	low := int64(quantile(selected, 0.25))
	mid := int64(quantile(selected, 0.50))
	high := int64(quantile(selected, 0.75))

	filterNote := "이상치 필터 적용"
	if !filtered {
		filterNote = "이상치 필터 미적용"
	}
	return dto.PriceEstimate{
		Low:             &low,
		Mid:             &mid,
		High:            &high,
		SampleSize:      len(selected),
		WindowM2:        window,
		OutlierFiltered: filtered,
		Note:            fmt.Sprintf("유사면적 표본 %d건 기반(±%d㎡, 분위수 25/50/75, %s)", len(selected), int(window), filterNote),
	}
}

func pricesWithin(comps []dto.ComparableSale, area, window float64) []float64 {
	var out []float64
	for _, c := range comps {
		if c.AreaM2 >= area-window && c.AreaM2 <= area+window {
			out = append(out, float64(c.Price))
		}
	}
	return out
}

// median of a sorted, non-empty slice; even lengths average the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quantile of a sorted, non-empty slice with linear interpolation between
// closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * q
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	t := pos - float64(lo)
	a, b := sorted[lo], sorted[hi]
	diff := b - a
	// interpolate from the nearer end to keep the result inside [a, b]
	if t >= 0.5 {
		return b - diff*(1-t)
	}
	return a + diff*t
}
