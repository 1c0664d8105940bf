package service

import (
	"fmt"
	"strings"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/utils"
)

// DecideVerdict turns the scenario into a one-line decision for the reviewer.
func DecideVerdict(listing dto.ExtractedListing, estimate dto.PriceEstimate, scenario dto.ScenarioResult) dto.Verdict {
	if listing.MinimumBid == nil || *listing.MinimumBid <= 0 {
		return dto.Verdict{
			Decision: dto.DecisionHold,
			Reasons:  []string{"최저가 미추출(0원) → 최저가 수동 입력 후 재분석 필요"},
		}
	}
	if !estimate.Available() {
		return dto.Verdict{
			Decision: dto.DecisionHold,
			Reasons:  []string{"유사면적 실거래 표본 부족 → 매도가능가 산출 불가"},
		}
	}

	minBid := *listing.MinimumBid
	v := dto.Verdict{}
	if z := scenario.ZeroLossMaxBid; z != nil && *z >= minBid {
		v.Decision = dto.DecisionProceedConditional
		v.Reasons = append(v.Reasons, "손실0 상한이 최저가 이상(손실 금지 조건 충족)")
	} else {
		v.Decision = dto.DecisionNotRecommended
		v.Reasons = append(v.Reasons, "손실0 상한이 최저가 미만(손실 금지 조건 불충족)")
	}
	if listing.MinimumBidLowConfidence {
		v.Reasons = append(v.Reasons, fmt.Sprintf("최저가 %s원은 위치 기반 추정값 → 원문 확인 필요", utils.FormatMoney(minBid)))
	}

	if listing.SpecialHint != nil {
		hint := *listing.SpecialHint
		if strings.Contains(hint, "제시외") {
			v.Reasons = append(v.Reasons, "제시외 건물 가능성 → 원상복구/민원 리스크 확인 필요")
		}
		if strings.Contains(hint, "중복") {
			v.Reasons = append(v.Reasons, "중복사건(정지) 표기 → 입찰 직전 사건 진행상태 재확인")
		}
	}
	return v
}
