package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Aashish23092/auction-analyzer/dto"
)

const (
	caseContextWindow = 40
	saleDateCaseGap   = 150
	courtCaseGap      = 80
	appraisalWindow   = 200
	minBidWindow      = 260
	rawSnippetLen     = 1200
)

var (
	reSaleDateLabel = regexp.MustCompile(`매각기일`)
	reCourtLabel    = regexp.MustCompile(`지방법원|지원`)
	reCaseNo        = regexp.MustCompile(`\d{4}\s*타경\s*\d+`)
	reRelatedCase   = regexp.MustCompile(`관련사건\s*(\d{4}\s*타경\s*\d+)`)

	reAuctionDate = regexp.MustCompile(`매각기일\s*[:：]?\s*(\d{4}[.-]\d{2}[.-]\d{2})`)
	reBaseRight   = regexp.MustCompile(`말소기준권리\s*[:：]?\s*(\d{4}[.-]\d{2}[.-]\d{2})`)

	reBuildingArea = regexp.MustCompile(`건물면적\s*([0-9]+(?:\.[0-9]+)?)\s*㎡`)

	reAppraisalLabeled = regexp.MustCompile(`감\s*정\s*가\s*(` + moneyPattern + `)\s*원`)
	reAppraisalLabel   = regexp.MustCompile(`감\s*정\s*가|감정가`)

	// "원" is often garbled in the text layer, so none of these require it.
	reMinBidLabeled80 = regexp.MustCompile(`최\s*저\s*가\s*\(\s*80\s*%\s*\)\s*(` + moneyPattern + `)`)
	reMinBidSecond    = regexp.MustCompile(`2차\s*\d{4}[.-]\d{2}[.-]\d{2}\s*(` + moneyPattern + `)`)
	reMinBidAnnotated = regexp.MustCompile(`(` + moneyPattern + `)\s*[^0-9]{0,3}\(\s*80\s*%\s*\)`)
	reMinBidLabel     = regexp.MustCompile(`최\s*저\s*가|최저가|최\s*저\s*매\s*각\s*가\s*격`)
)

const relatedCaseLabel = "관련사건"

// keywordHint appends phrase to a summary when pattern is found.
type keywordHint struct {
	pattern *regexp.Regexp
	phrase  string
}

var occupancyHints = []keywordHint{
	{regexp.MustCompile(`임차인이\s*없`), "임차인 없음"},
	{regexp.MustCompile(`소유자가\s*점유`), "소유자 점유"},
	{regexp.MustCompile(`전입세대확인서`), "전입세대확인서 언급"},
}

var specialHints = []keywordHint{
	{regexp.MustCompile(`제시외\s*건물`), "제시외 건물 포함"},
	{regexp.MustCompile(`\(중복\)\s*-\s*정지|중복\)-정지`), "중복사건(정지) 표기"},
}

// ListingParser extracts an ExtractedListing from listing text. It holds only
// read-only tables, so one instance can serve concurrent requests.
type ListingParser struct {
	address *addressCleaner
}

// NewListingParser builds a parser. extraTokens are added to
// KnownRepeatingTokens for address cleanup.
func NewListingParser(extraTokens ...string) *ListingParser {
	tokens := append(append([]string{}, KnownRepeatingTokens...), extraTokens...)
	return &ListingParser{address: newAddressCleaner(tokens)}
}

var defaultListingParser = NewListingParser()

// ParseAuctionListing parses text with the default token table.
func ParseAuctionListing(text string) dto.ExtractedListing {
	return defaultListingParser.Parse(text)
}

// Parse extracts every field it can. Fields whose rules all miss stay nil;
// it never fails.
func (p *ListingParser) Parse(text string) dto.ExtractedListing {
	doc := newDocument(text)
	out := dto.ExtractedListing{
		RawTextSnippet: TruncateRunes(text, rawSnippetLen),
	}

	if v, ok := firstMatch[string](doc, caseNearSaleDate, caseNearCourt, caseOutsideRelated); ok {
		out.CaseNo = ptr(v)
	}
	if v, ok := firstMatch[string](doc, relatedCase); ok {
		out.RelatedCaseNo = ptr(v)
	}
	if v, ok := firstMatch[string](doc, labeledDate(reAuctionDate)); ok {
		out.AuctionDate = ptr(v)
	}
	if v, ok := firstMatch[string](doc, labeledDate(reBaseRight)); ok {
		out.BaseRightDate = ptr(v)
	}
	if v, ok := firstMatch[string](doc, p.address.extractAddress); ok {
		out.Address = ptr(v)
	}
	if v, ok := firstMatch[float64](doc, buildingArea); ok {
		out.AreaM2 = ptr(v)
	}
	if v, ok := firstMatch[int64](doc, appraisalLabeled, appraisalWindowMax); ok {
		out.AppraisalValue = ptr(v)
	}

	minBidRules := []rule[minBid]{
		minBidFrom(reMinBidLabeled80, dto.MinBidLabeled80),
		minBidFrom(reMinBidSecond, dto.MinBidSecondRound),
		minBidFrom(reMinBidAnnotated, dto.MinBidAnnotated80),
		minBidWindowMax(out.AppraisalValue),
	}
	if v, ok := firstMatch[minBid](doc, minBidRules...); ok {
		out.MinimumBid = ptr(v.value)
		out.MinimumBidSource = v.source
		out.MinimumBidLowConfidence = v.source == dto.MinBidLabelWindow
	}

	if v, ok := firstMatch[string](doc, hintSummary(occupancyHints)); ok {
		out.OccupancyHint = ptr(v)
	}
	if v, ok := firstMatch[string](doc, hintSummary(specialHints)); ok {
		out.SpecialHint = ptr(v)
	}

	if rows, ok := guarded(func() []dto.RightsRow { return ParseRightsRows(doc.flat) }); ok {
		out.Rights = rows
	}
	if summary, ok := SummarizeRights(out.Rights); ok {
		out.RightsSummary = ptr(summary)
		if base, found := BaseRight(out.Rights); found && out.BaseRightDate == nil {
			out.BaseRightDate = ptr(base.Date)
		}
	}

	if pct, ok := MinimumBidPct(doc.flat, out.AppraisalValue, out.MinimumBid); ok {
		out.MinimumBidPct = ptr(pct)
	}

	if rounds, ok := guarded(func() []dto.AuctionRound { return ParseRounds(doc.flat) }); ok {
		out.Rounds = rounds
	}
	if cur, ok := ResolveCurrentRound(out.Rounds, out.AuctionDate, out.MinimumBid); ok {
		out.CurrentRound = ptr(cur.Round)
		out.PriorFailedCount = ptr(cur.PriorFailed)
		if cur.Status != dto.RoundUnspecified {
			out.CurrentStatus = ptr(cur.Status)
		}
	}

	return out
}

// ---------------- case number ----------------

func compactCaseNo(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// caseNearSaleDate takes a case number on the same line as, and shortly after,
// a sale-date label.
func caseNearSaleDate(doc *document) (string, bool) {
	return caseAfterLabel(doc.raw, reSaleDateLabel, saleDateCaseGap, func(gap string) bool {
		return !strings.Contains(gap, "\n")
	})
}

// caseNearCourt takes the first case number after a court name with no other
// digits in between.
func caseNearCourt(doc *document) (string, bool) {
	return caseAfterLabel(doc.flat, reCourtLabel, courtCaseGap, func(gap string) bool {
		return !strings.ContainsAny(gap, "0123456789")
	})
}

// caseAfterLabel returns the first case number within maxGap runes after any
// label match whose gap passes ok. Related-case numbers are skipped and their
// text does not count towards the gap.
func caseAfterLabel(text string, label *regexp.Regexp, maxGap int, ok func(gap string) bool) (string, bool) {
	for _, lab := range label.FindAllStringIndex(text, -1) {
		rest := text[lab[1]:]
		var gap strings.Builder
		prev := 0
		for _, loc := range reCaseNo.FindAllStringIndex(rest, -1) {
			gap.WriteString(rest[prev:loc[0]])
			prev = loc[1]
			g := gap.String()
			if utf8.RuneCountInString(g) > maxGap || !ok(g) {
				break
			}
			if relatedCaseAt(text, lab[1]+loc[0]) {
				continue
			}
			return compactCaseNo(rest[loc[0]:loc[1]]), true
		}
	}
	return "", false
}

// relatedCaseAt reports whether the case number starting at byte offset start
// follows a "관련사건" label with no other case number in between.
func relatedCaseAt(text string, start int) bool {
	before := text[runesBefore(text, start, caseContextWindow):start]
	i := strings.LastIndex(before, relatedCaseLabel)
	if i < 0 {
		return false
	}
	return !reCaseNo.MatchString(before[i+len(relatedCaseLabel):])
}

// caseOutsideRelated takes the first case number that is not within the
// context window of a "관련사건" label.
func caseOutsideRelated(doc *document) (string, bool) {
	flat := doc.flat
	for _, loc := range reCaseNo.FindAllStringIndex(flat, -1) {
		from := runesBefore(flat, loc[0], caseContextWindow)
		to := runesAfter(flat, loc[1], caseContextWindow)
		if strings.Contains(flat[from:to], relatedCaseLabel) {
			continue
		}
		return compactCaseNo(flat[loc[0]:loc[1]]), true
	}
	return "", false
}

func relatedCase(doc *document) (string, bool) {
	if m := reRelatedCase.FindStringSubmatch(doc.flat); m != nil {
		return compactCaseNo(m[1]), true
	}
	return "", false
}

// ---------------- dates / area ----------------

func labeledDate(re *regexp.Regexp) rule[string] {
	return func(doc *document) (string, bool) {
		if m := re.FindStringSubmatch(doc.flat); m != nil {
			return normalizeDate(m[1]), true
		}
		return "", false
	}
}

func buildingArea(doc *document) (float64, bool) {
	m := reBuildingArea.FindStringSubmatch(doc.flat)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ---------------- appraisal ----------------

func appraisalLabeled(doc *document) (int64, bool) {
	if m := reAppraisalLabeled.FindStringSubmatch(doc.flat); m != nil {
		return ParseMoney(m[1])
	}
	return 0, false
}

// appraisalWindowMax takes the largest amount shortly after any appraisal label.
func appraisalWindowMax(doc *document) (int64, bool) {
	cands := moneyAfter(doc.flat, reAppraisalLabel, appraisalWindow)
	if len(cands) == 0 {
		return 0, false
	}
	return maxOf(cands), true
}

// ---------------- minimum bid ----------------

type minBid struct {
	value  int64
	source dto.MinBidSource
}

func minBidFrom(re *regexp.Regexp, source dto.MinBidSource) rule[minBid] {
	return func(doc *document) (minBid, bool) {
		m := re.FindStringSubmatch(doc.flat)
		if m == nil {
			return minBid{}, false
		}
		v, ok := ParseMoney(m[1])
		if !ok || v == 0 {
			return minBid{}, false
		}
		return minBid{value: v, source: source}, true
	}
}

// minBidWindowMax is the last resort: the largest amount near a minimum-price
// label that does not exceed the appraisal. It can pick up an unrelated
// figure, so callers flag it as low confidence.
func minBidWindowMax(appraisal *int64) rule[minBid] {
	return func(doc *document) (minBid, bool) {
		cands := moneyAfter(doc.flat, reMinBidLabel, minBidWindow)
		if len(cands) == 0 {
			return minBid{}, false
		}
		v := maxOf(cands)
		if appraisal != nil && *appraisal > 0 {
			var under []int64
			for _, c := range cands {
				if c <= *appraisal {
					under = append(under, c)
				}
			}
			if len(under) > 0 {
				v = maxOf(under)
			}
		}
		if v == 0 {
			return minBid{}, false
		}
		return minBid{value: v, source: dto.MinBidLabelWindow}, true
	}
}

// ---------------- hints ----------------

func hintSummary(vocab []keywordHint) rule[string] {
	return func(doc *document) (string, bool) {
		var hits []string
		for _, h := range vocab {
			if h.pattern.MatchString(doc.flat) {
				hits = append(hits, h.phrase)
			}
		}
		if len(hits) == 0 {
			return "", false
		}
		return strings.Join(hits, " / "), true
	}
}
