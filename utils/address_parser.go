package utils

import (
	"regexp"
	"strings"
)

// KnownRepeatingTokens are administrative words the listing text layer tends
// to repeat, sometimes with spaces in between ("서울특별시 서울특별시").
// Extra tokens can be supplied to NewListingParser.
var KnownRepeatingTokens = []string{"서울특별시", "중랑구", "길", "비동", "층", "호"}

// addressLabels are tried in order; the old-style lot address comes first.
var addressLabels = []string{"소 재 지", "새 주 소"}

// addressStopLabels end the address slice when found more than
// minStopOffset runes into it.
var addressStopLabels = []string{"물건종별", "감 정 가", "감정가", "평당", "대 지 권", "대지권", "최저매각", "최 저 가"}

const (
	addressSliceLen    = 140
	minStopOffset      = 5
	maxNeighborhoodLen = 13 // 12-rune name plus the 동/읍/면/리 suffix
)

var lotAddressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:서울특별시|부산광역시|대구광역시|인천광역시|광주광역시|대전광역시|울산광역시|세종특별자치시|[가-힣]+도)\s+[가-힣]+(?:시|군|구)\s+[가-힣0-9]+(?:동|읍|면|리)\s*\d+(?:-\d+)?`),
	regexp.MustCompile(`[가-힣]+(?:시|군|구)\s+[가-힣0-9]+(?:동|읍|면|리)\s*\d+(?:-\d+)?`),
}

// addressCleaner collapses repeated-token artifacts in an address.
type addressCleaner struct {
	tokens []repeatedToken
}

type repeatedToken struct {
	token string
	re    *regexp.Regexp
}

func newAddressCleaner(tokens []string) *addressCleaner {
	c := &addressCleaner{}
	seen := make(map[string]bool)
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		q := regexp.QuoteMeta(t)
		c.tokens = append(c.tokens, repeatedToken{
			token: t,
			re:    regexp.MustCompile(`(?:` + q + `)(?:\s*` + q + `)+`),
		})
	}
	return c
}

// clean applies the known-token table, generic repetition collapse and
// adjacent duplicate word removal.
func (c *addressCleaner) clean(addr string) string {
	s := Flatten(addr)
	for _, t := range c.tokens {
		s = t.re.ReplaceAllLiteralString(s, t.token)
	}
	s = Normalize(s)
	return dedupeWords(s)
}

// dedupeWords drops a word equal to the one right before it.
func dedupeWords(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(out) > 0 && out[len(out)-1] == w {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// sliceAfterLabel returns the text following label, cut at the first stop
// label (in list order) that appears past the first few runes.
func sliceAfterLabel(flat, label string) string {
	i := strings.Index(flat, label)
	if i < 0 {
		return ""
	}
	seg := runeSlice(flat, i+len(label), addressSliceLen)
	for _, stop := range addressStopLabels {
		j := strings.Index(seg, stop)
		if j >= 0 && len([]rune(seg[:j])) > minStopOffset {
			seg = seg[:j]
			break
		}
	}
	return strings.TrimSpace(seg)
}

func isNeighborhoodToken(tok []rune) bool {
	if len(tok) < 2 || !isHangulToken(tok) {
		return false
	}
	switch tok[len(tok)-1] {
	case '동', '읍', '면', '리':
		return true
	}
	return false
}

func collapseNeighborhoods(s string) string {
	return CollapseRepeats(s, maxNeighborhoodLen, isNeighborhoodToken)
}

// LotAddress pulls the "province city district neighborhood lot" form out of
// a cleaned address. It returns false when neither pattern matches.
func LotAddress(addr string) (string, bool) {
	raw := strings.NewReplacer(",", " ", "，", " ").Replace(addr)
	raw = collapseNeighborhoods(Flatten(raw))
	for _, re := range lotAddressPatterns {
		if m := re.FindString(raw); m != "" {
			return collapseNeighborhoods(Flatten(m)), true
		}
	}
	return "", false
}

// extractAddress runs the three address stages: slice, clean, lot form.
func (c *addressCleaner) extractAddress(doc *document) (string, bool) {
	var slice string
	for _, label := range addressLabels {
		if slice = sliceAfterLabel(doc.flat, label); slice != "" {
			break
		}
	}
	if slice == "" {
		return "", false
	}
	addr := c.clean(slice)
	if lot, ok := LotAddress(addr); ok {
		addr = lot
	}
	if addr == "" {
		return "", false
	}
	return addr, true
}
