package utils

import (
	"regexp"
	"strings"
)

const (
	reviewSnippetLen = 700
	elidedSuffix     = "\n…(생략)"
)

// sectionHeaders repeat back to back in the listing text layer.
var sectionHeaders = []string{"매각물건현황", "임차인현황", "등기부현황", "매각사례분석"}

// snippetLabels start a new line in the review snippet.
var snippetLabels = []string{"사건번호", "소 재 지", "새 주 소", "감 정 가", "최 저 가", "매각기일", "말소기준권리", "관련사건"}

var (
	reSectionHeaders = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(sectionHeaders))
		for i, h := range sectionHeaders {
			out[i] = regexp.MustCompile(`(?:` + regexp.QuoteMeta(h) + `){2,}`)
		}
		return out
	}()
	reNewlines = regexp.MustCompile(`\n+`)
)

// CleanSnippet renders raw listing text for a human reviewer: one line per
// labelled section, repetition artifacts removed, capped at 700 runes.
func CleanSnippet(raw string) string {
	t := Flatten(raw)
	if t == "" {
		return ""
	}
	for i, re := range reSectionHeaders {
		t = re.ReplaceAllLiteralString(t, sectionHeaders[i])
	}
	t = dedupeWords(Normalize(t))

	for _, label := range snippetLabels {
		t = strings.ReplaceAll(t, label, "\n"+label)
	}
	lines := strings.Split(reNewlines.ReplaceAllString(t, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	t = strings.TrimSpace(strings.Join(lines, "\n"))

	if len([]rune(t)) > reviewSnippetLen {
		t = TruncateRunes(t, reviewSnippetLen) + elidedSuffix
	}
	return t
}
