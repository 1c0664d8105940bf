package utils

import (
	"strings"
	"unicode/utf8"
)

// maxRepeatToken is the longest token CollapseRepeats looks for.
const maxRepeatToken = 8

// Flatten turns raw page text into a single line: tabs, carriage returns
// and newlines become spaces, whitespace runs collapse to one space and the
// result is trimmed.
func Flatten(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// Normalize flattens the text and then removes immediate repetitions of short
// Hangul tokens ("서울특별시서울특별시" -> "서울특별시", "5층층층층" -> "5층").
// Applying it to its own output returns the same string.
func Normalize(text string) string {
	return CollapseRepeats(Flatten(text), maxRepeatToken, isHangulToken)
}

// CollapseRepeats replaces every token of 1..maxLen runes that repeats back to
// back two or more times with a single copy. Only tokens accepted by keep are
// considered. Longer tokens win over shorter ones at the same position, and the
// pass is repeated until nothing changes.
func CollapseRepeats(s string, maxLen int, keep func([]rune) bool) string {
	if s == "" || maxLen < 1 {
		return s
	}
	for {
		next := collapseOnce(s, maxLen, keep)
		if next == s {
			return next
		}
		s = next
	}
}

func collapseOnce(s string, maxLen int, keep func([]rune) bool) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		matched := false
		for l := maxLen; l >= 1; l-- {
			if i+2*l > len(runes) {
				continue
			}
			tok := runes[i : i+l]
			if !keep(tok) || !equalRunes(tok, runes[i+l:i+2*l]) {
				continue
			}
			j := i + 2*l
			for j+l <= len(runes) && equalRunes(tok, runes[j:j+l]) {
				j += l
			}
			b.WriteString(string(tok))
			i = j
			matched = true
			break
		}
		if !matched {
			b.WriteRune(runes[i])
			i++
		}
	}
	return b.String()
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isHangul(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

func isHangulToken(tok []rune) bool {
	for _, r := range tok {
		if !isHangul(r) {
			return false
		}
	}
	return true
}

// runeSlice returns at most n runes of s starting at byte offset start.
func runeSlice(s string, start, n int) string {
	if start < 0 {
		start = 0
	}
	if start >= len(s) || n <= 0 {
		return ""
	}
	end := start
	for count := 0; count < n && end < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[start:end]
}

// runesBefore returns the byte offset n runes before the byte offset end.
func runesBefore(s string, end, n int) int {
	start := end
	for count := 0; count < n && start > 0; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:start])
		start -= size
	}
	return start
}

// runesAfter returns the byte offset n runes after the byte offset start.
func runesAfter(s string, start, n int) int {
	return start + len(runeSlice(s, start, n))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return runeSlice(s, 0, n)
}
