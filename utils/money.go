package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// moneyPattern matches a comma-grouped amount such as 273,600,000.
const moneyPattern = `[0-9]{1,3}(?:,[0-9]{3})+`

var reMoney = regexp.MustCompile(moneyPattern)

// ParseMoney converts "273,600,000" to 273600000.
func ParseMoney(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// moneyAfter collects every amount found within n runes after each match of label.
func moneyAfter(text string, label *regexp.Regexp, n int) []int64 {
	var out []int64
	for _, loc := range label.FindAllStringIndex(text, -1) {
		seg := runeSlice(text, loc[1], n)
		for _, m := range reMoney.FindAllString(seg, -1) {
			if v, ok := ParseMoney(m); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func maxOf(vals []int64) int64 {
	best := vals[0]
	for _, v := range vals[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

// RoundFloat rounds x to the given number of decimals, resolving halves on the
// exact binary value the way strconv formatting does.
func RoundFloat(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// FormatMoney renders 273600000 as "273,600,000".
func FormatMoney(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
